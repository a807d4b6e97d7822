package config

import (
	"os"
	"path/filepath"
	"testing"

	"bitbucket.org/Davydov/genelab/primer"
)

func TestDefaults(tst *testing.T) {
	c, err := New("")
	if err != nil {
		tst.Fatal("Error reading config:", err)
	}
	if c.Primer != primer.DefaultSettings() {
		tst.Error("Wrong primer settings:", c.Primer)
	}
	if c.Digest.Enzyme != "EcoRI" || c.UPGMA.Lenient || c.Format.Markup != "plain" {
		tst.Error("Wrong defaults:", c)
	}
	if c.UPGMA.Width != 6 || c.UPGMA.Height != 4 {
		tst.Error("Wrong dendrogram size:", c.UPGMA)
	}
}

func TestFile(tst *testing.T) {
	fn := filepath.Join(tst.TempDir(), "genelab.yaml")
	data := `primer:
  target-tm: 55
  max-length: 30
digest:
  enzyme: BamHI
upgma:
  lenient: true
`
	if err := os.WriteFile(fn, []byte(data), 0644); err != nil {
		tst.Fatal(err)
	}
	c, err := New(fn)
	if err != nil {
		tst.Fatal("Error reading config:", err)
	}
	if c.Primer.TargetTm != 55 || c.Primer.MaxLength != 30 || c.Primer.MinLength != 18 {
		tst.Error("Wrong primer settings:", c.Primer)
	}
	if c.Digest.Enzyme != "BamHI" || !c.UPGMA.Lenient {
		tst.Error("Wrong settings:", c)
	}
}

func TestEnv(tst *testing.T) {
	tst.Setenv("GENELAB_PRIMER_MIN_GC", "35")
	c, err := New("")
	if err != nil {
		tst.Fatal("Error reading config:", err)
	}
	if c.Primer.MinGC != 35 {
		tst.Error("Expected 35, got", c.Primer.MinGC)
	}
}

func TestErrors(tst *testing.T) {
	dir := tst.TempDir()
	for i, data := range []string{
		"digest:\n  enzyme: NoSuchI\n",
		"primer:\n  min-length: 30\n",
		"format:\n  markup: latex\n",
		"upgma: [",
	} {
		fn := filepath.Join(dir, "c"+string(rune('0'+i))+".yaml")
		if err := os.WriteFile(fn, []byte(data), 0644); err != nil {
			tst.Fatal(err)
		}
		if _, err := New(fn); err == nil {
			tst.Error("Expected error for", data)
		}
	}
	if _, err := New(filepath.Join(dir, "missing.yaml")); err == nil {
		tst.Error("Expected error for missing file")
	}
}
