package bio

import (
	"bytes"
	"errors"
	"testing"
)

func TestClean(tst *testing.T) {
	if s := Clean(" at g\tc\nAa "); s != "ATGCAA" {
		tst.Error("Expected ATGCAA, got", s)
	}
}

func TestIsValidDNA(tst *testing.T) {
	cases := map[string]bool{
		"ATGC":     true,
		"at gc":    true,
		"":         false,
		"   ":      false,
		"ATGN":     false,
		"AUGC":     false,
		"ACGT\nTT": true,
	}
	for seq, valid := range cases {
		if IsValidDNA(seq) != valid {
			tst.Errorf("IsValidDNA(%q) should be %v", seq, valid)
		}
	}
}

func TestValidate(tst *testing.T) {
	s, err := Validate("at gc")
	if err != nil || s != "ATGC" {
		tst.Error("Expected ATGC, got", s, err)
	}
	_, err = Validate(" ")
	if err != ErrEmptySequence {
		tst.Error("Expected empty sequence error, got", err)
	}
	_, err = Validate("ATXG")
	var ib *InvalidBaseError
	if !errors.As(err, &ib) {
		tst.Fatal("Expected InvalidBaseError, got", err)
	}
	if ib.Base != 'X' || ib.Position != 3 {
		tst.Error("Wrong error details:", ib)
	}
}

func TestTranslate(tst *testing.T) {
	if p := Translate("ATGAAATAAATGCCC"); p != "MK*MP" {
		tst.Error("Expected MK*MP, got", p)
	}
	// incomplete codon is dropped
	if p := Translate("ATGAA"); p != "M" {
		tst.Error("Expected M, got", p)
	}
	for _, stop := range []string{"TAA", "TAG", "TGA"} {
		if p := Translate(stop); p != "*" {
			tst.Error("Expected stop for", stop, "got", p)
		}
	}
	if p := Translate("ANNATG"); p != "?M" {
		tst.Error("Expected ?M, got", p)
	}
}

func TestTranslateLength(tst *testing.T) {
	seqs := []string{"", "ATG", "ATGCCCGGGTTTAAA", "TTTTTTTTTTTTTTTTTT"}
	for _, s := range seqs {
		if len(Translate(s)) != len(s)/3 {
			tst.Error("Wrong protein length for", s)
		}
	}
}

func TestGeneticCode(tst *testing.T) {
	if len(GeneticCode) != 64 {
		tst.Error("Genetic code should have 64 codons, got", len(GeneticCode))
	}
	nstop := 0
	for codon := range GeneticCode {
		if IsStopCodon(codon) {
			nstop++
		}
	}
	if nstop != 3 {
		tst.Error("Expected 3 stop codons, got", nstop)
	}
}

func TestORF(tst *testing.T) {
	seq := "ATGAAATAAATGCCC"
	if i := FindStart(seq); i != 0 {
		tst.Error("Expected start at 0, got", i)
	}
	if i := FindStop(seq, 0); i != 6 {
		tst.Error("Expected stop at 6, got", i)
	}
	if l := ProteinLength(seq); l != 2 {
		tst.Error("Expected protein length 2, got", l)
	}
}

func TestProteinLength(tst *testing.T) {
	cases := map[string]int{
		"":                   0,
		"CCCGGGTTT":          0,
		"ATG":                1,
		"CCATGCCCGGG":        3,
		"ccatg ccc tga":      2,
		"TTATGTAA":           1,
		"GATGGGGTAGCCCTAAAA": 2,
	}
	for seq, want := range cases {
		if l := ProteinLength(seq); l != want {
			tst.Errorf("ProteinLength(%q)=%d, expected %d", seq, l, want)
		}
	}
}

func TestFindStopOutOfFrame(tst *testing.T) {
	// TAA at 4 is out of frame, TGA at 6 is in frame
	if i := FindStop("ATGATAATGA", 0); i != -1 {
		tst.Error("Expected no in-frame stop, got", i)
	}
	if i := FindStop("ATGCTGACCTAG", 0); i != 9 {
		tst.Error("Expected stop at 9, got", i)
	}
	if i := FindStop("ATG", -1); i != -1 {
		tst.Error("Expected -1 for negative start, got", i)
	}
}

func TestParseFasta(tst *testing.T) {
	data := ">s1\nATGC\natgc\n\n> s2 \nAT G\n"
	seqs, err := ParseFasta(bytes.NewBufferString(data))
	if err != nil {
		tst.Fatal("Error parsing fasta:", err)
	}
	if len(seqs) != 2 {
		tst.Fatal("Expected 2 sequences, got", len(seqs))
	}
	if seqs[0].Name != "s1" || seqs[0].Sequence != "ATGCATGC" {
		tst.Error("Wrong first sequence:", seqs[0])
	}
	if seqs[1].Name != "s2" || seqs[1].Sequence != "ATG" {
		tst.Error("Wrong second sequence:", seqs[1])
	}
	if seqs.String() != ">s1\nATGCATGC\n>s2\nATG" {
		tst.Error("Wrong fasta output:", seqs.String())
	}

	if _, err := ParseFasta(bytes.NewBufferString("ATGC\n")); err == nil {
		tst.Error("Expected error for sequence without header")
	}
}
