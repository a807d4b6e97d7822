package primer

import (
	"errors"
	"math"
	"strings"
	"testing"

	"bitbucket.org/Davydov/genelab/bio"
)

const smallDiff = 1e-6

/*** Tests if a and b are approximately equal ***/
func appreq(a, b float64) bool {
	return math.Abs(a-b) <= smallDiff
}

func TestGCContent(tst *testing.T) {
	cases := map[string]float64{
		"":     0,
		"GC":   100,
		"ATGC": 50,
		"AAAG": 25,
	}
	for seq, want := range cases {
		if gc := GCContent(seq); !appreq(gc, want) {
			tst.Errorf("GCContent(%q)=%v, expected %v", seq, gc, want)
		}
	}
}

func TestMeltingTempWallace(tst *testing.T) {
	// A=3, T=3, G=2, C=2
	if tm := MeltingTemp("AAATTTGGCC"); !appreq(tm, 28) {
		tst.Error("Expected 28, got", tm)
	}
	if tm := MeltingTemp(strings.Repeat("G", 13)); !appreq(tm, 52) {
		tst.Error("Expected 52, got", tm)
	}
}

func TestMeltingTempSalt(tst *testing.T) {
	// GC=50%, length 20
	if tm := MeltingTemp("ATATATATATGCGCGCGCGC"); !appreq(tm, 64.9+41*(50-16.4)/20) || !appreq(tm, 133.78) {
		tst.Error("Expected 133.78, got", tm)
	}
	// the formula changes at 14 bases
	if tm := MeltingTemp(strings.Repeat("G", 14)); !appreq(tm, 64.9+41*(100-16.4)/14) {
		tst.Error("Expected 309.728571, got", tm)
	}
}

func TestReverseComplement(tst *testing.T) {
	rc, err := ReverseComplement("AGTC")
	if err != nil || rc != "GACT" {
		tst.Error("Expected GACT, got", rc, err)
	}
	rc, err = ReverseComplement("")
	if err != nil || rc != "" {
		tst.Error("Expected empty sequence, got", rc, err)
	}
	_, err = ReverseComplement("ATN")
	var ib *bio.InvalidBaseError
	if !errors.As(err, &ib) {
		tst.Fatal("Expected InvalidBaseError, got", err)
	}
	if ib.Base != 'N' || ib.Position != 3 {
		tst.Error("Wrong error details:", ib)
	}
}

func TestFindOptimalLength(tst *testing.T) {
	seq := strings.Repeat("A", 30)
	// Tm grows with length for poly-A
	if l, err := FindOptimalLength(seq, 0, 60); err != nil || l != 25 {
		tst.Error("Expected 25, got", l, err)
	}
	if l, err := FindOptimalLength(seq, 0, 0); err != nil || l != 18 {
		tst.Error("Expected 18, got", l, err)
	}
	// only lengths up to 20 fit
	if l, err := FindOptimalLength(seq, 10, 60); err != nil || l != 20 {
		tst.Error("Expected 20, got", l, err)
	}
	if _, err := FindOptimalLength(seq, 13, 60); err != ErrNoCandidate {
		tst.Error("Expected ErrNoCandidate, got", err)
	}
	if _, err := FindOptimalLength(seq, -1, 60); err == nil {
		tst.Error("Expected error for negative start")
	}
}

func TestOptimalLengthTie(tst *testing.T) {
	seq := strings.Repeat("A", 20)
	// Wallace Tm is 20 at length 10 and 22 at length 11
	s := Settings{MinLength: 10, MaxLength: 11, TargetTm: 21}
	if l, err := s.OptimalLength(seq, 0); err != nil || l != 10 {
		tst.Error("Expected 10, got", l, err)
	}
	s.MinLength, s.MaxLength = 11, 12
	s.TargetTm = 23
	if l, err := s.OptimalLength(seq, 0); err != nil || l != 11 {
		tst.Error("Expected 11, got", l, err)
	}
}

func TestDesignSimple(tst *testing.T) {
	p, err := DesignSimple("ATGCATGCAT GCATGCATGC AAAAACCCCC")
	if err != nil {
		tst.Fatal("Error designing primers:", err)
	}
	if p.Forward != "5'ATGCATGCATGCATGCATGC3'" {
		tst.Error("Wrong forward primer:", p.Forward)
	}
	if p.Reverse != "5'GGGGGTTTTTGCATGCATGC3'" {
		tst.Error("Wrong reverse primer:", p.Reverse)
	}

	_, err = DesignSimple(strings.Repeat("A", 19))
	if !errors.Is(err, ErrTooShort) {
		tst.Error("Expected ErrTooShort, got", err)
	}
	_, err = DesignSimple(strings.Repeat("N", 30))
	if err == nil {
		tst.Error("Expected error for invalid sequence")
	}
}

func TestNewPrimer(tst *testing.T) {
	p := NewPrimer("AAATTTGGCC", 3, 13)
	if p.Length != 10 || !appreq(p.GCContent, 40) || !appreq(p.MeltingTemp, 28) {
		tst.Error("Wrong primer properties:", p)
	}
	if p.Position.Start != 3 || p.Position.End != 13 {
		tst.Error("Wrong primer position:", p.Position)
	}
}
