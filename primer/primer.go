// Package primer designs PCR primers for a template sequence and
// computes their GC content and melting temperature.
package primer

import (
	"errors"
	"fmt"
	"math"

	"github.com/op/go-logging"

	"bitbucket.org/Davydov/genelab/bio"
)

var log = logging.MustGetLogger("primer")

const (
	// SimpleLength is the primer length used by DesignSimple.
	SimpleLength = 20
	// WallaceMaxLength is the first length for which the salt
	// adjusted formula is used instead of the Wallace rule.
	WallaceMaxLength = 14
)

var (
	// ErrTooShort is wrapped by LengthError.
	ErrTooShort = errors.New("sequence is too short")
	// ErrNoCandidate is returned when no primer length fits into the
	// template.
	ErrNoCandidate = errors.New("no primer length fits into the template")
)

// LengthError is returned when the template is shorter than required.
type LengthError struct {
	Length int
	Min    int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("sequence is too short: %d bases, at least %d required", e.Length, e.Min)
}

// Unwrap returns ErrTooShort.
func (e *LengthError) Unwrap() error {
	return ErrTooShort
}

// Position is a 0-based half-open interval on the template.
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Primer stores a primer sequence and its properties.
type Primer struct {
	Sequence    string   `json:"sequence"`
	Length      int      `json:"length"`
	GCContent   float64  `json:"gcContent"`
	MeltingTemp float64  `json:"meltingTemp"`
	Position    Position `json:"position"`
}

// NewPrimer creates a primer with the given sequence located at
// start-end of the template and computes its properties.
func NewPrimer(seq string, start, end int) Primer {
	return Primer{
		Sequence:    seq,
		Length:      len(seq),
		GCContent:   GCContent(seq),
		MeltingTemp: MeltingTemp(seq),
		Position:    Position{Start: start, End: end},
	}
}

func (p Primer) String() string {
	return fmt.Sprintf("5'%s3' (%d nt, GC=%.1f%%, Tm=%.1f°C, %d-%d)",
		p.Sequence, p.Length, p.GCContent, p.MeltingTemp, p.Position.Start, p.Position.End)
}

func count(seq string) (at, gc int) {
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'A', 'T':
			at++
		case 'G', 'C':
			gc++
		}
	}
	return
}

// GCContent returns percentage of G and C in the sequence. Empty
// sequence has zero GC content.
func GCContent(seq string) float64 {
	if len(seq) == 0 {
		return 0
	}
	_, gc := count(seq)
	return float64(gc) * 100 / float64(len(seq))
}

// MeltingTemp estimates primer melting temperature. For primers
// shorter than 14 bases the Wallace rule 2*(A+T) + 4*(G+C) is used,
// otherwise 64.9 + 41*(GC% - 16.4)/length. The two estimates are
// discontinuous at 14 bases.
func MeltingTemp(seq string) float64 {
	if len(seq) < WallaceMaxLength {
		at, gc := count(seq)
		return float64(2*at + 4*gc)
	}
	return 64.9 + 41*(GCContent(seq)-16.4)/float64(len(seq))
}

var complement = map[byte]byte{'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C'}

// ReverseComplement returns the reverse complement of the sequence.
// Only A, T, C and G are accepted.
func ReverseComplement(seq string) (string, error) {
	n := len(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c, ok := complement[seq[n-1-i]]
		if !ok {
			return "", &bio.InvalidBaseError{Base: rune(seq[n-1-i]), Position: n - i}
		}
		out[i] = c
	}
	return string(out), nil
}

// FindOptimalLength returns the primer length between 18 and 25 bases
// starting at start whose melting temperature is the closest to
// targetTm.
func FindOptimalLength(seq string, start int, targetTm float64) (int, error) {
	s := DefaultSettings()
	s.TargetTm = targetTm
	return s.OptimalLength(seq, start)
}

// OptimalLength scans the primer lengths in ascending order and
// returns the one with melting temperature closest to the target.
// Ties are resolved in favour of the shorter primer. Lengths which
// don't fit into the sequence are not considered.
func (s Settings) OptimalLength(seq string, start int) (int, error) {
	if start < 0 {
		return 0, fmt.Errorf("negative primer start: %d", start)
	}
	best := 0
	bestDiff := math.Inf(1)
	for l := s.MinLength; l <= s.MaxLength; l++ {
		if start+l > len(seq) {
			break
		}
		diff := math.Abs(MeltingTemp(seq[start:start+l]) - s.TargetTm)
		if diff < bestDiff {
			best = l
			bestDiff = diff
		}
	}
	if best == 0 {
		return 0, ErrNoCandidate
	}
	log.Debugf("optimal primer length at %d: %d (|dTm|=%.2f)", start, best, bestDiff)
	return best, nil
}

// Pair is a pair of primers formatted 5' to 3'.
type Pair struct {
	Forward string `json:"forward"`
	Reverse string `json:"reverse"`
}

// DesignSimple takes the first 20 bases as the forward primer and the
// reverse complement of the last 20 bases as the reverse primer.
func DesignSimple(seq string) (Pair, error) {
	s, err := bio.Validate(seq)
	if err != nil {
		return Pair{}, err
	}
	if len(s) < SimpleLength {
		return Pair{}, &LengthError{Length: len(s), Min: SimpleLength}
	}
	rev, err := ReverseComplement(s[len(s)-SimpleLength:])
	if err != nil {
		return Pair{}, err
	}
	return Pair{
		Forward: "5'" + s[:SimpleLength] + "3'",
		Reverse: "5'" + rev + "3'",
	}, nil
}
