package dist

import (
	"fmt"

	"bitbucket.org/Davydov/genelab/bio"
)

// LengthMismatchError is returned when aligned sequences have
// different lengths.
type LengthMismatchError struct {
	A, B       string
	LenA, LenB int
}

func (e *LengthMismatchError) Error() string {
	if e.A == "" && e.B == "" {
		return fmt.Sprintf("sequences must have the same length: %d and %d", e.LenA, e.LenB)
	}
	return fmt.Sprintf("sequences must have the same length: %q has %d bases, %q has %d",
		e.A, e.LenA, e.B, e.LenB)
}

// Hamming returns the number of positions at which the cleaned
// sequences differ. Sequences must be of the same length.
func Hamming(a, b string) (int, error) {
	ca, cb := bio.Clean(a), bio.Clean(b)
	if len(ca) != len(cb) {
		return 0, &LengthMismatchError{LenA: len(ca), LenB: len(cb)}
	}
	d := 0
	for i := 0; i < len(ca); i++ {
		if ca[i] != cb[i] {
			d++
		}
	}
	return d, nil
}

// FromSequences computes the Hamming distance matrix of an alignment.
// Sequence names are used as taxa ids; all the sequences must be
// valid DNA of the same length.
func FromSequences(seqs bio.Sequences) (*Matrix, error) {
	ids := make([]string, len(seqs))
	clean := make([]string, len(seqs))
	for i, s := range seqs {
		c, err := bio.Validate(s.Sequence)
		if err != nil {
			return nil, fmt.Errorf("sequence %q: %w", s.Name, err)
		}
		ids[i] = s.Name
		clean[i] = c
	}
	m, err := newMatrix(ids)
	if err != nil {
		return nil, err
	}
	for i := range clean {
		for j := i + 1; j < len(clean); j++ {
			d, err := Hamming(clean[i], clean[j])
			if err != nil {
				return nil, &LengthMismatchError{
					A: ids[i], B: ids[j],
					LenA: len(clean[i]), LenB: len(clean[j]),
				}
			}
			m.data.SetSym(i, j, float64(d))
		}
	}
	return m, nil
}
