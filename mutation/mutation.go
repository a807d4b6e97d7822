// Package mutation simulates single base substitutions and measures
// their effect on the encoded protein.
package mutation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/op/go-logging"

	"bitbucket.org/Davydov/genelab/bio"
)

var log = logging.MustGetLogger("mutation")

// Effects reported by Analyze.
const (
	NoEffect      = "no effect"
	LengthChanged = "changed protein length"
	Invalid       = "invalid mutation"
)

// ErrInvalidMutation is wrapped by all the errors returned from Apply.
var ErrInvalidMutation = errors.New("invalid mutation")

// Mutation is a single base substitution.
type Mutation struct {
	// Position is 1-based.
	Position    int    `json:"position"`
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
}

func (m Mutation) String() string {
	return fmt.Sprintf("%s%d%s", m.Original, m.Position, m.Replacement)
}

// Inverse returns the mutation reverting m.
func (m Mutation) Inverse() Mutation {
	return Mutation{
		Position:    m.Position,
		Original:    m.Replacement,
		Replacement: m.Original,
	}
}

// PositionError is returned when the position is outside of the
// sequence.
type PositionError struct {
	Position int
	Length   int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("position %d is outside of the sequence (1-%d)", e.Position, e.Length)
}

// MismatchError is returned when the base found at the position is
// not the expected original base.
type MismatchError struct {
	Position int
	Expected string
	Found    string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("expected %s at position %d, found %s", e.Expected, e.Position, e.Found)
}

// ReplacementError is returned when the new base is not A, T, C or G.
type ReplacementError struct {
	Replacement string
}

func (e *ReplacementError) Error() string {
	return fmt.Sprintf("replacement %q is not a single A, T, C or G base", e.Replacement)
}

func isBase(s string) bool {
	switch strings.ToUpper(s) {
	case "A", "T", "C", "G":
		return true
	}
	return false
}

// Validate checks that the mutation can be applied to the sequence.
func Validate(seq string, m Mutation) error {
	s := bio.Clean(seq)
	if m.Position < 1 || m.Position > len(s) {
		return &PositionError{Position: m.Position, Length: len(s)}
	}
	found := s[m.Position-1 : m.Position]
	if !strings.EqualFold(found, m.Original) {
		return &MismatchError{
			Position: m.Position,
			Expected: strings.ToUpper(m.Original),
			Found:    found,
		}
	}
	if !isBase(m.Replacement) {
		return &ReplacementError{Replacement: m.Replacement}
	}
	return nil
}

// IsValid returns true if Validate doesn't fail.
func IsValid(seq string, m Mutation) bool {
	return Validate(seq, m) == nil
}

// Apply returns the cleaned sequence with the mutation applied.
func Apply(seq string, m Mutation) (string, error) {
	if err := Validate(seq, m); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidMutation, err)
	}
	return Substitute(bio.Clean(seq), m.Position-1, strings.ToUpper(m.Replacement)[0])
}

// Result is the outcome of a mutation analysis.
type Result struct {
	IsValid               bool   `json:"isValid"`
	MutatedSequence       string `json:"mutatedSequence,omitempty"`
	OriginalProteinLength int    `json:"originalProteinLength"`
	MutatedProteinLength  int    `json:"mutatedProteinLength"`
	Effect                string `json:"effect"`
	Error                 string `json:"error,omitempty"`
}

// Analyze applies the mutation and compares the protein length before
// and after it. Analyze never fails, invalid mutations are reported
// in the result.
func Analyze(seq string, m Mutation) Result {
	mutated, err := Apply(seq, m)
	if err != nil {
		log.Debugf("mutation %v rejected: %v", m, err)
		return Result{Effect: Invalid, Error: err.Error()}
	}
	return compare(seq, mutated)
}

func compare(seq, mutated string) Result {
	r := Result{
		IsValid:               true,
		MutatedSequence:       mutated,
		OriginalProteinLength: bio.ProteinLength(seq),
		MutatedProteinLength:  bio.ProteinLength(mutated),
	}
	if r.OriginalProteinLength == r.MutatedProteinLength {
		r.Effect = NoEffect
	} else {
		r.Effect = LengthChanged
	}
	return r
}
