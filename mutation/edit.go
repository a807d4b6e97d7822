package mutation

import (
	"fmt"
	"strings"

	"bitbucket.org/Davydov/genelab/bio"
)

// Kind is a type of a sequence edit.
type Kind int

const (
	// Point replaces a single base.
	Point Kind = iota
	// Insertion inserts a single base before the position.
	Insertion
	// Deletion removes a single base.
	Deletion
)

func (k Kind) String() string {
	switch k {
	case Point:
		return "point"
	case Insertion:
		return "insertion"
	case Deletion:
		return "deletion"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Edit is a low-level sequence modification. Unlike Mutation, the
// position is 0-based and the original base is not checked.
type Edit struct {
	Kind     Kind
	Position int
	Base     byte
}

// Substitute replaces the base at 0-based position pos.
func Substitute(seq string, pos int, base byte) (string, error) {
	if pos < 0 || pos >= len(seq) {
		return "", &PositionError{Position: pos + 1, Length: len(seq)}
	}
	b := []byte(seq)
	b[pos] = base
	return string(b), nil
}

// Insert inserts base before 0-based position pos. Position equal to
// the sequence length appends the base.
func Insert(seq string, pos int, base byte) (string, error) {
	if pos < 0 || pos > len(seq) {
		return "", &PositionError{Position: pos + 1, Length: len(seq)}
	}
	return seq[:pos] + string(base) + seq[pos:], nil
}

// Delete removes the base at 0-based position pos.
func Delete(seq string, pos int) (string, error) {
	if pos < 0 || pos >= len(seq) {
		return "", &PositionError{Position: pos + 1, Length: len(seq)}
	}
	return seq[:pos] + seq[pos+1:], nil
}

// Do applies the edit to the cleaned sequence.
func (e Edit) Do(seq string) (string, error) {
	s := bio.Clean(seq)
	switch e.Kind {
	case Point:
		return Substitute(s, e.Position, e.Base)
	case Insertion:
		return Insert(s, e.Position, e.Base)
	case Deletion:
		return Delete(s, e.Position)
	}
	return "", fmt.Errorf("unknown edit kind: %v", e.Kind)
}

// EditEffect returns the protein length encoded by the sequence after
// the edit.
func EditEffect(seq string, e Edit) (int, error) {
	s, err := e.Do(seq)
	if err != nil {
		return 0, err
	}
	return bio.ProteinLength(s), nil
}

// AnalyzeEdit is Analyze for insertions, deletions and unchecked
// substitutions.
func AnalyzeEdit(seq string, e Edit) Result {
	if e.Kind != Deletion && !isBase(string(e.Base)) {
		err := &ReplacementError{Replacement: string(e.Base)}
		return Result{Effect: Invalid, Error: err.Error()}
	}
	if e.Kind != Deletion {
		e.Base = strings.ToUpper(string(e.Base))[0]
	}
	mutated, err := e.Do(seq)
	if err != nil {
		log.Debugf("%v edit at %d rejected: %v", e.Kind, e.Position, err)
		return Result{Effect: Invalid, Error: err.Error()}
	}
	return compare(seq, mutated)
}
