// Package dist implements pairwise distance matrices between taxa.
package dist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/gonum/matrix/mat64"
)

// Taxon is an entity (species, sequence) of the distance matrix.
type Taxon struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Matrix is an immutable symmetric distance matrix. Rows and columns
// are identified by taxon ids and kept in the insertion order.
type Matrix struct {
	ids   []string
	index map[string]int
	data  *mat64.SymDense
}

// newMatrix creates a zero matrix, ids should be unique.
func newMatrix(ids []string) (*Matrix, error) {
	m := &Matrix{
		ids:   make([]string, len(ids)),
		index: make(map[string]int, len(ids)),
		data:  mat64.NewSymDense(len(ids), nil),
	}
	copy(m.ids, ids)
	for i, id := range ids {
		if _, ok := m.index[id]; ok {
			return nil, fmt.Errorf("duplicate taxon id %q", id)
		}
		m.index[id] = i
	}
	return m, nil
}

func checkValue(a, b string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("distance between %q and %q is not a number", a, b)
	}
	if v < 0 {
		return fmt.Errorf("distance between %q and %q is negative: %v", a, b, v)
	}
	return nil
}

// Len returns the number of taxa.
func (m *Matrix) Len() int {
	return len(m.ids)
}

// IDs returns taxa ids in the matrix order.
func (m *Matrix) IDs() []string {
	ids := make([]string, len(m.ids))
	copy(ids, m.ids)
	return ids
}

// Has returns true if the matrix contains the taxon.
func (m *Matrix) Has(id string) bool {
	_, ok := m.index[id]
	return ok
}

// At returns the distance between two taxa.
func (m *Matrix) At(a, b string) (float64, bool) {
	i, ok := m.index[a]
	if !ok {
		return 0, false
	}
	j, ok := m.index[b]
	if !ok {
		return 0, false
	}
	return m.data.At(i, j), true
}

// AtIndex returns the distance between taxa by their positions.
func (m *Matrix) AtIndex(i, j int) float64 {
	return m.data.At(i, j)
}

// Subset returns a new matrix restricted to ids, in the given order.
func (m *Matrix) Subset(ids []string) (*Matrix, error) {
	set := make([]int, len(ids))
	for i, id := range ids {
		j, ok := m.index[id]
		if !ok {
			return nil, fmt.Errorf("unknown taxon %q", id)
		}
		set[i] = j
	}
	sub, err := newMatrix(ids)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		sub.data.SubsetSym(m.data, set)
	}
	return sub, nil
}

// Extend returns a new matrix with an extra taxon. The row holds the
// distances from the new taxon to the existing ones in matrix order.
func (m *Matrix) Extend(id string, row []float64) (*Matrix, error) {
	if len(row) != len(m.ids) {
		return nil, fmt.Errorf("row length %d doesn't match matrix size %d", len(row), len(m.ids))
	}
	ext, err := newMatrix(append(m.IDs(), id))
	if err != nil {
		return nil, err
	}
	n := len(m.ids)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			ext.data.SetSym(i, j, m.data.At(i, j))
		}
		if err := checkValue(m.ids[i], id, row[i]); err != nil {
			return nil, err
		}
		ext.data.SetSym(i, n, row[i])
	}
	return ext, nil
}

// Map returns a copy of the matrix as a nested map, diagonal
// included.
func (m *Matrix) Map() map[string]map[string]float64 {
	res := make(map[string]map[string]float64, len(m.ids))
	for i, a := range m.ids {
		res[a] = make(map[string]float64, len(m.ids))
		for j, b := range m.ids {
			res[a][b] = m.data.At(i, j)
		}
	}
	return res
}

// MarshalJSON encodes the matrix as a nested object.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Map())
}

// String returns the matrix as a tab-separated table.
func (m *Matrix) String() string {
	var buffer bytes.Buffer
	for _, id := range m.ids {
		buffer.WriteByte('\t')
		buffer.WriteString(id)
	}
	for i, id := range m.ids {
		buffer.WriteByte('\n')
		buffer.WriteString(id)
		for j := range m.ids {
			buffer.WriteByte('\t')
			buffer.WriteString(strconv.FormatFloat(m.data.At(i, j), 'g', 6, 64))
		}
	}
	return buffer.String()
}

// Options control how user-supplied matrices are read.
type Options struct {
	// Lenient treats missing distances as zero and resolves
	// asymmetric pairs with the row of the taxon listed first.
	// Otherwise such matrices are rejected.
	Lenient bool
}

// MissingError is returned for a pair without a distance.
type MissingError struct {
	A, B string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing distance between %q and %q", e.A, e.B)
}

// AsymmetryError is returned when d(A,B) differs from d(B,A).
type AsymmetryError struct {
	A, B   string
	AB, BA float64
}

func (e *AsymmetryError) Error() string {
	return fmt.Sprintf("asymmetric distance between %q and %q: %v and %v", e.A, e.B, e.AB, e.BA)
}

// ErrDiagonal is returned if a taxon has non-zero distance to itself.
var ErrDiagonal = errors.New("non-zero distance on the diagonal")

// FromMap creates a matrix for the taxa ids from a nested map.
// A pair may be specified in either direction or both.
func FromMap(ids []string, d map[string]map[string]float64, opt Options) (*Matrix, error) {
	m, err := newMatrix(ids)
	if err != nil {
		return nil, err
	}
	for i, a := range ids {
		if v, ok := d[a][a]; ok && v != 0 && !opt.Lenient {
			return nil, fmt.Errorf("%w: %q", ErrDiagonal, a)
		}
		for j := i + 1; j < len(ids); j++ {
			b := ids[j]
			ab, okAB := d[a][b]
			ba, okBA := d[b][a]
			var v float64
			switch {
			case okAB && okBA && ab != ba && !opt.Lenient:
				return nil, &AsymmetryError{A: a, B: b, AB: ab, BA: ba}
			case okAB:
				v = ab
			case okBA:
				v = ba
			case !opt.Lenient:
				return nil, &MissingError{A: a, B: b}
			}
			if err := checkValue(a, b, v); err != nil {
				return nil, err
			}
			m.data.SetSym(i, j, v)
		}
	}
	return m, nil
}
