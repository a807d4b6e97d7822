package dist

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"bitbucket.org/Davydov/genelab/bio"
)

var abc = map[string]map[string]float64{
	"A": {"B": 2, "C": 4},
	"B": {"A": 2, "C": 4},
	"C": {"A": 4, "B": 4},
}

func TestHamming(tst *testing.T) {
	d, err := Hamming("ACGT", "a cgA")
	if err != nil || d != 1 {
		tst.Error("Expected 1, got", d, err)
	}
	_, err = Hamming("ACGT", "ACG")
	var le *LengthMismatchError
	if !errors.As(err, &le) {
		tst.Error("Expected LengthMismatchError, got", err)
	}
}

func TestFromSequences(tst *testing.T) {
	seqs := bio.Sequences{
		{Name: "s1", Sequence: "ACAAACAGTT"},
		{Name: "s2", Sequence: "ACAAACAGTA"},
		{Name: "s3", Sequence: "TCAAACAGAA"},
	}
	m, err := FromSequences(seqs)
	if err != nil {
		tst.Fatal("Error computing distances:", err)
	}
	want := map[string]map[string]float64{
		"s1": {"s1": 0, "s2": 1, "s3": 3},
		"s2": {"s1": 1, "s2": 0, "s3": 2},
		"s3": {"s1": 3, "s2": 2, "s3": 0},
	}
	if !reflect.DeepEqual(m.Map(), want) {
		tst.Error("Wrong matrix:", m)
	}

	seqs[2].Sequence = "TCAAACAGA"
	_, err = FromSequences(seqs)
	var le *LengthMismatchError
	if !errors.As(err, &le) {
		tst.Fatal("Expected LengthMismatchError, got", err)
	}
	if le.A != "s1" || le.B != "s3" {
		tst.Error("Wrong pair reported:", le)
	}

	seqs[2].Sequence = "TCAAACAGNN"
	if _, err = FromSequences(seqs); err == nil {
		tst.Error("Expected error for invalid sequence")
	}
}

func TestFromMap(tst *testing.T) {
	m, err := FromMap([]string{"A", "B", "C"}, abc, Options{})
	if err != nil {
		tst.Fatal("Error creating matrix:", err)
	}
	if d, ok := m.At("C", "B"); !ok || d != 4 {
		tst.Error("Expected 4, got", d)
	}
	if d, ok := m.At("A", "A"); !ok || d != 0 {
		tst.Error("Expected zero diagonal, got", d)
	}
	if _, ok := m.At("A", "D"); ok {
		tst.Error("Unknown taxon found")
	}
	if !reflect.DeepEqual(m.IDs(), []string{"A", "B", "C"}) {
		tst.Error("Wrong ids:", m.IDs())
	}
}

func TestFromMapOneDirection(tst *testing.T) {
	d := map[string]map[string]float64{
		"1": {"2": 2, "3": 4},
		"2": {"3": 3},
	}
	m, err := FromMap([]string{"1", "2", "3"}, d, Options{})
	if err != nil {
		tst.Fatal("Error creating matrix:", err)
	}
	if v, _ := m.At("3", "2"); v != 3 {
		tst.Error("Expected 3, got", v)
	}
}

func TestFromMapStrict(tst *testing.T) {
	missing := map[string]map[string]float64{
		"A": {"B": 2},
	}
	_, err := FromMap([]string{"A", "B", "C"}, missing, Options{})
	var me *MissingError
	if !errors.As(err, &me) || me.A != "A" || me.B != "C" {
		tst.Error("Expected missing A-C distance, got", err)
	}

	asym := map[string]map[string]float64{
		"A": {"B": 2},
		"B": {"A": 3},
	}
	_, err = FromMap([]string{"A", "B"}, asym, Options{})
	var ae *AsymmetryError
	if !errors.As(err, &ae) {
		tst.Error("Expected AsymmetryError, got", err)
	}

	diag := map[string]map[string]float64{
		"A": {"A": 1, "B": 2},
	}
	if _, err = FromMap([]string{"A", "B"}, diag, Options{}); !errors.Is(err, ErrDiagonal) {
		tst.Error("Expected ErrDiagonal, got", err)
	}

	neg := map[string]map[string]float64{
		"A": {"B": -2},
	}
	if _, err = FromMap([]string{"A", "B"}, neg, Options{Lenient: true}); err == nil {
		tst.Error("Expected error for negative distance")
	}

	if _, err = FromMap([]string{"A", "A"}, abc, Options{}); err == nil {
		tst.Error("Expected error for duplicate ids")
	}
}

func TestFromMapLenient(tst *testing.T) {
	d := map[string]map[string]float64{
		"A": {"B": 2},
		"B": {"A": 3},
	}
	m, err := FromMap([]string{"A", "B", "C"}, d, Options{Lenient: true})
	if err != nil {
		tst.Fatal("Error creating matrix:", err)
	}
	if v, _ := m.At("B", "A"); v != 2 {
		tst.Error("Expected the first listed direction, got", v)
	}
	if v, _ := m.At("A", "C"); v != 0 {
		tst.Error("Expected zero for missing distance, got", v)
	}
}

func TestSubsetExtend(tst *testing.T) {
	m, _ := FromMap([]string{"A", "B", "C"}, abc, Options{})
	sub, err := m.Subset([]string{"C", "A"})
	if err != nil {
		tst.Fatal("Error creating subset:", err)
	}
	if sub.Len() != 2 || sub.AtIndex(0, 1) != 4 {
		tst.Error("Wrong subset:", sub)
	}
	if _, err = m.Subset([]string{"D"}); err == nil {
		tst.Error("Expected error for unknown taxon")
	}

	ext, err := sub.Extend("D", []float64{1, 5})
	if err != nil {
		tst.Fatal("Error extending matrix:", err)
	}
	if v, _ := ext.At("D", "A"); v != 5 {
		tst.Error("Expected 5, got", v)
	}
	if v, _ := ext.At("C", "A"); v != 4 {
		tst.Error("Expected 4, got", v)
	}
	// the source matrices are not changed
	if sub.Len() != 2 || m.Len() != 3 {
		tst.Error("Source matrix changed")
	}
	if _, err = sub.Extend("E", []float64{1}); err == nil {
		tst.Error("Expected error for a short row")
	}
	if _, err = sub.Extend("A", []float64{1, 1}); err == nil {
		tst.Error("Expected error for duplicate id")
	}
}

func TestEmptyMatrix(tst *testing.T) {
	m, err := FromMap(nil, nil, Options{})
	if err != nil {
		tst.Fatal("Error creating empty matrix:", err)
	}
	if m.Len() != 0 || len(m.Map()) != 0 {
		tst.Error("Matrix should be empty")
	}
	sub, err := m.Subset(nil)
	if err != nil || sub.Len() != 0 {
		tst.Error("Wrong empty subset:", err)
	}
}

func TestMarshalJSON(tst *testing.T) {
	m, _ := FromMap([]string{"A", "B"}, abc, Options{})
	b, err := json.Marshal(m)
	if err != nil {
		tst.Fatal("Error marshalling:", err)
	}
	if string(b) != `{"A":{"A":0,"B":2},"B":{"A":2,"B":0}}` {
		tst.Error("Wrong json:", string(b))
	}
	if m.String() != "\tA\tB\nA\t0\t2\nB\t2\t0" {
		tst.Errorf("Wrong string: %q", m.String())
	}
}

func TestReadJSON(tst *testing.T) {
	data := `{"taxa": [{"id": "1", "name": "Species A"}, {"id": "2"}],
		"matrix": {"1": {"2": 2.5}}}`
	m, taxa, err := ReadJSON(bytes.NewBufferString(data), Options{})
	if err != nil {
		tst.Fatal("Error reading json:", err)
	}
	if len(taxa) != 2 || taxa[0].Name != "Species A" || taxa[1].Name != "2" {
		tst.Error("Wrong taxa:", taxa)
	}
	if v, _ := m.At("2", "1"); v != 2.5 {
		tst.Error("Expected 2.5, got", v)
	}

	m, taxa, err = ReadJSON(bytes.NewBufferString(`{"matrix": {"b": {"a": 1}}}`), Options{})
	if err != nil {
		tst.Fatal("Error reading json:", err)
	}
	if !reflect.DeepEqual(m.IDs(), []string{"a", "b"}) || taxa[0].Name != "a" {
		tst.Error("Wrong taxa:", taxa)
	}

	if _, _, err = ReadJSON(bytes.NewBufferString(`{"matrix": `), Options{}); err == nil {
		tst.Error("Expected error for broken json")
	}
}

func TestReadPhylip(tst *testing.T) {
	data := `3
A 0 2 4
B 2 0
4
C 4 4 0
`
	m, err := ReadPhylip(bytes.NewBufferString(data), Options{})
	if err != nil {
		tst.Fatal("Error reading phylip:", err)
	}
	ref, _ := FromMap([]string{"A", "B", "C"}, abc, Options{})
	if !reflect.DeepEqual(m.Map(), ref.Map()) {
		tst.Error("Wrong matrix:", m)
	}

	if _, err = ReadPhylip(bytes.NewBufferString("2\nA 0 1\nB 1"), Options{}); err == nil {
		tst.Error("Expected error for truncated matrix")
	}
	if _, err = ReadPhylip(bytes.NewBufferString("2\nA 0 1\nB 2 0"), Options{}); err == nil {
		tst.Error("Expected error for asymmetric matrix")
	}
	if _, err = ReadPhylip(bytes.NewBufferString("x"), Options{}); err == nil {
		tst.Error("Expected error for wrong header")
	}
}
