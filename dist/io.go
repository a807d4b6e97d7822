package dist

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
)

type matrixFile struct {
	Taxa   []Taxon                       `json:"taxa"`
	Matrix map[string]map[string]float64 `json:"matrix"`
}

// ReadJSON reads a matrix in the following format:
//
//	{"taxa": [{"id": "1", "name": "A"}, ...],
//	 "matrix": {"1": {"2": 2, ...}, ...}}
//
// If taxa are not listed, all the ids found in the matrix are used in
// the sorted order and names are equal to ids.
func ReadJSON(rd io.Reader, opt Options) (*Matrix, []Taxon, error) {
	var f matrixFile
	if err := json.NewDecoder(rd).Decode(&f); err != nil {
		return nil, nil, err
	}
	taxa := f.Taxa
	if len(taxa) == 0 {
		seen := make(map[string]bool)
		for a, row := range f.Matrix {
			seen[a] = true
			for b := range row {
				seen[b] = true
			}
		}
		ids := make([]string, 0, len(seen))
		for id := range seen {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			taxa = append(taxa, Taxon{ID: id})
		}
	}
	ids := make([]string, len(taxa))
	for i := range taxa {
		if taxa[i].ID == "" {
			return nil, nil, fmt.Errorf("taxon #%d has no id", i+1)
		}
		if taxa[i].Name == "" {
			taxa[i].Name = taxa[i].ID
		}
		ids[i] = taxa[i].ID
	}
	m, err := FromMap(ids, f.Matrix, opt)
	if err != nil {
		return nil, nil, err
	}
	return m, taxa, nil
}

// ReadPhylip reads a square distance matrix in PHYLIP format: the
// number of taxa followed by one row per taxon, a name and the
// distances. Names cannot contain whitespace.
func ReadPhylip(rd io.Reader, opt Options) (*Matrix, error) {
	scanner := bufio.NewScanner(rd)
	scanner.Split(bufio.ScanWords)

	next := func() (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return scanner.Text(), nil
	}

	tok, err := next()
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return nil, fmt.Errorf("wrong number of taxa: %w", err)
	}
	if n < 0 {
		return nil, errors.New("negative number of taxa")
	}

	ids := make([]string, n)
	d := make(map[string]map[string]float64, n)
	values := make([][]float64, n)
	for i := 0; i < n; i++ {
		if ids[i], err = next(); err != nil {
			return nil, err
		}
		values[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if tok, err = next(); err != nil {
				return nil, err
			}
			if values[i][j], err = strconv.ParseFloat(tok, 64); err != nil {
				return nil, fmt.Errorf("row %q: %w", ids[i], err)
			}
		}
	}
	for i, a := range ids {
		d[a] = make(map[string]float64, n)
		for j, b := range ids {
			d[a][b] = values[i][j]
		}
	}
	return FromMap(ids, d, opt)
}
