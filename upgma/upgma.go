// Package upgma builds ultrametric trees from distance matrices using
// unweighted average linkage, recording every merge.
package upgma

import (
	"fmt"

	"github.com/op/go-logging"

	"bitbucket.org/Davydov/genelab/dist"
	"bitbucket.org/Davydov/genelab/tree"
)

var log = logging.MustGetLogger("upgma")

// ClusterPrefix is prepended to the ids of internal clusters.
const ClusterPrefix = "cluster_"

// Cluster is a node of the UPGMA tree. Leaves have zero height and no
// children. Internal clusters made by Build own exactly two children.
type Cluster struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Height   float64    `json:"height"`
	Children []*Cluster `json:"children,omitempty"`
}

// IsLeaf returns true for the clusters wrapping an input taxon.
func (c *Cluster) IsLeaf() bool {
	return len(c.Children) == 0
}

// Leaves returns the leaf clusters in the left to right order.
func (c *Cluster) Leaves() (leaves []*Cluster) {
	if c.IsLeaf() {
		return []*Cluster{c}
	}
	for _, child := range c.Children {
		leaves = append(leaves, child.Leaves()...)
	}
	return
}

func (c *Cluster) node(parentHeight float64) *tree.Node {
	node := &tree.Node{Length: parentHeight - c.Height}
	if c.IsLeaf() {
		node.Name = tree.SafeName(c.Name)
		return node
	}
	for _, child := range c.Children {
		node.Add(child.node(c.Height))
	}
	return node
}

// Tree converts the cluster into a rooted tree. Branch lengths are
// the differences between parent and child heights.
func (c *Cluster) Tree() *tree.Tree {
	return tree.New(c.node(c.Height))
}

// Newick returns the cluster as a Newick string.
func (c *Cluster) Newick() string {
	return c.Tree().String()
}

// Step records a single merge.
type Step struct {
	Number int `json:"step"`
	// Merged are the names of the joined clusters.
	Merged   [2]string `json:"merged"`
	Distance float64   `json:"distance"`
	// Before and After are the matrices restricted to the clusters
	// active before and after the merge.
	Before *dist.Matrix `json:"before"`
	After  *dist.Matrix `json:"after"`
	// Active holds the ids of the clusters active before the merge.
	Active      []string `json:"active"`
	NewID       string   `json:"new_id"`
	NewName     string   `json:"new_name"`
	Description string   `json:"description"`
}

// Result is the tree root and the merge history. Root is nil for
// empty input.
type Result struct {
	Root  *Cluster `json:"root"`
	Steps []Step   `json:"steps"`
}

// Tree returns the result as a rooted tree or nil for empty input.
func (r *Result) Tree() *tree.Tree {
	if r.Root == nil {
		return nil
	}
	return r.Root.Tree()
}

// MissingLeafError is returned if a leaf is absent from the matrix.
type MissingLeafError struct {
	ID string
}

func (e *MissingLeafError) Error() string {
	return fmt.Sprintf("taxon %q is not in the distance matrix", e.ID)
}

// closest returns the indices of the closest pair, the first one
// found wins on ties. It returns -1 if there is no pair.
func closest(m *dist.Matrix) (minI, minJ int, minD float64) {
	minI, minJ = -1, -1
	for i := 0; i < m.Len(); i++ {
		for j := i + 1; j < m.Len(); j++ {
			d := m.AtIndex(i, j)
			if minI == -1 || d < minD {
				minI, minJ, minD = i, j, d
			}
		}
	}
	return
}

// Build clusters leaves using the distances from m. Only the
// distances between leaves are used. At every step the closest pair
// is merged, pairs are scanned in the order of the active clusters and
// the first pair wins on ties. The merged cluster replaces the first of
// the pair in that order. Matrices stored in steps are never modified
// after they are recorded.
func Build(leaves []dist.Taxon, m *dist.Matrix) (*Result, error) {
	res := &Result{Steps: []Step{}}
	if len(leaves) == 0 {
		return res, nil
	}

	clusters := make([]*Cluster, len(leaves))
	ids := make([]string, len(leaves))
	for i, leaf := range leaves {
		if !m.Has(leaf.ID) {
			return nil, &MissingLeafError{ID: leaf.ID}
		}
		name := leaf.Name
		if name == "" {
			name = leaf.ID
		}
		clusters[i] = &Cluster{ID: leaf.ID, Name: name}
		ids[i] = leaf.ID
	}

	cur, err := m.Subset(ids)
	if err != nil {
		return nil, err
	}

	counter := len(leaves) + 1
	for len(clusters) > 1 {
		minI, minJ, minD := closest(cur)
		if minI == -1 {
			log.Warning("No pair to merge found")
			break
		}
		a, b := clusters[minI], clusters[minJ]
		nc := &Cluster{
			ID:       fmt.Sprintf("%s%d", ClusterPrefix, counter),
			Name:     fmt.Sprintf("(%s, %s)", a.Name, b.Name),
			Height:   minD / 2,
			Children: []*Cluster{a, b},
		}
		counter++

		rest := make([]*Cluster, 0, len(clusters)-1)
		restIds := make([]string, 0, len(clusters)-2)
		row := make([]float64, 0, len(clusters)-2)
		for k, c := range clusters {
			if k == minI {
				rest = append(rest, nc)
			}
			if k == minI || k == minJ {
				continue
			}
			rest = append(rest, c)
			restIds = append(restIds, c.ID)
			row = append(row, (cur.AtIndex(minI, k)+cur.AtIndex(minJ, k))/2)
		}
		sub, err := cur.Subset(restIds)
		if err != nil {
			return nil, err
		}
		ext, err := sub.Extend(nc.ID, row)
		if err != nil {
			return nil, err
		}
		ids := make([]string, len(rest))
		for k, c := range rest {
			ids[k] = c.ID
		}
		next, err := ext.Subset(ids)
		if err != nil {
			return nil, err
		}

		step := Step{
			Number:   len(res.Steps) + 1,
			Merged:   [2]string{a.Name, b.Name},
			Distance: minD,
			Before:   cur,
			After:    next,
			Active:   cur.IDs(),
			NewID:    nc.ID,
			NewName:  nc.Name,
			Description: fmt.Sprintf("Merge %s and %s (distance: %.2f)",
				a.Name, b.Name, minD),
		}
		log.Debugf("Step %d: %s", step.Number, step.Description)
		res.Steps = append(res.Steps, step)

		clusters = rest
		cur = next
	}
	res.Root = clusters[0]
	return res, nil
}

// BuildAll clusters all the taxa of the matrix using ids as names.
func BuildAll(m *dist.Matrix) (*Result, error) {
	leaves := make([]dist.Taxon, m.Len())
	for i, id := range m.IDs() {
		leaves[i] = dist.Taxon{ID: id, Name: id}
	}
	return Build(leaves, m)
}
