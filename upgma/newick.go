package upgma

import (
	"errors"
	"fmt"
	"strings"

	"bitbucket.org/Davydov/genelab/tree"
)

// ErrNegativeLength is returned for trees with negative branch lengths.
var ErrNegativeLength = errors.New("negative branch length")

// FromTree converts a rooted tree back into clusters so it can be
// drawn. Leaves keep their labels as ids and names, internal nodes
// get ids numbered after the leaves in post-order. Heights are the
// longest distances down to a leaf, so leaves of a tree which is not
// ultrametric are aligned at zero.
func FromTree(t *tree.Tree) (*Cluster, error) {
	if t == nil || t.Root == nil {
		return nil, errors.New("empty tree")
	}
	counter := t.NLeaves() + 1
	leafNo := 0
	var convert func(node *tree.Node) (*Cluster, error)
	convert = func(node *tree.Node) (*Cluster, error) {
		if node.Length < 0 {
			return nil, fmt.Errorf("%w at %q", ErrNegativeLength, node.Name)
		}
		if node.IsLeaf() {
			leafNo++
			id := node.Name
			if id == "" {
				id = fmt.Sprintf("taxon_%d", leafNo)
			}
			return &Cluster{ID: id, Name: id}, nil
		}
		c := &Cluster{Height: node.Height()}
		names := make([]string, len(node.Children))
		for i, child := range node.Children {
			cc, err := convert(child)
			if err != nil {
				return nil, err
			}
			c.Children = append(c.Children, cc)
			names[i] = cc.Name
		}
		c.ID = fmt.Sprintf("%s%d", ClusterPrefix, counter)
		counter++
		c.Name = "(" + strings.Join(names, ", ") + ")"
		return c, nil
	}
	return convert(t.Root)
}
