// Package tree implements rooted trees with branch lengths and
// their Newick representation.
package tree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Node is a tree node. Length is the length of the branch leading
// to the node from its parent.
type Node struct {
	Name     string
	Length   float64
	Parent   *Node
	Children []*Node
}

// Add appends children to the node.
func (node *Node) Add(children ...*Node) {
	for _, child := range children {
		child.Parent = node
		node.Children = append(node.Children, child)
	}
}

func (node *Node) IsLeaf() bool {
	return len(node.Children) == 0
}

// Walk calls f for the node and all its descendants in pre-order.
func (node *Node) Walk(f func(*Node)) {
	f(node)
	for _, child := range node.Children {
		child.Walk(f)
	}
}

// Leaves returns the leaves of the subtree from left to right.
func (node *Node) Leaves() (leaves []*Node) {
	node.Walk(func(n *Node) {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
	})
	return
}

// Height returns the longest path from the node down to a leaf.
func (node *Node) Height() (h float64) {
	for _, child := range node.Children {
		if ch := child.Height() + child.Length; ch > h {
			h = ch
		}
	}
	return
}

func (node *Node) write(b *strings.Builder) {
	if !node.IsLeaf() {
		b.WriteByte('(')
		for i, child := range node.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			child.write(b)
		}
		b.WriteByte(')')
	}
	b.WriteString(node.Name)
	fmt.Fprintf(b, ":%0.6f", node.Length)
}

// Newick returns the subtree in the Newick format without the
// terminating semicolon.
func (node *Node) Newick() string {
	var b strings.Builder
	node.write(&b)
	return b.String()
}

// Tree is a rooted tree.
type Tree struct {
	Root *Node
}

// New creates a tree with the given root node.
func New(root *Node) *Tree {
	return &Tree{Root: root}
}

// NNodes returns the total number of nodes.
func (t *Tree) NNodes() (n int) {
	t.Root.Walk(func(*Node) { n++ })
	return
}

func (t *Tree) NLeaves() int {
	return len(t.Root.Leaves())
}

// String returns the tree in the Newick format.
func (t *Tree) String() string {
	return t.Root.Newick() + ";"
}

// IsSpecial returns true for characters with a special meaning in
// the Newick format.
func IsSpecial(c rune) bool {
	switch c {
	case '(', ')', ':', ';', ',':
		return true
	}
	return false
}

// SafeName replaces whitespace and special characters by
// underscores, so the name can be used as a Newick label.
func SafeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || IsSpecial(r) {
			return '_'
		}
		return r
	}, name)
}

// NewickSplit is a bufio.SplitFunc returning special characters as
// single tokens and labels in between. Whitespace is skipped.
func NewickSplit(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) {
		r, width := utf8.DecodeRune(data[start:])
		if IsSpecial(r) {
			return start + width, data[start : start+width], nil
		}
		if !unicode.IsSpace(r) {
			break
		}
		start += width
	}
	for i := start; i < len(data); {
		r, width := utf8.DecodeRune(data[i:])
		if unicode.IsSpace(r) || IsSpecial(r) {
			return i, data[start:i], nil
		}
		i += width
	}
	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	// only whitespace so far
	return start, nil, nil
}

// parser reads a tree token by token, tok is empty at the end of
// input.
type parser struct {
	scanner *bufio.Scanner
	tok     string
}

func (p *parser) next() {
	p.tok = ""
	if p.scanner.Scan() {
		p.tok = p.scanner.Text()
	}
}

func (p *parser) isLabel() bool {
	if p.tok == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(p.tok)
	return len(p.tok) > 1 || !IsSpecial(r)
}

func (p *parser) unexpected() error {
	if err := p.scanner.Err(); err != nil {
		return err
	}
	if p.tok == "" {
		return errors.New("tree is not terminated with ';'")
	}
	return fmt.Errorf("unexpected %q", p.tok)
}

// subtree reads a node with all its descendants, its label and its
// branch length.
func (p *parser) subtree() (*Node, error) {
	node := &Node{}
	if p.tok == "(" {
		for {
			p.next()
			child, err := p.subtree()
			if err != nil {
				return nil, err
			}
			node.Add(child)
			if p.tok == ")" {
				p.next()
				break
			}
			if p.tok != "," {
				return nil, p.unexpected()
			}
		}
	}
	if p.isLabel() {
		node.Name = p.tok
		p.next()
	}
	if p.tok == ":" {
		p.next()
		l, err := strconv.ParseFloat(p.tok, 64)
		if err != nil {
			return nil, fmt.Errorf("wrong branch length %q: %w", p.tok, err)
		}
		node.Length = l
		p.next()
	}
	return node, nil
}

// ParseNewick reads a single tree in the Newick format.
func ParseNewick(rd io.Reader) (*Tree, error) {
	scanner := bufio.NewScanner(rd)
	scanner.Split(NewickSplit)

	p := &parser{scanner: scanner}
	p.next()
	if p.tok == "" {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("empty tree")
	}
	root, err := p.subtree()
	if err != nil {
		return nil, err
	}
	if p.tok != ";" {
		return nil, p.unexpected()
	}
	return New(root), nil
}
