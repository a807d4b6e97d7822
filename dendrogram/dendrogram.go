// Package dendrogram draws UPGMA trees with gonum/plot.
package dendrogram

import (
	"errors"

	"github.com/op/go-logging"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"bitbucket.org/Davydov/genelab/upgma"
)

var log = logging.MustGetLogger("dendrogram")

// Default image size.
const (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// ErrEmptyTree is returned when there is nothing to draw.
var ErrEmptyTree = errors.New("empty tree")

// Layout holds the drawing of a tree: leaves are placed at y=0 with
// x equal to their order, internal clusters at their heights.
type Layout struct {
	// Segments are the line pieces forming the tree.
	Segments []plotter.XYs
	Leaves   plotter.XYLabels
}

// place returns the x coordinate of the cluster.
func (l *Layout) place(c *upgma.Cluster) float64 {
	if c.IsLeaf() {
		x := float64(len(l.Leaves.Labels))
		l.Leaves.XYs = append(l.Leaves.XYs, plotter.XY{X: x, Y: 0})
		l.Leaves.Labels = append(l.Leaves.Labels, c.Name)
		return x
	}
	xs := make([]float64, len(c.Children))
	sum := 0.0
	for i, child := range c.Children {
		xs[i] = l.place(child)
		sum += xs[i]
		l.Segments = append(l.Segments, plotter.XYs{
			{X: xs[i], Y: child.Height},
			{X: xs[i], Y: c.Height},
		})
	}
	l.Segments = append(l.Segments, plotter.XYs{
		{X: xs[0], Y: c.Height},
		{X: xs[len(xs)-1], Y: c.Height},
	})
	return sum / float64(len(xs))
}

// NewLayout computes the layout of the tree.
func NewLayout(root *upgma.Cluster) (*Layout, error) {
	if root == nil {
		return nil, ErrEmptyTree
	}
	l := &Layout{}
	l.place(root)
	return l, nil
}

// New creates a plot of the tree.
func New(root *upgma.Cluster) (*plot.Plot, error) {
	l, err := NewLayout(root)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = "UPGMA"
	p.Y.Label.Text = "Height"
	p.HideX()
	p.X.Min = -0.5
	p.X.Max = float64(len(l.Leaves.Labels)) - 0.5
	p.Y.Min = 0

	for _, seg := range l.Segments {
		line, err := plotter.NewLine(seg)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(0)
		p.Add(line)
	}

	labels, err := plotter.NewLabels(l.Leaves)
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
	}
	labels.Offset = vg.Point{Y: -vg.Points(12)}
	p.Add(labels)

	log.Debugf("Dendrogram with %d leaves and %d segments",
		len(l.Leaves.Labels), len(l.Segments))
	return p, nil
}

// Save draws the tree to a file, the format is determined by the file
// extension (png, svg, pdf, ...).
func Save(root *upgma.Cluster, width, height vg.Length, fn string) error {
	p, err := New(root)
	if err != nil {
		return err
	}
	return p.Save(width, height, fn)
}
