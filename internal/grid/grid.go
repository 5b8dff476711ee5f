package grid

import (
	"fmt"
	"slices"
	"sort"
)

// Point represents a cell on the grid
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Bounds is the grid extent; valid cells are [0, Width) x [0, Height)
type Bounds struct {
	Width  int
	Height int
}

// Contains reports whether p lies inside the bounds
func (b Bounds) Contains(p Point) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// Cells returns the number of cells in the grid
func (b Bounds) Cells() int {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

func (b Bounds) index(p Point) int {
	return p.Y*b.Width + p.X
}

// Obstacles is a read-only set of blocked cells.
// Cells outside the bounds are never blocked.
type Obstacles struct {
	bounds  Bounds
	blocked []bool
	count   int
}

// NewObstacles builds an obstacle set from individual cells
func NewObstacles(bounds Bounds, cells ...Point) *Obstacles {
	b := NewBuilder(bounds)
	for _, c := range cells {
		b.AddCell(c)
	}
	return b.Build()
}

// Blocked reports whether p is an obstacle cell
func (o *Obstacles) Blocked(p Point) bool {
	if o == nil || !o.bounds.Contains(p) {
		return false
	}
	i := o.bounds.index(p)
	return i < len(o.blocked) && o.blocked[i]
}

// Len returns the number of blocked cells
func (o *Obstacles) Len() int {
	if o == nil {
		return 0
	}
	return o.count
}

// Bounds returns the grid extent the set was built for
func (o *Obstacles) Bounds() Bounds {
	return o.bounds
}

// Cells returns the blocked cells in row-major order
func (o *Obstacles) Cells() []Point {
	if o == nil {
		return nil
	}
	cells := make([]Point, 0, o.count)
	for i, blocked := range o.blocked {
		if blocked {
			cells = append(cells, Point{X: i % o.bounds.Width, Y: i / o.bounds.Width})
		}
	}
	return cells
}

// Builder accumulates obstacle cells before freezing them into an Obstacles set
type Builder struct {
	bounds  Bounds
	blocked []bool
	count   int
}

// NewBuilder creates an empty builder for the given bounds
func NewBuilder(bounds Bounds) *Builder {
	return &Builder{
		bounds:  bounds,
		blocked: make([]bool, bounds.Cells()),
	}
}

// AddCell marks a single cell; out-of-bounds cells are ignored
func (b *Builder) AddCell(p Point) {
	if !b.bounds.Contains(p) {
		return
	}
	i := b.bounds.index(p)
	if !b.blocked[i] {
		b.blocked[i] = true
		b.count++
	}
}

// AddRect marks every cell of the rectangle spanned by two corners (inclusive)
func (b *Builder) AddRect(c0, c1 Point) {
	x0, x1 := minMax(c0.X, c1.X)
	y0, y1 := minMax(c0.Y, c1.Y)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			b.AddCell(Point{X: x, Y: y})
		}
	}
}

// Stamp marks the square brush [c.X-half, c.X+half) x [c.Y-half, c.Y+half).
// A non-positive half marks only c.
func (b *Builder) Stamp(c Point, half int) {
	if half <= 0 {
		b.AddCell(c)
		return
	}
	for x := c.X - half; x < c.X+half; x++ {
		for y := c.Y - half; y < c.Y+half; y++ {
			b.AddCell(Point{X: x, Y: y})
		}
	}
}

// AddStroke rasterizes a polyline and stamps the brush on every cell it covers,
// the way a dragged pointer paints obstacles.
func (b *Builder) AddStroke(points []Point, half int) {
	switch len(points) {
	case 0:
		return
	case 1:
		b.Stamp(points[0], half)
		return
	}
	WalkPath(points, func(p Point) bool {
		b.Stamp(p, half)
		return true
	})
}

// Build snapshots the accumulated cells. Later edits to the builder do not
// affect sets already built.
func (b *Builder) Build() *Obstacles {
	return &Obstacles{bounds: b.bounds, blocked: slices.Clone(b.blocked), count: b.count}
}

// SortPoints orders points row-major (by Y, then X)
func SortPoints(points []Point) {
	sort.Slice(points, func(i, j int) bool {
		if points[i].Y != points[j].Y {
			return points[i].Y < points[j].Y
		}
		return points[i].X < points[j].X
	})
}

func minMax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
