package main

import (
	"fmt"
	"io"
	"strings"

	"pathevo/internal/grid"
)

// Display renders a downsampled map of the grid
type Display struct {
	bounds grid.Bounds
	scale  int
	cols   int
	rows   int
}

// NewDisplay creates a display where each character covers scale×scale cells
func NewDisplay(bounds grid.Bounds, scale int) *Display {
	if scale < 1 {
		scale = 1
	}
	return &Display{
		bounds: bounds,
		scale:  scale,
		cols:   (bounds.Width + scale - 1) / scale,
		rows:   (bounds.Height + scale - 1) / scale,
	}
}

// Render draws obstacles, the rasterized path, collisions and the endpoints.
// Later layers win: obstacle < path < collision < endpoint.
func (d *Display) Render(w io.Writer, obstacles *grid.Obstacles, path []grid.Point, hits []grid.Point) {
	canvas := make([][]rune, d.rows)
	for y := range canvas {
		canvas[y] = []rune(strings.Repeat("·", d.cols))
	}

	for _, c := range obstacles.Cells() {
		d.plot(canvas, c, '█')
	}
	for _, c := range grid.RasterizePath(path) {
		d.plot(canvas, c, '•')
	}
	for _, c := range hits {
		d.plot(canvas, c, 'X')
	}
	if len(path) > 0 {
		d.plot(canvas, path[0], 'S')
		d.plot(canvas, path[len(path)-1], 'E')
	}

	fmt.Fprintln(w, "┌"+strings.Repeat("─", d.cols)+"┐")
	for _, row := range canvas {
		fmt.Fprintln(w, "│"+string(row)+"│")
	}
	fmt.Fprintln(w, "└"+strings.Repeat("─", d.cols)+"┘")
	fmt.Fprintf(w, "  1 char = %dx%d cells | █ blocked  • path  X collision  S start  E end\n", d.scale, d.scale)
}

func (d *Display) plot(canvas [][]rune, p grid.Point, r rune) {
	if !d.bounds.Contains(p) {
		return
	}
	canvas[p.Y/d.scale][p.X/d.scale] = r
}
