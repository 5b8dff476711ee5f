package grid

// Segment returns the cells approximating the straight segment p0-p1.
//
// The dominant axis is stepped one cell at a time between the lower and upper
// coordinate (inclusive) and the other coordinate is computed from the line
// equation and truncated toward zero. Cells are produced in ascending order of
// the stepped axis regardless of segment direction.
func Segment(p0, p1 Point) []Point {
	n := abs(p0.X-p1.X)
	if dy := abs(p0.Y - p1.Y); dy > n {
		n = dy
	}
	cells := make([]Point, 0, n+1)
	walkSegment(p0, p1, func(p Point) bool {
		cells = append(cells, p)
		return true
	})
	return cells
}

// RasterizePath concatenates the segments between consecutive waypoints.
// Shared waypoints appear once per adjacent segment.
func RasterizePath(points []Point) []Point {
	var cells []Point
	WalkPath(points, func(p Point) bool {
		cells = append(cells, p)
		return true
	})
	return cells
}

// WalkPath visits the rasterized cells of every segment in waypoint order.
// It stops as soon as visit returns false and reports whether the walk completed.
func WalkPath(points []Point, visit func(Point) bool) bool {
	for i := 1; i < len(points); i++ {
		if !walkSegment(points[i-1], points[i], visit) {
			return false
		}
	}
	return true
}

func walkSegment(p0, p1 Point, visit func(Point) bool) bool {
	x0, y0, x1, y1 := p0.X, p0.Y, p1.X, p1.Y

	// Closer to vertical: step along y
	if abs(x0-x1) < abs(y0-y1) {
		lo, hi := minMax(y0, y1)
		if x0 == x1 {
			for y := lo; y <= hi; y++ {
				if !visit(Point{X: x0, Y: y}) {
					return false
				}
			}
			return true
		}
		slope := float64(y0-y1) / float64(x0-x1)
		a := 1 / slope
		b := float64(x0) - float64(a*float64(y0))
		for y := lo; y <= hi; y++ {
			// explicit conversion keeps the multiply and add separately rounded
			x := int(float64(a*float64(y)) + b)
			if !visit(Point{X: x, Y: y}) {
				return false
			}
		}
		return true
	}

	// Zero-length segment
	if x0 == x1 {
		return visit(p0)
	}

	lo, hi := minMax(x0, x1)
	if y0 == y1 {
		for x := lo; x <= hi; x++ {
			if !visit(Point{X: x, Y: y0}) {
				return false
			}
		}
		return true
	}
	a := float64(y0-y1) / float64(x0-x1)
	b := float64(y0) - float64(a*float64(x0))
	for x := lo; x <= hi; x++ {
		y := int(float64(a*float64(x)) + b)
		if !visit(Point{X: x, Y: y}) {
			return false
		}
	}
	return true
}
