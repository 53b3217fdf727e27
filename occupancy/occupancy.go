// Package occupancy provides a per-keypoint-type spatial grid marking image
// regions already claimed by a pose instance.
//
// The grid is stored at a reduced resolution: a point (x, y) in field
// coordinates maps to cell (round(x/r), round(y/r)) for reduction r. Marking
// covers a square of half-width max(minScale/r, 0.5·sigma/r) cells around
// the point, clipped to the grid. A square lying entirely outside the grid,
// on any side, marks nothing.
//
// Queries outside the grid, or for joint types the grid was not sized for,
// report occupied so that out-of-frame seeds are never grown.
//
// A Grid is frame-scoped and not safe for concurrent use.
package occupancy

import (
	"errors"
	"math"
)

// Sentinel errors for grid construction.
var (
	// ErrEmptyShape indicates a shape with no fields, rows or columns.
	ErrEmptyShape = errors.New("occupancy: shape must have at least one field, row and column")

	// ErrBadReduction indicates a non-positive reduction factor.
	ErrBadReduction = errors.New("occupancy: reduction must be positive")

	// ErrBadMinScale indicates a negative minimum scale.
	ErrBadMinScale = errors.New("occupancy: min scale must be non-negative")
)

// Shape is the size of the confidence field: one plane per keypoint type.
type Shape struct {
	Fields, Height, Width int
}

// Grid is a boolean occupancy map per keypoint type.
type Grid struct {
	shape           Shape
	Width, Height   int // reduced dimensions
	reduction       float64
	minScaleReduced float64
	cells           [][]bool // cells[f][y*Width+x]
}

// New allocates a Grid for shape with the given reduction and minimum
// marking scale, both in field coordinates.
// Complexity: O(F·W·H / r²) time and memory.
func New(shape Shape, reduction, minScale float64) (*Grid, error) {
	if shape.Fields <= 0 || shape.Height <= 0 || shape.Width <= 0 {
		return nil, ErrEmptyShape
	}
	if !(reduction > 0) {
		return nil, ErrBadReduction
	}
	if minScale < 0 || math.IsNaN(minScale) {
		return nil, ErrBadMinScale
	}

	w := int(float64(shape.Width)/reduction) + 1
	h := int(float64(shape.Height)/reduction) + 1
	g := &Grid{
		shape:           shape,
		Width:           w,
		Height:          h,
		reduction:       reduction,
		minScaleReduced: minScale / reduction,
		cells:           make([][]bool, shape.Fields),
	}
	for f := range g.cells {
		g.cells[f] = make([]bool, w*h)
	}

	return g, nil
}

// Shape returns the field shape the grid was built for.
func (g *Grid) Shape() Shape { return g.shape }

// InBounds reports whether reduced cell (x, y) lies within the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// index maps a reduced cell to its row-major position.
func (g *Grid) index(x, y int) int {
	return y*g.Width + x
}

// Reset clears every mark, keeping the allocation.
func (g *Grid) Reset() {
	for f := range g.cells {
		plane := g.cells[f]
		for i := range plane {
			plane[i] = false
		}
	}
}

// Set marks the square around (x, y) for joint type f. sigma is the joint's
// scale in field coordinates. Unknown joint types are ignored.
func (g *Grid) Set(f int, x, y, sigma float64) {
	if f < 0 || f >= len(g.cells) {
		return
	}
	half := math.Max(g.minScaleReduced, 0.5*sigma/g.reduction)
	cx, cy := x/g.reduction, y/g.reduction

	minX, minY := int(cx-half), int(cy-half)
	if minX >= g.Width || minY >= g.Height || cx+half < 0 || cy+half < 0 {
		return
	}
	minX, minY = clamp(minX, 0, g.Width-1), clamp(minY, 0, g.Height-1)
	maxX := clamp(int(cx+half)+1, minX+1, g.Width)
	maxY := clamp(int(cy+half)+1, minY+1, g.Height)

	plane := g.cells[f]
	for yy := minY; yy < maxY; yy++ {
		for xx := minX; xx < maxX; xx++ {
			plane[g.index(xx, yy)] = true
		}
	}
}

// Get reports whether (x, y) is occupied for joint type f.
func (g *Grid) Get(f int, x, y float64) bool {
	if f < 0 || f >= len(g.cells) {
		return true
	}
	xi := int(math.Round(x / g.reduction))
	yi := int(math.Round(y / g.reduction))
	if !g.InBounds(xi, yi) {
		return true
	}

	return g.cells[f][g.index(xi, yi)]
}

// Count returns the number of marked cells for joint type f.
func (g *Grid) Count(f int) int {
	if f < 0 || f >= len(g.cells) {
		return 0
	}
	n := 0
	for _, c := range g.cells[f] {
		if c {
			n++
		}
	}

	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
