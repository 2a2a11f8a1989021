// Package systems implements the fluid solver, particle kinematics and vesicle mechanics.
package systems

import (
	"slices"
)

// SpatialGrid buckets particle indices over the unit square for radius queries.
// It does not wrap: queries near an edge only see cells inside the domain.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	cells    [][]int32
}

// NewSpatialGrid creates a grid over [0,1]² with the given cell size.
func NewSpatialGrid(cellSize float32) *SpatialGrid {
	if cellSize <= 0 || cellSize > 1 {
		cellSize = 1
	}
	cols := int(1/cellSize) + 1
	rows := cols

	cells := make([][]int32, cols*rows)
	for i := range cells {
		cells[i] = make([]int32, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all indices from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds particle idx at (x, y). Positions outside the domain land in the edge cells.
func (g *SpatialGrid) Insert(idx int32, x, y float32) {
	c := g.cellIndex(x, y)
	g.cells[c] = append(g.cells[c], idx)
}

// QueryRadiusInto appends every index in cells overlapping the square around (x, y)
// of half-width radius to dst, sorted ascending. Callers still do the exact distance test.
func (g *SpatialGrid) QueryRadiusInto(dst []int32, x, y, radius float32) []int32 {
	c0 := g.clampCol(int((x - radius) / g.cellSize))
	c1 := g.clampCol(int((x + radius) / g.cellSize))
	r0 := g.clampRow(int((y - radius) / g.cellSize))
	r1 := g.clampRow(int((y + radius) / g.cellSize))

	start := len(dst)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			dst = append(dst, g.cells[r*g.cols+c]...)
		}
	}
	// Ascending order keeps results identical to a full index scan.
	slices.Sort(dst[start:])
	return dst
}

func (g *SpatialGrid) cellIndex(x, y float32) int {
	col := g.clampCol(int(x / g.cellSize))
	row := g.clampRow(int(y / g.cellSize))
	return row*g.cols + col
}

func (g *SpatialGrid) clampCol(c int) int {
	return clampInt(c, 0, g.cols-1)
}

func (g *SpatialGrid) clampRow(r int) int {
	return clampInt(r, 0, g.rows-1)
}
