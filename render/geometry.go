// Package render paints board snapshots onto a raster surface.
package render

import (
	"math"

	"aigo-board/types"
)

// Geometry maps board cells to logical pixels and back. Drawing happens at
// DisplaySize*Scale pixels so the image stays sharp when shown at DisplaySize.
type Geometry struct {
	DisplaySize float64
	GridSize    int
	Scale       float64
}

// DefaultGeometry is a 360 unit board drawn on a 720x720 surface.
var DefaultGeometry = Geometry{
	DisplaySize: 360,
	GridSize:    types.BoardSize,
	Scale:       2,
}

// CellSize is the width of one cell in logical units.
func (g Geometry) CellSize() float64 {
	return g.DisplaySize / float64(g.GridSize)
}

// StoneRadius is the radius of a stone in logical units.
func (g Geometry) StoneRadius() float64 {
	return g.CellSize() * 0.4
}

// PixelSize is the side of the backing surface in device pixels.
func (g Geometry) PixelSize() int {
	return int(math.Round(g.DisplaySize * g.Scale))
}

// CellCenter returns the logical position of the center of (col, row).
func (g Geometry) CellCenter(col, row int) (x, y float64) {
	cell := g.CellSize()
	return (float64(col) + 0.5) * cell, (float64(row) + 0.5) * cell
}

// CellAt maps a logical position relative to the board origin to a cell.
// ok is false when the position falls outside the grid.
func (g Geometry) CellAt(x, y float64) (col, row int, ok bool) {
	cell := g.CellSize()
	col = int(math.Floor(x / cell))
	row = int(math.Floor(y / cell))
	return col, row, col >= 0 && col < g.GridSize && row >= 0 && row < g.GridSize
}

// CellAtClient maps a client-space click to a cell given the board origin in
// the same space.
func (g Geometry) CellAtClient(clientX, clientY, originX, originY float64) (col, row int, ok bool) {
	return g.CellAt(clientX-originX, clientY-originY)
}
