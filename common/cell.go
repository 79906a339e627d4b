package common

import "github.com/paulmach/orb"

// CellIndex is the column/row index of a cell on a rectangular tiling.
type CellIndex [2]int

func (c CellIndex) X() int { return c[0] }

func (c CellIndex) Y() int { return c[1] }

func (c CellIndex) isBelowOrLeftOf(other CellIndex) bool {
	return c.X() < other.X() || c.Y() < other.Y()
}

func (c CellIndex) isAboveOrRightOf(other CellIndex) bool {
	return c.X() > other.X() || c.Y() > other.Y()
}

// ToPoint returns the lower-left corner of the cell on the plane.
func (c CellIndex) ToPoint(cellWidth float64, cellHeight float64) orb.Point {
	return orb.Point{float64(c[0]) * cellWidth, float64(c[1]) * cellHeight}
}

// CellExtent is an inclusive range of cells: the lower-left and the upper-right cell.
type CellExtent [2]CellIndex

// NewSquareExtent returns the extent of all cells whose column and row are within [-radius, radius].
func NewSquareExtent(radius int) CellExtent {
	return CellExtent{CellIndex{-radius, -radius}, CellIndex{radius, radius}}
}

func (c CellExtent) LowerLeftCell() CellIndex { return c[0] }

func (c CellExtent) UpperRightCell() CellIndex { return c[1] }

func (c CellExtent) Width() int { return c[1].X() - c[0].X() + 1 }

func (c CellExtent) Height() int { return c[1].Y() - c[0].Y() + 1 }

func (c CellExtent) Expand(cell CellIndex) CellExtent {
	if c.Contains(cell) {
		return c
	}

	minX := min(c.LowerLeftCell().X(), cell.X())
	minY := min(c.LowerLeftCell().Y(), cell.Y())
	maxX := max(c.UpperRightCell().X(), cell.X())
	maxY := max(c.UpperRightCell().Y(), cell.Y())

	return CellExtent{
		CellIndex{minX, minY},
		CellIndex{maxX, maxY},
	}
}

func (c CellExtent) Contains(cell CellIndex) bool {
	return !cell.isAboveOrRightOf(c.UpperRightCell()) && !cell.isBelowOrLeftOf(c.LowerLeftCell())
}

// GetCellIndices returns all cells of this extent column by column.
func (c CellExtent) GetCellIndices() []CellIndex {
	indices := make([]CellIndex, 0, c.Width()*c.Height())

	for x := c.LowerLeftCell().X(); x <= c.UpperRightCell().X(); x++ {
		for y := c.LowerLeftCell().Y(); y <= c.UpperRightCell().Y(); y++ {
			indices = append(indices, CellIndex{x, y})
		}
	}

	return indices
}

// ToPolygon returns the outline of the whole extent. Each cell spans cellWidth x cellHeight starting at its lower-left
// corner.
func (c CellExtent) ToPolygon(cellWidth float64, cellHeight float64) orb.Polygon {
	lowerLeft := c[0].ToPoint(cellWidth, cellHeight)
	maxCell := CellIndex{c[1].X() + 1, c[1].Y() + 1}
	upperRight := maxCell.ToPoint(cellWidth, cellHeight)
	return orb.Polygon{
		orb.Ring{
			lowerLeft,
			orb.Point{upperRight.X(), lowerLeft.Y()},
			upperRight,
			orb.Point{lowerLeft.X(), upperRight.Y()},
			lowerLeft,
		},
	}
}
