package grid

import (
	"math"
	"testing"
	"tilegrid/util"
)

func TestNew_defaultsToHexGrid(t *testing.T) {
	// Act
	grid, err := New[string](Settings{CellSize: 10})

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, ShapeHex, grid.Shape())
	util.AssertEqual(t, LayoutHexagon, grid.Layout())
	util.AssertEqual(t, 0, grid.NumCells())
	util.AssertFalse(t, grid.Autogenerated())
	_, isHex := grid.(*HexGrid[string])
	util.AssertTrue(t, isHex)
}

func TestNew_squareGridWithExtent(t *testing.T) {
	// Act
	grid, err := New[string](Settings{CellShape: ShapeSqr, Extent: 2, CellSize: 5})

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, ShapeSqr, grid.Shape())
	util.AssertEqual(t, LayoutRectangle, grid.Layout())
	util.AssertEqual(t, 25, grid.NumCells())
	util.AssertTrue(t, grid.Autogenerated())
	_, isSqr := grid.(*SqrGrid[string])
	util.AssertTrue(t, isSqr)
}

func TestNew_hexGridWithExtent(t *testing.T) {
	// Act
	grid, err := New[string](Settings{CellShape: ShapeHex, Extent: 3, CellSize: 1})

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, 3*3*3+3*3+1, grid.NumCells())
	util.AssertEqual(t, 3, grid.Extent())
}

func TestNew_unknownShape(t *testing.T) {
	// Act
	grid, err := New[string](Settings{CellShape: "tri", CellSize: 10})

	// Assert
	util.AssertNil(t, grid)
	util.AssertErrorIs(t, ErrUnknownShape, err)
}

func TestNew_unsupportedLayout(t *testing.T) {
	// Act
	grid, err := New[string](Settings{CellShape: ShapeSqr, Layout: LayoutHexagon, CellSize: 1})

	// Assert
	util.AssertNil(t, grid)
	util.AssertErrorIs(t, ErrUnknownLayout, err)
}

func TestNew_invalidCellSize(t *testing.T) {
	for _, cellSize := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		grid, err := New[string](Settings{CellSize: cellSize})

		util.AssertNil(t, grid)
		util.AssertErrorIs(t, ErrInvalidCellSize, err)
	}
}

func TestNew_negativeExtent(t *testing.T) {
	// Act
	grid, err := New[string](Settings{Extent: -1, CellSize: 1})

	// Assert
	util.AssertNil(t, grid)
	util.AssertErrorIs(t, ErrInvalidExtent, err)
}

func TestWalkableFilter(t *testing.T) {
	// Arrange
	source := NewCell[string](0, 0)
	walkable := NewCell[string](1, 0)
	blocked := NewCell[string](0, 1)
	blocked.Walkable = false

	// Act & Assert
	util.AssertTrue(t, WalkableFilter(source, walkable))
	util.AssertFalse(t, WalkableFilter(source, blocked))
}
