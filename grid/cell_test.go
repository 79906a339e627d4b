package grid

import (
	"testing"
	"tilegrid/util"
)

func TestNewCell_derivesS(t *testing.T) {
	// Act
	cell := NewCell[string](2, -5)

	// Assert
	util.AssertEqual(t, Cube{Q: 2, R: -5, S: 3}, cell.Cube())
	util.AssertTrue(t, cell.Walkable)
	util.AssertEqual(t, 0.0, cell.Height)
	util.AssertEqual(t, TileID(0), cell.Tile)
}

func TestCube_isValid(t *testing.T) {
	util.AssertTrue(t, NewCube(4, -7).IsValid())
	util.AssertTrue(t, Cube{}.IsValid())
	util.AssertFalse(t, Cube{Q: 1, R: 1, S: 1}.IsValid())
}

func TestCell_addMovesByVector(t *testing.T) {
	// Arrange
	cell := NewCell[string](1, 1)

	// Act
	result := cell.Add(hexDiagonals[0])

	// Assert
	util.AssertTrue(t, result == cell)
	util.AssertEqual(t, Cube{Q: 3, R: 0, S: -3}, cell.Cube())
	util.AssertTrue(t, cell.Cube().IsValid())
}

func TestCell_copyTakesAllState(t *testing.T) {
	// Arrange
	source := NewCell[string](3, -1)
	source.Height = 4.5
	source.Walkable = false
	source.Payload = "forest"
	source.Cost = 12
	source.Parent = "2.-1.-1"

	target := NewCell[string](0, 0)

	// Act
	target.Copy(source)

	// Assert
	util.AssertEqual(t, *source, *target)
	util.AssertFalse(t, source == target)
}

func TestCell_set(t *testing.T) {
	// Arrange
	cell := NewCell[string](0, 0)

	// Act
	cell.Set(1, 2, -3)

	// Assert
	util.AssertEqual(t, Cube{Q: 1, R: 2, S: -3}, cell.Cube())
}

func TestCell_resetPath(t *testing.T) {
	// Arrange
	cell := NewCell[string](0, 0)
	cell.Cost = 3
	cell.Priority = 7
	cell.Visited = true
	cell.Parent = "1.0.-1"
	cell.Height = 2

	// Act
	cell.ResetPath()

	// Assert
	util.AssertEqual(t, 0.0, cell.Cost)
	util.AssertEqual(t, 0.0, cell.Priority)
	util.AssertFalse(t, cell.Visited)
	util.AssertEmptyString(t, cell.Parent)
	util.AssertEqual(t, 2.0, cell.Height)
}
