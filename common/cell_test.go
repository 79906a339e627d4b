package common

import (
	"github.com/paulmach/orb"
	"testing"
	"tilegrid/util"
)

func TestCellIndex_isBelowOrLeftOf(t *testing.T) {
	cell := CellIndex{10, 10}
	/*
		[ 9,11]   [10,11]   [11,11]

		[ 9,10]   [10,10]   [11,10]

		[ 9, 9]   [10, 9]   [11, 9]
	*/

	// First column
	util.AssertTrue(t, cell.isBelowOrLeftOf(CellIndex{9, 11}))
	util.AssertFalse(t, cell.isBelowOrLeftOf(CellIndex{9, 10}))
	util.AssertFalse(t, cell.isBelowOrLeftOf(CellIndex{9, 9}))

	// Second column
	util.AssertTrue(t, cell.isBelowOrLeftOf(CellIndex{10, 11}))
	util.AssertFalse(t, cell.isBelowOrLeftOf(CellIndex{10, 10}))
	util.AssertFalse(t, cell.isBelowOrLeftOf(CellIndex{10, 9}))

	// Third column
	util.AssertTrue(t, cell.isBelowOrLeftOf(CellIndex{11, 11}))
	util.AssertTrue(t, cell.isBelowOrLeftOf(CellIndex{11, 10}))
	util.AssertTrue(t, cell.isBelowOrLeftOf(CellIndex{11, 9}))
}

func TestCellExtent_expand(t *testing.T) {
	extent := CellExtent{CellIndex{10, 10}, CellIndex{20, 20}}

	util.AssertEqual(t, extent, extent.Expand(CellIndex{10, 10}))
	util.AssertEqual(t, extent, extent.Expand(CellIndex{15, 15}))
	util.AssertEqual(t, extent, extent.Expand(CellIndex{20, 20}))

	util.AssertEqual(t, CellExtent{CellIndex{9, 9}, CellIndex{20, 20}}, extent.Expand(CellIndex{9, 9}))
	util.AssertEqual(t, CellExtent{CellIndex{10, 10}, CellIndex{21, 21}}, extent.Expand(CellIndex{21, 21}))
	util.AssertEqual(t, CellExtent{CellIndex{9, 10}, CellIndex{20, 21}}, extent.Expand(CellIndex{9, 21}))
	util.AssertEqual(t, CellExtent{CellIndex{10, 9}, CellIndex{21, 20}}, extent.Expand(CellIndex{21, 9}))
}

func TestCellExtent_contains(t *testing.T) {
	extent := NewSquareExtent(2)

	util.AssertTrue(t, extent.Contains(CellIndex{0, 0}))
	util.AssertTrue(t, extent.Contains(CellIndex{-2, -2}))
	util.AssertTrue(t, extent.Contains(CellIndex{2, 2}))
	util.AssertTrue(t, extent.Contains(CellIndex{-2, 2}))
	util.AssertFalse(t, extent.Contains(CellIndex{-3, 0}))
	util.AssertFalse(t, extent.Contains(CellIndex{0, 3}))
	util.AssertFalse(t, extent.Contains(CellIndex{3, 3}))
}

func TestCellExtent_getCellIndices(t *testing.T) {
	// Arrange
	extent := NewSquareExtent(1)

	// Act
	indices := extent.GetCellIndices()

	// Assert
	util.AssertEqual(t, 9, len(indices))
	util.AssertEqual(t, CellIndex{-1, -1}, indices[0])
	util.AssertEqual(t, CellIndex{-1, 0}, indices[1])
	util.AssertEqual(t, CellIndex{1, 1}, indices[8])

	seen := map[CellIndex]bool{}
	for _, index := range indices {
		util.AssertFalse(t, seen[index])
		util.AssertTrue(t, extent.Contains(index))
		seen[index] = true
	}
}

func TestCellExtent_toPolygon(t *testing.T) {
	// Arrange
	extent := CellExtent{CellIndex{0, 0}, CellIndex{0, 0}}

	// Act
	polygon := extent.ToPolygon(2, 2)

	// Assert
	util.AssertEqual(t, orb.Polygon{orb.Ring{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}}, polygon)
}

func TestVec3_operations(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{3, 2, 1}

	util.AssertEqual(t, Vec3{4, 4, 4}, a.Add(b))
	util.AssertEqual(t, Vec3{-2, 0, 2}, a.Sub(b))
	util.AssertEqual(t, Vec3{2, 4, 6}, a.Scale(2))
	util.AssertEqual(t, Vec3{1, 0, 3}, a.Flat())
	util.AssertApprox(t, 5.0, Vec3{3, 0, 4}.Length(), 0.000001)
}
