package grid

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"tilegrid/util"
)

type terrain struct {
	Kind  string `json:"kind"`
	Moist bool   `json:"moist"`
}

func TestHexGrid_toJsonFromJson_roundTrip(t *testing.T) {
	// Arrange
	source := NewHexGrid[terrain](7)
	err := source.GenerateGrid(LayoutHexagon, 2)
	util.AssertNil(t, err)
	cell, _ := source.GetCell(NewCube(1, -2))
	cell.Height = 2.5
	cell.Walkable = false
	cell.Payload = terrain{Kind: "rock", Moist: true}
	source.GenerateTiles(DefaultTileSettings())

	buffer := &bytes.Buffer{}
	err = source.ToJSON().Encode(buffer)
	util.AssertNil(t, err)

	// Act
	loaded, err := Load[terrain](buffer)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, ShapeHex, loaded.Shape())
	util.AssertEqual(t, LayoutHexagon, loaded.Layout())
	util.AssertEqual(t, 2, loaded.Extent())
	util.AssertEqual(t, 7.0, loaded.CellSize())
	util.AssertTrue(t, loaded.Autogenerated())
	util.AssertEqual(t, source.NumCells(), loaded.NumCells())
	util.AssertEqual(t, DefaultExtrudeSettings(), *loaded.ExtrudeSettings())

	loadedCell, ok := loaded.GetCell(NewCube(1, -2))
	util.AssertTrue(t, ok)
	util.AssertEqual(t, 2.5, loadedCell.Height)
	util.AssertFalse(t, loadedCell.Walkable)
	util.AssertEqual(t, terrain{Kind: "rock", Moist: true}, loadedCell.Payload)

	source.Traverse(func(cell *Cell[terrain]) {
		_, ok := loaded.GetCell(cell.Cube())
		util.AssertTrue(t, ok)
	})
}

func TestSqrGrid_toJsonFromJson_roundTrip(t *testing.T) {
	// Arrange
	source := newGeneratedSqrGrid(t, 1)
	cell, _ := source.GetCell(NewCube(-1, 1))
	cell.Payload = "water"

	// Act
	loaded, err := NewFromJSON[string](source.ToJSON())

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, ShapeSqr, loaded.Shape())
	util.AssertEqual(t, 9, loaded.NumCells())
	util.AssertNil(t, loaded.ExtrudeSettings())
	loadedCell, _ := loaded.GetCell(NewCube(-1, 1))
	util.AssertEqual(t, "water", loadedCell.Payload)
}

func TestGrid_toJson_sortedAndWithoutDerivedValues(t *testing.T) {
	// Arrange
	grid := NewHexGrid[string](1)
	grid.Add(NewCell[string](1, 0))
	grid.Add(NewCell[string](-1, 1))
	grid.Add(NewCell[string](-1, 0))

	// Act
	data := grid.ToJSON()
	encoded, err := json.Marshal(data)

	// Assert
	util.AssertNil(t, err)
	util.AssertLen(t, 3, data.Cells)
	util.AssertEqual(t, -1, *data.Cells[0].Q)
	util.AssertEqual(t, 0, *data.Cells[0].R)
	util.AssertEqual(t, -1, *data.Cells[1].Q)
	util.AssertEqual(t, 1, *data.Cells[1].R)
	util.AssertEqual(t, 1, *data.Cells[2].Q)
	util.AssertFalse(t, data.Autogenerated)
	util.AssertNoMatch(t, "cellWidth|hash|cost|visited", string(encoded))
	util.AssertMatch(t, `"q":-1,"r":0,"s":1,"height":0,"walkable":true`, string(encoded))
}

func TestGrid_fromJson_missingField(t *testing.T) {
	// Arrange
	grid := newGeneratedHexGrid(t, 1)
	input := `{"cellSize": 10, "cells": [{"q": 0, "r": 0, "s": 0, "height": 1, "walkable": true}, {"q": 1, "r": -1, "height": 1, "walkable": true}]}`
	data, err := Decode[string](strings.NewReader(input))
	util.AssertNil(t, err)

	// Act
	err = grid.FromJSON(data)

	// Assert
	util.AssertErrorIs(t, ErrMissingField, err)
	util.AssertEqual(t, 7, grid.NumCells())
	util.AssertTrue(t, grid.Autogenerated())
}

func TestGrid_fromJson_invalidCellLeavesGridIntact(t *testing.T) {
	// Arrange
	grid := newGeneratedHexGrid(t, 1)
	q, r, s := 1, 1, 1
	height := 0.0
	walkable := true
	data := &GridJSON[string]{
		CellSize: 3,
		Cells:    []CellRecord[string]{{Q: &q, R: &r, S: &s, Height: &height, Walkable: &walkable}},
	}

	// Act
	err := grid.FromJSON(data)

	// Assert
	util.AssertErrorIs(t, ErrInvalidCell, err)
	util.AssertEqual(t, 7, grid.NumCells())
	util.AssertEqual(t, 10.0, grid.CellSize())
}

func TestGrid_fromJson_shapeMismatch(t *testing.T) {
	// Arrange
	grid := NewSqrGrid[string](1)

	// Act
	err := grid.FromJSON(newGeneratedHexGrid(t, 1).ToJSON())

	// Assert
	util.AssertErrorIs(t, ErrShapeMismatch, err)
	util.AssertEqual(t, 0, grid.NumCells())
}

func TestGrid_fromJson_replacesState(t *testing.T) {
	// Arrange
	grid := newGeneratedHexGrid(t, 2)
	grid.GenerateTiles(DefaultTileSettings())
	data := NewHexGrid[string](4).ToJSON()
	one := 1
	minusOne := -1
	zero := 0
	height := 2.0
	walkable := true
	data.Cells = []CellRecord[string]{{Q: &one, R: &zero, S: &minusOne, Height: &height, Walkable: &walkable}}

	// Act
	err := grid.FromJSON(data)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, 1, grid.NumCells())
	util.AssertEqual(t, 4.0, grid.CellSize())
	util.AssertFalse(t, grid.Autogenerated())
	util.AssertLen(t, 0, grid.CachedHeightBuckets())
	util.AssertApprox(t, 4.0, grid.CellOutline()[0].X(), 1e-9)
	util.AssertApprox(t, 6.0, grid.CellToPixel(NewCell[string](1, 0)).X, 1e-9)
}

func TestNewFromJson_unknownShape(t *testing.T) {
	// Arrange
	data := &GridJSON[string]{CellShape: "tri", CellSize: 1}

	// Act
	grid, err := NewFromJSON(data)

	// Assert
	util.AssertNil(t, grid)
	util.AssertErrorIs(t, ErrUnknownShape, err)
}

func TestNewFromJson_invalidCellSize(t *testing.T) {
	// Act
	grid, err := NewFromJSON(&GridJSON[string]{CellShape: ShapeHex})

	// Assert
	util.AssertNil(t, grid)
	util.AssertErrorIs(t, ErrInvalidCellSize, err)
}

func TestLoad_malformedJson(t *testing.T) {
	// Act
	grid, err := Load[string](strings.NewReader(`{"cellSize": `))

	// Assert
	util.AssertNil(t, grid)
	util.AssertNotNil(t, err)
}
