package io

import (
	"bytes"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"path/filepath"
	"testing"
	"tilegrid/grid"
	"tilegrid/util"
)

func newTestGrid(t *testing.T) grid.GridIndex[string] {
	g, err := grid.New[string](grid.Settings{CellShape: grid.ShapeSqr, Extent: 1, CellSize: 2})
	util.AssertNil(t, err)
	cell, _ := g.GetCell(grid.NewCube(1, 0))
	cell.Height = 3
	cell.Payload = "sand"
	return g
}

func TestWriteGridAsGeoJson(t *testing.T) {
	// Arrange
	g := newTestGrid(t)
	buffer := &bytes.Buffer{}

	// Act
	err := WriteGridAsGeoJson(g, buffer)

	// Assert
	util.AssertNil(t, err)
	collection, err := geojson.UnmarshalFeatureCollection(buffer.Bytes())
	util.AssertNil(t, err)
	util.AssertLen(t, 9, collection.Features)

	var sandFeature *geojson.Feature
	for _, feature := range collection.Features {
		if feature.ID == "1.0.-1" {
			sandFeature = feature
		}
	}
	util.AssertNotNil(t, sandFeature)
	util.AssertEqual(t, "sand", sandFeature.Properties["payload"])
	util.AssertEqual(t, 3.0, sandFeature.Properties["height"])
	util.AssertEqual(t, true, sandFeature.Properties["walkable"])
	util.AssertEqual(t, orb.Polygon{{{1, -1}, {3, -1}, {3, 1}, {1, 1}, {1, -1}}}, sandFeature.Geometry)
}

func TestToFeatureCollection_orderedByCoordinates(t *testing.T) {
	// Act
	collection := ToFeatureCollection(newTestGrid(t))

	// Assert
	util.AssertLen(t, 9, collection.Features)
	util.AssertEqual(t, "-1.-1.2", collection.Features[0].ID)
	util.AssertEqual(t, "1.1.-2", collection.Features[8].ID)
}

func TestWriteAndReadGridFile(t *testing.T) {
	// Arrange
	filename := filepath.Join(t.TempDir(), "grid.json")
	source := newTestGrid(t)

	// Act
	err := WriteGridFile(source, filename)
	util.AssertNil(t, err)
	loaded, err := ReadGridFile[string](filename)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, grid.ShapeSqr, loaded.Shape())
	util.AssertEqual(t, 9, loaded.NumCells())
	util.AssertEqual(t, source.ToJSON(), loaded.ToJSON())
}

func TestLoadGridFile_intoExistingGrid(t *testing.T) {
	// Arrange
	filename := filepath.Join(t.TempDir(), "grid.json")
	err := WriteGridFile(newTestGrid(t), filename)
	util.AssertNil(t, err)
	target, err := grid.New[string](grid.Settings{CellShape: grid.ShapeSqr, CellSize: 1})
	util.AssertNil(t, err)

	// Act
	err = LoadGridFile(target, filename)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, 9, target.NumCells())
	util.AssertEqual(t, 2.0, target.CellSize())
}

func TestReadGridFile_missingFile(t *testing.T) {
	// Act
	g, err := ReadGridFile[string](filepath.Join(t.TempDir(), "missing.json"))

	// Assert
	util.AssertNil(t, g)
	util.AssertNotNil(t, err)
}
