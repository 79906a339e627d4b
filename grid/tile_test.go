package grid

import (
	"sort"
	"testing"
	"tilegrid/util"
)

func TestHeightBucket(t *testing.T) {
	util.AssertEqual(t, 1, heightBucket(0))
	util.AssertEqual(t, 1, heightBucket(0.4))
	util.AssertEqual(t, 1, heightBucket(1.49))
	util.AssertEqual(t, 2, heightBucket(1.5))
	util.AssertEqual(t, 3, heightBucket(-2.6))
	util.AssertEqual(t, 3, heightBucket(2.5))
}

func TestBucketGeometryCache_getOrInsert(t *testing.T) {
	// Arrange
	cache := newBucketGeometryCache()
	builds := 0
	build := func() *Geometry {
		builds++
		return &Geometry{Depth: float64(builds)}
	}

	// Act
	first, firstIsNew := cache.getOrInsert(2, build)
	second, secondIsNew := cache.getOrInsert(2, build)
	other, otherIsNew := cache.getOrInsert(5, build)

	// Assert
	util.AssertTrue(t, firstIsNew)
	util.AssertFalse(t, secondIsNew)
	util.AssertTrue(t, otherIsNew)
	util.AssertTrue(t, first == second)
	util.AssertFalse(t, first == other)
	util.AssertEqual(t, 2, builds)
	util.AssertEqual(t, 2, cache.len())
	util.AssertTrue(t, cache.has(5))
	util.AssertFalse(t, cache.has(3))
	util.AssertNil(t, cache.get(3))

	cache.clear()
	util.AssertEqual(t, 0, cache.len())
	util.AssertFalse(t, cache.has(2))
}

func TestHexGrid_generateTiles_sharesGeometryPerBucket(t *testing.T) {
	// Arrange
	grid := newGeneratedHexGrid(t, 1)
	high, _ := grid.GetCell(NewCube(1, -1))
	high.Height = 3.2
	alsoHigh, _ := grid.GetCell(NewCube(-1, 1))
	alsoHigh.Height = -2.8

	// Act
	tiles := grid.GenerateTiles(TileSettings{Scale: 0.9, Extrude: DefaultExtrudeSettings()})

	// Assert
	util.AssertLen(t, 7, tiles)

	tilesByCell := map[string]*Tile{}
	ids := map[TileID]bool{}
	for _, tile := range tiles {
		tilesByCell[tile.CellKey] = tile
		ids[tile.ID] = true
		util.AssertEqual(t, 0.0, tile.Position.Y)
		util.AssertEqual(t, 0.9, tile.Scale)
	}
	util.AssertEqual(t, 7, len(ids))
	util.AssertFalse(t, ids[0])

	highTile := tilesByCell["1.-1.0"]
	util.AssertTrue(t, highTile.Geometry == tilesByCell["-1.1.0"].Geometry)
	util.AssertFalse(t, highTile.Geometry == tilesByCell["0.0.0"].Geometry)
	util.AssertTrue(t, tilesByCell["0.0.0"].Geometry == tilesByCell["0.1.-1"].Geometry)
	util.AssertEqual(t, 3.0, highTile.Geometry.Depth)
	util.AssertEqual(t, highTile.ID, high.Tile)

	buckets := grid.CachedHeightBuckets()
	sort.Ints(buckets)
	util.AssertEqual(t, []int{1, 3}, buckets)

	cached, ok := grid.CachedGeometry(2.9)
	util.AssertTrue(t, ok)
	util.AssertTrue(t, cached == highTile.Geometry)
	_, ok = grid.CachedGeometry(10)
	util.AssertFalse(t, ok)
}

func TestHexGrid_generateTiles_storesSettingsAndDefaultScale(t *testing.T) {
	// Arrange
	grid := newGeneratedHexGrid(t, 0)
	extrude := ExtrudeSettings{BevelEnabled: false, BevelSegments: 3, Steps: 2, BevelSize: 1, BevelThickness: 2}

	// Act
	tiles := grid.GenerateTiles(TileSettings{Extrude: extrude, Material: "grass"})

	// Assert
	util.AssertLen(t, 1, tiles)
	util.AssertEqual(t, 0.95, tiles[0].Scale)
	util.AssertEqual(t, "grass", tiles[0].Material)
	util.AssertEqual(t, extrude, *grid.ExtrudeSettings())
	util.AssertEqual(t, extrude, tiles[0].Geometry.Extrude)
}

func TestHexGrid_generateTile(t *testing.T) {
	// Arrange
	grid := NewHexGrid[string](10)
	cell := NewCell[string](2, -1)
	cell.Height = 5

	// Act
	tile := grid.GenerateTile(cell, 1, "stone")
	secondTile := grid.GenerateTile(cell, 1, "stone")

	// Assert
	util.AssertEqual(t, "2.-1.-1", tile.CellKey)
	util.AssertApprox(t, 30.0, tile.Position.X, 1e-9)
	util.AssertEqual(t, 0.0, tile.Position.Y)
	util.AssertEqual(t, DefaultExtrudeSettings(), tile.Geometry.Extrude)
	util.AssertTrue(t, tile.Geometry == secondTile.Geometry)
	util.AssertFalse(t, tile.ID == secondTile.ID)
	util.AssertEqual(t, secondTile.ID, cell.Tile)
	util.AssertNil(t, grid.GenerateTile(nil, 1, nil))
}

func TestGeometry_vertices(t *testing.T) {
	// Arrange
	grid := NewSqrGrid[string](2)
	cell := NewCell[string](0, 0)
	cell.Height = 4
	tile := grid.GenerateTile(cell, 1, nil)

	// Act
	vertices := tile.Geometry.Vertices()

	// Assert
	util.AssertLen(t, 8, vertices)
	util.AssertEqual(t, -1.0, vertices[0].X)
	util.AssertEqual(t, 0.0, vertices[0].Y)
	util.AssertEqual(t, -1.0, vertices[0].Z)
	util.AssertEqual(t, 4.0, vertices[4].Y)
	util.AssertEqual(t, vertices[1].X, vertices[5].X)

	bound := tile.Geometry.Bound()
	util.AssertEqual(t, -1.0, bound.Min.X())
	util.AssertEqual(t, 1.0, bound.Max.Y())
}
