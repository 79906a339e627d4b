package grid

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"math"
	"math/rand"
	"strconv"
	"tilegrid/common"
)

// baseGrid contains the cell store, the tile factory and the serialization shared by all cell shapes. The shape
// specific grids embed it and add the coordinate algebra.
type baseGrid[T any] struct {
	shape    Shape
	layout   Layout
	layouts  []Layout // Supported layouts, the first one is the default.
	extent   int
	cellSize float64

	cells         map[string]*Cell[T]
	numCells      int
	autogenerated bool

	directions []Cube
	diagonals  []Cube

	extrudeSettings *ExtrudeSettings
	cellShape       orb.Ring // Base outline of a cell centered at the origin.
	geometryCache   geometryCache
	lastTileID      TileID

	disposed bool
}

func newBaseGrid[T any](shape Shape, cellSize float64, layouts []Layout, directions []Cube, diagonals []Cube) baseGrid[T] {
	return baseGrid[T]{
		shape:         shape,
		layout:        layouts[0],
		layouts:       layouts,
		cellSize:      cellSize,
		cells:         map[string]*Cell[T]{},
		directions:    directions,
		diagonals:     diagonals,
		geometryCache: newBucketGeometryCache(),
	}
}

func (g *baseGrid[T]) Shape() Shape { return g.shape }

func (g *baseGrid[T]) Layout() Layout { return g.layout }

func (g *baseGrid[T]) Extent() int { return g.extent }

func (g *baseGrid[T]) CellSize() float64 { return g.cellSize }

func (g *baseGrid[T]) NumCells() int { return g.numCells }

func (g *baseGrid[T]) Autogenerated() bool { return g.autogenerated }

func (g *baseGrid[T]) ExtrudeSettings() *ExtrudeSettings { return g.extrudeSettings }

func (g *baseGrid[T]) IsDisposed() bool { return g.disposed }

func (g *baseGrid[T]) SetLayout(layout Layout) error {
	resolved, err := g.resolveLayout(layout)
	if err != nil {
		return err
	}
	g.layout = resolved
	return nil
}

// resolveLayout returns the default layout for an empty one and an error for layouts this shape doesn't support.
func (g *baseGrid[T]) resolveLayout(layout Layout) (Layout, error) {
	if layout == "" {
		return g.layouts[0], nil
	}
	for _, supported := range g.layouts {
		if supported == layout {
			return layout, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownLayout, "Layout '%s' is not supported by %s grids", layout, g.shape)
}

func (g *baseGrid[T]) CellToHash(c Cube) string {
	return strconv.Itoa(c.Q) + hashDelimiter + strconv.Itoa(c.R) + hashDelimiter + strconv.Itoa(c.S)
}

func (g *baseGrid[T]) GetCell(c Cube) (*Cell[T], bool) {
	cell, ok := g.cells[g.CellToHash(c)]
	return cell, ok
}

func (g *baseGrid[T]) Add(cell *Cell[T]) (*Cell[T], bool) {
	if g.disposed || cell == nil {
		return nil, false
	}
	if !cell.Cube().IsValid() {
		sigolo.Warnf("Ignore cell %s violating q+r+s=0", cell.Cube())
		return nil, false
	}

	hash := g.CellToHash(cell.Cube())
	if existing, ok := g.cells[hash]; ok {
		return existing, false
	}

	g.cells[hash] = cell
	g.numCells++

	return cell, true
}

func (g *baseGrid[T]) Remove(cell *Cell[T]) bool {
	if cell == nil {
		return false
	}

	hash := g.CellToHash(cell.Cube())
	if _, ok := g.cells[hash]; !ok {
		return false
	}

	delete(g.cells, hash)
	g.numCells--

	return true
}

func (g *baseGrid[T]) GetNeighbors(cell *Cell[T], diagonals bool, filter NeighborFilter[T]) []*Cell[T] {
	return g.AppendNeighbors(nil, cell, diagonals, filter)
}

func (g *baseGrid[T]) AppendNeighbors(dst []*Cell[T], cell *Cell[T], diagonals bool, filter NeighborFilter[T]) []*Cell[T] {
	if cell == nil {
		return dst
	}

	dst = g.appendExisting(dst, cell, g.directions, filter)
	if diagonals {
		dst = g.appendExisting(dst, cell, g.diagonals, filter)
	}
	return dst
}

func (g *baseGrid[T]) appendExisting(dst []*Cell[T], cell *Cell[T], vectors []Cube, filter NeighborFilter[T]) []*Cell[T] {
	origin := cell.Cube()
	for _, vector := range vectors {
		neighbor, ok := g.cells[g.CellToHash(origin.Add(vector))]
		if !ok || (filter != nil && !filter(cell, neighbor)) {
			continue
		}
		dst = append(dst, neighbor)
	}
	return dst
}

func (g *baseGrid[T]) ClearPath() {
	for _, cell := range g.cells {
		cell.ResetPath()
	}
}

// Traverse calls fn for every stored cell in no particular order. fn may change cells but must not add or remove any.
func (g *baseGrid[T]) Traverse(fn func(cell *Cell[T])) {
	for _, cell := range g.cells {
		fn(cell)
	}
}

// RandomCell returns a random stored cell. A nil rnd uses the global source.
func (g *baseGrid[T]) RandomCell(rnd *rand.Rand) (*Cell[T], bool) {
	if g.numCells == 0 {
		return nil, false
	}

	var x int
	if rnd == nil {
		x = rand.Intn(g.numCells)
	} else {
		x = rnd.Intn(g.numCells)
	}

	i := 0
	for _, cell := range g.cells {
		if i == x {
			return cell, true
		}
		i++
	}
	return nil, false
}

func (g *baseGrid[T]) CellOutline() orb.Ring {
	return g.cellShape.Clone()
}

// placeOutline moves the base outline to the given world position in the grid plane.
func (g *baseGrid[T]) placeOutline(center common.Vec3) orb.Ring {
	ring := make(orb.Ring, len(g.cellShape))
	for i, point := range g.cellShape {
		ring[i] = orb.Point{point.X() + center.X, point.Y() + center.Z}
	}
	return ring
}

func (g *baseGrid[T]) CachedGeometry(height float64) (*Geometry, bool) {
	if g.geometryCache == nil {
		return nil, false
	}
	geometry := g.geometryCache.get(heightBucket(height))
	return geometry, geometry != nil
}

func (g *baseGrid[T]) CachedHeightBuckets() []int {
	if g.geometryCache == nil {
		return []int{}
	}
	return g.geometryCache.buckets()
}

// generateTile creates the tile of the cell at the given world position. The vertical component of the position is
// dropped, heights are expressed by the extruded geometry.
func (g *baseGrid[T]) generateTile(cell *Cell[T], scale float64, material any, position common.Vec3) *Tile {
	if g.disposed || cell == nil {
		return nil
	}

	extrudeSettings := DefaultExtrudeSettings()
	if g.extrudeSettings != nil {
		extrudeSettings = *g.extrudeSettings
	}

	bucket := heightBucket(cell.Height)
	geometry, isNew := g.geometryCache.getOrInsert(bucket, func() *Geometry {
		return newExtrudedGeometry(g.cellShape, float64(bucket), extrudeSettings)
	})
	if isNew && sigolo.ShouldLogTrace() {
		sigolo.Tracef("Built geometry for height bucket %d", bucket)
	}

	position.Y = 0
	g.lastTileID++
	tile := &Tile{
		ID:       g.lastTileID,
		CellKey:  g.CellToHash(cell.Cube()),
		Geometry: geometry,
		Material: material,
		Scale:    scale,
		Position: position,
	}

	cell.Tile = tile.ID

	return tile
}

func (g *baseGrid[T]) generateTiles(settings TileSettings, toPixel func(cell *Cell[T]) common.Vec3) []*Tile {
	if g.disposed {
		return []*Tile{}
	}

	extrudeSettings := settings.Extrude
	g.extrudeSettings = &extrudeSettings

	scale := settings.Scale
	if scale == 0 {
		scale = DefaultTileSettings().Scale
	}

	tiles := make([]*Tile, 0, g.numCells)
	for _, cell := range g.cells {
		tiles = append(tiles, g.generateTile(cell, scale, settings.Material, toPixel(cell)))
	}

	sigolo.Debugf("Generated %d tiles using %d cached geometries", len(tiles), g.geometryCache.len())

	return tiles
}

// Dispose releases all cells, the geometry cache and the base outline. Calling it again has no effect. Afterward,
// lookups find nothing and adding cells or generating tiles does nothing.
func (g *baseGrid[T]) Dispose() {
	if g.disposed {
		return
	}

	g.cells = nil
	g.numCells = 0
	g.cellShape = nil
	g.extrudeSettings = nil
	if g.geometryCache != nil {
		g.geometryCache.clear()
		g.geometryCache = nil
	}
	g.disposed = true
}

// roundHalfUp rounds to the nearest integer and halves towards positive infinity, so -2.5 becomes -2. This decides on
// which cell a point exactly on a cell border lands.
func roundHalfUp(value float64) float64 {
	return math.Floor(value + 0.5)
}

func abs(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
