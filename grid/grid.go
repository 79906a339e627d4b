// Package grid partitions the plane into hexagonal or square cells. It converts between world positions and cell
// coordinates, stores cells by their coordinate hash, answers neighbor queries and creates tile descriptors with a
// shared, height-bucketed geometry cache.
//
// Hex grids use cube coordinates in the "flat top" orientation. Square grids use the same Cell type with q as column,
// r as row and the derived s, so every stored cell satisfies q+r+s == 0.
//
// Grids are not safe for concurrent use.
package grid

import (
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"math"
	"math/rand"
	"tilegrid/common"
)

type Shape string

const (
	ShapeHex Shape = "hex"
	ShapeSqr Shape = "sqr"
)

type Layout string

const (
	LayoutHexagon       Layout = "hexagon"
	LayoutParallelogram Layout = "parallelogram"
	LayoutRectangle     Layout = "rectangle"
)

const hashDelimiter = "."

// Settings configure a new grid. An empty CellShape selects a hex grid, an empty Layout the default layout of the
// shape. With an Extent greater than zero, New also generates the cells.
type Settings struct {
	CellShape Shape   `json:"cellShape" yaml:"cellShape"`
	Layout    Layout  `json:"layout" yaml:"layout"`
	Extent    int     `json:"extent" yaml:"extent"`
	CellSize  float64 `json:"cellSize" yaml:"cellSize"`
}

func DefaultSettings() Settings {
	return Settings{
		CellShape: ShapeHex,
		Layout:    LayoutHexagon,
		Extent:    10,
		CellSize:  10,
	}
}

// NeighborFilter decides whether the candidate is a usable neighbor of the source cell.
type NeighborFilter[T any] func(source *Cell[T], candidate *Cell[T]) bool

// WalkableFilter accepts all walkable candidates.
func WalkableFilter[T any](_ *Cell[T], candidate *Cell[T]) bool {
	return candidate.Walkable
}

type GridIndex[T any] interface {
	Shape() Shape
	Layout() Layout
	// SetLayout selects the layout GenerateGrid and the persisted data refer to, without generating cells.
	SetLayout(layout Layout) error
	Extent() int
	CellSize() float64
	NumCells() int
	Autogenerated() bool
	ExtrudeSettings() *ExtrudeSettings

	// CellToPixel returns the world position of the cell center. Y is the cell height.
	CellToPixel(cell *Cell[T]) common.Vec3
	// PixelToCell returns the coordinate of the cell containing the world position. The cell does not need to exist.
	PixelToCell(pos common.Vec3) Cube
	GetCellAt(pos common.Vec3) (*Cell[T], bool)
	GetCell(c Cube) (*Cell[T], bool)

	// Add stores the cell. When the coordinate is already occupied, nothing changes and the existing cell is returned
	// together with false.
	Add(cell *Cell[T]) (*Cell[T], bool)
	// Remove deletes the cell at the coordinate of the given cell. It returns false when there was none.
	Remove(cell *Cell[T]) bool
	CellToHash(c Cube) string

	// GetNeighbors returns a newly allocated slice of all existing neighbors accepted by the optional filter.
	GetNeighbors(cell *Cell[T], diagonals bool, filter NeighborFilter[T]) []*Cell[T]
	// AppendNeighbors is like GetNeighbors but appends to dst, which allows callers to reuse a buffer.
	AppendNeighbors(dst []*Cell[T], cell *Cell[T], diagonals bool, filter NeighborFilter[T]) []*Cell[T]
	// Distance is a path cost heuristic: the grid distance plus b.Height - a.Height. It is not symmetric and can be
	// negative.
	Distance(a *Cell[T], b *Cell[T]) float64

	GenerateGrid(layout Layout, extent int) error
	GenerateTiles(settings TileSettings) []*Tile
	GenerateTile(cell *Cell[T], scale float64, material any) *Tile
	// CachedGeometry returns the shared geometry of the height bucket of the given height, if it has been built.
	CachedGeometry(height float64) (*Geometry, bool)
	CachedHeightBuckets() []int

	// CellOutline returns the closed outline of a cell centered at the origin.
	CellOutline() orb.Ring
	// CellPolygon returns the outline of the cell placed at its world position in the grid plane.
	CellPolygon(cell *Cell[T]) orb.Polygon
	// Overlay returns the outlines of all coordinates within the extent, whether they are stored or not.
	Overlay(extent int) []orb.Ring
	RandomCell(rnd *rand.Rand) (*Cell[T], bool)

	ClearPath()
	Traverse(fn func(cell *Cell[T]))
	Dispose()
	IsDisposed() bool

	ToJSON() *GridJSON[T]
	FromJSON(data *GridJSON[T]) error
}

// New creates an empty grid of the configured cell shape and generates its cells when the settings have an extent.
func New[T any](settings Settings) (GridIndex[T], error) {
	if settings.CellSize <= 0 || math.IsNaN(settings.CellSize) || math.IsInf(settings.CellSize, 0) {
		return nil, errors.Wrapf(ErrInvalidCellSize, "Unable to create grid with cell size %f", settings.CellSize)
	}
	if settings.Extent < 0 {
		return nil, errors.Wrapf(ErrInvalidExtent, "Unable to create grid with extent %d", settings.Extent)
	}

	var grid GridIndex[T]
	switch settings.CellShape {
	case "", ShapeHex:
		grid = NewHexGrid[T](settings.CellSize)
	case ShapeSqr:
		grid = NewSqrGrid[T](settings.CellSize)
	default:
		return nil, errors.Wrapf(ErrUnknownShape, "Unable to create grid with cell shape '%s'", settings.CellShape)
	}

	if settings.Extent > 0 {
		err := grid.GenerateGrid(settings.Layout, settings.Extent)
		if err != nil {
			return nil, err
		}
	} else if err := grid.SetLayout(settings.Layout); err != nil {
		return nil, err
	}

	return grid, nil
}

var (
	_ GridIndex[any] = (*HexGrid[any])(nil)
	_ GridIndex[any] = (*SqrGrid[any])(nil)
)
