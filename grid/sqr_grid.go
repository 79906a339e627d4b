package grid

import (
	"github.com/dustin/go-humanize"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"tilegrid/common"
	"time"
)

var (
	sqrDirections = []Cube{
		NewCube(+1, 0), NewCube(0, -1), NewCube(-1, 0), NewCube(0, +1),
	}
	sqrDiagonals = []Cube{
		NewCube(-1, -1), NewCube(-1, +1), NewCube(+1, +1), NewCube(+1, -1),
	}
)

// SqrGrid is a grid of axis aligned squares. q is the column along world x, r is the row along world z. The third
// coordinate s is derived and only kept to share the cell store and hash format with hex grids.
type SqrGrid[T any] struct {
	baseGrid[T]
}

func NewSqrGrid[T any](cellSize float64) *SqrGrid[T] {
	g := &SqrGrid[T]{
		baseGrid: newBaseGrid[T](ShapeSqr, cellSize, []Layout{LayoutRectangle}, sqrDirections, sqrDiagonals),
	}
	g.updateDerivedValues()
	return g
}

func (g *SqrGrid[T]) updateDerivedValues() {
	half := g.cellSize / 2
	outline := common.CellExtent{}.ToPolygon(g.cellSize, g.cellSize)[0]

	g.cellShape = make(orb.Ring, len(outline))
	for i, point := range outline {
		g.cellShape[i] = orb.Point{point.X() - half, point.Y() - half}
	}
}

func (g *SqrGrid[T]) cubeToPixel(c Cube, height float64) common.Vec3 {
	return common.Vec3{
		X: float64(c.Q) * g.cellSize,
		Y: height,
		Z: float64(c.R) * g.cellSize,
	}
}

func (g *SqrGrid[T]) CellToPixel(cell *Cell[T]) common.Vec3 {
	return g.cubeToPixel(cell.Cube(), cell.Height)
}

func (g *SqrGrid[T]) PixelToCell(pos common.Vec3) Cube {
	q := int(roundHalfUp(pos.X / g.cellSize))
	r := int(roundHalfUp(pos.Z / g.cellSize))
	return NewCube(q, r)
}

func (g *SqrGrid[T]) GetCellAt(pos common.Vec3) (*Cell[T], bool) {
	return g.GetCell(g.PixelToCell(pos))
}

// Distance is the chessboard distance plus b.Height - a.Height.
func (g *SqrGrid[T]) Distance(a *Cell[T], b *Cell[T]) float64 {
	d := max(abs(a.Q-b.Q), abs(a.R-b.R))
	return float64(d) + (b.Height - a.Height)
}

// GenerateGrid adds all (2·extent+1)² cells with column and row in [-extent, extent]. Existing cells are kept.
func (g *SqrGrid[T]) GenerateGrid(layout Layout, extent int) error {
	if g.disposed {
		return errors.Wrap(ErrDisposed, "Unable to generate square grid")
	}
	if extent < 0 {
		return errors.Wrapf(ErrInvalidExtent, "Unable to generate square grid with extent %d", extent)
	}
	layout, err := g.resolveLayout(layout)
	if err != nil {
		return err
	}

	generationStartTime := time.Now()
	g.layout = layout
	g.extent = extent

	added := 0
	for _, index := range common.NewSquareExtent(extent).GetCellIndices() {
		if _, ok := g.Add(NewCell[T](index.X(), index.Y())); ok {
			added++
		}
	}
	g.autogenerated = true

	sigolo.Debugf("Generated %s square cells (layout=%s, extent=%d) in %s", humanize.Comma(int64(added)), layout, extent, time.Since(generationStartTime))

	return nil
}

func (g *SqrGrid[T]) GenerateTiles(settings TileSettings) []*Tile {
	return g.generateTiles(settings, g.CellToPixel)
}

func (g *SqrGrid[T]) GenerateTile(cell *Cell[T], scale float64, material any) *Tile {
	if cell == nil {
		return nil
	}
	return g.generateTile(cell, scale, material, g.CellToPixel(cell))
}

func (g *SqrGrid[T]) CellPolygon(cell *Cell[T]) orb.Polygon {
	return orb.Polygon{g.placeOutline(g.CellToPixel(cell))}
}

func (g *SqrGrid[T]) Overlay(extent int) []orb.Ring {
	if g.disposed || extent < 0 {
		return []orb.Ring{}
	}

	indices := common.NewSquareExtent(extent).GetCellIndices()
	rings := make([]orb.Ring, len(indices))
	for i, index := range indices {
		rings[i] = g.placeOutline(g.cubeToPixel(NewCube(index.X(), index.Y()), 0))
	}
	return rings
}

func (g *SqrGrid[T]) FromJSON(data *GridJSON[T]) error {
	err := g.fromJSON(data)
	if err != nil {
		return err
	}
	g.updateDerivedValues()
	return nil
}
