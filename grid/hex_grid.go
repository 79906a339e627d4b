package grid

import (
	"github.com/dustin/go-humanize"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"math"
	"tilegrid/common"
	"time"
)

const (
	sqrt3     = 1.7320508075688772
	twoThirds = 2.0 / 3.0
)

var (
	hexDirections = []Cube{
		{+1, -1, 0}, {+1, 0, -1}, {0, +1, -1},
		{-1, +1, 0}, {-1, 0, +1}, {0, -1, +1},
	}
	hexDiagonals = []Cube{
		{+2, -1, -1}, {+1, +1, -2}, {-1, +2, -1},
		{-2, +1, +1}, {-1, -1, +2}, {+1, -2, +1},
	}
)

// HexGrid is a grid of flat top hexagons in cube coordinates. See https://www.redblobgames.com/grids/hexagons/ for the
// math behind it.
type HexGrid[T any] struct {
	baseGrid[T]

	cellWidth  float64 // Corner to corner
	cellLength float64 // Edge to edge
}

func NewHexGrid[T any](cellSize float64) *HexGrid[T] {
	g := &HexGrid[T]{
		baseGrid: newBaseGrid[T](ShapeHex, cellSize, []Layout{LayoutHexagon, LayoutParallelogram}, hexDirections, hexDiagonals),
	}
	g.updateDerivedValues()
	return g
}

func (g *HexGrid[T]) updateDerivedValues() {
	g.cellWidth = g.cellSize * 2
	g.cellLength = (sqrt3 * 0.5) * g.cellWidth

	g.cellShape = make(orb.Ring, 0, 7)
	for i := 0; i < 6; i++ {
		angle := (2 * math.Pi / 6) * float64(i)
		g.cellShape = append(g.cellShape, orb.Point{g.cellSize * math.Cos(angle), g.cellSize * math.Sin(angle)})
	}
	g.cellShape = append(g.cellShape, g.cellShape[0])
}

func (g *HexGrid[T]) cubeToPixel(c Cube, height float64) common.Vec3 {
	return common.Vec3{
		X: float64(c.Q) * g.cellWidth * 0.75,
		Y: height,
		Z: -(float64(c.S-c.R) * g.cellLength * 0.5),
	}
}

func (g *HexGrid[T]) CellToPixel(cell *Cell[T]) common.Vec3 {
	return g.cubeToPixel(cell.Cube(), cell.Height)
}

func (g *HexGrid[T]) PixelToCell(pos common.Vec3) Cube {
	q := pos.X * (twoThirds / g.cellSize)
	r := ((-pos.X / 3) + (sqrt3/3)*pos.Z) / g.cellSize
	return cubeRound(q, r, -q-r)
}

func (g *HexGrid[T]) GetCellAt(pos common.Vec3) (*Cell[T], bool) {
	return g.GetCell(g.PixelToCell(pos))
}

// cubeRound rounds fractional cube coordinates to the nearest hexagon. The coordinate with the largest rounding error
// is recomputed from the other two, so the result satisfies q+r+s == 0. Ties prefer recomputing s, then r.
func cubeRound(q float64, r float64, s float64) Cube {
	rq := roundHalfUp(q)
	rr := roundHalfUp(r)
	rs := roundHalfUp(s)

	qDiff := math.Abs(rq - q)
	rDiff := math.Abs(rr - r)
	sDiff := math.Abs(rs - s)

	if qDiff > rDiff && qDiff > sDiff {
		rq = -rr - rs
	} else if rDiff > sDiff {
		rr = -rq - rs
	} else {
		rs = -rq - rr
	}

	return Cube{Q: int(rq), R: int(rr), S: int(rs)}
}

func (g *HexGrid[T]) Distance(a *Cell[T], b *Cell[T]) float64 {
	d := max(abs(a.Q-b.Q), abs(a.R-b.R), abs(a.S-b.S))
	return float64(d) + (b.Height - a.Height)
}

// GenerateGrid adds all cells of the layout. The hexagon layout creates 3·extent²+3·extent+1 cells around the origin,
// the parallelogram layout 2·extent² cells with every row shifted by half of its q index. Existing cells are kept.
func (g *HexGrid[T]) GenerateGrid(layout Layout, extent int) error {
	if g.disposed {
		return errors.Wrap(ErrDisposed, "Unable to generate hex grid")
	}
	if extent < 0 {
		return errors.Wrapf(ErrInvalidExtent, "Unable to generate hex grid with extent %d", extent)
	}
	layout, err := g.resolveLayout(layout)
	if err != nil {
		return err
	}

	generationStartTime := time.Now()
	g.layout = layout
	g.extent = extent

	added := 0
	for _, c := range hexLayoutCubes(layout, extent) {
		if _, ok := g.Add(NewCellAt[T](c)); ok {
			added++
		}
	}
	g.autogenerated = true

	sigolo.Debugf("Generated %s hex cells (layout=%s, extent=%d) in %s", humanize.Comma(int64(added)), layout, extent, time.Since(generationStartTime))

	return nil
}

func hexLayoutCubes(layout Layout, extent int) []Cube {
	var cubes []Cube

	switch layout {
	case LayoutParallelogram:
		cubes = make([]Cube, 0, 2*extent*extent)
		for q := -extent; q < extent; q++ {
			rOffset := q >> 1
			for r := -rOffset; r < extent-rOffset; r++ {
				cubes = append(cubes, NewCube(q, r))
			}
		}
	case LayoutHexagon:
		cubes = make([]Cube, 0, 3*extent*extent+3*extent+1)
		for x := -extent; x <= extent; x++ {
			for y := -extent; y <= extent; y++ {
				z := -x - y
				if abs(z) <= extent {
					cubes = append(cubes, Cube{Q: x, R: y, S: z})
				}
			}
		}
	}

	return cubes
}

func (g *HexGrid[T]) GenerateTiles(settings TileSettings) []*Tile {
	return g.generateTiles(settings, g.CellToPixel)
}

func (g *HexGrid[T]) GenerateTile(cell *Cell[T], scale float64, material any) *Tile {
	if cell == nil {
		return nil
	}
	return g.generateTile(cell, scale, material, g.CellToPixel(cell))
}

func (g *HexGrid[T]) CellPolygon(cell *Cell[T]) orb.Polygon {
	return orb.Polygon{g.placeOutline(g.CellToPixel(cell))}
}

// Overlay returns the outline of every hexagon within the extent around the origin.
func (g *HexGrid[T]) Overlay(extent int) []orb.Ring {
	if g.disposed || extent < 0 {
		return []orb.Ring{}
	}

	cubes := hexLayoutCubes(LayoutHexagon, extent)
	rings := make([]orb.Ring, len(cubes))
	for i, c := range cubes {
		rings[i] = g.placeOutline(g.cubeToPixel(c, 0))
	}
	return rings
}

func (g *HexGrid[T]) FromJSON(data *GridJSON[T]) error {
	err := g.fromJSON(data)
	if err != nil {
		return err
	}
	g.updateDerivedValues()
	return nil
}
