package grid

import (
	"github.com/paulmach/orb"
	"math"
	"tilegrid/common"
)

// TileID is a non-owning handle from a cell to the last tile generated for it. 0 is never handed out.
type TileID uint64

type ExtrudeSettings struct {
	BevelEnabled   bool    `json:"bevelEnabled" yaml:"bevelEnabled"`
	BevelSegments  int     `json:"bevelSegments" yaml:"bevelSegments"`
	Steps          int     `json:"steps" yaml:"steps"`
	BevelSize      float64 `json:"bevelSize" yaml:"bevelSize"`
	BevelThickness float64 `json:"bevelThickness" yaml:"bevelThickness"`
}

func DefaultExtrudeSettings() ExtrudeSettings {
	return ExtrudeSettings{
		BevelEnabled:   true,
		BevelSegments:  1,
		Steps:          1,
		BevelSize:      0.5,
		BevelThickness: 0.5,
	}
}

type TileSettings struct {
	Scale    float64         `json:"scale" yaml:"scale"`
	Extrude  ExtrudeSettings `json:"extrude" yaml:"extrude"`
	Material any             `json:"-" yaml:"-"` // Opaque to the grid, handed through to the tiles.
}

func DefaultTileSettings() TileSettings {
	return TileSettings{
		Scale:   0.95,
		Extrude: DefaultExtrudeSettings(),
	}
}

// Geometry is the base outline of a cell extruded upwards by Depth. Geometries are shared between all tiles of the
// same height bucket and must therefore be treated as read-only.
type Geometry struct {
	Outline orb.Ring // Closed ring in the grid plane, X is world x and Y is world z.
	Depth   float64
	Extrude ExtrudeSettings
}

func newExtrudedGeometry(outline orb.Ring, depth float64, settings ExtrudeSettings) *Geometry {
	return &Geometry{
		Outline: outline.Clone(),
		Depth:   depth,
		Extrude: settings,
	}
}

// Bound returns the footprint of the geometry in the grid plane.
func (g *Geometry) Bound() orb.Bound {
	return g.Outline.Bound()
}

// Vertices returns the corners of the extruded prism: first the bottom ring at y=0, then the top ring at y=Depth. The
// closing point of the outline is not repeated.
func (g *Geometry) Vertices() []common.Vec3 {
	corners := g.Outline
	if len(corners) > 1 && corners[0] == corners[len(corners)-1] {
		corners = corners[:len(corners)-1]
	}

	vertices := make([]common.Vec3, 0, 2*len(corners))
	for _, y := range []float64{0, g.Depth} {
		for _, corner := range corners {
			vertices = append(vertices, common.Vec3{X: corner.X(), Y: y, Z: corner.Y()})
		}
	}
	return vertices
}

// Tile is a renderable descriptor of a cell. Tiles are owned by the caller of GenerateTile(s) and outlive grid
// disposal, only the shared Geometry must not be modified.
type Tile struct {
	ID       TileID
	CellKey  string // Hash of the cell this tile was generated for.
	Geometry *Geometry
	Material any
	Scale    float64
	Position common.Vec3
}

// heightBucket discretizes a cell height into the key of the geometry cache.
func heightBucket(height float64) int {
	return int(math.Round(math.Max(1, math.Abs(height))))
}
