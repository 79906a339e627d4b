package grid

import "fmt"

// Cube is a position or direction vector in cube coordinates. Valid positions satisfy Q+R+S == 0.
type Cube struct {
	Q int `json:"q"`
	R int `json:"r"`
	S int `json:"s"`
}

// NewCube creates a cube coordinate from the two axial coordinates and derives the third one.
func NewCube(q int, r int) Cube {
	return Cube{Q: q, R: r, S: -q - r}
}

func (c Cube) Add(other Cube) Cube {
	return Cube{Q: c.Q + other.Q, R: c.R + other.R, S: c.S + other.S}
}

func (c Cube) IsValid() bool {
	return c.Q+c.R+c.S == 0
}

func (c Cube) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.Q, c.R, c.S)
}

// Cell is a single position on the grid together with its state. The payload T carries application specific data and
// is serialized as it is.
//
// Cost, Priority, Visited and Parent are scratch fields for external pathfinders. The grid never reads them, it only
// resets them in ClearPath.
type Cell[T any] struct {
	Q int
	R int
	S int

	Height   float64
	Walkable bool
	Payload  T

	// Handle of the last tile generated for this cell, 0 when there is none. The tile itself is owned by whoever
	// called GenerateTile(s).
	Tile TileID

	Cost     float64
	Priority float64
	Visited  bool
	Parent   string // Hash of the parent cell, "" when there is none.
}

// NewCell creates a walkable cell at the given axial coordinates. The third cube coordinate is derived.
func NewCell[T any](q int, r int) *Cell[T] {
	return &Cell[T]{
		Q:        q,
		R:        r,
		S:        -q - r,
		Walkable: true,
	}
}

// NewCellAt creates a walkable cell at the given cube coordinate.
func NewCellAt[T any](c Cube) *Cell[T] {
	return &Cell[T]{
		Q:        c.Q,
		R:        c.R,
		S:        c.S,
		Walkable: true,
	}
}

// Set overwrites the coordinates. The caller is responsible for q+r+s == 0.
func (c *Cell[T]) Set(q int, r int, s int) *Cell[T] {
	c.Q = q
	c.R = r
	c.S = s
	return c
}

// Copy copies coordinates and all state of the other cell into this one. The payload is copied by assignment.
func (c *Cell[T]) Copy(other *Cell[T]) *Cell[T] {
	*c = *other
	return c
}

// Add moves the cell by the given vector, e.g. one of the neighbor directions.
func (c *Cell[T]) Add(vector Cube) *Cell[T] {
	c.Q += vector.Q
	c.R += vector.R
	c.S += vector.S
	return c
}

func (c *Cell[T]) ResetPath() {
	c.Cost = 0
	c.Priority = 0
	c.Visited = false
	c.Parent = ""
}

func (c *Cell[T]) Cube() Cube {
	return Cube{Q: c.Q, R: c.R, S: c.S}
}

func (c *Cell[T]) String() string {
	return fmt.Sprintf("Cell(q=%d, r=%d, s=%d, height=%g, walkable=%t)", c.Q, c.R, c.S, c.Height, c.Walkable)
}
