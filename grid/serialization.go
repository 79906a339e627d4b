package grid

import (
	"encoding/json"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"io"
	"math"
	"sort"
)

// GridJSON is the persisted form of a grid. Derived values like hashes or the cell width are not part of it.
type GridJSON[T any] struct {
	CellShape       Shape            `json:"cellShape,omitempty"`
	Layout          Layout           `json:"layout,omitempty"`
	Extent          int              `json:"extent"`
	CellSize        float64          `json:"cellSize"`
	ExtrudeSettings *ExtrudeSettings `json:"extrudeSettings"`
	Autogenerated   bool             `json:"autogenerated"`
	Cells           []CellRecord[T]  `json:"cells"`
}

// CellRecord is the persisted form of a cell. All fields except the payload are required, which is why they are
// pointers: a missing field decodes to nil and fails validation.
type CellRecord[T any] struct {
	Q        *int     `json:"q"`
	R        *int     `json:"r"`
	S        *int     `json:"s"`
	Height   *float64 `json:"height"`
	Walkable *bool    `json:"walkable"`
	Payload  T        `json:"payload"`
}

func NewCellRecord[T any](cell *Cell[T]) CellRecord[T] {
	q, r, s := cell.Q, cell.R, cell.S
	height := cell.Height
	walkable := cell.Walkable
	return CellRecord[T]{
		Q:        &q,
		R:        &r,
		S:        &s,
		Height:   &height,
		Walkable: &walkable,
		Payload:  cell.Payload,
	}
}

// Validate checks the record without looking at any grid. The error wraps ErrMissingField or ErrInvalidCell.
func (r CellRecord[T]) Validate() error {
	missing := ""
	switch {
	case r.Q == nil:
		missing = "q"
	case r.R == nil:
		missing = "r"
	case r.S == nil:
		missing = "s"
	case r.Height == nil:
		missing = "height"
	case r.Walkable == nil:
		missing = "walkable"
	}
	if missing != "" {
		return errors.Wrapf(ErrMissingField, "Cell record has no field '%s'", missing)
	}

	if *r.Q+*r.R+*r.S != 0 {
		return errors.Wrapf(ErrInvalidCell, "Cell record (%d, %d, %d)", *r.Q, *r.R, *r.S)
	}
	if math.IsNaN(*r.Height) || math.IsInf(*r.Height, 0) {
		return errors.Wrapf(ErrInvalidCell, "Cell record (%d, %d, %d) has invalid height %f", *r.Q, *r.R, *r.S, *r.Height)
	}

	return nil
}

// toCell creates a new cell from a validated record.
func (r CellRecord[T]) toCell() *Cell[T] {
	return &Cell[T]{
		Q:        *r.Q,
		R:        *r.R,
		S:        *r.S,
		Height:   *r.Height,
		Walkable: *r.Walkable,
		Payload:  r.Payload,
	}
}

// Validate checks all scalar values and every cell record. It doesn't change anything.
func (d *GridJSON[T]) Validate() error {
	if d == nil {
		return errors.Wrap(ErrMissingField, "No grid data given")
	}
	if d.CellSize <= 0 || math.IsNaN(d.CellSize) || math.IsInf(d.CellSize, 0) {
		return errors.Wrapf(ErrInvalidCellSize, "Invalid cell size %f in grid data", d.CellSize)
	}
	if d.Extent < 0 {
		return errors.Wrapf(ErrInvalidExtent, "Invalid extent %d in grid data", d.Extent)
	}
	switch d.CellShape {
	case "", ShapeHex, ShapeSqr:
	default:
		return errors.Wrapf(ErrUnknownShape, "Unknown cell shape '%s' in grid data", d.CellShape)
	}

	for i, record := range d.Cells {
		err := record.Validate()
		if err != nil {
			return errors.Wrapf(err, "Invalid cell record at index %d", i)
		}
	}

	return nil
}

func (d *GridJSON[T]) Encode(writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(d)
	if err != nil {
		return errors.Wrap(err, "Unable to encode grid data")
	}
	return nil
}

func Decode[T any](reader io.Reader) (*GridJSON[T], error) {
	data := &GridJSON[T]{}
	err := json.NewDecoder(reader).Decode(data)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to decode grid data")
	}
	return data, nil
}

// NewFromJSON creates a grid of the persisted cell shape and loads the data into it.
func NewFromJSON[T any](data *GridJSON[T]) (GridIndex[T], error) {
	err := data.Validate()
	if err != nil {
		return nil, err
	}

	grid, err := New[T](Settings{CellShape: data.CellShape, Layout: data.Layout, CellSize: data.CellSize})
	if err != nil {
		return nil, err
	}

	err = grid.FromJSON(data)
	if err != nil {
		return nil, err
	}

	return grid, nil
}

// Load decodes persisted grid data and creates a grid from it.
func Load[T any](reader io.Reader) (GridIndex[T], error) {
	data, err := Decode[T](reader)
	if err != nil {
		return nil, err
	}
	return NewFromJSON[T](data)
}

func (g *baseGrid[T]) ToJSON() *GridJSON[T] {
	var extrudeSettings *ExtrudeSettings
	if g.extrudeSettings != nil {
		settings := *g.extrudeSettings
		extrudeSettings = &settings
	}

	data := &GridJSON[T]{
		CellShape:       g.shape,
		Layout:          g.layout,
		Extent:          g.extent,
		CellSize:        g.cellSize,
		ExtrudeSettings: extrudeSettings,
		Autogenerated:   g.autogenerated,
		Cells:           make([]CellRecord[T], 0, g.numCells),
	}

	for _, cell := range g.sortedCells() {
		data.Cells = append(data.Cells, NewCellRecord(cell))
	}

	return data
}

// sortedCells returns all cells ordered by q and then r. The store itself has no order, this just keeps persisted
// files stable.
func (g *baseGrid[T]) sortedCells() []*Cell[T] {
	cells := make([]*Cell[T], 0, g.numCells)
	for _, cell := range g.cells {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Q != cells[j].Q {
			return cells[i].Q < cells[j].Q
		}
		return cells[i].R < cells[j].R
	})
	return cells
}

// fromJSON validates the whole data first and only then replaces the state of the grid. A failing load leaves the
// grid untouched. Derived values of the concrete grid must be updated by the caller afterward.
func (g *baseGrid[T]) fromJSON(data *GridJSON[T]) error {
	if g.disposed {
		return errors.Wrap(ErrDisposed, "Unable to load grid data")
	}

	err := data.Validate()
	if err != nil {
		return err
	}
	if data.CellShape != "" && data.CellShape != g.shape {
		return errors.Wrapf(ErrShapeMismatch, "Unable to load %s data into %s grid", data.CellShape, g.shape)
	}
	layout, err := g.resolveLayout(data.Layout)
	if err != nil {
		return err
	}

	cells := make([]*Cell[T], len(data.Cells))
	for i, record := range data.Cells {
		cells[i] = record.toCell()
	}

	g.cells = make(map[string]*Cell[T], len(cells))
	g.numCells = 0
	g.layout = layout
	g.extent = data.Extent
	g.cellSize = data.CellSize
	g.autogenerated = data.Autogenerated
	g.extrudeSettings = nil
	if data.ExtrudeSettings != nil {
		settings := *data.ExtrudeSettings
		g.extrudeSettings = &settings
	}
	// Cached geometries were built for the old cell size and settings.
	g.geometryCache.clear()

	for _, cell := range cells {
		g.Add(cell)
	}

	sigolo.Debugf("Loaded %d of %d cell records into %s grid", g.numCells, len(data.Cells), g.shape)

	return nil
}
