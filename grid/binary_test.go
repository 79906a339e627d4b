package grid

import (
	"encoding/binary"
	"math"
	"testing"
	"tilegrid/util"
)

func TestEncodeDecodeCells(t *testing.T) {
	// Arrange
	grid := NewHexGrid[terrain](1)
	err := grid.GenerateGrid(LayoutHexagon, 1)
	util.AssertNil(t, err)
	cell, _ := grid.GetCell(NewCube(-1, 0))
	cell.Height = -3.25
	cell.Walkable = false
	cell.Payload = terrain{Kind: "swamp", Moist: true}
	records := grid.ToJSON().Cells

	// Act
	data, err := EncodeCells(records)
	util.AssertNil(t, err)
	decoded, err := DecodeCells[terrain](data)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, records, decoded)
}

func TestEncodeCells_layout(t *testing.T) {
	// Arrange
	cell := NewCell[int](-2, 5)
	cell.Height = 1.5
	cell.Payload = 42
	records := []CellRecord[int]{NewCellRecord(cell)}

	// Act
	data, err := EncodeCells(records)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, uint32(1), binary.LittleEndian.Uint32(data[0:]))
	util.AssertEqual(t, int32(-2), int32(binary.LittleEndian.Uint32(data[4:])))
	util.AssertEqual(t, int32(5), int32(binary.LittleEndian.Uint32(data[8:])))
	util.AssertEqual(t, int32(-3), int32(binary.LittleEndian.Uint32(data[12:])))
	util.AssertEqual(t, 1.5, math.Float64frombits(binary.LittleEndian.Uint64(data[16:])))
	util.AssertEqual(t, byte(1), data[24])
	util.AssertEqual(t, uint32(2), binary.LittleEndian.Uint32(data[25:]))
	util.AssertEqual(t, "42", string(data[29:31]))
	util.AssertEqual(t, 31, len(data))
}

func TestEncodeCells_invalidRecord(t *testing.T) {
	// Arrange
	q, r, s := 1, 1, 1
	height := 0.0
	walkable := true
	records := []CellRecord[string]{{Q: &q, R: &r, S: &s, Height: &height, Walkable: &walkable}}

	// Act
	data, err := EncodeCells(records)

	// Assert
	util.AssertNil(t, data)
	util.AssertErrorIs(t, ErrInvalidCell, err)
}

func TestDecodeCells_truncated(t *testing.T) {
	// Arrange
	data, err := EncodeCells([]CellRecord[string]{NewCellRecord(NewCell[string](1, 2))})
	util.AssertNil(t, err)

	// Act
	records, err := DecodeCells[string](data[:len(data)-3])

	// Assert
	util.AssertNil(t, records)
	util.AssertErrorIs(t, ErrMalformedBinary, err)
}

func TestDecodeCells_trailingBytes(t *testing.T) {
	// Arrange
	data, err := EncodeCells([]CellRecord[string]{NewCellRecord(NewCell[string](1, 2))})
	util.AssertNil(t, err)

	// Act
	records, err := DecodeCells[string](append(data, 0, 0))

	// Assert
	util.AssertNil(t, records)
	util.AssertErrorIs(t, ErrMalformedBinary, err)
}

func TestDecodeCells_invalidCoordinates(t *testing.T) {
	// Arrange
	data, err := EncodeCells([]CellRecord[string]{NewCellRecord(NewCell[string](1, 2))})
	util.AssertNil(t, err)
	binary.LittleEndian.PutUint32(data[12:], uint32(7))

	// Act
	records, err := DecodeCells[string](data)

	// Assert
	util.AssertNil(t, records)
	util.AssertErrorIs(t, ErrInvalidCell, err)
}
