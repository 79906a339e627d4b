package grid

import (
	"encoding/json"
	"github.com/pkg/errors"
	"math"
	"tilegrid/util"
)

var (
	cellBinarySchema = util.BinarySchema{
		Items: []util.BinaryItem{
			&util.BinaryDataItem{FieldName: "Q", BinaryType: util.DatatypeInt32},
			&util.BinaryDataItem{FieldName: "R", BinaryType: util.DatatypeInt32},
			&util.BinaryDataItem{FieldName: "S", BinaryType: util.DatatypeInt32},
			&util.BinaryDataItem{FieldName: "Height", BinaryType: util.DatatypeFloat64},
			&util.BinaryDataItem{FieldName: "Walkable", BinaryType: util.DatatypeByte},
			&util.BinaryRawCollectionItem{FieldName: "Payload", BinaryType: util.DatatypeByte}, // JSON encoded
		},
	}

	cellsBinarySchema = util.BinarySchema{
		Items: []util.BinaryItem{
			&util.BinaryCollectionItem{FieldName: "Cells", ItemSchema: cellBinarySchema},
		},
	}
)

type CellBinaryDao struct {
	Q        int32
	R        int32
	S        int32
	Height   float64
	Walkable byte
	Payload  []byte
}

type cellsBinaryDao struct {
	Cells []CellBinaryDao
}

// EncodeCells writes the cell records into the compact binary format: the number of cells followed by q, r, s, height,
// walkable and the JSON encoded payload of each cell.
func EncodeCells[T any](records []CellRecord[T]) ([]byte, error) {
	dao := cellsBinaryDao{Cells: make([]CellBinaryDao, len(records))}

	for i, record := range records {
		err := record.Validate()
		if err != nil {
			return nil, errors.Wrapf(err, "Unable to encode cell record at index %d", i)
		}
		if outOfInt32Range(*record.Q) || outOfInt32Range(*record.R) || outOfInt32Range(*record.S) {
			return nil, errors.Wrapf(ErrInvalidCell, "Coordinates of cell record at index %d exceed 32 bit", i)
		}

		payload, err := json.Marshal(record.Payload)
		if err != nil {
			return nil, errors.Wrapf(ErrPayloadEncoding, "Cell record at index %d: %s", i, err.Error())
		}

		var walkable byte
		if *record.Walkable {
			walkable = 1
		}

		dao.Cells[i] = CellBinaryDao{
			Q:        int32(*record.Q),
			R:        int32(*record.R),
			S:        int32(*record.S),
			Height:   *record.Height,
			Walkable: walkable,
			Payload:  payload,
		}
	}

	data := make([]byte, cellsBinarySchema.Size(dao))
	written, err := cellsBinarySchema.Write(dao, data, 0)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to write binary cell data")
	}
	if written != len(data) {
		util.LogFatalBug("Binary schema wrote %d bytes but computed a size of %d", written, len(data))
	}

	return data, nil
}

// DecodeCells reads cell records written by EncodeCells. Every record is validated, so the result can be loaded
// into a grid.
func DecodeCells[T any](data []byte) ([]CellRecord[T], error) {
	dao := cellsBinaryDao{}
	index, err := cellsBinarySchema.Read(&dao, data, 0)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedBinary, "%s", err.Error())
	}
	if index != len(data) {
		return nil, errors.Wrapf(ErrMalformedBinary, "%d trailing bytes after cell data", len(data)-index)
	}

	records := make([]CellRecord[T], len(dao.Cells))
	for i, cellDao := range dao.Cells {
		q, r, s := int(cellDao.Q), int(cellDao.R), int(cellDao.S)
		height := cellDao.Height
		walkable := cellDao.Walkable != 0

		record := CellRecord[T]{Q: &q, R: &r, S: &s, Height: &height, Walkable: &walkable}
		if len(cellDao.Payload) > 0 {
			err = json.Unmarshal(cellDao.Payload, &record.Payload)
			if err != nil {
				return nil, errors.Wrapf(ErrMalformedBinary, "Payload of cell %d: %s", i, err.Error())
			}
		}

		err = record.Validate()
		if err != nil {
			return nil, errors.Wrapf(err, "Invalid binary cell record at index %d", i)
		}

		records[i] = record
	}

	return records, nil
}

func outOfInt32Range(value int) bool {
	return value < math.MinInt32 || value > math.MaxInt32
}
