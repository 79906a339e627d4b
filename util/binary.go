package util

import (
	"encoding/binary"
	"github.com/pkg/errors"
	"math"
	"reflect"
)

type Datatype int

const (
	DatatypeByte Datatype = iota
	DatatypeInt16
	DatatypeInt24
	DatatypeInt32
	DatatypeInt64
	DatatypeFloat32
	DatatypeFloat64
)

// byteSize returns the amount of bytes a single value of this datatype occupies.
func (d Datatype) byteSize() int {
	switch d {
	case DatatypeByte:
		return 1
	case DatatypeInt16:
		return 2
	case DatatypeInt24:
		return 3
	case DatatypeInt32, DatatypeFloat32:
		return 4
	case DatatypeInt64, DatatypeFloat64:
		return 8
	}
	return 0
}

type BinaryItem interface {
	Write(object any, data []byte, index int) (int, error)
	Read(object any, data []byte, index int) (int, error)

	// Size returns the amount of bytes the given object needs for this item.
	Size(object any) int
}

type BinarySchema struct {
	Items []BinaryItem // All items of this object schema. They are written and read in the given order.
}

func (b *BinarySchema) Write(object any, data []byte, index int) (int, error) {
	var err error

	for _, item := range b.Items {
		index, err = item.Write(object, data, index)
		if err != nil {
			return -1, err
		}
	}

	return index, nil
}

// Read fills the given object, which must be a pointer to a struct, with the data starting at the given index.
func (b *BinarySchema) Read(object any, data []byte, index int) (int, error) {
	var err error

	for _, item := range b.Items {
		index, err = item.Read(object, data, index)
		if err != nil {
			return -1, err
		}
	}

	return index, nil
}

func (b *BinarySchema) Size(object any) int {
	size := 0
	for _, item := range b.Items {
		size += item.Size(object)
	}
	return size
}

type BinaryDataItem struct {
	FieldName  string   // Name of the golang struct field.
	BinaryType Datatype // Type this field should be stored to. This has to be compatible with the FieldType.
}

func (b *BinaryDataItem) Write(object any, data []byte, index int) (int, error) {
	field := reflect.Indirect(reflect.ValueOf(object)).FieldByName(b.FieldName)
	if !field.IsValid() {
		return -1, errors.Errorf("Field %s does not exist on object %v", b.FieldName, object)
	}
	return writeBinaryValue(b.BinaryType, b.FieldName, field, data, index)
}

func (b *BinaryDataItem) Read(object any, data []byte, index int) (int, error) {
	field := reflect.Indirect(reflect.ValueOf(object)).FieldByName(b.FieldName)
	if !field.IsValid() || !field.CanSet() {
		return -1, errors.Errorf("Field %s does not exist or is not settable on object %v", b.FieldName, object)
	}
	return readBinaryValue(b.BinaryType, b.FieldName, field, data, index)
}

func (b *BinaryDataItem) Size(object any) int {
	return b.BinaryType.byteSize()
}

// BinaryRawCollectionItem represents the simple schema for array of e.g. integers. It also stores the size of the array as 32 bit integer.
type BinaryRawCollectionItem struct {
	FieldName  string   // Name of the golang struct slice.
	BinaryType Datatype // Type this field should be stored to. This has to be compatible with the FieldType.
}

func (b *BinaryRawCollectionItem) Write(object any, data []byte, index int) (int, error) {
	collection, err := getCollectionField(object, b.FieldName, index)
	if err != nil {
		return -1, err
	}

	binary.LittleEndian.PutUint32(data[index:], uint32(collection.Len()))
	index += 4

	for i := 0; i < collection.Len(); i++ {
		index, err = writeBinaryValue(b.BinaryType, b.FieldName, collection.Index(i), data, index)
		if err != nil {
			return -1, err
		}
	}

	return index, nil
}

func (b *BinaryRawCollectionItem) Read(object any, data []byte, index int) (int, error) {
	collection, err := getCollectionField(object, b.FieldName, index)
	if err != nil {
		return -1, err
	}

	length, index, err := readCollectionLength(data, index, b.BinaryType.byteSize())
	if err != nil {
		return -1, errors.Wrapf(err, "Unable to read collection %s", b.FieldName)
	}

	slice := reflect.MakeSlice(collection.Type(), length, length)
	collection.Set(slice)

	for i := 0; i < length; i++ {
		index, err = readBinaryValue(b.BinaryType, b.FieldName, slice.Index(i), data, index)
		if err != nil {
			return -1, err
		}
	}

	return index, nil
}

func (b *BinaryRawCollectionItem) Size(object any) int {
	collection := reflect.Indirect(reflect.ValueOf(object)).FieldByName(b.FieldName)
	return 4 + collection.Len()*b.BinaryType.byteSize()
}

// BinaryCollectionItem represents the simple schema for array of structs.
type BinaryCollectionItem struct {
	FieldName  string       // Name of the golang struct slice.
	ItemSchema BinarySchema // Schema of the item in this collection
}

func (b *BinaryCollectionItem) Write(object any, data []byte, index int) (int, error) {
	collection, err := getCollectionField(object, b.FieldName, index)
	if err != nil {
		return -1, err
	}

	binary.LittleEndian.PutUint32(data[index:], uint32(collection.Len()))
	index += 4

	for i := 0; i < collection.Len(); i++ {
		index, err = b.ItemSchema.Write(collection.Index(i).Interface(), data, index)
		if err != nil {
			return -1, err
		}
	}

	return index, nil
}

func (b *BinaryCollectionItem) Read(object any, data []byte, index int) (int, error) {
	collection, err := getCollectionField(object, b.FieldName, index)
	if err != nil {
		return -1, err
	}

	// Every item has at least one byte, which limits the length to the remaining data.
	length, index, err := readCollectionLength(data, index, 1)
	if err != nil {
		return -1, errors.Wrapf(err, "Unable to read collection %s", b.FieldName)
	}

	slice := reflect.MakeSlice(collection.Type(), length, length)
	collection.Set(slice)

	for i := 0; i < length; i++ {
		index, err = b.ItemSchema.Read(slice.Index(i).Addr().Interface(), data, index)
		if err != nil {
			return -1, err
		}
	}

	return index, nil
}

func (b *BinaryCollectionItem) Size(object any) int {
	collection := reflect.Indirect(reflect.ValueOf(object)).FieldByName(b.FieldName)
	size := 4
	for i := 0; i < collection.Len(); i++ {
		size += b.ItemSchema.Size(collection.Index(i).Interface())
	}
	return size
}

func getCollectionField(object any, fieldName string, index int) (reflect.Value, error) {
	field := reflect.Indirect(reflect.ValueOf(object)).FieldByName(fieldName)
	if field.Kind() != reflect.Slice && field.Kind() != reflect.Array {
		return field, errors.Errorf("Unsupported type given to collection item (type=%v, index=%d, object=%v). Only slices and array are supported.", field, index, object)
	}
	return field, nil
}

func readCollectionLength(data []byte, index int, minItemSize int) (int, int, error) {
	if index+4 > len(data) {
		return -1, -1, errors.Errorf("Data too short to contain collection length at index %d", index)
	}
	length := int(binary.LittleEndian.Uint32(data[index:]))
	index += 4

	if minItemSize > 0 && length*minItemSize > len(data)-index {
		return -1, -1, errors.Errorf("Collection length %d at index %d exceeds remaining data of %d bytes", length, index-4, len(data)-index)
	}
	return length, index, nil
}

func writeBinaryValue(binaryType Datatype, fieldName string, value reflect.Value, data []byte, index int) (int, error) {
	if index+binaryType.byteSize() > len(data) {
		return -1, errors.Errorf("Data too short to write field %s at index %d", fieldName, index)
	}

	switch binaryType {
	case DatatypeByte:
		data[index] = byte(getUint64FromValue(value))
	case DatatypeInt16:
		binary.LittleEndian.PutUint16(data[index:], uint16(getUint64FromValue(value)))
	case DatatypeInt24:
		v := getUint64FromValue(value)
		data[index] = byte(v)
		data[index+1] = byte(v >> 8)
		data[index+2] = byte(v >> 16)
	case DatatypeInt32:
		binary.LittleEndian.PutUint32(data[index:], uint32(getUint64FromValue(value)))
	case DatatypeInt64:
		binary.LittleEndian.PutUint64(data[index:], getUint64FromValue(value))
	case DatatypeFloat32:
		binary.LittleEndian.PutUint32(data[index:], math.Float32bits(float32(value.Float())))
	case DatatypeFloat64:
		binary.LittleEndian.PutUint64(data[index:], math.Float64bits(value.Float()))
	default:
		return -1, errors.Errorf("Unsupported datatype %d for field %s", binaryType, fieldName)
	}
	return index + binaryType.byteSize(), nil
}

// readBinaryValue sets the value according to its own kind. Signed integer fields get sign-extended values, which
// allows negative coordinates to survive a write-read cycle with DatatypeInt16, DatatypeInt32 and DatatypeInt64.
func readBinaryValue(binaryType Datatype, fieldName string, value reflect.Value, data []byte, index int) (int, error) {
	if index+binaryType.byteSize() > len(data) {
		return -1, errors.Errorf("Data too short to read field %s at index %d", fieldName, index)
	}

	var raw uint64
	var signed int64
	isFloat := false
	var floatValue float64

	switch binaryType {
	case DatatypeByte:
		raw = uint64(data[index])
		signed = int64(data[index])
	case DatatypeInt16:
		v := binary.LittleEndian.Uint16(data[index:])
		raw = uint64(v)
		signed = int64(int16(v))
	case DatatypeInt24:
		d := data[index:]
		raw = uint64(uint32(d[0]) | uint32(d[1])<<8 | uint32(d[2])<<16)
		signed = int64(raw)
	case DatatypeInt32:
		v := binary.LittleEndian.Uint32(data[index:])
		raw = uint64(v)
		signed = int64(int32(v))
	case DatatypeInt64:
		raw = binary.LittleEndian.Uint64(data[index:])
		signed = int64(raw)
	case DatatypeFloat32:
		isFloat = true
		floatValue = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[index:])))
	case DatatypeFloat64:
		isFloat = true
		floatValue = math.Float64frombits(binary.LittleEndian.Uint64(data[index:]))
	default:
		return -1, errors.Errorf("Unsupported datatype %d for field %s", binaryType, fieldName)
	}

	if isFloat && value.Kind() != reflect.Float32 && value.Kind() != reflect.Float64 {
		return -1, errors.Errorf("Cannot read float datatype %d into non-float field %s", binaryType, fieldName)
	}

	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		value.SetInt(signed)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		value.SetUint(raw)
	case reflect.Float32, reflect.Float64:
		if !isFloat {
			return -1, errors.Errorf("Cannot read integer datatype %d into float field %s", binaryType, fieldName)
		}
		value.SetFloat(floatValue)
	case reflect.Bool:
		value.SetBool(raw != 0)
	default:
		return -1, errors.Errorf("Unsupported field kind %s for field %s", value.Kind(), fieldName)
	}

	return index + binaryType.byteSize(), nil
}

func getUint64FromValue(value reflect.Value) uint64 {
	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(value.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.Uint()
	case reflect.Bool:
		if value.Bool() {
			return 1
		}
		return 0
	}
	panic("Unsupported value type " + value.Kind().String() + " to convert to uint.")
}
