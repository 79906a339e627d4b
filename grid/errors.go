package grid

import "github.com/pkg/errors"

var (
	ErrUnknownShape    = errors.New("unknown cell shape")
	ErrUnknownLayout   = errors.New("unknown grid layout")
	ErrInvalidCellSize = errors.New("cell size must be greater than zero")
	ErrInvalidExtent   = errors.New("extent must not be negative")
	ErrInvalidCell     = errors.New("cell coordinates violate q+r+s=0")
	ErrMissingField    = errors.New("required field missing")
	ErrShapeMismatch   = errors.New("persisted cell shape does not match grid")
	ErrDisposed        = errors.New("grid has been disposed")
	ErrMalformedBinary = errors.New("malformed binary cell data")
	ErrPayloadEncoding = errors.New("unable to encode cell payload")
)
