package mesh

import (
	"fmt"

	"github.com/samcharles93/meshdata/pkg/strided"
)

// IndexData describes where the indices of a mesh live. It only carries a
// view; the buffer itself is passed to the container separately.
type IndexData struct {
	typ  IndexType
	data []byte
}

// NewIndexData describes data as a contiguous run of typ indices.
func NewIndexData(typ IndexType, data []byte) (IndexData, error) {
	size := typ.Size()
	if size == 0 {
		return IndexData{}, fmt.Errorf("%w: %v", ErrInvalidIndexType, typ)
	}
	if len(data)%size != 0 {
		return IndexData{}, fmt.Errorf("%w: %d bytes is not a multiple of %v size %d",
			ErrSizeMismatch, len(data), typ, size)
	}
	return IndexData{typ: typ, data: data}, nil
}

// IndexDataFromView picks the index type from the inner extent of v: 1, 2
// or 4 bytes. The view must be contiguous.
func IndexDataFromView(v strided.View2D) (IndexData, error) {
	var typ IndexType
	switch v.Size()[1] {
	case 1:
		typ = IndexUnsignedByte
	case 2:
		typ = IndexUnsignedShort
	case 4:
		typ = IndexUnsignedInt
	default:
		return IndexData{}, fmt.Errorf("%w: expected index type size 1, 2 or 4 but got %d",
			ErrInvalidIndexType, v.Size()[1])
	}
	b, ok := v.AsContiguous()
	if !ok {
		return IndexData{}, fmt.Errorf("%w: index view with strides %v", ErrNotContiguous, v.Stride())
	}
	return IndexData{typ: typ, data: b}, nil
}

// Type returns the index type, zero for an empty descriptor.
func (d IndexData) Type() IndexType { return d.typ }

// Data returns the index bytes.
func (d IndexData) Data() []byte { return d.data }

// Count returns the number of indices.
func (d IndexData) Count() int {
	if d.typ == 0 {
		return 0
	}
	return len(d.data) / d.typ.Size()
}
