package mesh

import (
	"errors"
	"fmt"
	"unsafe"
)

// Data is a mesh container. It is created by one of the constructors and is
// never partially valid: either every invariant holds or construction
// failed and nothing was built.
type Data struct {
	primitive   Primitive
	vertexCount int

	indexType   IndexType
	indexData   Storage
	indexOffset int
	indexSize   int

	vertexData Storage
	attributes []AttributeData
	// offsets holds the resolved byte offset of every attribute into
	// vertexData, including view-based ones.
	offsets []int

	importerState any
}

// Option configures a container at construction.
type Option func(*Data)

// WithImporterState attaches an opaque value identifying where the mesh
// came from. The container never looks at it.
func WithImporterState(state any) Option {
	return func(d *Data) { d.importerState = state }
}

// New creates an indexed or non-indexed mesh. indices must view memory
// inside indexData, or be the zero IndexData for a non-indexed mesh, and
// every attribute must lie inside vertexData. The vertex count is taken from
// the first attribute; a mesh without attributes must be indexed and gets a
// vertex count of zero.
func New(primitive Primitive, indexData Storage, indices IndexData, vertexData Storage, attributes []AttributeData, opts ...Option) (*Data, error) {
	if !primitive.valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrimitive, primitive)
	}
	if indexData.borrowed && indexData.flags&DataOwned != 0 {
		return nil, fmt.Errorf("%w: index data flags %v", ErrBorrowedOwned, indexData.flags)
	}
	if vertexData.borrowed && vertexData.flags&DataOwned != 0 {
		return nil, fmt.Errorf("%w: vertex data flags %v", ErrBorrowedOwned, vertexData.flags)
	}

	d := &Data{
		primitive:  primitive,
		indexType:  indices.typ,
		indexData:  indexData,
		vertexData: vertexData,
		attributes: attributes,
	}
	if len(attributes) == 0 {
		if indices.typ == 0 {
			return nil, fmt.Errorf("%w: no attributes and no indices", ErrNoVertexCount)
		}
	} else {
		d.vertexCount = attributes[0].vertexCount
	}

	if len(indices.data) == 0 {
		if len(indexData.data) != 0 {
			return nil, fmt.Errorf("%w: index data passed for a non-indexed mesh", ErrOutOfBounds)
		}
	} else {
		off, ok := containedOffset(indexData.data, indices.data, len(indices.data))
		if !ok {
			return nil, fmt.Errorf("%w: %d bytes of indices are not contained in %d bytes of index data",
				ErrOutOfBounds, len(indices.data), len(indexData.data))
		}
		d.indexOffset = off
		d.indexSize = len(indices.data)
	}

	d.offsets = make([]int, len(attributes))
	for i, a := range attributes {
		if a.format == 0 {
			return nil, fmt.Errorf("%w: attribute %d doesn't specify anything", ErrInvalidFormat, i)
		}
		if a.vertexCount != d.vertexCount {
			return nil, fmt.Errorf("%w: attribute %d has %d vertices but %d expected",
				ErrVertexCountMismatch, i, a.vertexCount, d.vertexCount)
		}
		span := a.span()
		if a.offsetOnly {
			if span > 0 && a.offset+span > len(vertexData.data) {
				return nil, fmt.Errorf("%w: offset attribute %d spans %d bytes but vertex data has only %d",
					ErrOutOfBounds, i, a.offset+span, len(vertexData.data))
			}
			d.offsets[i] = a.offset
			continue
		}
		off, ok := containedOffset(vertexData.data, a.data, span)
		if !ok {
			return nil, fmt.Errorf("%w: attribute %d (%d bytes) is not contained in %d bytes of vertex data",
				ErrOutOfBounds, i, span, len(vertexData.data))
		}
		d.offsets[i] = off
	}

	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// NewNonIndexed creates a mesh without an index buffer.
func NewNonIndexed(primitive Primitive, vertexData Storage, attributes []AttributeData, opts ...Option) (*Data, error) {
	return New(primitive, Owned(nil), IndexData{}, vertexData, attributes, opts...)
}

// NewIndexed creates an indexed mesh without attributes. Its vertex count
// is zero.
func NewIndexed(primitive Primitive, indexData Storage, indices IndexData, opts ...Option) (*Data, error) {
	if indices.typ == 0 {
		return nil, fmt.Errorf("%w: attributeless mesh needs indices", ErrNoVertexCount)
	}
	return New(primitive, indexData, indices, Owned(nil), nil, opts...)
}

// NewAttributeless creates a non-indexed mesh with no data at all, only a
// vertex count. Useful for procedurally generated geometry.
func NewAttributeless(primitive Primitive, vertexCount int, opts ...Option) (*Data, error) {
	if !primitive.valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrimitive, primitive)
	}
	if vertexCount < 0 {
		return nil, fmt.Errorf("%w: vertex count %d", ErrInvalidCount, vertexCount)
	}
	d := &Data{
		primitive:   primitive,
		vertexCount: vertexCount,
		indexData:   Owned(nil),
		vertexData:  Owned(nil),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// containedOffset returns the byte offset of sub inside buf, requiring span
// bytes of sub to fit. A zero span is always contained.
func containedOffset(buf, sub []byte, span int) (int, bool) {
	b := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	s := uintptr(unsafe.Pointer(unsafe.SliceData(sub)))
	inside := s >= b && s-b <= uintptr(len(buf))
	if span == 0 {
		if inside {
			return int(s - b), true
		}
		return 0, true
	}
	if !inside || buf == nil || uintptr(span) > uintptr(len(buf))-(s-b) {
		return 0, false
	}
	return int(s - b), true
}

// Move transfers the contents of d to a new container. d is left valid and
// empty: no indices, no attributes, zero vertices.
func (d *Data) Move() *Data {
	out := *d
	d.reset()
	return &out
}

// Close frees owned storage and empties the container. Borrowed storage is
// left alone. Calling Close again is a no-op.
func (d *Data) Close() error {
	err := errors.Join(d.indexData.Free(), d.vertexData.Free())
	d.reset()
	return err
}

func (d *Data) reset() {
	*d = Data{
		primitive:  d.primitive,
		indexData:  Owned(nil),
		vertexData: Owned(nil),
	}
}
