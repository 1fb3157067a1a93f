package mesh

import (
	"fmt"

	"github.com/samcharles93/meshdata/pkg/strided"
)

// AttributeData describes one vertex attribute: its role, its encoding and
// where its elements are. The location is either a view into memory or, for
// offset-only descriptors, a byte offset into whatever vertex buffer the
// container is later given.
type AttributeData struct {
	name        Attribute
	format      VertexFormat
	vertexCount int
	stride      int
	offsetOnly  bool
	offset      int
	data        []byte
}

func checkFormat(name Attribute, format VertexFormat) error {
	if !format.valid() {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, format)
	}
	if !name.Accepts(format) {
		return fmt.Errorf("%w: %v can't be %v", ErrIncompatibleFormat, name, format)
	}
	return nil
}

// NewAttributeData describes the elements of v as name encoded with format.
func NewAttributeData(name Attribute, format VertexFormat, v strided.View1D) (AttributeData, error) {
	if err := checkFormat(name, format); err != nil {
		return AttributeData{}, err
	}
	size := format.Size()
	if v.Stride() < size {
		return AttributeData{}, fmt.Errorf("%w: stride %d smaller than %v size %d",
			ErrInvalidStride, v.Stride(), format, size)
	}
	if span := v.Span(size); span > len(v.Bytes()) {
		return AttributeData{}, fmt.Errorf("%w: %d elements of %v need %d bytes but view has %d",
			ErrOutOfBounds, v.Len(), format, span, len(v.Bytes()))
	}
	return AttributeData{
		name:        name,
		format:      format,
		vertexCount: v.Len(),
		stride:      v.Stride(),
		data:        v.Bytes(),
	}, nil
}

// NewAttributeData2D describes a rows×bytes view. The inner extent must be
// the element size of format and its bytes adjacent.
func NewAttributeData2D(name Attribute, format VertexFormat, v strided.View2D) (AttributeData, error) {
	if err := checkFormat(name, format); err != nil {
		return AttributeData{}, err
	}
	if size := format.Size(); v.Size()[1] != size {
		return AttributeData{}, fmt.Errorf("%w: second view dimension size %d doesn't match %v size %d",
			ErrSizeMismatch, v.Size()[1], format, size)
	}
	if !v.IsContiguous(1) {
		return AttributeData{}, fmt.Errorf("%w: second view dimension stride %d", ErrNotContiguous, v.Stride()[1])
	}
	return AttributeData{
		name:        name,
		format:      format,
		vertexCount: v.Size()[0],
		stride:      v.Stride()[0],
		data:        v.Bytes(),
	}, nil
}

// NewOffsetAttributeData describes vertexCount elements starting offset
// bytes into the vertex buffer of the container it is passed to.
func NewOffsetAttributeData(name Attribute, format VertexFormat, offset, vertexCount, stride int) (AttributeData, error) {
	if err := checkFormat(name, format); err != nil {
		return AttributeData{}, err
	}
	if offset < 0 || vertexCount < 0 {
		return AttributeData{}, fmt.Errorf("%w: offset %d, vertex count %d", ErrInvalidCount, offset, vertexCount)
	}
	if stride < format.Size() {
		return AttributeData{}, fmt.Errorf("%w: stride %d smaller than %v size %d",
			ErrInvalidStride, stride, format, format.Size())
	}
	return AttributeData{
		name:        name,
		format:      format,
		vertexCount: vertexCount,
		stride:      stride,
		offsetOnly:  true,
		offset:      offset,
	}, nil
}

func (a AttributeData) Name() Attribute      { return a.name }
func (a AttributeData) Format() VertexFormat { return a.format }
func (a AttributeData) VertexCount() int     { return a.vertexCount }
func (a AttributeData) Stride() int          { return a.stride }

// IsOffsetOnly reports whether the descriptor holds an offset instead of a
// view.
func (a AttributeData) IsOffsetOnly() bool { return a.offsetOnly }

// Offset returns the byte offset of an offset-only descriptor, 0 otherwise.
func (a AttributeData) Offset() int { return a.offset }

// Data returns the viewed bytes starting at the first element, or nil for an
// offset-only descriptor.
func (a AttributeData) Data() []byte { return a.data }

// span is the number of bytes between the first byte of the first element
// and the last byte of the last one.
func (a AttributeData) span() int {
	if a.vertexCount == 0 {
		return 0
	}
	return (a.vertexCount-1)*a.stride + a.format.Size()
}
