// Package strided provides zero-copy strided views over raw bytes.
//
// A view never owns its memory. It records where the first element starts,
// how many elements there are and how many bytes separate consecutive
// elements, which is enough to address interleaved, padded or partially
// offset layouts without copying.
package strided

import (
	"errors"
	"fmt"
	"unsafe"
)

var (
	ErrInvalidStride = errors.New("strided: stride must be positive")
	ErrInvalidSize   = errors.New("strided: size must not be negative")
	ErrOutOfBounds   = errors.New("strided: view exceeds data")
)

// View1D is a type-erased one-dimensional view. Element i starts at byte
// i*Stride() of Bytes(); the element width is supplied by the caller.
type View1D struct {
	data   []byte
	size   int
	stride int
}

// New1D creates a view of size elements placed stride bytes apart. Only the
// start of the last element is checked against data, the caller knows the
// element width.
func New1D(data []byte, size, stride int) (View1D, error) {
	if size < 0 {
		return View1D{}, ErrInvalidSize
	}
	if stride <= 0 {
		return View1D{}, fmt.Errorf("%w: got %d", ErrInvalidStride, stride)
	}
	if size > 0 && (size-1)*stride >= len(data) {
		return View1D{}, fmt.Errorf("%w: element %d starts at byte %d but data has %d",
			ErrOutOfBounds, size-1, (size-1)*stride, len(data))
	}
	return View1D{data: data, size: size, stride: stride}, nil
}

// Len returns the number of elements.
func (v View1D) Len() int { return v.size }

// Stride returns the byte distance between consecutive elements.
func (v View1D) Stride() int { return v.stride }

// Bytes returns the data the view was created over, starting at element 0.
func (v View1D) Bytes() []byte { return v.data }

// Empty reports whether the view has no elements.
func (v View1D) Empty() bool { return v.size == 0 }

// Span returns the number of bytes covered by the view when each element is
// n bytes wide.
func (v View1D) Span(n int) int {
	if v.size == 0 {
		return 0
	}
	return (v.size-1)*v.stride + n
}

// Element returns the n bytes of element i.
func (v View1D) Element(i, n int) []byte {
	off := i * v.stride
	return v.data[off : off+n : off+n]
}

// View2D is a two-dimensional byte view. The first dimension walks elements,
// the second walks bytes inside one element.
type View2D struct {
	data   []byte
	size   [2]int
	stride [2]int
}

// New2D creates a view with the given extents and byte strides.
func New2D(data []byte, size, stride [2]int) (View2D, error) {
	if size[0] < 0 || size[1] < 0 {
		return View2D{}, ErrInvalidSize
	}
	if stride[0] <= 0 || stride[1] <= 0 {
		return View2D{}, fmt.Errorf("%w: got {%d, %d}", ErrInvalidStride, stride[0], stride[1])
	}
	if size[0] > 0 && size[1] > 0 {
		last := (size[0]-1)*stride[0] + (size[1]-1)*stride[1]
		if last >= len(data) {
			return View2D{}, fmt.Errorf("%w: last byte at %d but data has %d", ErrOutOfBounds, last, len(data))
		}
	}
	return View2D{data: data, size: size, stride: stride}, nil
}

// Contiguous2D views data as rows of cols packed bytes. It panics if data is
// shorter than rows*cols.
func Contiguous2D(data []byte, rows, cols int) View2D {
	n := rows * cols
	if n > len(data) {
		panic(fmt.Sprintf("strided: %d×%d view over %d bytes", rows, cols, len(data)))
	}
	return View2D{data: data[:n:n], size: [2]int{rows, cols}, stride: [2]int{cols, 1}}
}

func (v View2D) Size() [2]int   { return v.size }
func (v View2D) Stride() [2]int { return v.stride }
func (v View2D) Bytes() []byte  { return v.data }

// Empty reports whether either dimension is zero.
func (v View2D) Empty() bool { return v.size[0] == 0 || v.size[1] == 0 }

// IsContiguous reports whether dimension dim and every dimension after it
// are packed without gaps. IsContiguous(1) is true when the bytes of one
// element are adjacent.
func (v View2D) IsContiguous(dim int) bool {
	switch dim {
	case 1:
		return v.stride[1] == 1
	case 0:
		return v.stride[1] == 1 && v.stride[0] == v.size[1]
	}
	panic(fmt.Sprintf("strided: dimension %d out of range", dim))
}

// IsFullyContiguous is IsContiguous(0).
func (v View2D) IsFullyContiguous() bool { return v.IsContiguous(0) }

// Row returns the bytes of element i. The inner dimension must be contiguous.
func (v View2D) Row(i int) []byte {
	if v.stride[1] != 1 {
		panic("strided: Row on a view with non-contiguous inner dimension")
	}
	off := i * v.stride[0]
	return v.data[off : off+v.size[1] : off+v.size[1]]
}

// AsContiguous returns the view as one flat slice. ok is false when the view
// has gaps.
func (v View2D) AsContiguous() (b []byte, ok bool) {
	if !v.IsFullyContiguous() {
		return nil, false
	}
	n := v.size[0] * v.size[1]
	return v.data[:n:n], true
}

// BytesOf reinterprets a typed slice as its backing bytes without copying.
// The result aliases s and uses the host byte order.
func BytesOf[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	n := int(unsafe.Sizeof(s[0])) * len(s)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), n)
}

// Rows is a row-major view of width values per row.
type Rows[T any] struct {
	data  []T
	width int
}

// NewRows views data as rows of width values. len(data) must be a multiple
// of width.
func NewRows[T any](data []T, width int) Rows[T] {
	if width <= 0 || len(data)%width != 0 {
		panic(fmt.Sprintf("strided: %d values do not form rows of %d", len(data), width))
	}
	return Rows[T]{data: data, width: width}
}

func (r Rows[T]) Len() int   { return len(r.data) / r.width }
func (r Rows[T]) Width() int { return r.width }

// Row returns row i.
func (r Rows[T]) Row(i int) []T {
	return r.data[i*r.width : (i+1)*r.width]
}

// Broadcast writes value into column of every row.
func (r Rows[T]) Broadcast(column int, value T) {
	if column < 0 || column >= r.width {
		panic(fmt.Sprintf("strided: column %d out of range for width %d", column, r.width))
	}
	for i := column; i < len(r.data); i += r.width {
		r.data[i] = value
	}
}
