// Package primitives generates small meshes in any supported vertex
// encoding. The generate command and the tests use them as fixtures.
package primitives

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samcharles93/meshdata/pkg/mesh"
	"github.com/samcharles93/meshdata/pkg/strided"
)

var ErrUnknownShape = errors.New("primitives: unknown shape")

// Shape names a generator.
type Shape string

const (
	ShapeTriangle Shape = "triangle"
	ShapeCube     Shape = "cube"
)

func ParseShape(s string) (Shape, error) {
	switch Shape(strings.ToLower(s)) {
	case ShapeTriangle:
		return ShapeTriangle, nil
	case ShapeCube:
		return ShapeCube, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownShape, s)
}

// Options select the encodings. A zero NormalFormat or ColorFormat leaves
// the attribute out.
type Options struct {
	PositionFormat mesh.VertexFormat
	NormalFormat   mesh.VertexFormat
	ColorFormat    mesh.VertexFormat
	// IndexType is used by indexed shapes. Zero means UnsignedShort.
	IndexType mesh.IndexType
}

// DefaultOptions is float positions and normals with byte colors.
func DefaultOptions() Options {
	return Options{
		PositionFormat: mesh.FormatVector3,
		NormalFormat:   mesh.FormatVector3,
		ColorFormat:    mesh.FormatVector4ubNormalized,
		IndexType:      mesh.IndexUnsignedShort,
	}
}

// Generate builds shape.
func Generate(shape Shape, opts Options) (*mesh.Data, error) {
	switch shape {
	case ShapeTriangle:
		return Triangle(opts)
	case ShapeCube:
		return Cube(opts)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownShape, shape)
}

type vertex struct {
	position [3]float32
	normal   [3]float32
	color    [4]float32
}

// Triangle is a non-indexed triangle in the z = 0 plane with a red, a green
// and a blue corner.
func Triangle(opts Options) (*mesh.Data, error) {
	vs := []vertex{
		{[3]float32{-0.5, -0.5, 0}, [3]float32{0, 0, 1}, [4]float32{1, 0, 0, 1}},
		{[3]float32{0.5, -0.5, 0}, [3]float32{0, 0, 1}, [4]float32{0, 1, 0, 1}},
		{[3]float32{0, 0.5, 0}, [3]float32{0, 0, 1}, [4]float32{0, 0, 1, 1}},
	}
	return build(mesh.PrimitiveTriangles, vs, nil, opts)
}

var cubeFaces = []struct {
	normal  [3]float32
	color   [4]float32
	corners [4][3]float32
}{
	{[3]float32{0, 0, 1}, [4]float32{1, 0, 0, 1}, [4][3]float32{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
	{[3]float32{0, 0, -1}, [4]float32{0, 1, 0, 1}, [4][3]float32{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
	{[3]float32{1, 0, 0}, [4]float32{0, 0, 1, 1}, [4][3]float32{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},
	{[3]float32{-1, 0, 0}, [4]float32{1, 1, 0, 1}, [4][3]float32{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
	{[3]float32{0, 1, 0}, [4]float32{0, 1, 1, 1}, [4][3]float32{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},
	{[3]float32{0, -1, 0}, [4]float32{1, 0, 1, 1}, [4][3]float32{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
}

// Cube is an indexed cube spanning [-1, 1] with flat normals and one color
// per face: 24 vertices and 36 indices.
func Cube(opts Options) (*mesh.Data, error) {
	vs := make([]vertex, 0, 4*len(cubeFaces))
	indices := make([]uint32, 0, 6*len(cubeFaces))
	for _, f := range cubeFaces {
		base := uint32(len(vs))
		for _, c := range f.corners {
			vs = append(vs, vertex{position: c, normal: f.normal, color: f.color})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return build(mesh.PrimitiveTriangles, vs, indices, opts)
}

// build interleaves vs into one owned buffer, each vertex padded to a
// multiple of four bytes.
func build(prim mesh.Primitive, vs []vertex, indices []uint32, opts Options) (*mesh.Data, error) {
	if opts.PositionFormat == 0 {
		opts.PositionFormat = mesh.FormatVector3
	}
	type slot struct {
		name   mesh.Attribute
		format mesh.VertexFormat
		offset int
		value  func(v *vertex) []float32
	}
	slots := []slot{{name: mesh.AttributePosition, format: opts.PositionFormat,
		value: func(v *vertex) []float32 { return v.position[:] }}}
	if opts.NormalFormat != 0 {
		slots = append(slots, slot{name: mesh.AttributeNormal, format: opts.NormalFormat,
			value: func(v *vertex) []float32 { return v.normal[:] }})
	}
	if opts.ColorFormat != 0 {
		slots = append(slots, slot{name: mesh.AttributeColor, format: opts.ColorFormat,
			value: func(v *vertex) []float32 { return v.color[:] }})
	}

	stride := 0
	for i := range slots {
		if !slots[i].name.Accepts(slots[i].format) {
			return nil, fmt.Errorf("%w: %v can't be %v", mesh.ErrIncompatibleFormat, slots[i].name, slots[i].format)
		}
		slots[i].offset = stride
		stride += slots[i].format.Size()
	}
	stride = (stride + 3) &^ 3

	vertexData := make([]byte, len(vs)*stride)
	attrs := make([]mesh.AttributeData, 0, len(slots))
	for _, s := range slots {
		for i := range vs {
			encode(vertexData[i*stride+s.offset:], s.format, s.value(&vs[i]))
		}
		view, err := strided.New1D(vertexData[s.offset:], len(vs), stride)
		if err != nil {
			return nil, err
		}
		a, err := mesh.NewAttributeData(s.name, s.format, view)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}

	if indices == nil {
		return mesh.NewNonIndexed(prim, mesh.Owned(vertexData), attrs)
	}
	typ := opts.IndexType
	if typ == 0 {
		typ = mesh.IndexUnsignedShort
	}
	indexData := make([]byte, len(indices)*typ.Size())
	for i, v := range indices {
		encodeIndex(indexData, typ, i, v)
	}
	idx, err := mesh.NewIndexData(typ, indexData)
	if err != nil {
		return nil, err
	}
	return mesh.New(prim, mesh.Owned(indexData), idx, mesh.Owned(vertexData), attrs)
}
