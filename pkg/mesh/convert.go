package mesh

import (
	"fmt"
	"unsafe"

	"github.com/samcharles93/meshdata/pkg/strided"
)

// IndicesInto widens the indices into dst, which must hold exactly
// IndexCount elements.
func (d *Data) IndicesInto(dst []uint32) error {
	if err := d.checkIndexed("IndicesInto"); err != nil {
		return err
	}
	size := d.indexType.Size()
	if count := d.indexSize / size; len(dst) != count {
		return fmt.Errorf("%w: IndicesInto: expected %d elements but got %d", ErrSizeMismatch, count, len(dst))
	}
	b := d.indexData.data[d.indexOffset : d.indexOffset+d.indexSize]
	switch d.indexType {
	case IndexUnsignedByte:
		for i := range dst {
			dst[i] = uint32(b[i])
		}
	case IndexUnsignedShort:
		for i := range dst {
			dst[i] = uint32(ne.Uint16(b[2*i:]))
		}
	case IndexUnsignedInt:
		copy(strided.BytesOf(dst), b)
	default:
		panic(fmt.Sprintf("mesh: IndicesInto: unexpected index type %v", d.indexType))
	}
	return nil
}

// IndicesAsArray is IndicesInto with a freshly allocated destination.
func (d *Data) IndicesAsArray() ([]uint32, error) {
	count, err := d.IndexCount()
	if err != nil {
		return nil, err
	}
	out := make([]uint32, count)
	if err := d.IndicesInto(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Positions2DInto converts the id-th position attribute to two float
// components per vertex. The Z of three-component positions is dropped.
func (d *Data) Positions2DInto(dst []Vector2, id int) error {
	return d.normalizeInto("Positions2DInto", AttributePosition, id, flatten(dst, 2), len(dst), 2, 0)
}

func (d *Data) Positions2DAsArray(id int) ([]Vector2, error) {
	if _, err := d.namedID("Positions2DAsArray", AttributePosition, id); err != nil {
		return nil, err
	}
	out := make([]Vector2, d.vertexCount)
	if err := d.Positions2DInto(out, id); err != nil {
		return nil, err
	}
	return out, nil
}

// Positions3DInto converts the id-th position attribute to three float
// components per vertex. Two-component positions get Z = 0.
func (d *Data) Positions3DInto(dst []Vector3, id int) error {
	return d.normalizeInto("Positions3DInto", AttributePosition, id, flatten(dst, 3), len(dst), 3, 0)
}

func (d *Data) Positions3DAsArray(id int) ([]Vector3, error) {
	if _, err := d.namedID("Positions3DAsArray", AttributePosition, id); err != nil {
		return nil, err
	}
	out := make([]Vector3, d.vertexCount)
	if err := d.Positions3DInto(out, id); err != nil {
		return nil, err
	}
	return out, nil
}

// NormalsInto converts the id-th normal attribute to float vectors.
func (d *Data) NormalsInto(dst []Vector3, id int) error {
	return d.normalizeInto("NormalsInto", AttributeNormal, id, flatten(dst, 3), len(dst), 3, 0)
}

func (d *Data) NormalsAsArray(id int) ([]Vector3, error) {
	if _, err := d.namedID("NormalsAsArray", AttributeNormal, id); err != nil {
		return nil, err
	}
	out := make([]Vector3, d.vertexCount)
	if err := d.NormalsInto(out, id); err != nil {
		return nil, err
	}
	return out, nil
}

// TextureCoordinates2DInto converts the id-th texture coordinate attribute
// to float vectors.
func (d *Data) TextureCoordinates2DInto(dst []Vector2, id int) error {
	return d.normalizeInto("TextureCoordinates2DInto", AttributeTextureCoordinates, id, flatten(dst, 2), len(dst), 2, 0)
}

func (d *Data) TextureCoordinates2DAsArray(id int) ([]Vector2, error) {
	if _, err := d.namedID("TextureCoordinates2DAsArray", AttributeTextureCoordinates, id); err != nil {
		return nil, err
	}
	out := make([]Vector2, d.vertexCount)
	if err := d.TextureCoordinates2DInto(out, id); err != nil {
		return nil, err
	}
	return out, nil
}

// ColorsInto converts the id-th color attribute to RGBA floats. Three
// component colors get alpha = 1.
func (d *Data) ColorsInto(dst []Color4, id int) error {
	return d.normalizeInto("ColorsInto", AttributeColor, id, flatten(dst, 4), len(dst), 4, 1)
}

func (d *Data) ColorsAsArray(id int) ([]Color4, error) {
	if _, err := d.namedID("ColorsAsArray", AttributeColor, id); err != nil {
		return nil, err
	}
	out := make([]Color4, d.vertexCount)
	if err := d.ColorsInto(out, id); err != nil {
		return nil, err
	}
	return out, nil
}

type floatVector interface {
	~[2]float32 | ~[3]float32 | ~[4]float32
}

// flatten views s as width floats per element.
func flatten[V floatVector](s []V, width int) []float32 {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*width)
}

// normalizeInto decodes the id-th attribute called name into dst, width
// floats for each of rows vertices. Components the source doesn't have are
// set to fill.
func (d *Data) normalizeInto(op string, name Attribute, id int, dst []float32, rows, width int, fill float32) error {
	attr, err := d.namedID(op, name, id)
	if err != nil {
		return err
	}
	if rows != d.vertexCount {
		return fmt.Errorf("%w: %s: expected %d elements but got %d", ErrSizeMismatch, op, d.vertexCount, rows)
	}
	format := d.attributes[attr].format
	if !name.Accepts(format) {
		panic(fmt.Sprintf("mesh: %s: no conversion from %v", op, format))
	}
	info := format.info()
	comps := min(info.components, width)
	decodeInto(d.attributeView(attr), info, comps, dst, width)
	if comps < width {
		r := strided.NewRows(dst, width)
		for c := comps; c < width; c++ {
			r.Broadcast(c, fill)
		}
	}
	return nil
}

// decodeInto writes the first comps components of every element of v into
// consecutive rows of dst.
func decodeInto(v strided.View2D, info *formatInfo, comps int, dst []float32, width int) {
	rows := v.Size()[0]
	comp := info.kind.component
	switch info.kind.rule {
	case ruleCopy:
		out := strided.BytesOf(dst)
		n := comps * comp.size
		for i := 0; i < rows; i++ {
			at := i * width * 4
			copy(out[at:at+n], v.Row(i)[:n])
		}
	case ruleHalf, ruleCast:
		decodeRows(v, rows, comps, comp.size, comp.cast, dst, width)
	case ruleUnpack:
		decodeRows(v, rows, comps, comp.size, comp.unpack, dst, width)
	default:
		panic(fmt.Sprintf("mesh: no conversion rule for %d", info.kind.rule))
	}
}

func decodeRows(v strided.View2D, rows, comps, size int, conv func([]byte) float32, dst []float32, width int) {
	for i := 0; i < rows; i++ {
		el := v.Row(i)
		row := dst[i*width : i*width+comps]
		for c := range row {
			row[c] = conv(el[c*size:])
		}
	}
}
