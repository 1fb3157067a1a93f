package mesh

import (
	"fmt"

	"github.com/samcharles93/meshdata/pkg/strided"
)

func (d *Data) Primitive() Primitive { return d.primitive }

// VertexCount is the vertex count of the attributes, the explicit count of an
// attributeless mesh, or zero once the vertex data has been released.
func (d *Data) VertexCount() int { return d.vertexCount }

// IsIndexed reports whether the mesh has an index type. It stays true after
// the index data is released.
func (d *Data) IsIndexed() bool { return d.indexType != 0 }

func (d *Data) IndexDataFlags() DataFlags  { return d.indexData.flags }
func (d *Data) VertexDataFlags() DataFlags { return d.vertexData.flags }

// ImporterState returns the value passed with WithImporterState.
func (d *Data) ImporterState() any { return d.importerState }

// IndexData returns the whole index buffer. It must not be written to; use
// MutableIndexData for that.
func (d *Data) IndexData() []byte { return d.indexData.data }

// MutableIndexData returns the index buffer for writing.
func (d *Data) MutableIndexData() ([]byte, error) {
	if d.indexData.flags&DataMutable == 0 {
		return nil, fmt.Errorf("%w: index data", ErrNotMutable)
	}
	return d.indexData.data, nil
}

// VertexData returns the whole vertex buffer. It must not be written to;
// use MutableVertexData for that.
func (d *Data) VertexData() []byte { return d.vertexData.data }

// MutableVertexData returns the vertex buffer for writing.
func (d *Data) MutableVertexData() ([]byte, error) {
	if d.vertexData.flags&DataMutable == 0 {
		return nil, fmt.Errorf("%w: vertex data", ErrNotMutable)
	}
	return d.vertexData.data, nil
}

func (d *Data) checkIndexed(op string) error {
	if d.indexType == 0 {
		return fmt.Errorf("%w: %s", ErrNotIndexed, op)
	}
	return nil
}

// IndexCount returns the number of indices.
func (d *Data) IndexCount() (int, error) {
	if err := d.checkIndexed("IndexCount"); err != nil {
		return 0, err
	}
	return d.indexSize / d.indexType.Size(), nil
}

func (d *Data) IndexType() (IndexType, error) {
	if err := d.checkIndexed("IndexType"); err != nil {
		return 0, err
	}
	return d.indexType, nil
}

// IndexOffset returns the byte offset of the first index in the index
// buffer.
func (d *Data) IndexOffset() (int, error) {
	if err := d.checkIndexed("IndexOffset"); err != nil {
		return 0, err
	}
	return d.indexOffset, nil
}

// Indices returns the indices as an index count × index size view.
func (d *Data) Indices() (strided.View2D, error) {
	if err := d.checkIndexed("Indices"); err != nil {
		return strided.View2D{}, err
	}
	return d.indexView(), nil
}

// MutableIndices is Indices for writing.
func (d *Data) MutableIndices() (strided.View2D, error) {
	if d.indexData.flags&DataMutable == 0 {
		return strided.View2D{}, fmt.Errorf("%w: index data", ErrNotMutable)
	}
	if err := d.checkIndexed("MutableIndices"); err != nil {
		return strided.View2D{}, err
	}
	return d.indexView(), nil
}

func (d *Data) indexView() strided.View2D {
	size := d.indexType.Size()
	b := d.indexData.data[d.indexOffset : d.indexOffset+d.indexSize]
	return strided.Contiguous2D(b, d.indexSize/size, size)
}

// AttributeCount returns the number of attributes of any kind.
func (d *Data) AttributeCount() int { return len(d.attributes) }

// NamedAttributeCount returns how many attributes have the given role.
func (d *Data) NamedAttributeCount(name Attribute) int {
	n := 0
	for _, a := range d.attributes {
		if a.name == name {
			n++
		}
	}
	return n
}

// attributeFor returns the position of the n-th attribute called name in
// declaration order, or -1.
func (d *Data) attributeFor(name Attribute, n int) int {
	if n < 0 {
		return -1
	}
	for i, a := range d.attributes {
		if a.name != name {
			continue
		}
		if n == 0 {
			return i
		}
		n--
	}
	return -1
}

func (d *Data) checkID(op string, id int) error {
	if id < 0 || id >= len(d.attributes) {
		return fmt.Errorf("%w: %s: index %d out of range for %d attributes",
			ErrOutOfRange, op, id, len(d.attributes))
	}
	return nil
}

func (d *Data) namedID(op string, name Attribute, n int) (int, error) {
	id := d.attributeFor(name, n)
	if id < 0 {
		return -1, fmt.Errorf("%w: %s: index %d out of range for %d %v attributes",
			ErrOutOfRange, op, n, d.NamedAttributeCount(name), name)
	}
	return id, nil
}

// AttributeID returns the position of the n-th attribute called name.
func (d *Data) AttributeID(name Attribute, n int) (int, error) {
	return d.namedID("AttributeID", name, n)
}

// AttributeData returns the descriptor of attribute id. An offset-only
// descriptor is returned resolved against the vertex buffer.
func (d *Data) AttributeData(id int) (AttributeData, error) {
	if err := d.checkID("AttributeData", id); err != nil {
		return AttributeData{}, err
	}
	a := d.attributes[id]
	if !a.offsetOnly {
		return a, nil
	}
	return AttributeData{
		name:        a.name,
		format:      a.format,
		vertexCount: d.vertexCount,
		stride:      a.stride,
		data:        d.attributeView(id).Bytes(),
	}, nil
}

func (d *Data) AttributeName(id int) (Attribute, error) {
	if err := d.checkID("AttributeName", id); err != nil {
		return 0, err
	}
	return d.attributes[id].name, nil
}

func (d *Data) AttributeFormat(id int) (VertexFormat, error) {
	if err := d.checkID("AttributeFormat", id); err != nil {
		return 0, err
	}
	return d.attributes[id].format, nil
}

// AttributeOffset returns the byte offset of the first element of attribute
// id from the start of the vertex buffer.
func (d *Data) AttributeOffset(id int) (int, error) {
	if err := d.checkID("AttributeOffset", id); err != nil {
		return 0, err
	}
	return d.offsets[id], nil
}

func (d *Data) AttributeStride(id int) (int, error) {
	if err := d.checkID("AttributeStride", id); err != nil {
		return 0, err
	}
	return d.attributes[id].stride, nil
}

func (d *Data) NamedAttributeFormat(name Attribute, n int) (VertexFormat, error) {
	id, err := d.namedID("NamedAttributeFormat", name, n)
	if err != nil {
		return 0, err
	}
	return d.attributes[id].format, nil
}

func (d *Data) NamedAttributeOffset(name Attribute, n int) (int, error) {
	id, err := d.namedID("NamedAttributeOffset", name, n)
	if err != nil {
		return 0, err
	}
	return d.offsets[id], nil
}

func (d *Data) NamedAttributeStride(name Attribute, n int) (int, error) {
	id, err := d.namedID("NamedAttributeStride", name, n)
	if err != nil {
		return 0, err
	}
	return d.attributes[id].stride, nil
}

// Attribute returns attribute id as a vertex count × element size view.
// The view must not be written to; use MutableAttribute for that.
func (d *Data) Attribute(id int) (strided.View2D, error) {
	if err := d.checkID("Attribute", id); err != nil {
		return strided.View2D{}, err
	}
	return d.attributeView(id), nil
}

// NamedAttribute is Attribute for the n-th attribute called name.
func (d *Data) NamedAttribute(name Attribute, n int) (strided.View2D, error) {
	id, err := d.namedID("NamedAttribute", name, n)
	if err != nil {
		return strided.View2D{}, err
	}
	return d.attributeView(id), nil
}

// MutableAttribute is Attribute for writing. Mutability is checked before
// the index.
func (d *Data) MutableAttribute(id int) (strided.View2D, error) {
	if d.vertexData.flags&DataMutable == 0 {
		return strided.View2D{}, fmt.Errorf("%w: vertex data", ErrNotMutable)
	}
	return d.Attribute(id)
}

func (d *Data) MutableNamedAttribute(name Attribute, n int) (strided.View2D, error) {
	if d.vertexData.flags&DataMutable == 0 {
		return strided.View2D{}, fmt.Errorf("%w: vertex data", ErrNotMutable)
	}
	return d.NamedAttribute(name, n)
}

// attributeView builds the view of attribute id from the current vertex
// buffer and vertex count. The descriptor's own vertex count is not used
// since it goes stale when the vertex data is released.
func (d *Data) attributeView(id int) strided.View2D {
	a := &d.attributes[id]
	size := a.format.Size()
	var b []byte
	if d.vertexCount > 0 {
		b = d.vertexData.data[d.offsets[id]:]
	}
	v, err := strided.New2D(b, [2]int{d.vertexCount, size}, [2]int{a.stride, 1})
	if err != nil {
		panic("mesh: attribute view: " + err.Error())
	}
	return v
}
