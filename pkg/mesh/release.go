package mesh

// ReleaseIndexData takes the index buffer out of the container. The mesh
// stays indexed with zero indices and a zero-length, non-owned placeholder
// buffer. A second call returns an empty Storage.
func (d *Data) ReleaseIndexData() Storage {
	out := d.indexData
	d.indexData = out.placeholder()
	d.indexOffset = 0
	d.indexSize = 0
	return out
}

// ReleaseVertexData takes the vertex buffer out of the container and sets
// the vertex count to zero. Attribute descriptors are kept, so their names,
// formats, offsets and strides stay queryable.
func (d *Data) ReleaseVertexData() Storage {
	out := d.vertexData
	d.vertexData = out.placeholder()
	d.vertexCount = 0
	return out
}

// ReleaseAttributeData takes the attribute descriptors out of the
// container. A second call returns nil.
func (d *Data) ReleaseAttributeData() []AttributeData {
	out := d.attributes
	d.attributes = nil
	d.offsets = nil
	return out
}
