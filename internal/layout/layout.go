// Package layout reads and writes mesh layout documents: small YAML or JSON
// files that name a raw vertex file, an optional raw index file and the
// attributes interleaved in it.
//
//	primitive: Triangles
//	vertex_file: cube.vertices
//	vertex_count: 24
//	indices: {file: cube.indices, type: UnsignedShort, count: 36}
//	attributes:
//	  - {name: Position, format: Vector3, offset: 0, stride: 16}
//	  - {name: Color, format: Vector4ubNormalized, offset: 12, stride: 16}
//
// Attribute locations are offsets, so a document can be turned into mesh
// descriptors before the vertex file is loaded.
package layout

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/meshdata/pkg/mesh"
)

var (
	ErrUnknownEncoding = errors.New("layout: unknown document encoding")
	ErrInvalid         = errors.New("layout: invalid document")
)

// Encoding is the serialisation of a document.
type Encoding string

const (
	YAML Encoding = "yaml"
	JSON Encoding = "json"
)

// ParseEncoding accepts yaml, yml and json.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
}

// EncodingForPath picks the encoding from the file extension.
func EncodingForPath(path string) (Encoding, error) {
	return ParseEncoding(filepath.Ext(path))
}

// Document is one mesh layout.
type Document struct {
	Primitive   string      `yaml:"primitive" json:"primitive"`
	VertexFile  string      `yaml:"vertex_file,omitempty" json:"vertex_file,omitempty"`
	VertexCount int         `yaml:"vertex_count" json:"vertex_count"`
	Indices     *Indices    `yaml:"indices,omitempty" json:"indices,omitempty"`
	Attributes  []Attribute `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// Indices locates the index buffer inside its file.
type Indices struct {
	File   string `yaml:"file" json:"file"`
	Type   string `yaml:"type" json:"type"`
	Offset int    `yaml:"offset,omitempty" json:"offset,omitempty"`
	Count  int    `yaml:"count" json:"count"`
}

// Attribute is one offset-only attribute declaration.
type Attribute struct {
	Name   string `yaml:"name" json:"name"`
	Format string `yaml:"format" json:"format"`
	Offset int    `yaml:"offset" json:"offset"`
	Stride int    `yaml:"stride" json:"stride"`
}

// Decode reads a document. Unknown fields are rejected.
func Decode(r io.Reader, enc Encoding) (*Document, error) {
	var doc Document
	switch enc {
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, enc)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load decodes the document at path, choosing the encoding from the
// extension.
func Load(path string) (*Document, error) {
	enc, err := EncodingForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(bytes.NewReader(data), enc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Encode writes doc to w.
func Encode(w io.Writer, doc *Document, enc Encoding) error {
	switch enc {
	case YAML:
		e := yaml.NewEncoder(w)
		e.SetIndent(2)
		if err := e.Encode(doc); err != nil {
			return err
		}
		return e.Close()
	case JSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(doc)
	}
	return fmt.Errorf("%w: %q", ErrUnknownEncoding, enc)
}

// Save writes doc to path, choosing the encoding from the extension.
func Save(path string, doc *Document) error {
	enc, err := EncodingForPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, doc, enc); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Validate checks that every name in the document parses and that the
// counts make sense. Whether the attributes fit the vertex file is only
// known once it is loaded.
func (d *Document) Validate() error {
	if _, err := mesh.ParsePrimitive(d.Primitive); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if d.VertexCount < 0 {
		return fmt.Errorf("%w: negative vertex count %d", ErrInvalid, d.VertexCount)
	}
	if len(d.Attributes) > 0 && d.VertexFile == "" {
		return fmt.Errorf("%w: attributes declared without a vertex file", ErrInvalid)
	}
	if ix := d.Indices; ix != nil {
		if ix.File == "" {
			return fmt.Errorf("%w: indices without a file", ErrInvalid)
		}
		if _, err := mesh.ParseIndexType(ix.Type); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		if ix.Offset < 0 || ix.Count < 0 {
			return fmt.Errorf("%w: index offset %d, count %d", ErrInvalid, ix.Offset, ix.Count)
		}
	}
	_, err := d.MeshAttributes()
	return err
}

// MeshPrimitive returns the parsed primitive.
func (d *Document) MeshPrimitive() (mesh.Primitive, error) {
	return mesh.ParsePrimitive(d.Primitive)
}

// IndexType returns the parsed index type, zero for a non-indexed layout.
func (d *Document) IndexType() (mesh.IndexType, error) {
	if d.Indices == nil {
		return 0, nil
	}
	return mesh.ParseIndexType(d.Indices.Type)
}

// IndexBytes returns the byte range of the indices inside the index file.
func (d *Document) IndexBytes() (offset, size int, err error) {
	typ, err := d.IndexType()
	if err != nil || typ == 0 {
		return 0, 0, err
	}
	return d.Indices.Offset, d.Indices.Count * typ.Size(), nil
}

// MeshAttributes turns the declarations into offset-only descriptors.
func (d *Document) MeshAttributes() ([]mesh.AttributeData, error) {
	out := make([]mesh.AttributeData, 0, len(d.Attributes))
	for i, a := range d.Attributes {
		name, err := mesh.ParseAttribute(a.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: attribute %d: %v", ErrInvalid, i, err)
		}
		format, err := mesh.ParseVertexFormat(a.Format)
		if err != nil {
			return nil, fmt.Errorf("%w: attribute %d: %v", ErrInvalid, i, err)
		}
		stride := a.Stride
		if stride == 0 {
			stride = format.Size()
		}
		ad, err := mesh.NewOffsetAttributeData(name, format, a.Offset, d.VertexCount, stride)
		if err != nil {
			return nil, fmt.Errorf("%w: attribute %d: %v", ErrInvalid, i, err)
		}
		out = append(out, ad)
	}
	return out, nil
}

// FromMesh describes m. vertexFile and indexFile name where the caller
// writes VertexData and the index bytes; indexFile is ignored for a
// non-indexed mesh.
func FromMesh(m *mesh.Data, vertexFile, indexFile string) (*Document, error) {
	doc := &Document{
		Primitive:   m.Primitive().String(),
		VertexCount: m.VertexCount(),
	}
	if m.AttributeCount() > 0 {
		doc.VertexFile = vertexFile
	}
	for id := range m.AttributeCount() {
		name, _ := m.AttributeName(id)
		format, _ := m.AttributeFormat(id)
		offset, _ := m.AttributeOffset(id)
		stride, err := m.AttributeStride(id)
		if err != nil {
			return nil, err
		}
		doc.Attributes = append(doc.Attributes, Attribute{
			Name:   name.String(),
			Format: format.String(),
			Offset: offset,
			Stride: stride,
		})
	}
	if m.IsIndexed() {
		typ, _ := m.IndexType()
		count, err := m.IndexCount()
		if err != nil {
			return nil, err
		}
		doc.Indices = &Indices{File: indexFile, Type: typ.String(), Count: count}
	}
	return doc, nil
}
