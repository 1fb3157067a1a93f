package api

import (
	"github.com/samcharles93/meshdata/internal/importer"
	"github.com/samcharles93/meshdata/pkg/mesh"
)

// CreateMeshReq loads a mesh from a layout file on the server's disk or
// generates one of the built-in shapes. Exactly one of Path and Shape is set.
type CreateMeshReq struct {
	Path   string `json:"path,omitempty"`
	NoMmap bool   `json:"no_mmap,omitempty"`

	Shape          string `json:"shape,omitempty"`
	PositionFormat string `json:"position_format,omitempty"`
	NormalFormat   string `json:"normal_format,omitempty"`
	ColorFormat    string `json:"color_format,omitempty"`
	IndexType      string `json:"index_type,omitempty"`
}

type AttributeInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Format string `json:"format"`
	Offset int    `json:"offset"`
	Stride int    `json:"stride"`
}

type MeshResp struct {
	ID          string          `json:"id"`
	Object      string          `json:"object"`
	CreatedAt   int64           `json:"created_at"`
	Source      string          `json:"source"`
	Primitive   string          `json:"primitive"`
	VertexCount int             `json:"vertex_count"`
	Indexed     bool            `json:"indexed"`
	IndexType   string          `json:"index_type,omitempty"`
	IndexCount  int             `json:"index_count,omitempty"`
	IndexFlags  string          `json:"index_flags"`
	VertexFlags string          `json:"vertex_flags"`
	Mapped      bool            `json:"mapped"`
	Attributes  []AttributeInfo `json:"attributes"`
}

type MeshListResp struct {
	Object string     `json:"object"`
	Data   []MeshResp `json:"data"`
}

type DeleteMeshResp struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// IndicesResp carries indices widened to 32 bits.
type IndicesResp struct {
	ID     string   `json:"id"`
	Object string   `json:"object"`
	Type   string   `json:"type"`
	Data   []uint32 `json:"data"`
}

// AttributeResp carries one attribute unpacked to floats, one row per vertex.
type AttributeResp struct {
	ID        string      `json:"id"`
	Object    string      `json:"object"`
	Attribute string      `json:"attribute"`
	N         int         `json:"n"`
	Format    string      `json:"format"`
	Data      [][]float32 `json:"data"`
}

func meshResp(rec *meshRecord) MeshResp {
	m := rec.Mesh
	resp := MeshResp{
		ID:          rec.ID,
		Object:      "mesh",
		CreatedAt:   rec.CreatedAt.Unix(),
		Source:      rec.Source,
		Primitive:   m.Primitive().String(),
		VertexCount: m.VertexCount(),
		Indexed:     m.IsIndexed(),
		IndexFlags:  m.IndexDataFlags().String(),
		VertexFlags: m.VertexDataFlags().String(),
		Attributes:  make([]AttributeInfo, 0, m.AttributeCount()),
	}
	if typ, err := m.IndexType(); err == nil {
		resp.IndexType = typ.String()
		resp.IndexCount, _ = m.IndexCount()
	}
	if state, ok := m.ImporterState().(*importer.State); ok {
		resp.Mapped = state.Mapped
	}
	for id := range m.AttributeCount() {
		resp.Attributes = append(resp.Attributes, attributeInfo(m, id))
	}
	return resp
}

func attributeInfo(m *mesh.Data, id int) AttributeInfo {
	name, _ := m.AttributeName(id)
	format, _ := m.AttributeFormat(id)
	offset, _ := m.AttributeOffset(id)
	stride, _ := m.AttributeStride(id)
	return AttributeInfo{
		ID:     id,
		Name:   name.String(),
		Format: format.String(),
		Offset: offset,
		Stride: stride,
	}
}
