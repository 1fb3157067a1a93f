package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samcharles93/meshdata/internal/layout"
	"github.com/samcharles93/meshdata/internal/logger"
	"github.com/samcharles93/meshdata/pkg/mesh"
)

// file names derived from the export name.
func exportPaths(dir, name string, enc layout.Encoding) (doc, vertices, indices string) {
	return filepath.Join(dir, name+"."+string(enc)), name + ".vertices", name + ".indices"
}

// Export writes m to dir as a layout document plus raw vertex and index
// files, and returns the path of the document. m is left untouched.
func Export(ctx context.Context, m *mesh.Data, dir, name string, enc layout.Encoding) (string, error) {
	docPath, vertexFile, indexFile := exportPaths(dir, name, enc)
	doc, err := layout.FromMesh(m, vertexFile, indexFile)
	if err != nil {
		return "", err
	}
	if err := writeData(dir, doc, m.VertexData(), indexBytes(m)); err != nil {
		return "", err
	}
	if err := layout.Save(docPath, doc); err != nil {
		return "", err
	}
	logger.FromContext(ctx).Info("exported mesh", "layout", docPath, "vertices", m.VertexCount())
	return docPath, nil
}

// ExportReleased is Export that takes the buffers out of m instead of
// reading through it. The released storage is freed once written, so for an
// imported mesh the mappings are gone when this returns. m keeps its
// attribute descriptors but has no vertex or index data left.
func ExportReleased(ctx context.Context, m *mesh.Data, dir, name string, enc layout.Encoding) (string, error) {
	docPath, vertexFile, indexFile := exportPaths(dir, name, enc)
	doc, err := layout.FromMesh(m, vertexFile, indexFile)
	if err != nil {
		return "", err
	}

	var indexOffset int
	if m.IsIndexed() {
		indexOffset, _ = m.IndexOffset()
	}
	indexSize := len(indexBytes(m))
	vertexData := m.ReleaseVertexData()
	indexData := m.ReleaseIndexData()

	var ix []byte
	if indexSize > 0 {
		ix = indexData.Bytes()[indexOffset : indexOffset+indexSize]
	}
	werr := writeData(dir, doc, vertexData.Bytes(), ix)
	if err := errors.Join(werr, vertexData.Free(), indexData.Free()); err != nil {
		return "", err
	}
	if err := layout.Save(docPath, doc); err != nil {
		return "", err
	}
	logger.FromContext(ctx).Info("exported released mesh", "layout", docPath, "vertices", doc.VertexCount)
	return docPath, nil
}

func indexBytes(m *mesh.Data) []byte {
	if !m.IsIndexed() {
		return nil
	}
	view, err := m.Indices()
	if err != nil {
		return nil
	}
	b, _ := view.AsContiguous()
	return b
}

func writeData(dir string, doc *layout.Document, vertices, indices []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if doc.VertexFile != "" {
		if err := os.WriteFile(filepath.Join(dir, doc.VertexFile), vertices, 0o644); err != nil {
			return fmt.Errorf("write vertices: %w", err)
		}
	}
	if doc.Indices != nil {
		if err := os.WriteFile(filepath.Join(dir, doc.Indices.File), indices, 0o644); err != nil {
			return fmt.Errorf("write indices: %w", err)
		}
	}
	return nil
}
