package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/samcharles93/meshdata/internal/layout"
	"github.com/samcharles93/meshdata/internal/logger"
	"github.com/samcharles93/meshdata/internal/primitives"
	"github.com/samcharles93/meshdata/pkg/mesh"
)

func testContext() context.Context {
	return logger.WithContext(context.Background(), logger.Discard())
}

func exportCube(t *testing.T, enc layout.Encoding) (string, *mesh.Data) {
	t.Helper()
	cube, err := primitives.Cube(primitives.DefaultOptions())
	if err != nil {
		t.Fatalf("cube: %v", err)
	}
	path, err := Export(testContext(), cube, t.TempDir(), "cube", enc)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	return path, cube
}

func sameMesh(t *testing.T, got, want *mesh.Data) {
	t.Helper()
	if got.VertexCount() != want.VertexCount() || got.AttributeCount() != want.AttributeCount() {
		t.Fatalf("got %d vertices/%d attributes want %d/%d",
			got.VertexCount(), got.AttributeCount(), want.VertexCount(), want.AttributeCount())
	}
	gi, err := got.IndicesAsArray()
	if err != nil {
		t.Fatalf("indices: %v", err)
	}
	wi, _ := want.IndicesAsArray()
	for i := range wi {
		if gi[i] != wi[i] {
			t.Fatalf("index %d: got %d want %d", i, gi[i], wi[i])
		}
	}
	gp, err := got.Positions3DAsArray(0)
	if err != nil {
		t.Fatalf("positions: %v", err)
	}
	wp, _ := want.Positions3DAsArray(0)
	for i := range wp {
		if gp[i] != wp[i] {
			t.Fatalf("position %d: got %v want %v", i, gp[i], wp[i])
		}
	}
	gc, err := got.ColorsAsArray(0)
	if err != nil {
		t.Fatalf("colors: %v", err)
	}
	wc, _ := want.ColorsAsArray(0)
	for i := range wc {
		if gc[i] != wc[i] {
			t.Fatalf("color %d: got %v want %v", i, gc[i], wc[i])
		}
	}
}

func TestExportOpenRoundTrip(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		enc  layout.Encoding
		opts Options
	}{
		{"yaml mapped", layout.YAML, Options{}},
		{"json read", layout.JSON, Options{NoMmap: true}},
		{"yaml writable", layout.YAML, Options{Writable: true}},
	} {
		path, cube := exportCube(t, tc.enc)
		m, err := Open(testContext(), path, tc.opts)
		if err != nil {
			t.Fatalf("%s: open: %v", tc.name, err)
		}
		sameMesh(t, m, cube)

		state, ok := m.ImporterState().(*State)
		if !ok || state.Path != path || state.Layout == nil {
			t.Fatalf("%s: importer state %#v", tc.name, m.ImporterState())
		}
		if tc.opts.NoMmap && state.Mapped {
			t.Fatalf("%s: mapped despite NoMmap", tc.name)
		}

		_, mutErr := m.MutableVertexData()
		readOnly := state.Mapped && !tc.opts.Writable
		if readOnly != errors.Is(mutErr, mesh.ErrNotMutable) {
			t.Fatalf("%s: mapped %v writable %v, mutable error %v", tc.name, state.Mapped, tc.opts.Writable, mutErr)
		}
		if err := m.Close(); err != nil {
			t.Fatalf("%s: close: %v", tc.name, err)
		}
	}
}

func TestExportReleased(t *testing.T) {
	t.Parallel()

	path, cube := exportCube(t, layout.YAML)
	m, err := Open(testContext(), path, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	again, err := ExportReleased(testContext(), m, t.TempDir(), "copy", layout.JSON)
	if err != nil {
		t.Fatalf("export released: %v", err)
	}
	if m.VertexCount() != 0 || len(m.VertexData()) != 0 || len(m.IndexData()) != 0 {
		t.Fatalf("source still holds data after release")
	}
	if m.AttributeCount() != 3 {
		t.Fatalf("attribute descriptors should stay, got %d", m.AttributeCount())
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close after release: %v", err)
	}

	copied, err := Open(testContext(), again, Options{NoMmap: true})
	if err != nil {
		t.Fatalf("open copy: %v", err)
	}
	sameMesh(t, copied, cube)
}

func TestOpenAttributeless(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "points.yaml")
	if err := os.WriteFile(path, []byte("primitive: Points\nvertex_count: 7\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m, err := Open(testContext(), path, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if m.VertexCount() != 7 || m.IsIndexed() {
		t.Fatalf("got %d vertices, indexed %v", m.VertexCount(), m.IsIndexed())
	}
}

func TestOpenFailures(t *testing.T) {
	t.Parallel()

	path, _ := exportCube(t, layout.YAML)
	dir := filepath.Dir(path)

	// Truncate the vertex file: the attributes no longer fit.
	if err := os.Truncate(filepath.Join(dir, "cube.vertices"), 100); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	if _, err := Open(testContext(), path, Options{}); !errors.Is(err, mesh.ErrOutOfBounds) {
		t.Fatalf("short vertex file: got %v", err)
	}

	path, _ = exportCube(t, layout.YAML)
	if err := os.Truncate(filepath.Join(filepath.Dir(path), "cube.indices"), 10); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	if _, err := Open(testContext(), path, Options{NoMmap: true}); !errors.Is(err, ErrShortFile) {
		t.Fatalf("short index file: got %v", err)
	}

	if _, err := Open(testContext(), filepath.Join(dir, "missing.yaml"), Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing layout: got %v", err)
	}
	if _, err := Open(testContext(), filepath.Join(dir, "cube.vertices"), Options{}); !errors.Is(err, layout.ErrUnknownEncoding) {
		t.Fatalf("not a layout: got %v", err)
	}
}
