// Package importer loads meshes described by layout documents and writes
// containers back out in the same form.
//
// Vertex and index files hold raw bytes in host byte order. By default they
// are memory-mapped and the resulting container owns the mapping: closing
// it unmaps the files.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/samcharles93/meshdata/internal/layout"
	"github.com/samcharles93/meshdata/internal/logger"
	"github.com/samcharles93/meshdata/pkg/mesh"
)

var (
	ErrFileTooLarge = errors.New("importer: file too large to address")
	ErrShortFile    = errors.New("importer: file shorter than the layout needs")
)

// Options control how data files are loaded.
type Options struct {
	// NoMmap reads files into memory instead of mapping them.
	NoMmap bool
	// Writable maps files copy-on-write so the container is mutable.
	// Files that are read instead of mapped are always mutable.
	Writable bool
}

// State is attached to every imported mesh; see mesh.Data.ImporterState.
type State struct {
	Path   string
	Layout *layout.Document
	Mapped bool
}

// Open loads the layout at path and the data files it references, which
// are resolved relative to the layout's directory.
func Open(ctx context.Context, path string, opts Options) (*mesh.Data, error) {
	log := logger.FromContext(ctx).With("layout", path)

	doc, err := layout.Load(path)
	if err != nil {
		return nil, err
	}
	prim, err := doc.MeshPrimitive()
	if err != nil {
		return nil, err
	}
	attrs, err := doc.MeshAttributes()
	if err != nil {
		return nil, err
	}
	state := &State{Path: path, Layout: doc}
	dir := filepath.Dir(path)

	if len(attrs) == 0 && doc.Indices == nil {
		log.Debug("attributeless mesh", "vertices", doc.VertexCount)
		return mesh.NewAttributeless(prim, doc.VertexCount, mesh.WithImporterState(state))
	}

	vertexData := mesh.Owned(nil)
	if doc.VertexFile != "" {
		var mapped bool
		vertexData, mapped, err = load(ctx, filepath.Join(dir, doc.VertexFile), opts)
		if err != nil {
			return nil, err
		}
		state.Mapped = mapped
	}

	indexData := mesh.Owned(nil)
	var indices mesh.IndexData
	if doc.Indices != nil {
		var mapped bool
		indexData, mapped, err = load(ctx, filepath.Join(dir, doc.Indices.File), opts)
		if err != nil {
			_ = vertexData.Free()
			return nil, err
		}
		state.Mapped = state.Mapped || mapped
		indices, err = indexView(doc, indexData.Bytes())
		if err != nil {
			_ = vertexData.Free()
			_ = indexData.Free()
			return nil, fmt.Errorf("%s: %w", doc.Indices.File, err)
		}
	}

	m, err := mesh.New(prim, indexData, indices, vertexData, attrs, mesh.WithImporterState(state))
	if err != nil {
		_ = vertexData.Free()
		_ = indexData.Free()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info("imported mesh",
		"primitive", prim,
		"vertices", m.VertexCount(),
		"attributes", m.AttributeCount(),
		"indexed", m.IsIndexed(),
		"mapped", state.Mapped,
	)
	return m, nil
}

func indexView(doc *layout.Document, data []byte) (mesh.IndexData, error) {
	typ, err := doc.IndexType()
	if err != nil {
		return mesh.IndexData{}, err
	}
	off, size, err := doc.IndexBytes()
	if err != nil {
		return mesh.IndexData{}, err
	}
	if off+size > len(data) {
		return mesh.IndexData{}, fmt.Errorf("%w: %d indices at offset %d need %d bytes, file has %d",
			ErrShortFile, doc.Indices.Count, off, off+size, len(data))
	}
	return mesh.NewIndexData(typ, data[off:off+size])
}

// load maps or reads path into owned storage. Mapped storage is unmapped by
// its deleter.
func load(ctx context.Context, path string, opts Options) (mesh.Storage, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return mesh.Storage{}, false, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return mesh.Storage{}, false, err
	}
	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return mesh.Storage{}, false, fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, path, size64)
	}
	size := int(size64)
	if size == 0 {
		return mesh.Owned(nil), false, nil
	}

	if !opts.NoMmap {
		prot, flags := unix.PROT_READ, unix.MAP_SHARED
		storageOpts := []mesh.StorageOption{mesh.WithDeleter(unix.Munmap)}
		if opts.Writable {
			prot |= unix.PROT_WRITE
			flags = unix.MAP_PRIVATE
		} else {
			storageOpts = append(storageOpts, mesh.ReadOnly())
		}
		data, err := unix.Mmap(int(f.Fd()), 0, size, prot, flags)
		if err == nil {
			return mesh.Owned(data, storageOpts...), true, nil
		}
		logger.FromContext(ctx).Debug("mmap failed, reading instead", "path", path, "error", err)
	}

	data, err := readAllAt(f, size)
	if err != nil {
		return mesh.Storage{}, false, fmt.Errorf("%s: %w", path, err)
	}
	return mesh.Owned(data), false, nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}
