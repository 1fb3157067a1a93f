// Package api serves loaded meshes over HTTP for inspection: layout
// metadata, indices widened to 32 bits and attributes unpacked to floats.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/meshdata/internal/importer"
	"github.com/samcharles93/meshdata/internal/logger"
	"github.com/samcharles93/meshdata/internal/primitives"
	"github.com/samcharles93/meshdata/pkg/mesh"
)

type Server struct {
	store *MeshStore
	log   logger.Logger
	opts  importer.Options
	clock func() time.Time
}

// NewServer serves store. Meshes created through POST /v1/meshes are loaded
// with opts.
func NewServer(store *MeshStore, opts importer.Options, log logger.Logger) *Server {
	if store == nil {
		store = NewMeshStore()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		store: store,
		log:   log,
		opts:  opts,
		clock: time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/meshes", s.handleListMeshes)
	e.POST("/v1/meshes", s.handleCreateMesh)
	e.GET("/v1/meshes/:id", s.handleGetMesh)
	e.DELETE("/v1/meshes/:id", s.handleDeleteMesh)

	e.GET("/v1/meshes/:id/indices", s.handleIndices)
	e.GET("/v1/meshes/:id/positions", s.handlePositions)
	e.GET("/v1/meshes/:id/normals", s.attributeHandler(mesh.AttributeNormal,
		func(m *mesh.Data, n int) ([][]float32, error) {
			v, err := m.NormalsAsArray(n)
			return vectorRows(v, vec3Row), err
		}))
	e.GET("/v1/meshes/:id/texcoords", s.attributeHandler(mesh.AttributeTextureCoordinates,
		func(m *mesh.Data, n int) ([][]float32, error) {
			v, err := m.TextureCoordinates2DAsArray(n)
			return vectorRows(v, vec2Row), err
		}))
	e.GET("/v1/meshes/:id/colors", s.attributeHandler(mesh.AttributeColor,
		func(m *mesh.Data, n int) ([][]float32, error) {
			v, err := m.ColorsAsArray(n)
			return vectorRows(v, color4Row), err
		}))
}

func (s *Server) handleListMeshes(c *echo.Context) error {
	resp := MeshListResp{Object: "list", Data: []MeshResp{}}
	s.store.List(func(rec *meshRecord) {
		resp.Data = append(resp.Data, meshResp(rec))
	})
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCreateMesh(c *echo.Context) error {
	req, err := decodeJSON[CreateMeshReq](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	var (
		m      *mesh.Data
		source string
	)
	switch {
	case req.Path != "" && req.Shape != "":
		return writeBadRequest(c, "path and shape are mutually exclusive")
	case req.Path != "":
		opts := s.opts
		opts.NoMmap = opts.NoMmap || req.NoMmap
		ctx := logger.WithContext(c.Request().Context(), s.log)
		m, err = importer.Open(ctx, req.Path, opts)
		source = req.Path
	case req.Shape != "":
		m, err = s.generate(&req)
		source = "shape:" + req.Shape
	default:
		return writeBadRequest(c, "one of path or shape is required")
	}
	if err != nil {
		s.log.Warn("create mesh failed", "source", source, "error", err)
		return writeErr(c, err)
	}

	rec := s.store.Add(source, m, s.clock())
	s.log.Info("mesh loaded", "id", rec.ID, "source", source, "vertices", m.VertexCount())
	var resp MeshResp
	_ = s.store.View(rec.ID, func(rec *meshRecord) error {
		resp = meshResp(rec)
		return nil
	})
	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) generate(req *CreateMeshReq) (*mesh.Data, error) {
	shape, err := primitives.ParseShape(req.Shape)
	if err != nil {
		return nil, err
	}
	opts, err := shapeOptions(req)
	if err != nil {
		return nil, err
	}
	return primitives.Generate(shape, opts)
}

func (s *Server) handleGetMesh(c *echo.Context) error {
	var resp MeshResp
	err := s.store.View(c.Param("id"), func(rec *meshRecord) error {
		resp = meshResp(rec)
		return nil
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDeleteMesh(c *echo.Context) error {
	id := c.Param("id")
	if err := s.store.Delete(id); err != nil {
		if errors.Is(err, ErrMeshNotFound) {
			return writeNotFound(c, "mesh not found")
		}
		// The mesh is gone from the store either way.
		s.log.Warn("closing mesh failed", "id", id, "error", err)
	}
	return c.JSON(http.StatusOK, DeleteMeshResp{
		ID:      id,
		Object:  "mesh.deleted",
		Deleted: true,
	})
}

func (s *Server) handleIndices(c *echo.Context) error {
	id := c.Param("id")
	resp := IndicesResp{ID: id, Object: "mesh.indices"}
	err := s.store.View(id, func(rec *meshRecord) error {
		typ, err := rec.Mesh.IndexType()
		if err != nil {
			return err
		}
		resp.Type = typ.String()
		resp.Data, err = rec.Mesh.IndicesAsArray()
		return err
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handlePositions(c *echo.Context) error {
	dims, err := intQuery(c, "dims", 3)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	var read func(m *mesh.Data, n int) ([][]float32, error)
	switch dims {
	case 2:
		read = func(m *mesh.Data, n int) ([][]float32, error) {
			v, err := m.Positions2DAsArray(n)
			return vectorRows(v, vec2Row), err
		}
	case 3:
		read = func(m *mesh.Data, n int) ([][]float32, error) {
			v, err := m.Positions3DAsArray(n)
			return vectorRows(v, vec3Row), err
		}
	default:
		return writeError(c, http.StatusBadRequest, "invalid_request_error",
			fmt.Sprintf("dims must be 2 or 3, got %d", dims), "dims")
	}
	return s.attributeHandler(mesh.AttributePosition, read)(c)
}

// attributeHandler serves the n-th attribute called name, n taken from the
// query string, decoded by read.
func (s *Server) attributeHandler(name mesh.Attribute, read func(m *mesh.Data, n int) ([][]float32, error)) func(c *echo.Context) error {
	return func(c *echo.Context) error {
		n, err := intQuery(c, "n", 0)
		if err != nil {
			return writeBadRequest(c, err.Error())
		}
		id := c.Param("id")
		resp := AttributeResp{ID: id, Object: "mesh.attribute", Attribute: name.String(), N: n}
		err = s.store.View(id, func(rec *meshRecord) error {
			format, err := rec.Mesh.NamedAttributeFormat(name, n)
			if err != nil {
				return err
			}
			resp.Format = format.String()
			resp.Data, err = read(rec.Mesh, n)
			return err
		})
		if err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// Close releases every mesh the server holds.
func (s *Server) Close(ctx context.Context) error {
	err := s.store.Close()
	if err != nil {
		logger.FromContext(ctx).Warn("closing meshes", "error", err)
	}
	return err
}
