package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/meshdata/internal/primitives"
	"github.com/samcharles93/meshdata/pkg/mesh"
)

type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param,omitempty"`
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg, "")
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg, "")
}

func writeError(c *echo.Context, status int, errType, msg, param string) error {
	return c.JSON(status, map[string]any{
		"error": ResponseError{
			Message: msg,
			Type:    errType,
			Param:   param,
		},
	})
}

func writeErr(c *echo.Context, err error) error {
	status, typ := statusFor(err)
	return writeError(c, status, typ, err.Error(), "")
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return out, newInvalidRequest("empty request body")
		}
		return out, newInvalidRequest(err.Error())
	}
	return out, nil
}

// intQuery parses an optional non-negative integer query parameter.
func intQuery(c *echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, newInvalidRequest(fmt.Sprintf("%s must be a non-negative integer, got %q", name, raw))
	}
	return v, nil
}

// shapeOptions resolves the generator encodings of req over the defaults.
func shapeOptions(req *CreateMeshReq) (primitives.Options, error) {
	opts := primitives.DefaultOptions()
	formats := []struct {
		raw string
		dst *mesh.VertexFormat
	}{
		{req.PositionFormat, &opts.PositionFormat},
		{req.NormalFormat, &opts.NormalFormat},
		{req.ColorFormat, &opts.ColorFormat},
	}
	for _, f := range formats {
		if f.raw == "" {
			continue
		}
		v, err := mesh.ParseVertexFormat(f.raw)
		if err != nil {
			return opts, err
		}
		*f.dst = v
	}
	if req.IndexType != "" {
		typ, err := mesh.ParseIndexType(req.IndexType)
		if err != nil {
			return opts, err
		}
		opts.IndexType = typ
	}
	return opts, nil
}

// vectorRows views each vector of vs as a row.
func vectorRows[V any](vs []V, row func(v *V) []float32) [][]float32 {
	out := make([][]float32, len(vs))
	for i := range vs {
		out[i] = row(&vs[i])
	}
	return out
}

func vec2Row(v *mesh.Vector2) []float32  { return v[:] }
func vec3Row(v *mesh.Vector3) []float32  { return v[:] }
func color4Row(v *mesh.Color4) []float32 { return v[:] }
