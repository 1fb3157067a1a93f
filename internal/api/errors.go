package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/samcharles93/meshdata/internal/importer"
	"github.com/samcharles93/meshdata/internal/layout"
	"github.com/samcharles93/meshdata/internal/primitives"
	"github.com/samcharles93/meshdata/pkg/mesh"
)

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrMeshNotFound   = errors.New("mesh not found")
)

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}

// statusFor maps a container or import error to an HTTP status and an
// error type for the response body.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrMeshNotFound),
		errors.Is(err, os.ErrNotExist),
		errors.Is(err, mesh.ErrOutOfRange),
		errors.Is(err, mesh.ErrNotIndexed):
		return http.StatusNotFound, "not_found_error"
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, primitives.ErrUnknownShape),
		errors.Is(err, layout.ErrUnknownEncoding),
		errors.Is(err, layout.ErrInvalid):
		return http.StatusBadRequest, "invalid_request_error"
	case errors.Is(err, importer.ErrShortFile),
		errors.Is(err, mesh.ErrInvalidPrimitive),
		errors.Is(err, mesh.ErrInvalidIndexType),
		errors.Is(err, mesh.ErrInvalidAttribute),
		errors.Is(err, mesh.ErrInvalidFormat),
		errors.Is(err, mesh.ErrIncompatibleFormat),
		errors.Is(err, mesh.ErrOutOfBounds),
		errors.Is(err, mesh.ErrSizeMismatch),
		errors.Is(err, mesh.ErrVertexCountMismatch),
		errors.Is(err, mesh.ErrNoVertexCount):
		return http.StatusUnprocessableEntity, "invalid_mesh_error"
	}
	return http.StatusInternalServerError, "server_error"
}
