package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/meshdata/internal/importer"
	"github.com/samcharles93/meshdata/internal/layout"
	"github.com/samcharles93/meshdata/internal/logger"
	"github.com/samcharles93/meshdata/internal/primitives"
)

func newTestEcho() (*echo.Echo, *MeshStore) {
	store := NewMeshStore()
	server := NewServer(store, importer.Options{}, logger.Discard())
	e := echo.New()
	server.Register(e)
	return e, store
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func createMesh(t *testing.T, e *echo.Echo, body string) MeshResp {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/v1/meshes", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status: got %d body=%s", rec.Code, rec.Body.String())
	}
	return decodeBody[MeshResp](t, rec)
}

func TestMeshLifecycle(t *testing.T) {
	t.Parallel()

	e, store := newTestEcho()
	created := createMesh(t, e, `{"shape":"cube"}`)
	if !strings.HasPrefix(created.ID, "mesh_") {
		t.Fatalf("id: got %q", created.ID)
	}
	if created.VertexCount != 24 || created.IndexCount != 36 || created.IndexType != "UnsignedShort" {
		t.Fatalf("created: %+v", created)
	}
	if len(created.Attributes) != 3 || created.Attributes[2].Format != "Vector4ubNormalized" || created.Attributes[2].Offset != 24 {
		t.Fatalf("attributes: %+v", created.Attributes)
	}
	if created.VertexFlags != "Owned|Mutable" {
		t.Fatalf("vertex flags: got %q", created.VertexFlags)
	}

	getRec := doJSON(t, e, http.MethodGet, "/v1/meshes/"+created.ID, "")
	if getRec.Code != http.StatusOK {
		t.Fatalf("get status: got %d", getRec.Code)
	}
	if got := decodeBody[MeshResp](t, getRec); got.ID != created.ID || got.Source != "shape:cube" {
		t.Fatalf("get: %+v", got)
	}

	listRec := doJSON(t, e, http.MethodGet, "/v1/meshes", "")
	if list := decodeBody[MeshListResp](t, listRec); len(list.Data) != 1 || list.Data[0].ID != created.ID {
		t.Fatalf("list: %+v", list)
	}

	delRec := doJSON(t, e, http.MethodDelete, "/v1/meshes/"+created.ID, "")
	if delRec.Code != http.StatusOK {
		t.Fatalf("delete status: got %d", delRec.Code)
	}
	if del := decodeBody[DeleteMeshResp](t, delRec); !del.Deleted {
		t.Fatalf("delete: %+v", del)
	}
	if store.Len() != 0 {
		t.Fatalf("store still holds %d meshes", store.Len())
	}
	if rec := doJSON(t, e, http.MethodGet, "/v1/meshes/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: got %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodDelete, "/v1/meshes/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("delete twice: got %d", rec.Code)
	}
}

func TestMeshDataEndpoints(t *testing.T) {
	t.Parallel()

	e, _ := newTestEcho()
	created := createMesh(t, e, `{"shape":"cube","position_format":"Vector3h","index_type":"u8"}`)
	base := "/v1/meshes/" + created.ID

	indices := decodeBody[IndicesResp](t, doJSON(t, e, http.MethodGet, base+"/indices", ""))
	if indices.Type != "UnsignedByte" || len(indices.Data) != 36 || indices.Data[5] != 3 {
		t.Fatalf("indices: %+v", indices)
	}

	pos := decodeBody[AttributeResp](t, doJSON(t, e, http.MethodGet, base+"/positions", ""))
	if pos.Format != "Vector3h" || len(pos.Data) != 24 || len(pos.Data[0]) != 3 {
		t.Fatalf("positions: %+v", pos)
	}
	if pos.Data[0][0] != -1 || pos.Data[0][2] != 1 {
		t.Fatalf("first position: got %v", pos.Data[0])
	}
	pos2 := decodeBody[AttributeResp](t, doJSON(t, e, http.MethodGet, base+"/positions?dims=2", ""))
	if len(pos2.Data[0]) != 2 {
		t.Fatalf("2D positions: got %v", pos2.Data[0])
	}

	colors := decodeBody[AttributeResp](t, doJSON(t, e, http.MethodGet, base+"/colors", ""))
	if len(colors.Data[4]) != 4 || colors.Data[4][1] != 1 || colors.Data[4][3] != 1 {
		t.Fatalf("second face color: got %v", colors.Data[4])
	}
	normals := decodeBody[AttributeResp](t, doJSON(t, e, http.MethodGet, base+"/normals", ""))
	if normals.Data[0][2] != 1 {
		t.Fatalf("first normal: got %v", normals.Data[0])
	}

	for _, tc := range []struct {
		path string
		code int
	}{
		{base + "/texcoords", http.StatusNotFound},
		{base + "/normals?n=1", http.StatusNotFound},
		{base + "/positions?dims=4", http.StatusBadRequest},
		{base + "/positions?n=-1", http.StatusBadRequest},
		{"/v1/meshes/mesh_missing/colors", http.StatusNotFound},
	} {
		if rec := doJSON(t, e, http.MethodGet, tc.path, ""); rec.Code != tc.code {
			t.Fatalf("%s: got %d want %d body=%s", tc.path, rec.Code, tc.code, rec.Body.String())
		}
	}

	tri := createMesh(t, e, `{"shape":"triangle"}`)
	if rec := doJSON(t, e, http.MethodGet, "/v1/meshes/"+tri.ID+"/indices", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("non-indexed indices: got %d", rec.Code)
	}
}

func TestCreateFromLayout(t *testing.T) {
	t.Parallel()

	cube, err := primitives.Cube(primitives.DefaultOptions())
	if err != nil {
		t.Fatalf("cube: %v", err)
	}
	ctx := logger.WithContext(context.Background(), logger.Discard())
	path, err := importer.Export(ctx, cube, t.TempDir(), "cube", layout.JSON)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	e, store := newTestEcho()
	body, _ := json.Marshal(CreateMeshReq{Path: path})
	created := createMesh(t, e, string(body))
	if created.Source != path || !created.Mapped || created.VertexFlags != "Owned" {
		t.Fatalf("created: %+v", created)
	}

	body, _ = json.Marshal(CreateMeshReq{Path: path, NoMmap: true})
	read := createMesh(t, e, string(body))
	if read.Mapped || read.VertexFlags != "Owned|Mutable" {
		t.Fatalf("read: %+v", read)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
}

func TestCreateMeshRejects(t *testing.T) {
	t.Parallel()

	e, store := newTestEcho()
	for _, tc := range []struct {
		name string
		body string
		code int
	}{
		{"empty body", ``, http.StatusBadRequest},
		{"unknown field", `{"shape":"cube","colour":"red"}`, http.StatusBadRequest},
		{"nothing", `{}`, http.StatusBadRequest},
		{"both", `{"shape":"cube","path":"x.yaml"}`, http.StatusBadRequest},
		{"bad shape", `{"shape":"teapot"}`, http.StatusBadRequest},
		{"bad format", `{"shape":"cube","position_format":"Vector5"}`, http.StatusUnprocessableEntity},
		{"2D normals", `{"shape":"cube","normal_format":"Vector2"}`, http.StatusUnprocessableEntity},
		{"missing file", `{"path":"/nonexistent/mesh.yaml"}`, http.StatusNotFound},
		{"not a layout", `{"path":"/nonexistent/mesh.obj"}`, http.StatusBadRequest},
	} {
		rec := doJSON(t, e, http.MethodPost, "/v1/meshes", tc.body)
		if rec.Code != tc.code {
			t.Fatalf("%s: got %d want %d body=%s", tc.name, rec.Code, tc.code, rec.Body.String())
		}
	}
	if store.Len() != 0 {
		t.Fatalf("rejected requests left %d meshes", store.Len())
	}
}
