package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmdshop/cmdshop/internal/cmds"
	"github.com/cmdshop/cmdshop/internal/cmds/export"
	"github.com/cmdshop/cmdshop/internal/cmds/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type brokenRepo struct{ err error }

func (b *brokenRepo) List(ctx context.Context) ([]*cmds.Cmd, error) { return nil, b.err }
func (b *brokenRepo) Get(ctx context.Context, id string) (*cmds.Cmd, error) {
	return nil, b.err
}
func (b *brokenRepo) Create(ctx context.Context, c *cmds.Cmd) error { return b.err }
func (b *brokenRepo) Update(ctx context.Context, id string, p cmds.Patch) (*cmds.Cmd, error) {
	return nil, b.err
}
func (b *brokenRepo) Delete(ctx context.Context, id string) error { return b.err }
func (b *brokenRepo) Ping(ctx context.Context) error                { return b.err }

type stubExporter struct {
	snap *export.Snapshot
	err  error
}

func (s *stubExporter) Export(ctx context.Context) (*export.Snapshot, error) { return s.snap, s.err }

func newRouter(svc service.Service, exp Exporter) *gin.Engine {
	g := gin.New()
	RegisterCmdRoutes(g, svc, exp)
	return g
}

func do(g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	g.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var m map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m["message"]
}

func createCmd(t *testing.T, g *gin.Engine, body string) cmds.Cmd {
	t.Helper()
	w := do(g, http.MethodPost, "/cmds", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var c cmds.Cmd
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	return c
}

func TestCmdHandler_CRUD(t *testing.T) {
	g := newRouter(service.NewMemoryService(), nil)

	// create normalizes tags
	c := createCmd(t, g, `{"title":"ls -la","content":"list files","tags":[" unix ","","files"]}`)
	require.NotEmpty(t, c.ID)
	assert.Equal(t, "ls -la", c.Title)
	assert.Equal(t, []string{"unix", "files"}, c.Tags)

	// get
	w := do(g, http.MethodGet, "/cmds/"+c.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got cmds.Cmd
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, c, got)

	// list
	w = do(g, http.MethodGet, "/cmds", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []cmds.Cmd
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	// partial update keeps title
	w = do(g, http.MethodPut, "/cmds/"+c.ID, `{"content":"long listing","id":"ignored"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "ls -la", got.Title)
	assert.Equal(t, "long listing", got.Content)

	// delete twice
	w = do(g, http.MethodDelete, "/cmds/"+c.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Cmd deleted successfully", message(t, w))
	w = do(g, http.MethodDelete, "/cmds/"+c.ID, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Cmd not found", message(t, w))
}

func TestCmdHandler_ListEmptyIsArray(t *testing.T) {
	g := newRouter(service.NewMemoryService(), nil)
	w := do(g, http.MethodGet, "/cmds", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCmdHandler_CreateValidation(t *testing.T) {
	g := newRouter(service.NewMemoryService(), nil)
	cases := []struct {
		name string
		body string
		msg  string
	}{
		{"missing title", `{"content":"x"}`, "Missing required fields: title and content are required."},
		{"empty content", `{"title":"x","content":""}`, "Missing required fields: title and content are required."},
		{"missing both with bad tags", `{"tags":"x"}`, "Missing required fields: title and content are required."},
		{"tags not array", `{"title":"a","content":"b","tags":"unix"}`, "Tags must be an array of strings."},
		{"tags not strings", `{"title":"a","content":"b","tags":[1,2]}`, "Tags must be an array of strings."},
		{"malformed json", `{"title":`, "Invalid request body."},
		{"null tag entry", `{"title":"a","content":"b","tags":["x",null]}`, "Tags must be an array of strings."},
		{"tags checked before title type", `{"tags":[1],"title":5,"content":"x"}`, "Tags must be an array of strings."},
		{"missing checked before tags", `{"tags":[null],"content":"x"}`, "Missing required fields: title and content are required."},
		{"title not string", `{"title":5,"content":"b"}`, "Invalid request body."},
		{"not an object", `["a"]`, "Invalid request body."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(g, http.MethodPost, "/cmds", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.msg, message(t, w))
		})
	}

	w := do(g, http.MethodGet, "/cmds", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCmdHandler_UpdateValidation(t *testing.T) {
	g := newRouter(service.NewMemoryService(), nil)
	c := createCmd(t, g, `{"title":"ls","content":"list","tags":["unix"]}`)

	cases := []struct {
		name string
		body string
		msg  string
	}{
		{"empty body", `{}`, "No update data provided."},
		{"only id", `{"id":"other"}`, "No update data provided."},
		{"only unknown", `{"color":"red"}`, "No update data provided."},
		{"only nulls", `{"title":null}`, "No update data provided."},
		{"empty title", `{"title":""}`, "Title cannot be empty."},
		{"empty content", `{"content":""}`, "Content cannot be empty."},
		{"bad tags", `{"tags":"unix"}`, "Tags must be an array of strings."},
		{"null tag", `{"tags":[null]}`, "Tags must be an array of strings."},
		{"null among tags", `{"tags":["a",null]}`, "Tags must be an array of strings."},
		{"tags checked before title type", `{"title":5,"tags":[1]}`, "Tags must be an array of strings."},
		{"title not string", `{"title":5}`, "Invalid request body."},
		{"malformed", `not json`, "Invalid request body."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(g, http.MethodPut, "/cmds/"+c.ID, tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.msg, message(t, w))
		})
	}

	w := do(g, http.MethodGet, "/cmds/"+c.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got cmds.Cmd
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, c, got)
}

func TestCmdHandler_CreateNullTagsDefaultEmpty(t *testing.T) {
	g := newRouter(service.NewMemoryService(), nil)
	c := createCmd(t, g, `{"title":"ls","content":"list","tags":null}`)
	assert.Equal(t, []string{}, c.Tags)
}

func TestCmdHandler_UpdateTagsNormalized(t *testing.T) {
	g := newRouter(service.NewMemoryService(), nil)
	c := createCmd(t, g, `{"title":"ls","content":"list","tags":["unix"]}`)

	w := do(g, http.MethodPut, "/cmds/"+c.ID, `{"tags":["  a ",""," "]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var got cmds.Cmd
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []string{"a"}, got.Tags)

	w = do(g, http.MethodPut, "/cmds/"+c.ID, `{"tags":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []string{}, got.Tags)
}

func TestCmdHandler_NotFound(t *testing.T) {
	g := newRouter(service.NewMemoryService(), nil)

	w := do(g, http.MethodGet, "/cmds/nope", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Cmd not found", message(t, w))

	w = do(g, http.MethodPut, "/cmds/nope", `{"title":"x"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Cmd not found or failed to update", message(t, w))
}

func TestCmdHandler_StoreFault(t *testing.T) {
	g := newRouter(service.New(&brokenRepo{err: errors.New("connection refused")}), nil)

	w := do(g, http.MethodGet, "/cmds", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to fetch cmds: connection refused", message(t, w))

	w = do(g, http.MethodPost, "/cmds", `{"title":"a","content":"b"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to add cmd: connection refused", message(t, w))

	w = do(g, http.MethodGet, "/cmds/x", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	w = do(g, http.MethodDelete, "/cmds/x", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	// validation still runs before the store
	w = do(g, http.MethodPut, "/cmds/x", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCmdHandler_SearchAndTags(t *testing.T) {
	g := newRouter(service.NewMemoryService(), nil)
	createCmd(t, g, `{"title":"ls -la","content":"list files","tags":["unix","files"]}`)
	createCmd(t, g, `{"title":"docker ps","content":"list containers","tags":["docker"]}`)

	w := do(g, http.MethodGet, "/cmds?tag=docker", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []cmds.Cmd
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "docker ps", list[0].Title)

	w = do(g, http.MethodGet, "/cmds?q=LIST", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	w = do(g, http.MethodGet, "/cmds?tag=none", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(g, http.MethodGet, "/cmds/tags", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["docker","files","unix"]`, w.Body.String())
}

func TestCmdHandler_Export(t *testing.T) {
	g := newRouter(service.NewMemoryService(), nil)
	w := do(g, http.MethodPost, "/cmds/export", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	exp := &stubExporter{snap: &export.Snapshot{Key: "snapshots/cmds-1.json", URL: "https://x/y", Count: 3}}
	g = newRouter(service.NewMemoryService(), exp)
	w = do(g, http.MethodPost, "/cmds/export", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"key":"snapshots/cmds-1.json","url":"https://x/y","count":3}`, w.Body.String())

	exp.snap, exp.err = nil, errors.New("upload snapshot: bucket gone")
	w = do(g, http.MethodPost, "/cmds/export", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "upload snapshot: bucket gone", message(t, w))
}
