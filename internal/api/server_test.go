package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"medical-record-service/internal/adapters"
	"medical-record-service/internal/api/middleware"
	"medical-record-service/internal/app"
	"medical-record-service/internal/storage"
)

func newTestServer() (*app.App, func(req *http.Request) (*http.Response, error)) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	schema := storage.DefaultSchema()
	store := storage.NewMemoryStore(schema)
	a := app.Wire(store, schema, adapters.NewMemoryAuditPublisher(), logger)
	srv := NewServer(a)
	return a, func(req *http.Request) (*http.Response, error) { return srv.Test(req, -1) }
}

func authed(req *http.Request, userID string) *http.Request {
	req.Header.Set(middleware.HeaderUserID, userID)
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeJSON[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	var out T
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func TestServer_RequiresActorHeader(t *testing.T) {
	_, do := newTestServer()

	res, err := do(httptest.NewRequest(http.MethodGet, "/api/reports/", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/", nil)
	req.Header.Set(middleware.HeaderUserID, "not-a-uuid")
	res, err = do(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestServer_ReportCrudAndRecoveryFlow(t *testing.T) {
	a, do := newTestServer()
	userID := uuid.NewString()

	body, _ := json.Marshal(map[string]any{
		"report_number": "R-100",
		"title":         "Blood Test",
		"content":       "all good",
		"change_reason": "initial intake",
	})
	res, err := do(authed(httptest.NewRequest(http.MethodPost, "/api/reports/", bytes.NewReader(body)), userID))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	created := decodeJSON[map[string]any](t, res)
	id, _ := created["id"].(string)
	assert.NotEmpty(t, id)
	assert.NotEmpty(t, created["current_version_id"], "create must link a current version")

	// soft delete through the hooked route
	res, err = do(authed(httptest.NewRequest(http.MethodDelete, "/api/reports/"+id, nil), userID))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = do(authed(httptest.NewRequest(http.MethodGet, "/api/reports/"+id, nil), userID))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	// recovery surface
	res, err = do(authed(httptest.NewRequest(http.MethodGet, "/api/report/deleted", nil), userID))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	deleted := decodeJSON[[]map[string]any](t, res)
	assert.Len(t, deleted, 1)

	res, err = do(authed(httptest.NewRequest(http.MethodPost, "/api/report/"+id+"/restore", nil), userID))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	restored := decodeJSON[map[string]any](t, res)
	assert.Nil(t, restored["deleted_at"])

	res, err = do(authed(httptest.NewRequest(http.MethodGet, "/api/reports/"+id+"/versions", nil), userID))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	versions := decodeJSON[[]map[string]any](t, res)
	assert.Len(t, versions, 2, "initial version plus pre-delete snapshot")

	// hard delete is physical and audited
	res, err = do(authed(httptest.NewRequest(http.MethodPost, "/api/report/"+id+"/hard-delete", nil), userID))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	ack := decodeJSON[map[string]any](t, res)
	assert.Equal(t, true, ack["success"])

	rows, err := a.Store.Find(context.Background(), "report", storage.Query{})
	assert.NoError(t, err)
	assert.Empty(t, rows)

	events := a.Audit.(*adapters.MemoryAuditPublisher).Events()
	assert.Len(t, events, 2)
	assert.Equal(t, "restore", events[0].Action)
	assert.Equal(t, "hard_delete", events[1].Action)
	assert.Equal(t, userID, events[1].ActorID)
}

func TestServer_UnknownEntityIs404(t *testing.T) {
	_, do := newTestServer()
	userID := uuid.NewString()

	res, err := do(authed(httptest.NewRequest(http.MethodGet, "/api/ghost/deleted", nil), userID))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, err = do(authed(httptest.NewRequest(http.MethodPost, "/api/ghost/some-id/restore", nil), userID))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, err = do(authed(httptest.NewRequest(http.MethodPost, "/api/ghost/some-id/hard-delete", nil), userID))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestServer_CreateValidatesRequiredFields(t *testing.T) {
	_, do := newTestServer()

	body, _ := json.Marshal(map[string]any{"title": "no number"})
	res, err := do(authed(httptest.NewRequest(http.MethodPost, "/api/reports/", bytes.NewReader(body)), uuid.NewString()))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

