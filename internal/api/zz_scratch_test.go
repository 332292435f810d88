package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"context"
	"reflect"
	"unsafe"

	"medical-record-service/internal/api/middleware"
	"medical-record-service/internal/storage"
)

func TestZZScratchRestoreDebug(t *testing.T) {
	a, do := newTestServer()
	userID := uuid.NewString()

	body, _ := json.Marshal(map[string]any{
		"report_number": "R-100",
		"title":         "Blood Test",
		"content":       "all good",
		"change_reason": "initial intake",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/reports/", bytes.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, userID)
	req.Header.Set("Content-Type", "application/json")
	res, _ := do(req)
	var created map[string]any
	json.NewDecoder(res.Body).Decode(&created)
	id, _ := created["id"].(string)
	t.Logf("created id=%s status=%d", id, res.StatusCode)

	req = httptest.NewRequest(http.MethodDelete, "/api/reports/"+id, nil)
	req.Header.Set(middleware.HeaderUserID, userID)
	res, _ = do(req)
	t.Logf("delete status=%d", res.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/api/report/"+id+"/restore", nil)
	req.Header.Set(middleware.HeaderUserID, userID)
	res, _ = do(req)
	b, _ := io.ReadAll(res.Body)
	t.Logf("restore status=%d body=%q", res.StatusCode, string(b))

	ctx := context.Background()
	rec, err := a.Store.Get(ctx, "report", id)
	t.Logf("store.Get report: rec=%v err=%v", rec, err)
	ent, err := a.Schema.Lookup("report")
	t.Logf("schema.Lookup(report): name=%+v err=%v", ent, err)
	rows, err := a.Store.Find(ctx, "report", storage.Query{})
	t.Logf("store.Find report all: %d rows err=%v", len(rows), err)
	for _, r := range rows {
		t.Logf("row id=%q (created=%q) full=%v", storage.AsString(r, "id"), id, r)
	}
	saved, err := a.Store.Save(ctx, "report", storage.Record{"id": id, "deleted_at": nil, "deleted_by": nil})
	t.Logf("store.Save restore: rec=%v err=%v", saved, err)

	ms := a.Store.(*storage.MemoryStore)
	v := reflect.ValueOf(ms).Elem().FieldByName("tables")
	v = reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
	for _, tbl := range v.MapKeys() {
		inner := v.MapIndex(tbl)
		for _, k := range inner.MapKeys() {
			t.Logf("table=%v key=%v", tbl, k)
		}
	}
}
