package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	gohttp "github.com/km-arc/go-container/framework/http"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newResponse(t *testing.T) (*gohttp.Response, *httptest.ResponseRecorder) {
	t.Helper()
	rr := httptest.NewRecorder()
	return gohttp.NewResponse(rr), rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decodeJSON: %v", err)
	}
}

// ── JSON ──────────────────────────────────────────────────────────────────────

func TestResponse_JSON(t *testing.T) {
	res, rr := newResponse(t)
	res.JSON(http.StatusOK, map[string]any{"key": "val"})

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q want application/json", ct)
	}
	var m map[string]any
	decodeJSON(t, rr, &m)
	if m["key"] != "val" {
		t.Errorf("body key: got %v want val", m["key"])
	}
}

func TestResponse_Success(t *testing.T) {
	res, rr := newResponse(t)
	res.Success(map[string]any{"id": 1})

	var m struct {
		Data map[string]float64 `json:"data"`
	}
	decodeJSON(t, rr, &m)
	if m.Data["id"] != 1 {
		t.Errorf("data.id: got %v want 1", m.Data["id"])
	}
}

// ── Error helpers ─────────────────────────────────────────────────────────────

func TestResponse_ErrorHelpers(t *testing.T) {
	cases := []struct {
		name    string
		send    func(*gohttp.Response)
		status  int
		message string
	}{
		{"Error", func(r *gohttp.Response) { r.Error(http.StatusBadRequest, "bad input") }, http.StatusBadRequest, "bad input"},
		{"Forbidden", func(r *gohttp.Response) { r.Forbidden() }, http.StatusForbidden, "This action is unauthorized."},
		{"NotFound", func(r *gohttp.Response) { r.NotFound() }, http.StatusNotFound, "Not found."},
		{"NotFound custom", func(r *gohttp.Response) { r.NotFound("gone") }, http.StatusNotFound, "gone"},
		{"ServerError", func(r *gohttp.Response) { r.ServerError() }, http.StatusInternalServerError, "Server Error."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, rr := newResponse(t)
			tc.send(res)

			if rr.Code != tc.status {
				t.Errorf("status: got %d want %d", rr.Code, tc.status)
			}
			var m map[string]string
			decodeJSON(t, rr, &m)
			if m["message"] != tc.message {
				t.Errorf("message: got %q want %q", m["message"], tc.message)
			}
		})
	}
}
