package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/codelens/internal/pkg/config"
	"github.com/shandysiswandi/codelens/internal/pkg/goerror"
	"github.com/shandysiswandi/codelens/internal/pkg/instrument"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

func newTestRouter(t *testing.T, yaml string) http.Handler {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	r := NewRouter(Config{Config: cfg, UUID: fixedID("cid-test"), Instrument: instrument.NewNoop()})
	r.POST("/echo", func(req *Request) (any, error) {
		var in struct {
			Phone string `json:"phone"`
		}
		if err := req.DecodeBody(&in); err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "phone": in.Phone}, nil
	})
	r.POST("/fail", func(*Request) (any, error) {
		return nil, goerror.NewBusiness("User not found", goerror.CodeNotFound)
	})
	r.POST("/bare", func(*Request) (any, error) {
		return nil, errors.New("db exploded at 10.0.0.1")
	})
	r.POST("/panic", func(*Request) (any, error) {
		panic("boom")
	})

	return CORS(r)
}

func do(t *testing.T, h http.Handler, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body["error"]
}

func TestRouterCodecs(t *testing.T) {
	h := newTestRouter(t, "app: {}")

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "ok", path: "/echo", body: `{"phone":"+14155550100","extra":1}`, wantStatus: http.StatusOK},
		{name: "malformed json", path: "/echo", body: `{"phone":`, wantStatus: http.StatusBadRequest, wantError: "Invalid request body"},
		{name: "wrong type", path: "/echo", body: `{"phone":42}`, wantStatus: http.StatusBadRequest, wantError: "Invalid request body"},
		{name: "trailing data", path: "/echo", body: `{"phone":"1"}{}`, wantStatus: http.StatusBadRequest, wantError: "Invalid request body"},
		{name: "oversize", path: "/echo", body: `{"phone":"` + strings.Repeat("9", MaxBodyBytes) + `"}`, wantStatus: http.StatusBadRequest, wantError: "Invalid request body"},
		{name: "goerror", path: "/fail", body: `{}`, wantStatus: http.StatusNotFound, wantError: "User not found"},
		{name: "bare error", path: "/bare", body: `{}`, wantStatus: http.StatusInternalServerError, wantError: "Internal server error"},
		{name: "panic", path: "/panic", body: `{}`, wantStatus: http.StatusInternalServerError, wantError: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			rec := do(t, h, http.MethodPost, tt.path, tt.body, nil)

			// Assert
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantError != "" {
				if got := errorBody(t, rec); got != tt.wantError {
					t.Fatalf("error = %q, want %q", got, tt.wantError)
				}
			}
			if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Fatalf("missing CORS origin header")
			}
		})
	}
}

func TestRouterHealthAndCorrelation(t *testing.T) {
	h := newTestRouter(t, "app: {}")

	rec := do(t, h, http.MethodGet, "/health", "", nil)

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("health = %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(HeaderCorrelationID) != "cid-test" {
		t.Fatalf("correlation id = %q", rec.Header().Get(HeaderCorrelationID))
	}

	rec = do(t, h, http.MethodGet, "/health", "", map[string]string{HeaderRequestID: "upstream-1"})
	if rec.Header().Get(HeaderCorrelationID) != "upstream-1" {
		t.Fatalf("correlation id = %q, want upstream-1", rec.Header().Get(HeaderCorrelationID))
	}
}

func TestRouterOptions(t *testing.T) {
	h := newTestRouter(t, "app:\n  server:\n    api_keys: secret")

	preflight := map[string]string{
		"Origin":                         "https://review.example.com",
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": "content-type, apikey",
	}

	tests := []struct {
		name string
		path string
		hdr  map[string]string
	}{
		{name: "plain options", path: "/echo", hdr: nil},
		{name: "browser preflight", path: "/echo", hdr: preflight},
		{name: "plain options on unknown path", path: "/nope", hdr: nil},
		{name: "browser preflight on unknown path", path: "/nope", hdr: preflight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodOptions, tt.path, "", tt.hdr)

			if rec.Code != http.StatusNoContent {
				t.Fatalf("status = %d, want 204", rec.Code)
			}
			if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Fatalf("allow origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
			}
			if rec.Header().Get("Access-Control-Allow-Headers") == "" {
				t.Fatalf("allow headers missing")
			}
		})
	}
}

func TestRouterAPIKey(t *testing.T) {
	h := newTestRouter(t, "app:\n  server:\n    api_keys: \"k1, k2\"")

	tests := []struct {
		name       string
		hdr        map[string]string
		wantStatus int
	}{
		{name: "missing", wantStatus: http.StatusUnauthorized},
		{name: "wrong", hdr: map[string]string{"apikey": "nope"}, wantStatus: http.StatusUnauthorized},
		{name: "apikey header", hdr: map[string]string{"apikey": "k2"}, wantStatus: http.StatusOK},
		{name: "bearer", hdr: map[string]string{"Authorization": "Bearer k1"}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/echo", `{"phone":"1"}`, tt.hdr)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized && errorBody(t, rec) != "Invalid API key" {
				t.Fatalf("body = %s", rec.Body.String())
			}
		})
	}

	if rec := do(t, h, http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("health should bypass the key gate, got %d", rec.Code)
	}
}

func TestRouterMaintenance(t *testing.T) {
	h := newTestRouter(t, "app:\n  maintenance:\n    endpoints: /echo")

	rec := do(t, h, http.MethodPost, "/echo", `{}`, nil)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestRouterNotFound(t *testing.T) {
	h := newTestRouter(t, "app: {}")

	rec := do(t, h, http.MethodGet, "/nope", "", nil)

	if rec.Code != http.StatusNotFound || errorBody(t, rec) != "Not found" {
		t.Fatalf("not found = %d %s", rec.Code, rec.Body.String())
	}
}
