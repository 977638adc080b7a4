package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/notifyhub/internal/pkg/clock"
	"github.com/shandysiswandi/notifyhub/internal/pkg/config"
	"github.com/shandysiswandi/notifyhub/internal/pkg/goerror"
	"github.com/shandysiswandi/notifyhub/internal/pkg/jwt"
)

type staticID string

func (s staticID) Generate() string { return string(s) }

type payload struct {
	ID string `json:"id"`
}

func newTestRouter(t *testing.T, yaml string) (*Router, string) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)

	signer, err := jwt.NewHS512(jwt.Config{
		Secret: []byte(strings.Repeat("s", 64)),
		Issuer: "test",
		TTL:    time.Hour,
		Clock:  clock.New(),
		UUID:   staticID("jti"),
	})
	require.NoError(t, err)

	token, err := signer.Generate(jwt.Principal{UserID: "u-1", Role: "INNOVATOR", RoleID: "r-1"})
	require.NoError(t, err)

	r := NewRouter(Config{
		Config:          cfg,
		UUID:            staticID("cid-generated"),
		JWT:             signer,
		PublicEndpoints: map[string][]string{http.MethodGet: {"/health"}},
	})
	r.GET("/health", func(*Request) (any, error) { return map[string]string{"status": "ok"}, nil })
	r.GET("/items/:id", func(req *Request) (any, error) {
		if req.GetParam("id") == "missing" {
			return nil, goerror.NewBusiness("Notification not found", goerror.CodeNotFound)
		}
		return payload{ID: jwt.GetAuth(req.Context()).RoleID + ":" + req.GetParam("id")}, nil
	})
	r.POST("/items", func(req *Request) (any, error) {
		var in payload
		if err := req.DecodeBody(&in); err != nil {
			return nil, err
		}
		return nil, nil
	})
	r.GET("/panic", func(*Request) (any, error) { panic("boom") })

	return r, token
}

func TestRouter(t *testing.T) {
	r, token := newTestRouter(t, "app:\n  maintenance:\n    endpoints: /items\n")

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		auth       bool
		wantStatus int
		wantBody   string
	}{
		{name: "public health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK,
			wantBody: `{"message":"request has been successfully","data":{"status":"ok"}}`},
		{name: "missing token", method: http.MethodGet, path: "/items/1", wantStatus: http.StatusUnauthorized,
			wantBody: `{"message":"Authentication required"}`},
		{name: "authenticated", method: http.MethodGet, path: "/items/1", auth: true, wantStatus: http.StatusOK,
			wantBody: `{"message":"request has been successfully","data":{"id":"r-1:1"}}`},
		{name: "business error", method: http.MethodGet, path: "/items/missing", auth: true, wantStatus: http.StatusNotFound,
			wantBody: `{"message":"Notification not found"}`},
		{name: "maintenance", method: http.MethodPost, path: "/items", body: `{}`, auth: true, wantStatus: http.StatusServiceUnavailable,
			wantBody: `{"message":"service is under maintenance"}`},
		{name: "panic", method: http.MethodGet, path: "/panic", auth: true, wantStatus: http.StatusInternalServerError,
			wantBody: `{"message":"Internal server error"}`},
		{name: "not found", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound,
			wantBody: `{"message":"endpoint not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.auth {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			rec := httptest.NewRecorder()

			// Act
			r.ServeHTTP(rec, req)

			// Assert
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestRouter_CorrelationID(t *testing.T) {
	r, _ := newTestRouter(t, "app: {}\n")

	t.Run("echoes incoming", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(HeaderRequestID, "abc")
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, "abc", rec.Header().Get(HeaderCorrelationID))
	})

	t.Run("generates", func(t *testing.T) {
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, "cid-generated", rec.Header().Get(HeaderCorrelationID))
	})
}

func TestRequest_DecodeBody(t *testing.T) {
	r, token := newTestRouter(t, "app: {}\n")

	for name, body := range map[string]string{
		"unknown field": `{"id":"1","x":1}`,
		"trailing data": `{"id":"1"}{}`,
		"not json":      `id=1`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body))
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "Invalid request body", resp["message"])
		})
	}

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"id":"1"}`))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", realIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", realIP(req))
}
