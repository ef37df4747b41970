package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindsup/trainer-gateway/pkg/config"
)

type recordingObserver struct {
	routes   []string
	statuses []int
}

func (o *recordingObserver) ObserveUpstream(method, route string, status int, duration time.Duration) {
	o.routes = append(o.routes, method+" "+route)
	o.statuses = append(o.statuses, status)
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	client, err := New(config.BackendConfig{BaseURL: srv.URL + "/api/", UserAgent: "gateway-test"}, opts...)
	require.NoError(t, err)
	return client
}

func TestDoSendsHeadersAndDecodes(t *testing.T) {
	var got *http.Request
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 12, "nombre": "Ana"}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := newTestClient(t, srv, WithObserver(obs))

	ctx := WithToken(context.Background(), "tok-1")
	var out map[string]interface{}
	err := client.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/turnos",
		Query:  url.Values{"entrenadorId": {"7"}},
		Body:   map[string]string{"tipo": "individual"},
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, "/api/turnos", got.URL.Path)
	assert.Equal(t, "7", got.URL.Query().Get("entrenadorId"))
	assert.Equal(t, "Bearer tok-1", got.Header.Get("Authorization"))
	assert.Equal(t, "gateway-test", got.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "individual", body["tipo"])
	assert.Equal(t, json.Number("12"), out["id"])
	assert.Equal(t, []string{"POST /turnos"}, obs.routes)
	assert.Equal(t, []int{http.StatusOK}, obs.statuses)
}

func TestDoOmitsContentTypeWithoutBody(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, newTestClient(t, srv).Do(context.Background(), Request{Method: http.MethodDelete, Path: "/turnos/3"}, nil))
	require.NotNil(t, got)
	assert.Empty(t, got.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "gateway-test", got.Header.Get("User-Agent"))
}

func TestDoReturnsBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"mensaje": "El turno ya tiene cupo completo"}`))
	}))
	defer srv.Close()

	err := newTestClient(t, srv).Do(context.Background(), Request{Method: http.MethodPost, Path: "turnos/3/alumnos/4"}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, StatusOf(err))
	assert.Equal(t, "El turno ya tiene cupo completo", MessageOf(err))
}

func TestDoTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client, err := New(config.BackendConfig{BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)

	err = client.Get(context.Background(), "/turnos", "", nil, nil)
	require.Error(t, err)
	assert.Equal(t, 0, StatusOf(err))
}

func TestStreamPassesBodyThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	body, contentType, err := newTestClient(t, srv).Stream(context.Background(), Request{Path: "/reportes/export"})
	require.NoError(t, err)
	defer body.Close()
	data, _ := io.ReadAll(body)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New(config.BackendConfig{BaseURL: "localhost:8080"})
	require.Error(t, err)
}

func TestExtractMessage(t *testing.T) {
	cases := map[string]string{
		`{"message":"not allowed"}`:                         "not allowed",
		`{"errors":[{"defaultMessage":"email invalido"}]}`:  "email invalido",
		`{"error":{"detail":"bad date"}}`:                   "bad date",
		`plain failure`:                                     "plain failure",
		`<html><body>Whitelabel Error Page</body></html>`:   "",
		``:                                                  "",
	}
	for raw, want := range cases {
		assert.Equal(t, want, extractMessage([]byte(raw)), raw)
	}
}
