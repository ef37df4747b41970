package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/grindsup/trainer-gateway/internal/middleware"
	"github.com/grindsup/trainer-gateway/internal/models"
	"github.com/grindsup/trainer-gateway/pkg/response"
)

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func asTrainer(c *gin.Context, id int64) {
	c.Set(middleware.ContextSessionKey, &models.Session{ID: "sess-1", Token: "backend-token"})
	c.Set(middleware.ContextTrainerIDKey, id)
}

func cancelRequest(c *gin.Context) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	cancel()
	c.Request = c.Request.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data interface{}) response.Envelope {
	t.Helper()
	raw := struct {
		Data  json.RawMessage        `json:"data"`
		Error *json.RawMessage       `json:"error"`
		Meta  map[string]interface{} `json:"meta"`
	}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return env
}
