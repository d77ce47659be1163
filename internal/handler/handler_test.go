package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dojo-api/internal/middleware"
	"github.com/noah-isme/dojo-api/internal/models"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Status  int    `json:"status"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func withUser(c *gin.Context, user *models.User) {
	c.Set(middleware.ContextUserKey, user)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestBindJSONRejectsUnknownField(t *testing.T) {
	prev := binding.EnableDecoderDisallowUnknownFields
	binding.EnableDecoderDisallowUnknownFields = true
	defer func() { binding.EnableDecoderDisallowUnknownFields = prev }()

	c, w := newGinContext(http.MethodPost, "/classes", []byte(`{"title":"Fundamentals","colour":"red"}`))
	var req struct {
		Title string `json:"title"`
	}

	require.False(t, bindJSON(c, &req))
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	require.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	require.Len(t, env.Error.Details, 1)
	require.Equal(t, "colour", env.Error.Details[0].Field)
}

func TestCascadeParam(t *testing.T) {
	c, _ := newGinContext(http.MethodDelete, "/classes/1?cascade=true", nil)
	require.True(t, cascadeParam(c))

	c, _ = newGinContext(http.MethodDelete, "/classes/1?cascade=nope", nil)
	require.False(t, cascadeParam(c))

	c, _ = newGinContext(http.MethodDelete, "/classes/1", nil)
	require.False(t, cascadeParam(c))
}
