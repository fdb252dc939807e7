package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scienceol/chemlookup/internal/config"
)

func serve(t *testing.T, h gin.HandlerFunc) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.GET("/", h)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestLive(t *testing.T) {
	status, body := serve(t, Live)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestReadyWithoutBackends(t *testing.T) {
	conf := config.Global()
	store, backend := conf.Store.Enable, conf.Cache.Backend
	t.Cleanup(func() { conf.Store.Enable, conf.Cache.Backend = store, backend })

	conf.Store.Enable = false
	conf.Cache.Backend = config.CacheMemory
	status, body := serve(t, Ready)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"postgres": "disabled", "redis": "disabled"}, body["checks"])

	conf.Store.Enable = true
	status, body = serve(t, Ready)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "not_ready", body["status"])
}
