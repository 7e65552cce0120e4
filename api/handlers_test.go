package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"efewire/efe"
	"efewire/images"
	"efewire/notices"
	"efewire/pipeline"
	"efewire/settings"
	"efewire/storage"
)

func newTestRouter(t *testing.T) (*gin.Engine, settings.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := settings.NewMemoryStore()
	log := notices.New()
	files, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	source := efe.NewSource("http://127.0.0.1:0", store, log)
	resolver := images.NewResolver(files, source, "", log)
	p := pipeline.New(source, store, resolver, files, nil, log)
	return NewRouter(p, store, log), store
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestStatus(t *testing.T) {
	router, store := newTestRouter(t)
	ctx := context.Background()
	store.Set(ctx, settings.KeyEnabled, "true")
	store.Set(ctx, settings.KeyLastRun, time.Now().Format(time.RFC3339))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["enabled"])
	assert.Equal(t, false, resp["stale"])
	assert.NotEmpty(t, resp["last_run"])
}

func TestUpdateSettings(t *testing.T) {
	router, store := newTestRouter(t)

	body := `{"client_id":"id1","client_secret":"s3cret","product_id":"p1","enabled":true}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	ctx := context.Background()
	for key, want := range map[string]string{
		settings.KeyClientID:     "id1",
		settings.KeyClientSecret: "s3cret",
		settings.KeyProductID:    "p1",
		settings.KeyEnabled:      "true",
	} {
		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, got, key)
	}

	// The secret must never be echoed back.
	assert.NotContains(t, w.Body.String(), "s3cret")
}

func TestRunSurfacesConfigError(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/run", nil))
	require.Equal(t, http.StatusBadRequest, w.Code, "missing credentials map to a 400")
}
