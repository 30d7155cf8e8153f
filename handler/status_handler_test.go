package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxcommunity/rafflebot/cache"
	"github.com/voxcommunity/rafflebot/database"
	"github.com/voxcommunity/rafflebot/raffle"
)

func newTestRouter(t *testing.T) (*gin.Engine, *raffle.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := database.New("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	service := raffle.NewService(store, cache.New())
	router := gin.New()
	NewStatusHandler(service).Register(router)
	return router, service
}

func TestHandleKeepAlive(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bot is alive and running!", w.Body.String())
}

func TestHandleStatus(t *testing.T) {
	router, service := newTestRouter(t)
	require.NoError(t, service.Register(1, "https://x.com/one"))
	require.NoError(t, service.SetBlacklisted(2, true))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body["registered"])
	assert.Equal(t, 1, body["blacklisted"])
	assert.Equal(t, 0, body["picked"])
}

func TestHandleUserStatistics(t *testing.T) {
	router, service := newTestRouter(t)
	require.NoError(t, service.Register(7, "https://x.com/seven"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/statistics/7", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body StatisticResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.UserID)
	assert.Equal(t, 1, body.Registrations)
	assert.Equal(t, "Newbie", body.Rank)
}

func TestHandleUserStatisticsInvalidID(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/statistics/not-a-number", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
