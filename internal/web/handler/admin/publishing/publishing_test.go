package publishing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/config"
	"github.com/linkforge/linkforge/internal/db/controller/block"
	"github.com/linkforge/linkforge/internal/db/controller/setting"
	"github.com/linkforge/linkforge/internal/db/models"
	"github.com/linkforge/linkforge/internal/edgecache"
	"github.com/linkforge/linkforge/internal/publish"
	"github.com/linkforge/linkforge/internal/web/session"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Setting{}, &models.Block{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func newPublishingApp(t *testing.T) (*fiber.App, *gorm.DB, *edgecache.MemoryStorage, string) {
	t.Helper()

	db := setupTestDB(t)
	app := fiber.New()

	session.Init(edgecache.NewMemoryStorage(time.Minute))

	sessionID, err := session.GenerateSessionID()
	require.NoError(t, err)

	data := &session.Data{User: models.User{ID: 1, Username: "admin", Active: true}}
	require.NoError(t, data.Write(sessionID, time.Minute))

	cfg := &config.Config{
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}

	cacheStorage := edgecache.NewMemoryStorage(time.Minute)
	coordinator := publish.NewCoordinator(db, edgecache.NewInvalidator(cacheStorage))

	var s Service
	s.Init(app, cfg, db, coordinator)

	return app, db, cacheStorage, sessionID
}

func doRequest(t *testing.T, app *fiber.App, method, target, sessionID string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)

	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

func TestPublishRequiresSession(t *testing.T) {
	app, _, _, _ := newPublishingApp(t)

	resp := doRequest(t, app, http.MethodPost, Path, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestPublishReturnsSummaryAndPurgesCache(t *testing.T) {
	app, db, cacheStorage, sessionID := newPublishingApp(t)

	_, err := setting.Stage(db, "page_title", "My Page")
	require.NoError(t, err)
	_, err = setting.Stage(db, "theme", "dark")
	require.NoError(t, err)
	require.NoError(t, block.Create(db, &models.Block{Type: models.BlockTypeLink, URL: "https://example.com"}))

	// warm the public cache keys
	require.NoError(t, cacheStorage.Set(edgecache.PublicSettingsPath, []byte("cached"), time.Minute))
	require.NoError(t, cacheStorage.Set(edgecache.PublicBlocksPath, []byte("cached"), time.Minute))

	resp := doRequest(t, app, http.MethodPost, Path, sessionID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer func() { _ = resp.Body.Close() }()

	var summary publish.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))

	assert.EqualValues(t, 2, summary.SettingsPublished)
	assert.EqualValues(t, 1, summary.BlocksPublished)

	for _, key := range edgecache.PublicPaths {
		val, err := cacheStorage.Get(key)
		require.NoError(t, err)
		assert.Nil(t, val, "publish purges %s", key)
	}
}

func TestPublishIsIdempotent(t *testing.T) {
	app, db, _, sessionID := newPublishingApp(t)

	_, err := setting.Stage(db, "theme", "dark")
	require.NoError(t, err)

	resp := doRequest(t, app, http.MethodPost, Path, sessionID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost, Path, sessionID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer func() { _ = resp.Body.Close() }()

	var summary publish.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))

	assert.Zero(t, summary.SettingsPublished, "second publish promotes nothing")
	assert.Zero(t, summary.BlocksPublished)
}

func TestPendingCounts(t *testing.T) {
	app, db, _, sessionID := newPublishingApp(t)

	_, err := setting.Stage(db, "page_title", "My Page")
	require.NoError(t, err)
	require.NoError(t, block.Create(db, &models.Block{Type: models.BlockTypeHeader, Title: "Links"}))
	require.NoError(t, block.Create(db, &models.Block{Type: models.BlockTypeText, Title: "About"}))

	resp := doRequest(t, app, http.MethodGet, PendingPath, sessionID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer func() { _ = resp.Body.Close() }()

	var pending publish.Pending
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pending))

	assert.EqualValues(t, 1, pending.Settings)
	assert.EqualValues(t, 2, pending.Blocks)
}
