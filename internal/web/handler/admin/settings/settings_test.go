package settings

import (
	"bytes"
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
	"github.com/linkforge/linkforge/internal/db/controller/setting"
	"github.com/linkforge/linkforge/internal/db/models"
	"github.com/linkforge/linkforge/internal/edgecache"
	"github.com/linkforge/linkforge/internal/web/session"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}
}

// ownerSession initializes an in-memory session store and returns a session
// ID belonging to a logged-in owner.
func ownerSession(t *testing.T) string {
	t.Helper()

	session.Init(edgecache.NewMemoryStorage(time.Minute))

	sessionID, err := session.GenerateSessionID()
	require.NoError(t, err)

	data := &session.Data{User: models.User{ID: 1, Username: "admin", Active: true}}
	require.NoError(t, data.Write(sessionID, time.Minute))

	return sessionID
}

func doJSON(t *testing.T, app *fiber.App, method, target, sessionID string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	defer func() { _ = resp.Body.Close() }()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return out
}

func newSettingsApp(t *testing.T) (*fiber.App, *gorm.DB, string) {
	t.Helper()

	db := setupTestDB(t)
	app := fiber.New()
	sessionID := ownerSession(t)

	var s Service
	s.Init(app, newTestConfig(), db)

	return app, db, sessionID
}

func TestStageRequiresSession(t *testing.T) {
	app, _, _ := newSettingsApp(t)

	resp := doJSON(t, app, http.MethodPut, Path+"/theme", "", stageRequest{Value: "dark"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodPut, Path+"/theme", "bogus-session-id", stageRequest{Value: "dark"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestStageLeavesLiveValueUntouched(t *testing.T) {
	app, db, sessionID := newSettingsApp(t)

	// seed a live value
	_, err := setting.Stage(db, "page_title", "Old Title")
	require.NoError(t, err)

	resp := doJSON(t, app, http.MethodPut, Path+"/page_title", sessionID, stageRequest{Value: "New Title"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "page_title", body["key"])
	assert.Equal(t, "New Title", body["value"])
	assert.Equal(t, true, body["hasDraft"])

	// live value is still the old one
	live, err := setting.GetLive(db, nil)
	require.NoError(t, err)
	assert.Equal(t, "Old Title", live["page_title"])
}

func TestStageRejectsMalformedValue(t *testing.T) {
	app, db, sessionID := newSettingsApp(t)

	resp := doJSON(t, app, http.MethodPut, Path+"/accent_color", sessionID, stageRequest{Value: "not-a-color"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "accent_color", body["field"])

	// nothing was staged
	count, err := setting.CountPending(db)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStageAcceptsWellFormedValue(t *testing.T) {
	app, _, sessionID := newSettingsApp(t)

	resp := doJSON(t, app, http.MethodPut, Path+"/accent_color", sessionID, stageRequest{Value: "#a1b2c3"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestStageBulkAllOrNothing(t *testing.T) {
	app, db, sessionID := newSettingsApp(t)

	// second entry is malformed, nothing may be staged
	resp := doJSON(t, app, http.MethodPut, Path, sessionID, stageBulkRequest{
		Entries: []setting.Entry{
			{Key: "page_title", Value: "My Page"},
			{Key: "accent_color", Value: "nope"},
		},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	count, err := setting.CountPending(db)
	require.NoError(t, err)
	assert.Zero(t, count)

	// well-formed batch stages everything
	resp = doJSON(t, app, http.MethodPut, Path, sessionID, stageBulkRequest{
		Entries: []setting.Entry{
			{Key: "page_title", Value: "My Page"},
			{Key: "accent_color", Value: "#112233"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.EqualValues(t, 2, body["staged"])
}

func TestStageBulkRejectsEmptyBatch(t *testing.T) {
	app, _, sessionID := newSettingsApp(t)

	resp := doJSON(t, app, http.MethodPut, Path, sessionID, stageBulkRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestListReportsOverlayAndPending(t *testing.T) {
	app, db, sessionID := newSettingsApp(t)

	_, err := setting.Stage(db, "theme", "light")
	require.NoError(t, err)
	_, err = setting.Publish(db)
	require.NoError(t, err)
	_, err = setting.Stage(db, "theme", "dark")
	require.NoError(t, err)

	resp := doJSON(t, app, http.MethodGet, Path, sessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.EqualValues(t, 1, body["pending"])

	entries, ok := body["settings"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)

	entry, ok := entries[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "theme", entry["key"])
	assert.Equal(t, "dark", entry["value"], "admin list shows the draft value")
	assert.Equal(t, true, entry["hasDraft"])
}

func TestDeleteSetting(t *testing.T) {
	app, db, sessionID := newSettingsApp(t)

	_, err := setting.Stage(db, "theme", "dark")
	require.NoError(t, err)

	resp := doJSON(t, app, http.MethodDelete, Path+"/theme", sessionID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	_, err = setting.Get(db, "theme")
	assert.ErrorIs(t, err, setting.ErrSettingNotFound)

	resp = doJSON(t, app, http.MethodDelete, Path+"/theme", sessionID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}
