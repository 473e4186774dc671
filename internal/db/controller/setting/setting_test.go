package setting

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestStage(t *testing.T) {
	testCases := []struct {
		name          string
		nilDB         bool
		key           string
		value         string
		expectedError error
	}{
		{
			name:          "nil database",
			nilDB:         true,
			key:           "theme",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty key",
			key:           "",
			expectedError: ErrSettingKeyEmpty,
		},
		{
			name:  "new key",
			key:   "theme",
			value: "dark",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var db *gorm.DB
			if !tc.nilDB {
				db = setupTestDB(t)
			}

			s, err := Stage(db, tc.key, tc.value)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, s)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, s)
			// first write is also its own live value
			assert.Equal(t, tc.value, s.Value)
			require.NotNil(t, s.DraftValue)
			assert.Equal(t, tc.value, *s.DraftValue)
		})
	}
}

func TestDraftIsolation(t *testing.T) {
	db := setupTestDB(t)

	_, err := Stage(db, "theme", "light")
	require.NoError(t, err)
	_, err = Publish(db)
	require.NoError(t, err)

	// stage a new value; the live read must keep returning the old one
	_, err = Stage(db, "theme", "dark")
	require.NoError(t, err)

	live, err := GetLive(db, []string{"theme"})
	require.NoError(t, err)
	assert.Equal(t, "light", live["theme"])

	overlays, err := GetAllWithDraftOverlay(db)
	require.NoError(t, err)
	require.Len(t, overlays, 1)
	assert.Equal(t, "dark", overlays[0].Value)
	assert.True(t, overlays[0].HasDraft)
}

func TestPublish(t *testing.T) {
	db := setupTestDB(t)

	_, err := Stage(db, "theme", "dark")
	require.NoError(t, err)
	_, err = Stage(db, "accent_color", "#ff0055")
	require.NoError(t, err)

	pending, err := CountPending(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)

	published, err := Publish(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), published)

	live, err := GetLive(db, nil)
	require.NoError(t, err)
	assert.Equal(t, "dark", live["theme"])
	assert.Equal(t, "#ff0055", live["accent_color"])

	pending, err = CountPending(db)
	require.NoError(t, err)
	assert.Zero(t, pending)

	// idempotence: nothing staged, second publish is a no-op
	published, err = Publish(db)
	require.NoError(t, err)
	assert.Zero(t, published)
}

func TestStageBulk(t *testing.T) {
	db := setupTestDB(t)

	err := StageBulk(db, []Entry{
		{Key: "page_title", Value: "Nora"},
		{Key: "theme", Value: "dark"},
	})
	require.NoError(t, err)

	pending, err := CountPending(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)

	// live values exist immediately for brand-new keys
	live, err := GetLive(db, nil)
	require.NoError(t, err)
	assert.Equal(t, "Nora", live["page_title"])
}

func TestGetLiveAllowList(t *testing.T) {
	db := setupTestDB(t)

	for _, e := range []Entry{
		{Key: "theme", Value: "dark"},
		{Key: "captcha_secret", Value: "s3cret"},
	} {
		_, err := Stage(db, e.Key, e.Value)
		require.NoError(t, err)
	}
	_, err := Publish(db)
	require.NoError(t, err)

	live, err := GetLive(db, []string{"theme"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"theme": "dark"}, live)
	assert.NotContains(t, live, "captcha_secret")
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	_, err := Stage(db, "theme", "dark")
	require.NoError(t, err)

	require.NoError(t, Delete(db, "theme"))
	require.ErrorIs(t, Delete(db, "theme"), ErrSettingNotFound)
	require.ErrorIs(t, Delete(db, ""), ErrSettingKeyEmpty)
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	_, err := Get(db, "missing")
	require.ErrorIs(t, err, ErrSettingNotFound)

	_, err = Get(nil, "theme")
	require.ErrorIs(t, err, ErrDBNil)

	_, err = Stage(db, "theme", "dark")
	require.NoError(t, err)

	s, err := Get(db, "theme")
	require.NoError(t, err)
	assert.Equal(t, "theme", s.Key)
}
