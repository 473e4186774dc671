package block

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Block{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func newLink(title string, position int) *models.Block {
	return &models.Block{
		Type:      models.BlockTypeLink,
		Title:     title,
		URL:       "https://example.com/" + title,
		IsEnabled: true,
		Position:  position,
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	b := newLink("a", 1)
	b.Status = models.BlockStatusPublished // must be ignored

	require.NoError(t, Create(db, b))
	assert.NotZero(t, b.ID)
	assert.Equal(t, models.BlockStatusDraft, b.Status)

	err := Create(db, &models.Block{Type: "carousel"})
	require.ErrorIs(t, err, ErrInvalidBlockType)

	require.ErrorIs(t, Create(nil, newLink("b", 2)), ErrDBNil)
}

func TestCreateKeepsDisabled(t *testing.T) {
	db := setupTestDB(t)

	b := newLink("a", 1)
	b.IsEnabled = false
	require.NoError(t, Create(db, b))

	// the stored row must match the struct, not a column default
	got, err := Get(db, b.ID)
	require.NoError(t, err)
	assert.False(t, got.IsEnabled, "block created disabled must stay disabled")
}

func TestUpdateForcesDraft(t *testing.T) {
	db := setupTestDB(t)

	b := newLink("a", 1)
	require.NoError(t, Create(db, b))

	_, err := PublishAll(db)
	require.NoError(t, err)

	got, err := Get(db, b.ID)
	require.NoError(t, err)
	require.Equal(t, models.BlockStatusPublished, got.Status)

	// any single-field edit re-enters draft
	got, err = Update(db, b.ID, Fields{Title: strPtr("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, models.BlockStatusDraft, got.Status)

	// untouched fields are preserved
	assert.Equal(t, "https://example.com/a", got.URL)

	// position is content too
	got, err = Update(db, b.ID, Fields{Position: intPtr(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, got.Position)
	assert.Equal(t, models.BlockStatusDraft, got.Status)

	_, err = Update(db, 9999, Fields{Title: strPtr("x")})
	require.ErrorIs(t, err, ErrBlockNotFound)
}

func TestUpdateSchedule(t *testing.T) {
	db := setupTestDB(t)

	b := newLink("a", 1)
	require.NoError(t, Create(db, b))

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	got, err := Update(db, b.ID, Fields{ScheduledStart: &start, ScheduledEnd: &end})
	require.NoError(t, err)
	require.NotNil(t, got.ScheduledStart)
	require.NotNil(t, got.ScheduledEnd)

	got, err = Update(db, b.ID, Fields{ClearSchedule: true})
	require.NoError(t, err)
	assert.Nil(t, got.ScheduledStart)
	assert.Nil(t, got.ScheduledEnd)
}

func TestReorder(t *testing.T) {
	db := setupTestDB(t)

	a, b := newLink("a", 1), newLink("b", 2)
	require.NoError(t, Create(db, a))
	require.NoError(t, Create(db, b))

	_, err := PublishAll(db)
	require.NoError(t, err)

	err = Reorder(db, []PositionUpdate{
		{ID: a.ID, Position: 2},
		{ID: b.ID, Position: 1},
	})
	require.NoError(t, err)

	blocks, err := ListAll(db)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, b.ID, blocks[0].ID)
	assert.Equal(t, a.ID, blocks[1].ID)

	// reordering is itself an unpublished change
	for _, blk := range blocks {
		assert.Equal(t, models.BlockStatusDraft, blk.Status)
	}

	err = Reorder(db, []PositionUpdate{{ID: 9999, Position: 1}})
	require.ErrorIs(t, err, ErrBlockNotFound)
}

func TestToggleEnabled(t *testing.T) {
	db := setupTestDB(t)

	b := newLink("a", 1)
	require.NoError(t, Create(db, b))

	_, err := PublishAll(db)
	require.NoError(t, err)

	got, err := ToggleEnabled(db, b.ID)
	require.NoError(t, err)
	assert.False(t, got.IsEnabled)
	assert.Equal(t, models.BlockStatusDraft, got.Status)

	got, err = ToggleEnabled(db, b.ID)
	require.NoError(t, err)
	assert.True(t, got.IsEnabled)

	_, err = ToggleEnabled(db, 9999)
	require.ErrorIs(t, err, ErrBlockNotFound)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	b := newLink("a", 1)
	require.NoError(t, Create(db, b))

	// delete bypasses the draft cycle: immediate, regardless of status
	require.NoError(t, Delete(db, b.ID))
	require.ErrorIs(t, Delete(db, b.ID), ErrBlockNotFound)

	_, err := Get(db, b.ID)
	require.ErrorIs(t, err, ErrBlockNotFound)
}

func TestPublishAllIdempotent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Create(db, newLink("a", 1)))
	require.NoError(t, Create(db, newLink("b", 2)))

	count, err := PublishAll(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = PublishAll(db)
	require.NoError(t, err)
	assert.Zero(t, count)

	drafts, err := CountDrafts(db)
	require.NoError(t, err)
	assert.Zero(t, drafts)
}

func TestListAllOrdering(t *testing.T) {
	db := setupTestDB(t)

	// positions [5, 1, 1] inserted in that order; ties keep insertion order
	first := newLink("first", 5)
	second := newLink("second", 1)
	third := newLink("third", 1)
	for _, b := range []*models.Block{first, second, third} {
		require.NoError(t, Create(db, b))
	}

	blocks, err := ListAll(db)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, "second", blocks[0].Title)
	assert.Equal(t, "third", blocks[1].Title)
	assert.Equal(t, "first", blocks[2].Title)
}
