// Package setting implements the staged key/value store behind the page
// settings. Every write stages a draft value; the live value only moves on
// publish, so visitors never observe a half-edited configuration.
package setting

import (
	"errors"

	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/db/models"
)

const (
	keyQueryPattern = "key = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when attempting to stage a setting with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Entry is one key/value pair for staging.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Overlay is the admin view of one setting: the draft value when one is
// pending, otherwise the live value. Never served to the public path.
type Overlay struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	HasDraft  bool   `json:"hasDraft"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Get retrieves a setting row by its key.
func Get(db *gorm.DB, key string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting
	result := db.Where(keyQueryPattern, key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	return &setting, nil
}

// Stage upserts a setting with the given draft value.
//
// A brand-new key is created with the live value set to the same input, so a
// first-time setting has no blank live window before its first publish. An
// existing key only gets its draft replaced; the live value stays untouched.
func Stage(db *gorm.DB, key, value string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting
	result := db.Where(keyQueryPattern, key).First(&setting)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		draft := value
		setting = models.Setting{
			Key:        key,
			Value:      value,
			DraftValue: &draft,
		}

		if err := db.Create(&setting).Error; err != nil {
			return nil, err
		}

		return &setting, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	draft := value
	setting.DraftValue = &draft

	if err := db.Save(&setting).Error; err != nil {
		return nil, err
	}

	return &setting, nil
}

// StageBulk applies Stage for each entry in order. Rows already staged stay
// staged when a later entry fails; the caller retries the whole batch.
func StageBulk(db *gorm.DB, entries []Entry) error {
	if db == nil {
		return ErrDBNil
	}

	for _, e := range entries {
		if _, err := Stage(db, e.Key, e.Value); err != nil {
			return err
		}
	}

	return nil
}

// GetAllWithDraftOverlay returns every setting with its effective value
// (draft over live) and a pending-draft flag, for the admin UI only.
func GetAllWithDraftOverlay(db *gorm.DB) ([]Overlay, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	if err := db.Order("key").Find(&settings).Error; err != nil {
		return nil, err
	}

	overlays := make([]Overlay, 0, len(settings))
	for i := range settings {
		s := &settings[i]
		overlays = append(overlays, Overlay{
			Key:       s.Key,
			Value:     s.EffectiveValue(),
			HasDraft:  s.HasDraft(),
			UpdatedAt: s.UpdatedAt.Unix(),
		})
	}

	return overlays, nil
}

// GetLive returns live values only, optionally filtered to a key allow-list.
// A nil or empty keys slice returns every row. Draft values are never
// included; this is the only read the public path may use.
func GetLive(db *gorm.DB, keys []string) (map[string]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	query := db.Model(&models.Setting{})
	if len(keys) > 0 {
		query = query.Where("key IN ?", keys)
	}

	var settings []models.Setting
	if err := query.Find(&settings).Error; err != nil {
		return nil, err
	}

	live := make(map[string]string, len(settings))
	for i := range settings {
		live[settings[i].Key] = settings[i].Value
	}

	return live, nil
}

// CountPending returns the number of settings with a staged value.
func CountPending(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	err := db.Model(&models.Setting{}).
		Where("draft_value IS NOT NULL").
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Publish promotes every staged value to live and clears the drafts in one
// statement. Returns the number of rows promoted; publishing with nothing
// staged is a no-op returning 0, so retrying a publish is always safe.
func Publish(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	result := db.Model(&models.Setting{}).
		Where("draft_value IS NOT NULL").
		Updates(map[string]interface{}{
			"value":       gorm.Expr("draft_value"),
			"draft_value": nil,
		})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// Delete removes a setting row outright. Normal edits never delete; this is
// the explicit, rarely-used reset path (bulk import and the like).
func Delete(db *gorm.DB, key string) error {
	if db == nil {
		return ErrDBNil
	}
	if key == "" {
		return ErrSettingKeyEmpty
	}

	result := db.Where(keyQueryPattern, key).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
