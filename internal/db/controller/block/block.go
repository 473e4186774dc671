// Package block implements the ordered content-block store. Every owner
// mutation except delete moves the touched block back to draft: the status
// flag records whether the row's live fields match what was last published.
package block

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/db/models"
)

var (
	// ErrBlockNotFound is returned when a block is not found.
	ErrBlockNotFound = errors.New("block not found")
	// ErrInvalidBlockType is returned on create with a type outside the closed set.
	ErrInvalidBlockType = errors.New("invalid block type")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Fields is a partial update to a block's content. Nil pointers leave the
// corresponding column untouched.
type Fields struct {
	Title          *string    `json:"title"`
	URL            *string    `json:"url"`
	Icon           *string    `json:"icon"`
	EmbedType      *string    `json:"embedType"`
	EmbedURL       *string    `json:"embedUrl"`
	SocialIcons    *string    `json:"socialIcons"`
	Config         *string    `json:"config"`
	Position       *int       `json:"position"`
	ScheduledStart *time.Time `json:"scheduledStart"`
	ScheduledEnd   *time.Time `json:"scheduledEnd"`
	ClearSchedule  bool       `json:"clearSchedule"`
}

// PositionUpdate assigns a new position to one block during reorder.
type PositionUpdate struct {
	ID       uint64 `json:"id"`
	Position int    `json:"position"`
}

// Create inserts a new block. Status is always forced to draft regardless of
// the input; a block only goes live through PublishAll.
func Create(db *gorm.DB, b *models.Block) error {
	if db == nil {
		return ErrDBNil
	}
	if !models.ValidBlockType(b.Type) {
		return ErrInvalidBlockType
	}

	b.ID = 0
	b.Status = models.BlockStatusDraft

	return db.Create(b).Error
}

// Get retrieves a block by id.
func Get(db *gorm.DB, id uint64) (*models.Block, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var b models.Block
	result := db.First(&b, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBlockNotFound
		}
		return nil, result.Error
	}

	return &b, nil
}

// Update merges the given partial fields into the block and forces it back
// to draft, even when it was previously published.
func Update(db *gorm.DB, id uint64, fields Fields) (*models.Block, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	b, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status": models.BlockStatusDraft,
	}

	if fields.Title != nil {
		updates["title"] = *fields.Title
	}
	if fields.URL != nil {
		updates["url"] = *fields.URL
	}
	if fields.Icon != nil {
		updates["icon"] = *fields.Icon
	}
	if fields.EmbedType != nil {
		updates["embed_type"] = *fields.EmbedType
	}
	if fields.EmbedURL != nil {
		updates["embed_url"] = *fields.EmbedURL
	}
	if fields.SocialIcons != nil {
		updates["social_icons"] = *fields.SocialIcons
	}
	if fields.Config != nil {
		updates["config"] = *fields.Config
	}
	if fields.Position != nil {
		updates["position"] = *fields.Position
	}
	if fields.ClearSchedule {
		updates["scheduled_start"] = nil
		updates["scheduled_end"] = nil
	} else {
		if fields.ScheduledStart != nil {
			updates["scheduled_start"] = *fields.ScheduledStart
		}
		if fields.ScheduledEnd != nil {
			updates["scheduled_end"] = *fields.ScheduledEnd
		}
	}

	if err := db.Model(b).Updates(updates).Error; err != nil {
		return nil, err
	}

	return Get(db, id)
}

// Reorder applies each position update, forcing draft status for every
// touched block: order is content for visibility purposes, so reordering is
// itself an unpublished change.
func Reorder(db *gorm.DB, pairs []PositionUpdate) error {
	if db == nil {
		return ErrDBNil
	}

	for _, p := range pairs {
		result := db.Model(&models.Block{}).
			Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"position": p.Position,
				"status":   models.BlockStatusDraft,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrBlockNotFound
		}
	}

	return nil
}

// ToggleEnabled flips the owner-controlled hide/show switch and forces the
// block back to draft.
func ToggleEnabled(db *gorm.DB, id uint64) (*models.Block, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	b, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	err = db.Model(b).Updates(map[string]interface{}{
		"is_enabled": !b.IsEnabled,
		"status":     models.BlockStatusDraft,
	}).Error
	if err != nil {
		return nil, err
	}

	return Get(db, id)
}

// Delete hard-deletes a block by id. Deletion is deliberately not staged:
// it takes effect immediately and is not part of the draft/publish cycle.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Block{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlockNotFound
	}

	return nil
}

// PublishAll flips every draft block to published in one statement and
// returns the count. Content, order and the enable flag are already live in
// the row; publish only moves the status flag. No-op returning 0 when
// nothing is in draft.
func PublishAll(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	result := db.Model(&models.Block{}).
		Where("status = ?", models.BlockStatusDraft).
		Update("status", models.BlockStatusPublished)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// CountDrafts returns the number of blocks with unpublished changes.
func CountDrafts(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	err := db.Model(&models.Block{}).
		Where("status = ?", models.BlockStatusDraft).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// ListAll returns every block, drafts and disabled ones included, ordered by
// position with insertion order breaking ties. The admin UI renders the
// per-block status as its "unpublished" indicator.
func ListAll(db *gorm.DB) ([]models.Block, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var blocks []models.Block
	if err := db.Order("position, id").Find(&blocks).Error; err != nil {
		return nil, err
	}

	return blocks, nil
}
