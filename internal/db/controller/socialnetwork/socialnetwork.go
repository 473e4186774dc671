// Package socialnetwork provides CRUD operations for the owner's
// social-network rows. The rows are collaborator data for the public
// resolver: a social_icons block is only shown when at least one active row
// with a non-empty URL exists.
package socialnetwork

import (
	"errors"

	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/db/models"
)

var (
	// ErrSocialNetworkNotFound is returned when a social network row is not found.
	ErrSocialNetworkNotFound = errors.New("social network not found")
	// ErrNetworkEmpty is returned when creating a row with an empty network key.
	ErrNetworkEmpty = errors.New("social network key cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create inserts a new social-network row.
func Create(db *gorm.DB, sn *models.SocialNetwork) error {
	if db == nil {
		return ErrDBNil
	}
	if sn.Network == "" {
		return ErrNetworkEmpty
	}

	sn.ID = 0

	return db.Create(sn).Error
}

// Update replaces network, url, active flag and position of a row.
func Update(db *gorm.DB, id uint64, network, url string, active bool, position int) (*models.SocialNetwork, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if network == "" {
		return nil, ErrNetworkEmpty
	}

	result := db.Model(&models.SocialNetwork{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"network":  network,
			"url":      url,
			"active":   active,
			"position": position,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrSocialNetworkNotFound
	}

	var sn models.SocialNetwork
	if err := db.First(&sn, id).Error; err != nil {
		return nil, err
	}

	return &sn, nil
}

// Delete removes a social-network row by id.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.SocialNetwork{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSocialNetworkNotFound
	}

	return nil
}

// ListAll returns every row ordered by position for the admin UI.
func ListAll(db *gorm.DB) ([]models.SocialNetwork, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []models.SocialNetwork
	if err := db.Order("position, id").Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// CountActive returns the number of active rows with a non-empty URL. The
// resolver uses this count to decide whether social_icons blocks survive.
func CountActive(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	err := db.Model(&models.SocialNetwork{}).
		Where("active = ? AND url <> ''", true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
