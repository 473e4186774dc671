package daemon

import (
	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/config"
	"github.com/linkforge/linkforge/internal/db/models"
)

// defaultSettings are created live (no draft) on first boot so the public
// page renders something sensible before the owner signs in.
var defaultSettings = map[string]string{
	"page_title":           "LinkForge",
	"theme":                "light",
	"contact_form_enabled": "false",
}

func seed(cfg *config.Config, db *gorm.DB) {
	var userCount int64

	db.Model(&models.User{}).Count(&userCount)

	if userCount == 0 {
		// Default owner account, the password must be changed after first login.
		db.Create(
			&models.User{
				Username:   "admin",
				Password:   models.HashPassword("changeme"),
				Active:     true,
				AuthSource: models.AuthSourceLocal,
			},
		)
	}

	var settingCount int64

	db.Model(&models.Setting{}).Count(&settingCount)

	if settingCount == 0 {
		title := cfg.Title
		if title == "" {
			title = defaultSettings["page_title"]
		}

		for key, value := range defaultSettings {
			if key == "page_title" {
				value = title
			}

			db.Create(&models.Setting{Key: key, Value: value})
		}
	}
}
