package models

import "time"

// SocialNetwork is one row of the owner's social-network table. The rows
// feed the social_icons block: the public resolver drops that block kind
// entirely when no active row with a non-empty URL exists.
type SocialNetwork struct {
	ID uint64 `gorm:"primaryKey"`
	// Network is the provider key ("github", "mastodon", ...).
	Network string `gorm:"size:50;not null"`
	// URL is the owner's profile URL on that network.
	URL string `gorm:"size:2048"`
	// Active toggles the row without deleting it. No column default, same
	// reason as Block.IsEnabled: an explicit false must survive the insert.
	Active bool `gorm:"not null"`
	// Position orders the icons inside the row.
	Position int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
