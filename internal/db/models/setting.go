// Package models contains database model definitions.
package models

import "time"

// Setting represents a named configuration value with a live copy and an
// optional staged copy. Public reads use Value only; DraftValue holds an
// owner edit that has not been published yet (nil means nothing pending).
type Setting struct {
	ID         uint64  `gorm:"primaryKey"`
	Key        string  `gorm:"unique;size:191;not null"`
	Value      string  `gorm:"type:text"`
	DraftValue *string `gorm:"type:text"`
	UpdatedAt  time.Time
}

// HasDraft reports whether the setting has a staged value awaiting publish.
func (s *Setting) HasDraft() bool {
	return s.DraftValue != nil
}

// EffectiveValue returns the staged value when present, otherwise the live
// value. Only the admin overlay view uses this; the public path never does.
func (s *Setting) EffectiveValue() string {
	if s.DraftValue != nil {
		return *s.DraftValue
	}

	return s.Value
}
