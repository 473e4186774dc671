// Package visibility computes what an anonymous visitor is allowed to see at
// a given instant. Resolve is a pure function of its inputs: the caller
// injects the clock value, so nothing here reads global time or the store.
package visibility

import (
	"sort"
	"time"

	"github.com/linkforge/linkforge/internal/db/models"
)

// FeatureContactForm is the setting key gating contact_form blocks.
// The block only survives resolution when the live value is exactly "true".
const FeatureContactForm = "contact_form_enabled"

// View is the public-facing projection: allow-listed live settings and the
// ordered list of effectively visible blocks.
type View struct {
	Settings map[string]string `json:"settings"`
	Blocks   []models.Block    `json:"blocks"`
}

// Resolve selects the blocks visible at now, applies feature-dependency
// filtering, stable-sorts by position and projects the settings to the
// public allow-list.
//
// Blocks must be passed in insertion order (ascending id); the stable sort
// then breaks position ties by insertion order.
func Resolve(now time.Time, liveSettings map[string]string, blocks []models.Block, activeSocialLinks int64) View {
	visible := make([]models.Block, 0, len(blocks))

	for i := range blocks {
		b := blocks[i]

		if !visibleAt(&b, now) {
			continue
		}

		// feature-dependency filtering
		switch b.Type {
		case models.BlockTypeContactForm:
			if liveSettings[FeatureContactForm] != "true" {
				continue
			}
		case models.BlockTypeSocialIcons:
			if activeSocialLinks == 0 {
				continue
			}
		}

		visible = append(visible, b)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Position < visible[j].Position
	})

	return View{
		Settings: FilterPublic(liveSettings),
		Blocks:   visible,
	}
}

// visibleAt evaluates the four visibility conditions literally. Bounds are
// inclusive on both ends; a window with start after end is simply never
// satisfied, not an error.
func visibleAt(b *models.Block, now time.Time) bool {
	if !b.IsEnabled || b.Status != models.BlockStatusPublished {
		return false
	}

	if b.ScheduledStart != nil && b.ScheduledStart.After(now) {
		return false
	}

	if b.ScheduledEnd != nil && b.ScheduledEnd.Before(now) {
		return false
	}

	return true
}
