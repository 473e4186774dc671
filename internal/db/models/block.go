package models

import "time"

// BlockType identifies the kind of content a block renders. The set is
// closed; it determines which optional content fields apply.
type BlockType string

const (
	// BlockTypeLink is a simple titled hyperlink.
	BlockTypeLink BlockType = "link"
	// BlockTypeHeader is a section heading with no link target.
	BlockTypeHeader BlockType = "header"
	// BlockTypeText is a free-form text block.
	BlockTypeText BlockType = "text"
	// BlockTypeEmbed is an embedded player or widget (video, audio, ...).
	BlockTypeEmbed BlockType = "embed"
	// BlockTypeSocialIcons is a row of social-network icons.
	BlockTypeSocialIcons BlockType = "social_icons"
	// BlockTypeContactForm is the visitor contact form.
	BlockTypeContactForm BlockType = "contact_form"
)

// BlockStatus represents a block's publish state. The status reflects
// whether the row's live fields match what was last published, not whether
// the block has ever been published: any edit moves it back to draft.
type BlockStatus string

const (
	// BlockStatusDraft marks a block with unpublished changes.
	BlockStatusDraft BlockStatus = "draft"
	// BlockStatusPublished marks a block whose current fields are live.
	BlockStatusPublished BlockStatus = "published"
)

// ValidBlockType reports whether t is one of the closed set of block kinds.
func ValidBlockType(t BlockType) bool {
	switch t {
	case BlockTypeLink, BlockTypeHeader, BlockTypeText, BlockTypeEmbed,
		BlockTypeSocialIcons, BlockTypeContactForm:
		return true
	default:
		return false
	}
}

// Block is an ordered, typed unit of public page content.
//
// Visibility to anonymous visitors is derived, never stored: a block is
// effectively visible iff IsEnabled, Status is published, and the optional
// schedule window contains the current instant (inclusive bounds).
type Block struct {
	// ID is assigned at creation and immutable. Ascending IDs double as
	// insertion order, which breaks position ties in the public view.
	ID uint64 `gorm:"primaryKey"`
	// Type is one of the closed BlockType set.
	Type BlockType `gorm:"type:varchar(20);not null;index"`
	// Title is the display title (links, headers, embeds).
	Title string `gorm:"size:255"`
	// URL is the link target (link blocks).
	URL string `gorm:"size:2048"`
	// Icon is the icon identifier from the icon catalog.
	Icon string `gorm:"size:100"`
	// EmbedType selects the embed provider (embed blocks).
	EmbedType string `gorm:"size:50"`
	// EmbedURL is the embedded resource URL (embed blocks).
	EmbedURL string `gorm:"size:2048"`
	// SocialIcons holds the icon-row layout as a JSON document.
	SocialIcons string `gorm:"type:text"`
	// Config holds type-specific extras as a JSON document.
	Config string `gorm:"type:text"`
	// IsEnabled is the owner-controlled hide/show switch, independent of
	// publish state. No column default: gorm skips zero-value fields that
	// carry one, which would store an explicitly disabled block as enabled.
	IsEnabled bool `gorm:"not null"`
	// Position defines render order, ascending. Values need not be
	// contiguous.
	Position int `gorm:"not null;index"`
	// Status is draft or published.
	Status BlockStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	// ScheduledStart, when set, is the first instant the block may be shown.
	ScheduledStart *time.Time
	// ScheduledEnd, when set, is the last instant the block may be shown.
	ScheduledEnd *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
