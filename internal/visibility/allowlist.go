package visibility

// publicSettingKeys is the fixed allow-list of setting keys safe to expose
// on the public endpoint: profile, theme, branding, SEO and feature flags.
// Secrets (API keys, CAPTCHA and mail credentials) must never appear here.
var publicSettingKeys = map[string]struct{}{
	"page_title":       {},
	"page_description": {},
	"display_name":     {},
	"bio":              {},
	"avatar_url":       {},
	"theme":            {},
	"accent_color":     {},
	"background_color": {},
	"background_image": {},
	"text_color":       {},
	"button_style":     {},
	"font":             {},
	"seo_title":        {},
	"seo_description":  {},
	"og_image_url":     {},
	"custom_css":       {},
	FeatureContactForm: {},
}

// PublicSettingKeys returns the allow-list as a slice, for store-level
// filtering of the live read.
func PublicSettingKeys() []string {
	keys := make([]string, 0, len(publicSettingKeys))
	for k := range publicSettingKeys {
		keys = append(keys, k)
	}

	return keys
}

// IsPublicKey reports whether a setting key is on the public allow-list.
func IsPublicKey(key string) bool {
	_, ok := publicSettingKeys[key]
	return ok
}

// FilterPublic projects a settings map down to the public allow-list.
func FilterPublic(settings map[string]string) map[string]string {
	public := make(map[string]string, len(settings))
	for k, v := range settings {
		if IsPublicKey(k) {
			public[k] = v
		}
	}

	return public
}
