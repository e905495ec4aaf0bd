// Package settings defines the typed site configuration and its storage
// contract. Only the allow-listed keys below are recognized; unknown keys are
// ignored rather than merged.
package settings

import "strconv"

// Recognized setting keys.
const (
	KeySiteTitle       = "site_title"
	KeySiteTagline     = "site_tagline"
	KeyTheme           = "theme"
	KeyAccentColor     = "accent_color"
	KeySocialImageURL  = "social_image_url"
	KeyTrackingEnabled = "tracking_enabled"
)

// SiteSettings is the typed view of the settings collection.
type SiteSettings struct {
	SiteTitle       string `json:"siteTitle"`
	SiteTagline     string `json:"siteTagline"`
	Theme           string `json:"theme"`
	AccentColor     string `json:"accentColor"`
	SocialImageURL  string `json:"socialImageUrl"`
	TrackingEnabled bool   `json:"trackingEnabled"`
}

// Defaults returns the settings applied before any stored overrides.
func Defaults() SiteSettings {
	return SiteSettings{
		SiteTitle:       "Beacon",
		SiteTagline:     "",
		Theme:           "light",
		AccentColor:     "#2563eb",
		SocialImageURL:  "",
		TrackingEnabled: true,
	}
}

// Repository defines the operations for the key-value settings store.
type Repository interface {
	GetAll() (map[string]string, error)
	SetMany(values map[string]string) error
}

// FromStored overlays recognized stored values onto the defaults. Unknown
// keys and unparsable values are dropped.
func FromStored(stored map[string]string) SiteSettings {
	s := Defaults()
	for key, value := range stored {
		switch key {
		case KeySiteTitle:
			s.SiteTitle = value
		case KeySiteTagline:
			s.SiteTagline = value
		case KeyTheme:
			s.Theme = value
		case KeyAccentColor:
			s.AccentColor = value
		case KeySocialImageURL:
			s.SocialImageURL = value
		case KeyTrackingEnabled:
			if b, err := strconv.ParseBool(value); err == nil {
				s.TrackingEnabled = b
			}
		}
	}
	return s
}

// ToStored flattens the typed settings into their storage representation.
func (s SiteSettings) ToStored() map[string]string {
	return map[string]string{
		KeySiteTitle:       s.SiteTitle,
		KeySiteTagline:     s.SiteTagline,
		KeyTheme:           s.Theme,
		KeyAccentColor:     s.AccentColor,
		KeySocialImageURL:  s.SocialImageURL,
		KeyTrackingEnabled: strconv.FormatBool(s.TrackingEnabled),
	}
}
