// services/display.go
package services

import (
	"golang.org/x/text/language"
)

// DisplayConfig carries the locale/display constants shared by the
// notification payload and the WhatsApp hand-off message. The country
// code is a display constant only — stored phone values never include it.
type DisplayConfig struct {
	Locale         language.Tag
	CountryCode    string // e.g. "+967"
	WhatsAppNumber string // international format without '+', e.g. "967733353380"
}

var supportedLocales = []language.Tag{
	language.English, // default
	language.Arabic,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// ParseLocale maps a raw locale string (env-supplied) to the closest
// supported display locale, falling back to English.
func ParseLocale(raw string) language.Tag {
	if raw == "" {
		return language.English
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return language.English
	}
	_, index, _ := localeMatcher.Match(tag)
	return supportedLocales[index]
}

func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Locale:         language.English,
		CountryCode:    "+967",
		WhatsAppNumber: "967733353380",
	}
}

// handoffIntro / handoffOutro are the only localized copy the service
// itself produces; everything else is presentation and lives in the
// front end.
func (c DisplayConfig) handoffIntro() string {
	if c.Locale == language.Arabic {
		return "مرحباً، أود تسريع طلبي."
	}
	return "Hello, I would like to accelerate my request."
}

func (c DisplayConfig) handoffOutro() string {
	if c.Locale == language.Arabic {
		return "يرجى معالجة هذا الطلب."
	}
	return "Please process this request."
}
