// models/broker.go
package models

import "strings"

// Broker is a partner profile rendered by the front end. The directory is
// built once at startup and never mutated afterwards.
type Broker struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	ThemeColor  string `json:"theme_color"`

	// 💰 Per-broker intake policy. Applies to both deposit and withdraw.
	MinDeposit float64 `json:"min_deposit"`

	// External registration page for the "register" action (optional)
	ReferralLink string `json:"referral_link,omitempty"`

	// 🎨 Marketing metadata rendered on the profile page
	PaymentMethods []PaymentMethod `json:"payment_methods,omitempty"`
	Features       []Feature       `json:"features,omitempty"`
}

// PaymentMethod is a display row on the profile page ("Local Bank Transfer — 0% Fee").
type PaymentMethod struct {
	Name  string `json:"name"`
	Badge string `json:"badge,omitempty"`
}

// Feature is a "Why <broker>?" highlight on the profile page.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Prefix returns the transaction identifier prefix for this broker: the
// first three letters of the name, upper-cased. Sliced by rune so
// non-ASCII broker names from config never yield invalid UTF-8.
func (b *Broker) Prefix() string {
	name := []rune(b.Name)
	if len(name) > 3 {
		name = name[:3]
	}
	return strings.ToUpper(string(name))
}
