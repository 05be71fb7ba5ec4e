// models/contact.go
package models

import "time"

// CachedContact is the single per-device cache slot used to prefill the
// form on return visits. Amount and notes are intentionally excluded.
// Overwritten every time a submission successfully validates — last write
// wins across tabs.
type CachedContact struct {
	DeviceID       string    `json:"-" gorm:"primaryKey;size:64"`
	TradingAccount string    `json:"trading_account"`
	FullName       string    `json:"full_name"`
	PhoneNumber    string    `json:"phone_number"`
	UpdatedAt      time.Time `json:"-"`
}

func (CachedContact) TableName() string {
	return "cached_contacts"
}
