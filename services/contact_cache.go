// services/contact_cache.go
package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"broker-intake-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContactStore is the per-device contact cache: one slot per device,
// overwritten on every accepted submission, read once at workflow start
// to prefill the form. Load is best-effort — any storage problem is
// logged and reported as "no cached data", never surfaced to the visitor.
type ContactStore interface {
	Load(ctx context.Context, deviceID string) (models.CachedContact, bool)
	Save(ctx context.Context, contact models.CachedContact) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// --- Postgres-backed store ---

type GormContactStore struct {
	DB *gorm.DB
}

func NewGormContactStore(db *gorm.DB) *GormContactStore {
	return &GormContactStore{DB: db}
}

func (s *GormContactStore) Load(ctx context.Context, deviceID string) (models.CachedContact, bool) {
	var contact models.CachedContact
	err := s.DB.WithContext(ctx).First(&contact, "device_id = ?", deviceID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ [CONTACT_CACHE] Load failed for device %s: %v", deviceID, err)
		}
		return models.CachedContact{}, false
	}
	return contact, true
}

func (s *GormContactStore) Save(ctx context.Context, contact models.CachedContact) error {
	// Single slot per device — last write wins across tabs.
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"trading_account", "full_name", "phone_number", "updated_at",
		}),
	}).Create(&contact).Error
}

func (s *GormContactStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&models.CachedContact{})
	return res.RowsAffected, res.Error
}

// --- In-memory store (tests, local runs without a database) ---

type MemoryContactStore struct {
	mu       sync.RWMutex
	contacts map[string]models.CachedContact
}

func NewMemoryContactStore() *MemoryContactStore {
	return &MemoryContactStore{contacts: make(map[string]models.CachedContact)}
}

func (s *MemoryContactStore) Load(ctx context.Context, deviceID string) (models.CachedContact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contact, ok := s.contacts[deviceID]
	return contact, ok
}

func (s *MemoryContactStore) Save(ctx context.Context, contact models.CachedContact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	contact.UpdatedAt = time.Now()
	s.contacts[contact.DeviceID] = contact
	return nil
}

func (s *MemoryContactStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for id, c := range s.contacts {
		if c.UpdatedAt.Before(cutoff) {
			delete(s.contacts, id)
			purged++
		}
	}
	return purged, nil
}
