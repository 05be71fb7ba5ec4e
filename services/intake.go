// services/intake.go
package services

import (
	"context"
	"log"
	"sync"
	"time"

	"broker-intake-system/metrics"
	"broker-intake-system/models"
	"broker-intake-system/utils"
	"broker-intake-system/validator"

	"github.com/google/uuid"
)

type SubmissionState string

const (
	StateProcessing SubmissionState = "processing"
	StateSuccess    SubmissionState = "success"
)

// Completed submissions stay queryable for a while so the success screen
// can be refreshed, then the session is dropped.
const sessionTTL = 1 * time.Hour

// Submission is one workflow instance past the form stage. It exists only
// in memory; nothing about it is ever persisted.
type Submission struct {
	Key    string                  `json:"submission_id"`
	State  SubmissionState         `json:"state"`
	Record models.SubmissionRecord `json:"record"`
	Broker *models.Broker          `json:"-"`
}

type IntakeConfig struct {
	// Minimum visible time spent in the processing state. Purely cosmetic:
	// it communicates "work is happening" and guarantees nothing about the
	// notification call, which may still be in flight at success.
	ProcessingDelay time.Duration
	Display         DisplayConfig
}

// IntakeService drives the form → processing → success workflow. The
// register action never reaches this service — the router short-circuits
// it into an external redirect.
type IntakeService struct {
	Store    ContactStore
	Notifier *TelegramNotifier
	Config   IntakeConfig

	mu       sync.RWMutex
	sessions map[string]*Submission
}

func NewIntakeService(store ContactStore, notifier *TelegramNotifier, cfg IntakeConfig) *IntakeService {
	if cfg.ProcessingDelay <= 0 {
		cfg.ProcessingDelay = 1500 * time.Millisecond
	}
	return &IntakeService{
		Store:    store,
		Notifier: notifier,
		Config:   cfg,
		sessions: make(map[string]*Submission),
	}
}

// Prefill loads the device's cached contact fields for the form screen.
// Best-effort: a miss or storage failure just yields an empty prefill.
func (s *IntakeService) Prefill(ctx context.Context, deviceID string) models.CachedContact {
	contact, _ := s.Store.Load(ctx, deviceID)
	return contact
}

// Submit runs a submit attempt for a deposit or withdraw draft.
//
// On validation failure it returns the field error set and nothing else
// happens: no cache write, no identifier, no notification — the caller
// stays on the form. On success the contact cache write and identifier
// generation happen before the notification dispatch, which in turn is
// issued before (and never awaited by) the success transition.
func (s *IntakeService) Submit(ctx context.Context, deviceID string, broker *models.Broker, action string, draft models.TransactionDraft) (Submission, map[string]string) {
	draft.PhoneNumber = validator.NormalizePhone(draft.PhoneNumber)

	if errs := validator.Validate(draft, broker); len(errs) > 0 {
		metrics.SubmissionsRejected.WithLabelValues(broker.ID, action).Inc()
		return Submission{}, errs
	}

	// Draft is immutable from here on.
	if err := s.Store.Save(ctx, models.CachedContact{
		DeviceID:       deviceID,
		TradingAccount: draft.TradingAccount,
		FullName:       draft.FullName,
		PhoneNumber:    draft.PhoneNumber,
	}); err != nil {
		// Cache failures degrade to "no prefill next visit", nothing more.
		log.Printf("⚠️ [INTAKE] Contact cache write failed for device %s: %v", deviceID, err)
	}

	record := models.SubmissionRecord{
		TransactionID: utils.GenerateTransactionID(broker.Prefix()),
		Type:          action,
		BrokerID:      broker.ID,
		Draft:         draft,
		SubmittedAt:   time.Now(),
	}

	sub := &Submission{
		Key:    uuid.NewString(),
		State:  StateProcessing,
		Record: record,
		Broker: broker,
	}

	s.mu.Lock()
	s.sessions[sub.Key] = sub
	s.mu.Unlock()

	s.Notifier.Dispatch(broker, &record)

	// Snapshot before arming the completion timer: once it fires, sub is
	// only safe to touch under the mutex.
	snapshot := *sub

	time.AfterFunc(s.Config.ProcessingDelay, func() { s.complete(sub.Key) })
	time.AfterFunc(sessionTTL, func() { s.drop(sub.Key) })

	metrics.SubmissionsAccepted.WithLabelValues(broker.ID, action).Inc()
	log.Printf("✅ [INTAKE] %s %s accepted for %s (id=%s)", broker.ID, action, deviceID, record.TransactionID)

	return snapshot, nil
}

// Get returns a snapshot of the workflow instance behind key.
func (s *IntakeService) Get(key string) (Submission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.sessions[key]
	if !ok {
		return Submission{}, false
	}
	return *sub, true
}

// HandoffLink builds the wa.me deep link for a submission's success screen.
func (s *IntakeService) HandoffLink(sub Submission) string {
	return BuildHandoffLink(s.Config.Display, sub.Broker, &sub.Record)
}

func (s *IntakeService) complete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.sessions[key]; ok {
		sub.State = StateSuccess
	}
}

func (s *IntakeService) drop(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}
