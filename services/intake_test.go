package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"broker-intake-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var txIDPattern = regexp.MustCompile(`^[A-Z0-9]+-[A-Z0-9]+-[A-Z0-9]{4}$`)

func testBroker() *models.Broker {
	return &models.Broker{ID: "headway", Name: "Headway", MinDeposit: 1}
}

func testIntake(t *testing.T) (*IntakeService, *MemoryContactStore) {
	t.Helper()
	store := NewMemoryContactStore()
	notifier := NewTelegramNotifier("", "", DefaultDisplayConfig()) // unconfigured → silent no-op
	svc := NewIntakeService(store, notifier, IntakeConfig{
		ProcessingDelay: 10 * time.Millisecond,
		Display:         DefaultDisplayConfig(),
	})
	return svc, store
}

func validTestDraft() models.TransactionDraft {
	return models.TransactionDraft{
		Amount:         "50",
		TradingAccount: "123456",
		FullName:       "Ali Ahmed",
		PhoneNumber:    "770000000",
		AcceptedTerms:  true,
	}
}

func TestIntake_ValidDepositReachesSuccess(t *testing.T) {
	svc, _ := testIntake(t)

	sub, errs := svc.Submit(context.Background(), "device-1", testBroker(), models.ActionDeposit, validTestDraft())
	require.Empty(t, errs)

	assert.Equal(t, StateProcessing, sub.State)
	assert.Regexp(t, txIDPattern, sub.Record.TransactionID)
	assert.Equal(t, "HEA", sub.Record.TransactionID[:3])

	require.Eventually(t, func() bool {
		got, ok := svc.Get(sub.Key)
		return ok && got.State == StateSuccess
	}, time.Second, 5*time.Millisecond, "workflow must transition to success after the processing delay")
}

func TestIntake_ValidationFailureHasNoSideEffects(t *testing.T) {
	svc, store := testIntake(t)
	broker := &models.Broker{ID: "valetax", Name: "Valetax", MinDeposit: 10}
	draft := validTestDraft()
	draft.Amount = "5"

	sub, errs := svc.Submit(context.Background(), "device-1", broker, models.ActionDeposit, draft)

	require.Contains(t, errs, "amount")
	assert.Empty(t, sub.Key, "no workflow instance on validation failure")

	// No cache write, no session registered.
	_, cached := store.Load(context.Background(), "device-1")
	assert.False(t, cached)
	svc.mu.RLock()
	assert.Empty(t, svc.sessions)
	svc.mu.RUnlock()
}

func TestIntake_SubmitWritesContactCache(t *testing.T) {
	svc, store := testIntake(t)
	draft := validTestDraft()
	draft.Notes = "call after 5pm"

	_, errs := svc.Submit(context.Background(), "device-9", testBroker(), models.ActionWithdraw, draft)
	require.Empty(t, errs)

	contact, ok := store.Load(context.Background(), "device-9")
	require.True(t, ok)
	assert.Equal(t, "123456", contact.TradingAccount)
	assert.Equal(t, "Ali Ahmed", contact.FullName)
	assert.Equal(t, "770000000", contact.PhoneNumber)
}

func TestIntake_PhoneNormalizedBeforeValidationAndStorage(t *testing.T) {
	svc, store := testIntake(t)
	draft := validTestDraft()
	draft.PhoneNumber = "770-123-456"

	_, errs := svc.Submit(context.Background(), "device-2", testBroker(), models.ActionDeposit, draft)
	require.Empty(t, errs, "dashes are stripped, remaining digits are valid")

	contact, ok := store.Load(context.Background(), "device-2")
	require.True(t, ok)
	assert.Regexp(t, `^\d*$`, contact.PhoneNumber)
	assert.Equal(t, "770123456", contact.PhoneNumber)
}

func TestIntake_PrefillRoundTrip(t *testing.T) {
	svc, _ := testIntake(t)

	_, errs := svc.Submit(context.Background(), "device-3", testBroker(), models.ActionDeposit, validTestDraft())
	require.Empty(t, errs)

	prefill := svc.Prefill(context.Background(), "device-3")
	assert.Equal(t, "123456", prefill.TradingAccount)

	// Unknown device prefills empty, silently.
	assert.Zero(t, svc.Prefill(context.Background(), "never-seen"))
}

func TestIntake_UnconfiguredNotifierStillSucceeds(t *testing.T) {
	svc, _ := testIntake(t)

	sub, errs := svc.Submit(context.Background(), "device-4", testBroker(), models.ActionDeposit, validTestDraft())
	require.Empty(t, errs)

	require.Eventually(t, func() bool {
		got, ok := svc.Get(sub.Key)
		return ok && got.State == StateSuccess
	}, time.Second, 5*time.Millisecond)
}

func TestIntake_SubmitSnapshotSafeWithImmediateCompletion(t *testing.T) {
	// With a near-zero delay the completion timer fires while Submit is
	// still returning; the returned value must be a stable pre-timer
	// snapshot, not a racy read of the shared session (run with -race).
	store := NewMemoryContactStore()
	notifier := NewTelegramNotifier("", "", DefaultDisplayConfig())
	svc := NewIntakeService(store, notifier, IntakeConfig{
		ProcessingDelay: time.Nanosecond,
		Display:         DefaultDisplayConfig(),
	})

	for i := 0; i < 100; i++ {
		sub, errs := svc.Submit(context.Background(), "device-r", testBroker(), models.ActionDeposit, validTestDraft())
		require.Empty(t, errs)
		require.NotEmpty(t, sub.Key)
		assert.Equal(t, StateProcessing, sub.State, "returned snapshot is taken before the timer is armed")
	}
}

func TestIntake_GetUnknownKey(t *testing.T) {
	svc, _ := testIntake(t)

	_, ok := svc.Get("nope")
	assert.False(t, ok)
}

func TestIntake_HandoffLink(t *testing.T) {
	svc, _ := testIntake(t)

	sub, errs := svc.Submit(context.Background(), "device-5", testBroker(), models.ActionDeposit, validTestDraft())
	require.Empty(t, errs)

	link := svc.HandoffLink(sub)
	assert.Contains(t, link, "https://wa.me/967733353380?text=")
	assert.Contains(t, link, sub.Record.TransactionID)
	assert.NotContains(t, link, " ", "hand-off link must be fully URL-encoded")
}
