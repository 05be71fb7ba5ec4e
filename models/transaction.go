// models/transaction.go
package models

import "time"

const (
	ActionDeposit  = "deposit"
	ActionWithdraw = "withdraw"
	ActionRegister = "register"
)

// ValidActions in URL order of appearance.
var ValidActions = []string{ActionDeposit, ActionWithdraw, ActionRegister}

// IsValidAction reports whether action is one of deposit/withdraw/register.
func IsValidAction(action string) bool {
	for _, a := range ValidActions {
		if a == action {
			return true
		}
	}
	return false
}

// TransactionDraft is the user-edited form state before submission.
// Nothing is validated until a submit attempt; once a submission is
// accepted the draft is snapshotted into a SubmissionRecord and no
// further edits are possible.
type TransactionDraft struct {
	Amount         string `json:"amount"`
	TradingAccount string `json:"trading_account"`
	FullName       string `json:"full_name"`
	PhoneNumber    string `json:"phone_number"` // digits only, local part (country prefix is display-only)
	Notes          string `json:"notes,omitempty"`
	AcceptedTerms  bool   `json:"accepted_terms"`
}

// SubmissionRecord is the write-once snapshot of an accepted draft. It lives
// only in memory and inside the outbound notification payload — it is never
// persisted.
type SubmissionRecord struct {
	TransactionID string           `json:"transaction_id"`
	Type          string           `json:"type"`
	BrokerID      string           `json:"broker_id"`
	Draft         TransactionDraft `json:"draft"`
	SubmittedAt   time.Time        `json:"submitted_at"`
}
