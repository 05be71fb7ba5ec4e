package validator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"broker-intake-system/models"
)

// Field error reasons surfaced next to each form field. All-or-nothing:
// a draft with any entry in the returned set is rejected as a whole.
const (
	ReasonRequired      = "required"
	ReasonNotANumber    = "must be a number"
	ReasonBelowMinimum  = "below broker minimum"
	ReasonInvalidPhone  = "invalid phone number"
	ReasonTermsRequired = "terms must be accepted"
)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// NormalizePhone strips every non-digit character. Applied before
// validation and before the contact cache write, so stored phone values
// are always digit-only.
func NormalizePhone(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			out = append(out, raw[i])
		}
	}
	return string(out)
}

// Validate maps a draft plus the broker's policy to a set of field-level
// errors. An empty map means the draft is acceptable. Nothing here has
// side effects — validation runs only on submit attempt, never eagerly.
//
// The minimum-amount threshold applies to withdrawals as well as deposits;
// the broker data model carries a single minimum per broker.
func Validate(draft models.TransactionDraft, broker *models.Broker) map[string]string {
	errs := make(map[string]string)

	switch {
	case draft.Amount == "":
		errs["amount"] = ReasonRequired
	default:
		amount, err := strconv.ParseFloat(draft.Amount, 64)
		if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
			// ParseFloat accepts "NaN" and "Inf"; neither is a usable amount.
			errs["amount"] = ReasonNotANumber
		} else if !(amount >= broker.MinDeposit) {
			errs["amount"] = fmt.Sprintf("%s (%v)", ReasonBelowMinimum, broker.MinDeposit)
		}
	}

	if draft.TradingAccount == "" {
		errs["trading_account"] = ReasonRequired
	}
	if draft.FullName == "" {
		errs["full_name"] = ReasonRequired
	}
	if len(draft.PhoneNumber) < 7 || !digitsOnly.MatchString(draft.PhoneNumber) {
		errs["phone_number"] = ReasonInvalidPhone
	}
	if !draft.AcceptedTerms {
		errs["accepted_terms"] = ReasonTermsRequired
	}

	// notes is always optional and never validated
	return errs
}
