package validator

import (
	"testing"

	"broker-intake-system/models"
)

func validDraft() models.TransactionDraft {
	return models.TransactionDraft{
		Amount:         "50",
		TradingAccount: "123456",
		FullName:       "Ali Ahmed",
		PhoneNumber:    "770000000",
		AcceptedTerms:  true,
	}
}

func TestValidate_ValidDraft(t *testing.T) {
	broker := &models.Broker{ID: "headway", Name: "Headway", MinDeposit: 1}

	errs := Validate(validDraft(), broker)

	if len(errs) != 0 {
		t.Fatalf("expected no errors for valid draft, got %v", errs)
	}
}

func TestValidate_AmountBelowMinimum(t *testing.T) {
	broker := &models.Broker{ID: "valetax", Name: "Valetax", MinDeposit: 10}
	draft := validDraft()
	draft.Amount = "5"

	errs := Validate(draft, broker)

	if _, ok := errs["amount"]; !ok {
		t.Fatalf("expected amount error for 5 < 10, got %v", errs)
	}
}

func TestValidate_AmountAtMinimum(t *testing.T) {
	broker := &models.Broker{ID: "valetax", Name: "Valetax", MinDeposit: 10}
	draft := validDraft()
	draft.Amount = "10"

	errs := Validate(draft, broker)

	if len(errs) != 0 {
		t.Fatalf("amount equal to minimum must pass, got %v", errs)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	broker := &models.Broker{ID: "headway", Name: "Headway", MinDeposit: 1}

	errs := Validate(models.TransactionDraft{}, broker)

	for _, field := range []string{"amount", "trading_account", "full_name", "phone_number", "accepted_terms"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for empty %s, got none (set: %v)", field, errs)
		}
	}
	if _, ok := errs["notes"]; ok {
		t.Error("notes must never be validated")
	}
}

func TestValidate_AmountNotANumber(t *testing.T) {
	broker := &models.Broker{ID: "headway", Name: "Headway", MinDeposit: 10}

	// ParseFloat happily parses NaN and infinities; they still must never
	// clear the minimum-amount rule.
	for _, amount := range []string{"fifty", "NaN", "nan", "Inf", "+Inf", "-Inf", "inf"} {
		draft := validDraft()
		draft.Amount = amount

		errs := Validate(draft, broker)

		if errs["amount"] != ReasonNotANumber {
			t.Errorf("amount %q: expected %q, got %v", amount, ReasonNotANumber, errs)
		}
	}
}

func TestValidate_PhoneRules(t *testing.T) {
	broker := &models.Broker{ID: "headway", Name: "Headway", MinDeposit: 1}

	cases := []struct {
		name  string
		phone string
		ok    bool
	}{
		{"seven digits", "7700000", true},
		{"nine digits", "770123456", true},
		{"too short", "770000", false},
		{"contains letters", "77000000a", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			draft := validDraft()
			draft.PhoneNumber = tc.phone
			_, bad := Validate(draft, broker)["phone_number"]
			if tc.ok && bad {
				t.Fatalf("phone %q should pass", tc.phone)
			}
			if !tc.ok && !bad {
				t.Fatalf("phone %q should fail", tc.phone)
			}
		})
	}
}

func TestValidate_SameThresholdForWithdraw(t *testing.T) {
	// One minimum per broker, shared by deposit and withdraw.
	broker := &models.Broker{ID: "valetax", Name: "Valetax", MinDeposit: 10}
	draft := validDraft()
	draft.Amount = "5"

	if _, ok := Validate(draft, broker)["amount"]; !ok {
		t.Fatal("withdraw drafts are held to the same minimum as deposits")
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"77x xxx xxx":   "77",
		"+967 770 123":  "967770123",
		"770-123-456":   "770123456",
		"":              "",
		"770123456":     "770123456",
		"(770) 123 456": "770123456",
	}

	for in, want := range cases {
		if got := NormalizePhone(in); got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}
