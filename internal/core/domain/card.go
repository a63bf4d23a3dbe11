package domain

import "time"

// CardStatus defines the lifecycle state of a prepaid card.
type CardStatus string

const (
	CardActive   CardStatus = "ACTIVE"
	CardInactive CardStatus = "INACTIVE"
	CardBlocked  CardStatus = "BLOCKED"
)

// Card represents a prepaid stored-value card issued to a student.
// Balance is a materialized projection of the card's ledger events; it is
// written exclusively by the ledger repository inside the same database
// transaction that commits the event, never directly.
type Card struct {
	CardNumber       string     `json:"cardNumber"`       // Primary Key (printed card number)
	StudentID        string     `json:"studentID"`        // Child holding the card
	GuardianClientID string     `json:"guardianClientID"` // Responsible client billed for top-ups
	Status           CardStatus `json:"status"`
	Balance          int64      `json:"balance"`          // Guaraníes; negative only for policy-enabled cards
	AllowsNegative   bool       `json:"allowsNegative"`   // Negative-balance policy flag
	CreditLimit      int64      `json:"creditLimit"`      // Max overdraft in guaraníes; meaningful only when AllowsNegative
	NotifyLowBalance bool       `json:"notifyLowBalance"` // Read by the external notification dispatcher
	LastNotifiedAt   *time.Time `json:"lastNotifiedAt,omitempty"`
	AuditFields
}

// NegativeBalancePolicy is the read-only policy view exposed by the card registry.
type NegativeBalancePolicy struct {
	CardNumber     string `json:"cardNumber"`
	AllowsNegative bool   `json:"allowsNegative"`
	CreditLimit    int64  `json:"creditLimit"`
}

// IsActive reports whether the card can take balance-affecting operations.
func (c Card) IsActive() bool {
	return c.Status == CardActive
}
