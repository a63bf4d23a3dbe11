package models

import "time"

// CardStatus mirrors domain.CardStatus at the persistence layer.
type CardStatus string

const (
	CardActive   CardStatus = "ACTIVE"
	CardInactive CardStatus = "INACTIVE"
	CardBlocked  CardStatus = "BLOCKED"
)

// Card represents one row of the cards table.
// balance is a projection maintained by the ledger repository only.
type Card struct {
	CardNumber       string     `db:"card_number"`
	StudentID        string     `db:"student_id"`
	GuardianClientID string     `db:"guardian_client_id"`
	Status           CardStatus `db:"status"`
	Balance          int64      `db:"balance"`
	AllowsNegative   bool       `db:"allows_negative"`
	CreditLimit      int64      `db:"credit_limit"`
	NotifyLowBalance bool       `db:"notify_low_balance"`
	LastNotifiedAt   *time.Time `db:"last_notified_at"`
	AuditFields
}
