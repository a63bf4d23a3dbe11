package models

import "time"

// EventType mirrors domain.EventType at the persistence layer.
type EventType string

const (
	EventTopup       EventType = "TOPUP"
	EventConsumption EventType = "CONSUMPTION"
)

// LedgerEvent represents one row of the append-only ledger_events table.
type LedgerEvent struct {
	EventID         string    `db:"event_id"`
	CardNumber      string    `db:"card_number"`
	EventType       EventType `db:"event_type"`
	Amount          int64     `db:"amount"`
	BalanceBefore   int64     `db:"balance_before"`
	BalanceAfter    int64     `db:"balance_after"`
	EventAt         time.Time `db:"event_at"`
	AuthorizationID *string   `db:"authorization_id"`
	SaleID          *string   `db:"sale_id"`
	AuditFields
}
