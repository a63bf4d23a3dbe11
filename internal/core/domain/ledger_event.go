package domain

import "time"

// EventType discriminates the two kinds of balance-affecting events.
type EventType string

const (
	EventTopup       EventType = "TOPUP"
	EventConsumption EventType = "CONSUMPTION"
)

// LedgerEvent is one immutable, append-only record of a balance change.
// BalanceAfter = BalanceBefore + Amount for top-ups and
// BalanceBefore - Amount for consumptions; Amount is always positive.
// Events are never edited or deleted after commit.
type LedgerEvent struct {
	EventID         string    `json:"eventID"` // Primary Key (UUID)
	CardNumber      string    `json:"cardNumber"`
	EventType       EventType `json:"eventType"`
	Amount          int64     `json:"amount"` // Positive magnitude, guaraníes
	BalanceBefore   int64     `json:"balanceBefore"`
	BalanceAfter    int64     `json:"balanceAfter"`
	EventAt         time.Time `json:"eventAt"`
	AuthorizationID *string   `json:"authorizationID,omitempty"` // Set on negative-resulting consumptions
	SaleID          *string   `json:"saleID,omitempty"`          // Set on top-ups (exactly one sale per top-up)
	AuditFields
}

// SignedAmount returns the event's contribution to the card balance.
func (e LedgerEvent) SignedAmount() int64 {
	if e.EventType == EventConsumption {
		return -e.Amount
	}
	return e.Amount
}
