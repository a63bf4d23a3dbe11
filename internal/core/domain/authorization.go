package domain

import "time"

// Authorization records that a supervisor approved a specific debit that
// pushes a card's balance below zero. It is created unconsumed; the
// consumption that uses it links back via ConsumptionEventID, and a later
// top-up that restores coverage marks it settled. Never deleted.
type Authorization struct {
	AuthorizationID    string     `json:"authorizationID"` // Primary Key (UUID)
	CardNumber         string     `json:"cardNumber"`
	AuthorizedByStaff  string     `json:"authorizedByStaff"` // Supervisor StaffID
	BalanceBefore      int64      `json:"balanceBefore"`
	Amount             int64      `json:"amount"`           // Approved debit magnitude
	ResultingBalance   int64      `json:"resultingBalance"` // Negative by definition
	Justification      string     `json:"justification"`
	AuthorizedAt       time.Time  `json:"authorizedAt"`
	ConsumptionEventID *string    `json:"consumptionEventID,omitempty"` // Set once when the debit commits
	Settled            bool       `json:"settled"`
	SettledAt          *time.Time `json:"settledAt,omitempty"`
	SettlingEventID    *string    `json:"settlingEventID,omitempty"` // Top-up event that restored coverage
	AuditFields
}

// Consumed reports whether a consumption event has already spent this authorization.
func (a Authorization) Consumed() bool {
	return a.ConsumptionEventID != nil
}

// AuthorizationRequest carries the facts a cashier must present to a
// supervisor before an over-limit debit is approved. It is a pure
// computation result; nothing is persisted at request time.
type AuthorizationRequest struct {
	CardNumber           string `json:"cardNumber"`
	CurrentBalance       int64  `json:"currentBalance"`
	RequestedAmount      int64  `json:"requestedAmount"`
	ResultingBalance     int64  `json:"resultingBalance"`
	CreditLimit          int64  `json:"creditLimit"`
	CreditLimitRemaining int64  `json:"creditLimitRemaining"`
}
