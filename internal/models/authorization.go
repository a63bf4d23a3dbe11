package models

import "time"

// Authorization represents one row of the negative_balance_authorizations table.
type Authorization struct {
	AuthorizationID    string     `db:"authorization_id"`
	CardNumber         string     `db:"card_number"`
	AuthorizedByStaff  string     `db:"authorized_by_staff_id"`
	BalanceBefore      int64      `db:"balance_before"`
	Amount             int64      `db:"amount"`
	ResultingBalance   int64      `db:"resulting_balance"`
	Justification      string     `db:"justification"`
	AuthorizedAt       time.Time  `db:"authorized_at"`
	ConsumptionEventID *string    `db:"consumption_event_id"`
	Settled            bool       `db:"settled"`
	SettledAt          *time.Time `db:"settled_at"`
	SettlingEventID    *string    `db:"settling_event_id"`
	AuditFields
}
