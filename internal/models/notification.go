package models

import "time"

// BalanceNotification represents one row of the balance_notifications table.
type BalanceNotification struct {
	NotificationID string     `db:"notification_id"`
	CardNumber     string     `db:"card_number"`
	Type           string     `db:"notification_type"`
	Balance        int64      `db:"balance"`
	Message        string     `db:"message"`
	CreatedAt      time.Time  `db:"created_at"`
	SentAt         *time.Time `db:"sent_at"`
}
