package domain

import "time"

// NotificationType classifies balance notifications recorded for the
// external dispatcher. Delivery (email/SMS) happens outside this service.
type NotificationType string

const (
	NotificationLowBalance      NotificationType = "SALDO_BAJO"
	NotificationNegativeBalance NotificationType = "SALDO_NEGATIVO"
	NotificationRegularized     NotificationType = "REGULARIZADO"
)

// BalanceNotification is a pending notification row written by the ledger
// when a committed event crosses a balance threshold.
type BalanceNotification struct {
	NotificationID string           `json:"notificationID"` // Primary Key (UUID)
	CardNumber     string           `json:"cardNumber"`
	Type           NotificationType `json:"type"`
	Balance        int64            `json:"balance"` // Balance at the moment of the event
	Message        string           `json:"message"`
	CreatedAt      time.Time        `json:"createdAt"`
	SentAt         *time.Time       `json:"sentAt,omitempty"` // Stamped by the external dispatcher
}
