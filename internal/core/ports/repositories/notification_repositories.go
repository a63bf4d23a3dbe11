package repositories

import (
	"context"
	"time"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// NotificationRepository records balance notifications for the external
// dispatcher. Writes happen inside ledger transactions so a notification
// row exists iff the event that triggered it committed.
type NotificationRepository interface {
	// SaveNotificationInTx appends one notification row within a transaction.
	SaveNotificationInTx(ctx context.Context, tx pgx.Tx, notification domain.BalanceNotification) error

	// ListUnsentByCard retrieves pending notifications for a card, oldest first.
	ListUnsentByCard(ctx context.Context, cardNumber string, limit int) ([]domain.BalanceNotification, error)

	// MarkSent stamps sent_at on the given notifications. Rows already
	// stamped are skipped; returns the number of rows updated.
	MarkSent(ctx context.Context, notificationIDs []string, at time.Time) (int64, error)
}
