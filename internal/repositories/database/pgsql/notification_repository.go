package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
	"github.com/cantinatita/card_ledger_app/internal/models"
	"github.com/cantinatita/card_ledger_app/internal/utils/mapping"
)

type PgxNotificationRepository struct {
	BaseRepository
}

// newPgxNotificationRepository creates a new repository for balance notifications.
func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepository {
	return &PgxNotificationRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxNotificationRepository implements portsrepo.NotificationRepository
var _ portsrepo.NotificationRepository = (*PgxNotificationRepository)(nil)

const notificationColumns = `notification_id, card_number, notification_type, balance, message, created_at, sent_at`

// SaveNotificationInTx appends a notification row inside a ledger transaction.
func (r *PgxNotificationRepository) SaveNotificationInTx(ctx context.Context, tx pgx.Tx, notification domain.BalanceNotification) error {
	m := mapping.ToModelBalanceNotification(notification)

	query := `
		INSERT INTO balance_notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := tx.Exec(ctx, query,
		m.NotificationID,
		m.CardNumber,
		m.Type,
		m.Balance,
		m.Message,
		m.CreatedAt,
		m.SentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save notification %s: %w", m.NotificationID, err)
	}
	return nil
}

// ListUnsentByCard retrieves notifications not yet picked up by the
// dispatcher, oldest first.
func (r *PgxNotificationRepository) ListUnsentByCard(ctx context.Context, cardNumber string, limit int) ([]domain.BalanceNotification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM balance_notifications
		WHERE card_number = $1 AND sent_at IS NULL
		ORDER BY created_at
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, cardNumber, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for card %s: %w", cardNumber, err)
	}
	defer rows.Close()

	var ms []models.BalanceNotification
	for rows.Next() {
		var m models.BalanceNotification
		if err := rows.Scan(
			&m.NotificationID,
			&m.CardNumber,
			&m.Type,
			&m.Balance,
			&m.Message,
			&m.CreatedAt,
			&m.SentAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}

	return mapping.ToDomainBalanceNotificationSlice(ms), nil
}

// MarkSent stamps sent_at on the given notifications, skipping rows the
// dispatcher already acknowledged.
func (r *PgxNotificationRepository) MarkSent(ctx context.Context, notificationIDs []string, at time.Time) (int64, error) {
	query := `
		UPDATE balance_notifications
		SET sent_at = $2
		WHERE notification_id = ANY($1) AND sent_at IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, notificationIDs, at)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications sent: %w", err)
	}
	return tag.RowsAffected(), nil
}
