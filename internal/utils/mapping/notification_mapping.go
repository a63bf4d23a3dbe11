package mapping

import (
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	"github.com/cantinatita/card_ledger_app/internal/models"
)

func ToModelBalanceNotification(n domain.BalanceNotification) models.BalanceNotification {
	return models.BalanceNotification{
		NotificationID: n.NotificationID,
		CardNumber:     n.CardNumber,
		Type:           string(n.Type),
		Balance:        n.Balance,
		Message:        n.Message,
		CreatedAt:      n.CreatedAt,
		SentAt:         n.SentAt,
	}
}

func ToDomainBalanceNotification(m models.BalanceNotification) domain.BalanceNotification {
	return domain.BalanceNotification{
		NotificationID: m.NotificationID,
		CardNumber:     m.CardNumber,
		Type:           domain.NotificationType(m.Type),
		Balance:        m.Balance,
		Message:        m.Message,
		CreatedAt:      m.CreatedAt,
		SentAt:         m.SentAt,
	}
}

func ToDomainBalanceNotificationSlice(ms []models.BalanceNotification) []domain.BalanceNotification {
	notifications := make([]domain.BalanceNotification, 0, len(ms))
	for _, m := range ms {
		notifications = append(notifications, ToDomainBalanceNotification(m))
	}
	return notifications
}
