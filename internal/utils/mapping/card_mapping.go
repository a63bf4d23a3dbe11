package mapping

import (
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	"github.com/cantinatita/card_ledger_app/internal/models"
)

// ToModelCard converts a domain Card to a model Card.
func ToModelCard(d domain.Card) models.Card {
	return models.Card{
		CardNumber:       d.CardNumber,
		StudentID:        d.StudentID,
		GuardianClientID: d.GuardianClientID,
		Status:           models.CardStatus(d.Status),
		Balance:          d.Balance,
		AllowsNegative:   d.AllowsNegative,
		CreditLimit:      d.CreditLimit,
		NotifyLowBalance: d.NotifyLowBalance,
		LastNotifiedAt:   d.LastNotifiedAt,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCard converts a model Card to a domain Card.
func ToDomainCard(m models.Card) domain.Card {
	return domain.Card{
		CardNumber:       m.CardNumber,
		StudentID:        m.StudentID,
		GuardianClientID: m.GuardianClientID,
		Status:           domain.CardStatus(m.Status),
		Balance:          m.Balance,
		AllowsNegative:   m.AllowsNegative,
		CreditLimit:      m.CreditLimit,
		NotifyLowBalance: m.NotifyLowBalance,
		LastNotifiedAt:   m.LastNotifiedAt,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCardSlice converts a slice of model Cards to domain Cards.
func ToDomainCardSlice(ms []models.Card) []domain.Card {
	ds := make([]domain.Card, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCard(m)
	}
	return ds
}
