package mapping

import (
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	"github.com/cantinatita/card_ledger_app/internal/models"
)

// ToModelLedgerEvent converts a domain LedgerEvent to a model LedgerEvent.
func ToModelLedgerEvent(d domain.LedgerEvent) models.LedgerEvent {
	return models.LedgerEvent{
		EventID:         d.EventID,
		CardNumber:      d.CardNumber,
		EventType:       models.EventType(d.EventType),
		Amount:          d.Amount,
		BalanceBefore:   d.BalanceBefore,
		BalanceAfter:    d.BalanceAfter,
		EventAt:         d.EventAt,
		AuthorizationID: d.AuthorizationID,
		SaleID:          d.SaleID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEvent converts a model LedgerEvent to a domain LedgerEvent.
func ToDomainLedgerEvent(m models.LedgerEvent) domain.LedgerEvent {
	return domain.LedgerEvent{
		EventID:         m.EventID,
		CardNumber:      m.CardNumber,
		EventType:       domain.EventType(m.EventType),
		Amount:          m.Amount,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		EventAt:         m.EventAt,
		AuthorizationID: m.AuthorizationID,
		SaleID:          m.SaleID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEventSlice converts a slice of model LedgerEvents to domain LedgerEvents.
func ToDomainLedgerEventSlice(ms []models.LedgerEvent) []domain.LedgerEvent {
	ds := make([]domain.LedgerEvent, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEvent(m)
	}
	return ds
}
