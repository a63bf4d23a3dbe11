package mapping

import (
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	"github.com/cantinatita/card_ledger_app/internal/models"
)

// ToModelAuthorization converts a domain Authorization to a model Authorization.
func ToModelAuthorization(d domain.Authorization) models.Authorization {
	return models.Authorization{
		AuthorizationID:    d.AuthorizationID,
		CardNumber:         d.CardNumber,
		AuthorizedByStaff:  d.AuthorizedByStaff,
		BalanceBefore:      d.BalanceBefore,
		Amount:             d.Amount,
		ResultingBalance:   d.ResultingBalance,
		Justification:      d.Justification,
		AuthorizedAt:       d.AuthorizedAt,
		ConsumptionEventID: d.ConsumptionEventID,
		Settled:            d.Settled,
		SettledAt:          d.SettledAt,
		SettlingEventID:    d.SettlingEventID,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAuthorization converts a model Authorization to a domain Authorization.
func ToDomainAuthorization(m models.Authorization) domain.Authorization {
	return domain.Authorization{
		AuthorizationID:    m.AuthorizationID,
		CardNumber:         m.CardNumber,
		AuthorizedByStaff:  m.AuthorizedByStaff,
		BalanceBefore:      m.BalanceBefore,
		Amount:             m.Amount,
		ResultingBalance:   m.ResultingBalance,
		Justification:      m.Justification,
		AuthorizedAt:       m.AuthorizedAt,
		ConsumptionEventID: m.ConsumptionEventID,
		Settled:            m.Settled,
		SettledAt:          m.SettledAt,
		SettlingEventID:    m.SettlingEventID,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAuthorizationSlice converts a slice of model Authorizations to domain Authorizations.
func ToDomainAuthorizationSlice(ms []models.Authorization) []domain.Authorization {
	ds := make([]domain.Authorization, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAuthorization(m)
	}
	return ds
}
