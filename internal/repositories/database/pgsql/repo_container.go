package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all PostgreSQL repositories against one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		CardRepo:          newPgxCardRepository(pool),
		LedgerRepo:        newPgxLedgerRepository(pool),
		AuthorizationRepo: newPgxAuthorizationRepository(pool),
		SaleRepo:          newPgxSaleRepository(pool),
		StaffRepo:         newPgxStaffRepository(pool),
		NotificationRepo:  newPgxNotificationRepository(pool),
		ReportingRepo:     newPgxReportingRepository(pool),
	}
}
