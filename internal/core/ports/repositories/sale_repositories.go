package repositories

import (
	"context"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// SaleReader defines read operations for generated sale records
type SaleReader interface {
	// FindSaleByID retrieves a sale with its payment and fiscal document.
	FindSaleByID(ctx context.Context, saleID string) (*domain.SaleRecord, *domain.Payment, *domain.FiscalDocument, error)

	// FindSaleByTopupEventID retrieves the sale generated for a top-up event.
	FindSaleByTopupEventID(ctx context.Context, eventID string) (*domain.SaleRecord, error)
}

// SaleTransactionSupport defines the in-transaction write path. Sales are
// only ever written inside the top-up transaction, never on their own.
type SaleTransactionSupport interface {
	// NextSequentialInTx allocates the next fiscal-document sequential number
	// for a stamping within the transaction.
	NextSequentialInTx(ctx context.Context, tx pgx.Tx, stampingNumber string) (int64, error)

	// SaveSaleInTx persists the sale, its payment, and its fiscal document.
	SaveSaleInTx(ctx context.Context, tx pgx.Tx, sale domain.SaleRecord, payment domain.Payment, doc domain.FiscalDocument) error
}

// SaleRepositoryFacade combines all sale repository interfaces
type SaleRepositoryFacade interface {
	SaleReader
	SaleTransactionSupport
}
