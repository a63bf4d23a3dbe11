package services

import (
	"context"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
)

// SaleSvcFacade exposes read access to generated sale records. Sales are
// created exclusively inside top-up transactions by the ledger service.
type SaleSvcFacade interface {
	GetSale(ctx context.Context, saleID string) (*domain.SaleRecord, *domain.Payment, *domain.FiscalDocument, error)
	GetSaleByTopupEvent(ctx context.Context, topupEventID string) (*domain.SaleRecord, *domain.Payment, *domain.FiscalDocument, error)
}
