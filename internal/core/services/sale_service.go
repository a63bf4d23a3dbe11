package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/cantinatita/card_ledger_app/internal/apperrors"
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
)

// saleService exposes read access to generated sale records. Sales are
// written exclusively by the ledger inside top-up transactions.
type saleService struct {
	saleRepo portsrepo.SaleRepositoryFacade
}

// NewSaleService creates a new SaleService.
func NewSaleService(saleRepo portsrepo.SaleRepositoryFacade) portssvc.SaleSvcFacade {
	return &saleService{
		saleRepo: saleRepo,
	}
}

// Ensure saleService implements the portssvc.SaleSvcFacade interface
var _ portssvc.SaleSvcFacade = (*saleService)(nil)

// GetSale retrieves a sale with its payment and fiscal document.
func (s *saleService) GetSale(ctx context.Context, saleID string) (*domain.SaleRecord, *domain.Payment, *domain.FiscalDocument, error) {
	sale, payment, doc, err := s.saleRepo.FindSaleByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, nil, apperrors.ErrNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to find sale %s: %w", saleID, err)
	}
	return sale, payment, doc, nil
}

// GetSaleByTopupEvent retrieves the sale generated for a top-up event.
func (s *saleService) GetSaleByTopupEvent(ctx context.Context, topupEventID string) (*domain.SaleRecord, *domain.Payment, *domain.FiscalDocument, error) {
	sale, err := s.saleRepo.FindSaleByTopupEventID(ctx, topupEventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, nil, apperrors.ErrNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to find sale for event %s: %w", topupEventID, err)
	}
	return s.GetSale(ctx, sale.SaleID)
}
