package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
	"github.com/cantinatita/card_ledger_app/internal/utils/accounting"
)

// reportingService aggregates daily ledger and sales activity.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: reportingRepo,
	}
}

// Ensure reportingService implements the portssvc.ReportingSvcFacade interface
var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GetDailySummary aggregates one calendar day (UTC) of ledger events, sales
// and outstanding debt.
func (s *reportingService) GetDailySummary(ctx context.Context, date time.Time) (*domain.DailySummary, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	movements, err := s.reportingRepo.GetMovementTotals(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ledger movements: %w", err)
	}

	sales, err := s.reportingRepo.GetSaleTotals(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}

	debtTotal, unsettledCount, err := s.reportingRepo.GetOutstandingDebt(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate outstanding debt: %w", err)
	}

	// Top-up sales are fully exempt, so the taxed share is whatever exceeds
	// the exempt total; split its included 10% VAT out for the report.
	taxedGross := sales.SaleTotal - sales.ExemptTotal
	taxedNet, vat := accounting.SplitIncludedVAT(taxedGross)

	return &domain.DailySummary{
		Date:               from,
		TopupCount:         movements.TopupCount,
		TopupTotal:         decimal.NewFromInt(movements.TopupTotal),
		ConsumptionCount:   movements.ConsumptionCount,
		ConsumptionTotal:   decimal.NewFromInt(movements.ConsumptionTotal),
		SaleCount:          sales.SaleCount,
		SaleTotal:          decimal.NewFromInt(sales.SaleTotal),
		ExemptTotal:        decimal.NewFromInt(sales.ExemptTotal),
		TaxedNetTotal:      taxedNet,
		VATTotal:           vat,
		OutstandingDebt:    decimal.NewFromInt(debtTotal),
		UnsettledAuthCount: unsettledCount,
	}, nil
}
