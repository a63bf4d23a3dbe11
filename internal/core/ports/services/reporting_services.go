package services

import (
	"context"
	"time"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
)

// ReportingSvcFacade aggregates daily ledger and sales activity for the
// cafeteria's accounting collaborators.
type ReportingSvcFacade interface {
	GetDailySummary(ctx context.Context, date time.Time) (*domain.DailySummary, error)
}
