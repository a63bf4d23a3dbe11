package repositories

import (
	"context"
	"time"
)

// MovementTotals holds raw integer aggregates over ledger events for a period.
type MovementTotals struct {
	TopupCount       int64
	TopupTotal       int64
	ConsumptionCount int64
	ConsumptionTotal int64
}

// SaleTotals holds raw integer aggregates over sales and their fiscal documents.
type SaleTotals struct {
	SaleCount   int64
	SaleTotal   int64
	ExemptTotal int64
}

// ReportingRepository provides read-only aggregates for the reporting service.
// It never writes; reporting consumers have no write access to the ledger.
type ReportingRepository interface {
	// GetMovementTotals aggregates ledger events in [from, to).
	GetMovementTotals(ctx context.Context, from, to time.Time) (MovementTotals, error)

	// GetSaleTotals aggregates generated sales in [from, to).
	GetSaleTotals(ctx context.Context, from, to time.Time) (SaleTotals, error)

	// GetOutstandingDebt returns the sum of negative card balances (as a
	// positive figure) and the count of unsettled authorizations.
	GetOutstandingDebt(ctx context.Context) (debtTotal int64, unsettledCount int64, err error)
}
