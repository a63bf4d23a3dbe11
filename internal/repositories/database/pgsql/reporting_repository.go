package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new read-only repository for reporting aggregates.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetMovementTotals aggregates ledger events with event_at in [from, to).
func (r *PgxReportingRepository) GetMovementTotals(ctx context.Context, from, to time.Time) (portsrepo.MovementTotals, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE event_type = 'TOPUP'),
			COALESCE(SUM(amount) FILTER (WHERE event_type = 'TOPUP'), 0),
			COUNT(*) FILTER (WHERE event_type = 'CONSUMPTION'),
			COALESCE(SUM(amount) FILTER (WHERE event_type = 'CONSUMPTION'), 0)
		FROM ledger_events
		WHERE event_at >= $1 AND event_at < $2;
	`
	var totals portsrepo.MovementTotals
	err := r.Pool.QueryRow(ctx, query, from, to).Scan(
		&totals.TopupCount,
		&totals.TopupTotal,
		&totals.ConsumptionCount,
		&totals.ConsumptionTotal,
	)
	if err != nil {
		return portsrepo.MovementTotals{}, fmt.Errorf("failed to aggregate movements: %w", err)
	}
	return totals, nil
}

// GetSaleTotals aggregates generated sales with generated_at in [from, to).
func (r *PgxReportingRepository) GetSaleTotals(ctx context.Context, from, to time.Time) (portsrepo.SaleTotals, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(s.amount), 0),
			COALESCE(SUM(d.exempt_amount), 0)
		FROM sales s
		JOIN fiscal_documents d ON d.document_id = s.fiscal_document_id
		WHERE s.generated_at >= $1 AND s.generated_at < $2;
	`
	var totals portsrepo.SaleTotals
	err := r.Pool.QueryRow(ctx, query, from, to).Scan(
		&totals.SaleCount,
		&totals.SaleTotal,
		&totals.ExemptTotal,
	)
	if err != nil {
		return portsrepo.SaleTotals{}, fmt.Errorf("failed to aggregate sales: %w", err)
	}
	return totals, nil
}

// GetOutstandingDebt sums negative card balances as a positive figure and
// counts authorizations still awaiting settlement.
func (r *PgxReportingRepository) GetOutstandingDebt(ctx context.Context) (int64, int64, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(-balance) FROM cards WHERE balance < 0), 0),
			(SELECT COUNT(*) FROM negative_balance_authorizations WHERE settled = FALSE);
	`
	var debtTotal, unsettledCount int64
	if err := r.Pool.QueryRow(ctx, query).Scan(&debtTotal, &unsettledCount); err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate outstanding debt: %w", err)
	}
	return debtTotal, unsettledCount, nil
}
