package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cantinatita/card_ledger_app/internal/apperrors"
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
	"github.com/cantinatita/card_ledger_app/internal/models"
	"github.com/cantinatita/card_ledger_app/internal/utils/mapping"
)

type PgxSaleRepository struct {
	BaseRepository
}

// newPgxSaleRepository creates a new repository for generated sales.
func newPgxSaleRepository(pool *pgxpool.Pool) portsrepo.SaleRepositoryFacade {
	return &PgxSaleRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxSaleRepository implements portsrepo.SaleRepositoryFacade
var _ portsrepo.SaleRepositoryFacade = (*PgxSaleRepository)(nil)

const saleColumns = `sale_id, topup_event_id, buyer_client_id, payment_method, amount, fiscal_document_id, generated_at, created_at, created_by, last_updated_at, last_updated_by`

// NextSequentialInTx allocates the next fiscal-document sequential number
// for a stamping. The upsert keeps the per-stamping counter row locked for
// the rest of the transaction, so numbers are gapless per committed sale.
func (r *PgxSaleRepository) NextSequentialInTx(ctx context.Context, tx pgx.Tx, stampingNumber string) (int64, error) {
	query := `
		INSERT INTO fiscal_sequences (stamping_number, last_number)
		VALUES ($1, 1)
		ON CONFLICT (stamping_number)
		DO UPDATE SET last_number = fiscal_sequences.last_number + 1
		RETURNING last_number;
	`
	var sequential int64
	if err := tx.QueryRow(ctx, query, stampingNumber).Scan(&sequential); err != nil {
		return 0, fmt.Errorf("failed to allocate sequential for stamping %s: %w", stampingNumber, err)
	}
	return sequential, nil
}

// SaveSaleInTx persists the sale, its payment, and its fiscal document in
// one batch within the top-up transaction.
func (r *PgxSaleRepository) SaveSaleInTx(ctx context.Context, tx pgx.Tx, sale domain.SaleRecord, payment domain.Payment, doc domain.FiscalDocument) error {
	ms := mapping.ToModelSaleRecord(sale)
	mp := mapping.ToModelPayment(payment)
	md := mapping.ToModelFiscalDocument(doc)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO fiscal_documents (document_id, stamping_number, sequential_number, issued_at, total_amount, exempt_amount)
		VALUES ($1, $2, $3, $4, $5, $6);
	`, md.DocumentID, md.StampingNumber, md.SequentialNumber, md.IssuedAt, md.TotalAmount, md.ExemptAmount)
	batch.Queue(`
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`, ms.SaleID, ms.TopupEventID, ms.BuyerClientID, ms.PaymentMethod, ms.Amount, ms.FiscalDocumentID, ms.GeneratedAt, ms.CreatedAt, ms.CreatedBy, ms.LastUpdatedAt, ms.LastUpdatedBy)
	batch.Queue(`
		INSERT INTO payments (payment_id, sale_id, payment_method, amount, paid_at)
		VALUES ($1, $2, $3, $4, $5);
	`, mp.PaymentID, mp.SaleID, mp.PaymentMethod, mp.Amount, mp.PaidAt)

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save sale %s (statement %d): %w", ms.SaleID, i, err)
		}
	}
	return nil
}

// FindSaleByID retrieves a sale with its payment and fiscal document.
func (r *PgxSaleRepository) FindSaleByID(ctx context.Context, saleID string) (*domain.SaleRecord, *domain.Payment, *domain.FiscalDocument, error) {
	query := `
		SELECT s.sale_id, s.topup_event_id, s.buyer_client_id, s.payment_method, s.amount, s.fiscal_document_id, s.generated_at,
		       s.created_at, s.created_by, s.last_updated_at, s.last_updated_by,
		       p.payment_id, p.payment_method, p.amount, p.paid_at,
		       d.document_id, d.stamping_number, d.sequential_number, d.issued_at, d.total_amount, d.exempt_amount
		FROM sales s
		JOIN payments p ON p.sale_id = s.sale_id
		JOIN fiscal_documents d ON d.document_id = s.fiscal_document_id
		WHERE s.sale_id = $1;
	`

	var ms models.SaleRecord
	var mp models.Payment
	var md models.FiscalDocument
	err := r.Pool.QueryRow(ctx, query, saleID).Scan(
		&ms.SaleID, &ms.TopupEventID, &ms.BuyerClientID, &ms.PaymentMethod, &ms.Amount, &ms.FiscalDocumentID, &ms.GeneratedAt,
		&ms.CreatedAt, &ms.CreatedBy, &ms.LastUpdatedAt, &ms.LastUpdatedBy,
		&mp.PaymentID, &mp.PaymentMethod, &mp.Amount, &mp.PaidAt,
		&md.DocumentID, &md.StampingNumber, &md.SequentialNumber, &md.IssuedAt, &md.TotalAmount, &md.ExemptAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil, apperrors.ErrNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to find sale %s: %w", saleID, err)
	}
	mp.SaleID = ms.SaleID

	sale := mapping.ToDomainSaleRecord(ms)
	payment := mapping.ToDomainPayment(mp)
	doc := mapping.ToDomainFiscalDocument(md)
	return &sale, &payment, &doc, nil
}

// FindSaleByTopupEventID retrieves the sale generated for a top-up event.
func (r *PgxSaleRepository) FindSaleByTopupEventID(ctx context.Context, eventID string) (*domain.SaleRecord, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE topup_event_id = $1;`

	var ms models.SaleRecord
	err := r.Pool.QueryRow(ctx, query, eventID).Scan(
		&ms.SaleID, &ms.TopupEventID, &ms.BuyerClientID, &ms.PaymentMethod, &ms.Amount, &ms.FiscalDocumentID, &ms.GeneratedAt,
		&ms.CreatedAt, &ms.CreatedBy, &ms.LastUpdatedAt, &ms.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sale for event %s: %w", eventID, err)
	}

	sale := mapping.ToDomainSaleRecord(ms)
	return &sale, nil
}
