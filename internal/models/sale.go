package models

import "time"

// SaleRecord represents one row of the sales table.
type SaleRecord struct {
	SaleID           string    `db:"sale_id"`
	TopupEventID     string    `db:"topup_event_id"`
	BuyerClientID    string    `db:"buyer_client_id"`
	PaymentMethod    string    `db:"payment_method"`
	Amount           int64     `db:"amount"`
	FiscalDocumentID string    `db:"fiscal_document_id"`
	GeneratedAt      time.Time `db:"generated_at"`
	AuditFields
}

// Payment represents one row of the payments table.
type Payment struct {
	PaymentID     string    `db:"payment_id"`
	SaleID        string    `db:"sale_id"`
	PaymentMethod string    `db:"payment_method"`
	Amount        int64     `db:"amount"`
	PaidAt        time.Time `db:"paid_at"`
}

// FiscalDocument represents one row of the fiscal_documents table.
type FiscalDocument struct {
	DocumentID       string    `db:"document_id"`
	StampingNumber   string    `db:"stamping_number"`
	SequentialNumber int64     `db:"sequential_number"`
	IssuedAt         time.Time `db:"issued_at"`
	TotalAmount      int64     `db:"total_amount"`
	ExemptAmount     int64     `db:"exempt_amount"`
}
