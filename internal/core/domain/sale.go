package domain

import "time"

// PaymentMethod enumerates how a top-up was paid for.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "EFECTIVO"
	PaymentTransfer PaymentMethod = "TRANSFERENCIA"
	PaymentCard     PaymentMethod = "TARJETA"
)

// SaleRecord is the auditable sale derived from a top-up, so that card
// top-ups participate in the same financial reporting as ordinary purchases.
// Exactly one sale exists per top-up event; consumptions never produce one.
type SaleRecord struct {
	SaleID           string        `json:"saleID"` // Primary Key (UUID)
	TopupEventID     string        `json:"topupEventID"`
	BuyerClientID    string        `json:"buyerClientID"` // Guardian responsible for the card's student
	PaymentMethod    PaymentMethod `json:"paymentMethod"`
	Amount           int64         `json:"amount"` // Equals the top-up amount
	FiscalDocumentID string        `json:"fiscalDocumentID"`
	GeneratedAt      time.Time     `json:"generatedAt"`
	AuditFields
}

// Payment is the payment record paired with a sale, always for the full amount.
type Payment struct {
	PaymentID     string        `json:"paymentID"` // Primary Key (UUID)
	SaleID        string        `json:"saleID"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Amount        int64         `json:"amount"`
	PaidAt        time.Time     `json:"paidAt"`
}

// FiscalDocument carries the sequential tax-document numbering attached to a
// sale. Top-up sales are issued under a dedicated stamping and are fully
// VAT-exempt (ExemptAmount equals TotalAmount).
type FiscalDocument struct {
	DocumentID       string    `json:"documentID"` // Primary Key (UUID)
	StampingNumber   string    `json:"stampingNumber"`
	SequentialNumber int64     `json:"sequentialNumber"` // Per-stamping monotonic sequence
	IssuedAt         time.Time `json:"issuedAt"`
	TotalAmount      int64     `json:"totalAmount"`
	ExemptAmount     int64     `json:"exemptAmount"`
}
