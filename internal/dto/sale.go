package dto

import (
	"time"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
)

// SaleResponse is the API representation of a generated sale with its
// payment and fiscal document.
type SaleResponse struct {
	SaleID        string    `json:"saleID"`
	TopupEventID  string    `json:"topupEventID"`
	BuyerClientID string    `json:"buyerClientID"`
	PaymentMethod string    `json:"paymentMethod"`
	Amount        int64     `json:"amount"`
	GeneratedAt   time.Time `json:"generatedAt"`

	Payment *PaymentResponse        `json:"payment,omitempty"`
	Fiscal  *FiscalDocumentResponse `json:"fiscalDocument,omitempty"`
}

// PaymentResponse is the API representation of a payment record.
type PaymentResponse struct {
	PaymentID     string    `json:"paymentID"`
	PaymentMethod string    `json:"paymentMethod"`
	Amount        int64     `json:"amount"`
	PaidAt        time.Time `json:"paidAt"`
}

// FiscalDocumentResponse is the API representation of a fiscal document.
type FiscalDocumentResponse struct {
	DocumentID       string    `json:"documentID"`
	StampingNumber   string    `json:"stampingNumber"`
	SequentialNumber int64     `json:"sequentialNumber"`
	IssuedAt         time.Time `json:"issuedAt"`
	TotalAmount      int64     `json:"totalAmount"`
	ExemptAmount     int64     `json:"exemptAmount"`
}

// ToSaleResponse converts a domain sale and its companions to the API shape.
func ToSaleResponse(s *domain.SaleRecord, p *domain.Payment, d *domain.FiscalDocument) SaleResponse {
	resp := SaleResponse{
		SaleID:        s.SaleID,
		TopupEventID:  s.TopupEventID,
		BuyerClientID: s.BuyerClientID,
		PaymentMethod: string(s.PaymentMethod),
		Amount:        s.Amount,
		GeneratedAt:   s.GeneratedAt,
	}
	if p != nil {
		resp.Payment = &PaymentResponse{
			PaymentID:     p.PaymentID,
			PaymentMethod: string(p.PaymentMethod),
			Amount:        p.Amount,
			PaidAt:        p.PaidAt,
		}
	}
	if d != nil {
		resp.Fiscal = &FiscalDocumentResponse{
			DocumentID:       d.DocumentID,
			StampingNumber:   d.StampingNumber,
			SequentialNumber: d.SequentialNumber,
			IssuedAt:         d.IssuedAt,
			TotalAmount:      d.TotalAmount,
			ExemptAmount:     d.ExemptAmount,
		}
	}
	return resp
}
