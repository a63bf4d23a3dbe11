package mapping

import (
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	"github.com/cantinatita/card_ledger_app/internal/models"
)

// ToModelSaleRecord converts a domain SaleRecord to a model SaleRecord.
func ToModelSaleRecord(d domain.SaleRecord) models.SaleRecord {
	return models.SaleRecord{
		SaleID:           d.SaleID,
		TopupEventID:     d.TopupEventID,
		BuyerClientID:    d.BuyerClientID,
		PaymentMethod:    string(d.PaymentMethod),
		Amount:           d.Amount,
		FiscalDocumentID: d.FiscalDocumentID,
		GeneratedAt:      d.GeneratedAt,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSaleRecord converts a model SaleRecord to a domain SaleRecord.
func ToDomainSaleRecord(m models.SaleRecord) domain.SaleRecord {
	return domain.SaleRecord{
		SaleID:           m.SaleID,
		TopupEventID:     m.TopupEventID,
		BuyerClientID:    m.BuyerClientID,
		PaymentMethod:    domain.PaymentMethod(m.PaymentMethod),
		Amount:           m.Amount,
		FiscalDocumentID: m.FiscalDocumentID,
		GeneratedAt:      m.GeneratedAt,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPayment converts a domain Payment to a model Payment.
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:     d.PaymentID,
		SaleID:        d.SaleID,
		PaymentMethod: string(d.PaymentMethod),
		Amount:        d.Amount,
		PaidAt:        d.PaidAt,
	}
}

// ToDomainPayment converts a model Payment to a domain Payment.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:     m.PaymentID,
		SaleID:        m.SaleID,
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		Amount:        m.Amount,
		PaidAt:        m.PaidAt,
	}
}

// ToModelFiscalDocument converts a domain FiscalDocument to a model FiscalDocument.
func ToModelFiscalDocument(d domain.FiscalDocument) models.FiscalDocument {
	return models.FiscalDocument{
		DocumentID:       d.DocumentID,
		StampingNumber:   d.StampingNumber,
		SequentialNumber: d.SequentialNumber,
		IssuedAt:         d.IssuedAt,
		TotalAmount:      d.TotalAmount,
		ExemptAmount:     d.ExemptAmount,
	}
}

// ToDomainFiscalDocument converts a model FiscalDocument to a domain FiscalDocument.
func ToDomainFiscalDocument(m models.FiscalDocument) domain.FiscalDocument {
	return domain.FiscalDocument{
		DocumentID:       m.DocumentID,
		StampingNumber:   m.StampingNumber,
		SequentialNumber: m.SequentialNumber,
		IssuedAt:         m.IssuedAt,
		TotalAmount:      m.TotalAmount,
		ExemptAmount:     m.ExemptAmount,
	}
}
