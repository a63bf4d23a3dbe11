package dto

import (
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DailySummaryResponse is the daily activity report consumed by the
// external reporting/export collaborators.
type DailySummaryResponse struct {
	Date             string          `json:"date"`
	TopupCount       int64           `json:"topupCount"`
	TopupTotal       decimal.Decimal `json:"topupTotal"`
	ConsumptionCount int64           `json:"consumptionCount"`
	ConsumptionTotal decimal.Decimal `json:"consumptionTotal"`
	Sales            struct {
		Count       int64           `json:"count"`
		Total       decimal.Decimal `json:"total"`
		ExemptTotal decimal.Decimal `json:"exemptTotal"`
		TaxedNet    decimal.Decimal `json:"taxedNet"`
		VAT         decimal.Decimal `json:"vat"`
	} `json:"sales"`
	OutstandingDebt    decimal.Decimal `json:"outstandingDebt"`
	UnsettledAuthCount int64           `json:"unsettledAuthCount"`
}

// ToDailySummaryResponse converts a domain DailySummary to the API shape.
func ToDailySummaryResponse(s *domain.DailySummary) DailySummaryResponse {
	resp := DailySummaryResponse{
		Date:               s.Date.Format("2006-01-02"),
		TopupCount:         s.TopupCount,
		TopupTotal:         s.TopupTotal,
		ConsumptionCount:   s.ConsumptionCount,
		ConsumptionTotal:   s.ConsumptionTotal,
		OutstandingDebt:    s.OutstandingDebt,
		UnsettledAuthCount: s.UnsettledAuthCount,
	}
	resp.Sales.Count = s.SaleCount
	resp.Sales.Total = s.SaleTotal
	resp.Sales.ExemptTotal = s.ExemptTotal
	resp.Sales.TaxedNet = s.TaxedNetTotal
	resp.Sales.VAT = s.VATTotal
	return resp
}
