package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	portsrepo "github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
	"github.com/cantinatita/card_ledger_app/internal/core/services"
)

func TestGetDailySummary(t *testing.T) {
	mockRepo := new(MockReportingRepository)
	svc := services.NewReportingService(mockRepo)

	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	nextDay := day.Add(24 * time.Hour)

	mockRepo.On("GetMovementTotals", mock.Anything, day, nextDay).Return(portsrepo.MovementTotals{
		TopupCount:       12,
		TopupTotal:       600000,
		ConsumptionCount: 40,
		ConsumptionTotal: 480000,
	}, nil)
	// 600000 of exempt top-up sales plus 110000 of taxed counter sales
	mockRepo.On("GetSaleTotals", mock.Anything, day, nextDay).Return(portsrepo.SaleTotals{
		SaleCount:   13,
		SaleTotal:   710000,
		ExemptTotal: 600000,
	}, nil)
	mockRepo.On("GetOutstandingDebt", mock.Anything).Return(int64(35000), int64(3), nil)

	summary, err := svc.GetDailySummary(context.Background(), day.Add(14*time.Hour))
	assert.NoError(t, err)

	assert.Equal(t, day, summary.Date)
	assert.Equal(t, int64(12), summary.TopupCount)
	assert.True(t, summary.TopupTotal.Equal(decimal.NewFromInt(600000)))
	assert.True(t, summary.ConsumptionTotal.Equal(decimal.NewFromInt(480000)))
	assert.True(t, summary.SaleTotal.Equal(decimal.NewFromInt(710000)))
	assert.True(t, summary.ExemptTotal.Equal(decimal.NewFromInt(600000)))

	// 110000 taxed gross under 10% included VAT: net 100000, VAT 10000
	assert.True(t, summary.TaxedNetTotal.Equal(decimal.NewFromInt(100000)), "taxed net, got %s", summary.TaxedNetTotal)
	assert.True(t, summary.VATTotal.Equal(decimal.NewFromInt(10000)), "vat, got %s", summary.VATTotal)

	assert.True(t, summary.OutstandingDebt.Equal(decimal.NewFromInt(35000)))
	assert.Equal(t, int64(3), summary.UnsettledAuthCount)
}
