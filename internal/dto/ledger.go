package dto

import (
	"time"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
)

// TopupRequest is the payload for loading balance onto a card.
// BuyerClientID may be omitted, in which case the card's responsible
// guardian is billed.
type TopupRequest struct {
	Amount        int64                `json:"amount" binding:"required,gt=0"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"required,oneof=EFECTIVO TRANSFERENCIA TARJETA"`
	BuyerClientID string               `json:"buyerClientID"`
}

// ConsumptionRequest is the payload for debiting a card at the point of sale.
// AuthorizationID is required only when the debit drives the balance negative.
type ConsumptionRequest struct {
	Amount          int64   `json:"amount" binding:"required,gt=0"`
	AuthorizationID *string `json:"authorizationID"`
}

// LedgerEventResponse is the API representation of one ledger event.
type LedgerEventResponse struct {
	EventID         string    `json:"eventID"`
	CardNumber      string    `json:"cardNumber"`
	EventType       string    `json:"eventType"`
	Amount          int64     `json:"amount"`
	BalanceBefore   int64     `json:"balanceBefore"`
	BalanceAfter    int64     `json:"balanceAfter"`
	EventAt         time.Time `json:"eventAt"`
	AuthorizationID *string   `json:"authorizationID,omitempty"`
	SaleID          *string   `json:"saleID,omitempty"`
}

// ListEventsParams carries pagination parameters for a card's event history.
type ListEventsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListEventsResponse is one page of a card's event history.
type ListEventsResponse struct {
	Events    []LedgerEventResponse `json:"events"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// BalanceIntegrityResponse compares the materialized balance projection with
// the sum recomputed from the event log.
type BalanceIntegrityResponse struct {
	CardNumber       string `json:"cardNumber"`
	ProjectedBalance int64  `json:"projectedBalance"`
	RecomputedSum    int64  `json:"recomputedSum"`
	Consistent       bool   `json:"consistent"`
}

// AcknowledgeNotificationsRequest marks notifications as delivered by the
// external dispatcher.
type AcknowledgeNotificationsRequest struct {
	NotificationIDs []string `json:"notificationIDs" binding:"required,min=1,dive,uuid"`
}

// AcknowledgeNotificationsResponse reports how many notifications were
// newly acknowledged.
type AcknowledgeNotificationsResponse struct {
	Acknowledged int64 `json:"acknowledged"`
}

// ToLedgerEventResponse converts a domain LedgerEvent to its API representation.
func ToLedgerEventResponse(e *domain.LedgerEvent) LedgerEventResponse {
	return LedgerEventResponse{
		EventID:         e.EventID,
		CardNumber:      e.CardNumber,
		EventType:       string(e.EventType),
		Amount:          e.Amount,
		BalanceBefore:   e.BalanceBefore,
		BalanceAfter:    e.BalanceAfter,
		EventAt:         e.EventAt,
		AuthorizationID: e.AuthorizationID,
		SaleID:          e.SaleID,
	}
}
