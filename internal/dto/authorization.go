package dto

import (
	"time"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
)

// PreviewAuthorizationRequest asks for the facts to present to a supervisor
// before approving an over-limit debit. Nothing is persisted.
type PreviewAuthorizationRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// AuthorizationPreviewResponse carries those facts back to the cashier UI.
type AuthorizationPreviewResponse struct {
	CardNumber           string `json:"cardNumber"`
	CurrentBalance       int64  `json:"currentBalance"`
	RequestedAmount      int64  `json:"requestedAmount"`
	ResultingBalance     int64  `json:"resultingBalance"`
	CreditLimit          int64  `json:"creditLimit"`
	CreditLimitRemaining int64  `json:"creditLimitRemaining"`
}

// ApproveAuthorizationRequest is the supervisor's approval payload.
type ApproveAuthorizationRequest struct {
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	Justification string `json:"justification" binding:"required"`
}

// AuthorizationResponse is the API representation of an authorization.
type AuthorizationResponse struct {
	AuthorizationID    string     `json:"authorizationID"`
	CardNumber         string     `json:"cardNumber"`
	AuthorizedByStaff  string     `json:"authorizedByStaff"`
	BalanceBefore      int64      `json:"balanceBefore"`
	Amount             int64      `json:"amount"`
	ResultingBalance   int64      `json:"resultingBalance"`
	Justification      string     `json:"justification"`
	AuthorizedAt       time.Time  `json:"authorizedAt"`
	ConsumptionEventID *string    `json:"consumptionEventID,omitempty"`
	Settled            bool       `json:"settled"`
	SettledAt          *time.Time `json:"settledAt,omitempty"`
	SettlingEventID    *string    `json:"settlingEventID,omitempty"`
}

// ToAuthorizationResponse converts a domain Authorization to its API representation.
func ToAuthorizationResponse(a *domain.Authorization) AuthorizationResponse {
	return AuthorizationResponse{
		AuthorizationID:    a.AuthorizationID,
		CardNumber:         a.CardNumber,
		AuthorizedByStaff:  a.AuthorizedByStaff,
		BalanceBefore:      a.BalanceBefore,
		Amount:             a.Amount,
		ResultingBalance:   a.ResultingBalance,
		Justification:      a.Justification,
		AuthorizedAt:       a.AuthorizedAt,
		ConsumptionEventID: a.ConsumptionEventID,
		Settled:            a.Settled,
		SettledAt:          a.SettledAt,
		SettlingEventID:    a.SettlingEventID,
	}
}

// ToAuthorizationResponseSlice converts a slice of domain Authorizations.
func ToAuthorizationResponseSlice(as []domain.Authorization) []AuthorizationResponse {
	out := make([]AuthorizationResponse, len(as))
	for i := range as {
		out[i] = ToAuthorizationResponse(&as[i])
	}
	return out
}

// ToAuthorizationPreviewResponse converts a domain AuthorizationRequest.
func ToAuthorizationPreviewResponse(r *domain.AuthorizationRequest) AuthorizationPreviewResponse {
	return AuthorizationPreviewResponse{
		CardNumber:           r.CardNumber,
		CurrentBalance:       r.CurrentBalance,
		RequestedAmount:      r.RequestedAmount,
		ResultingBalance:     r.ResultingBalance,
		CreditLimit:          r.CreditLimit,
		CreditLimitRemaining: r.CreditLimitRemaining,
	}
}
