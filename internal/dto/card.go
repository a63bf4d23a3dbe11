package dto

import (
	"time"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
)

// IssueCardRequest is the payload for issuing a new card.
type IssueCardRequest struct {
	CardNumber       string `json:"cardNumber" binding:"required"`
	StudentID        string `json:"studentID" binding:"required"`
	GuardianClientID string `json:"guardianClientID" binding:"required"`
	AllowsNegative   bool   `json:"allowsNegative"`
	CreditLimit      int64  `json:"creditLimit" binding:"gte=0"`
	NotifyLowBalance *bool  `json:"notifyLowBalance"` // Defaults to true when omitted
}

// UpdateCardStatusRequest transitions a card's lifecycle status.
type UpdateCardStatusRequest struct {
	Status domain.CardStatus `json:"status" binding:"required,oneof=ACTIVE INACTIVE BLOCKED"`
}

// UpdateCardPolicyRequest updates the negative-balance policy for a card.
type UpdateCardPolicyRequest struct {
	AllowsNegative   bool  `json:"allowsNegative"`
	CreditLimit      int64 `json:"creditLimit" binding:"gte=0"`
	NotifyLowBalance bool  `json:"notifyLowBalance"`
}

// CardResponse is the API representation of a card.
type CardResponse struct {
	CardNumber       string     `json:"cardNumber"`
	StudentID        string     `json:"studentID"`
	GuardianClientID string     `json:"guardianClientID"`
	Status           string     `json:"status"`
	Balance          int64      `json:"balance"`
	AllowsNegative   bool       `json:"allowsNegative"`
	CreditLimit      int64      `json:"creditLimit"`
	NotifyLowBalance bool       `json:"notifyLowBalance"`
	LastNotifiedAt   *time.Time `json:"lastNotifiedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// PolicyResponse is the API representation of a card's negative-balance policy.
type PolicyResponse struct {
	CardNumber     string `json:"cardNumber"`
	AllowsNegative bool   `json:"allowsNegative"`
	CreditLimit    int64  `json:"creditLimit"`
}

// ToCardResponse converts a domain Card to its API representation.
func ToCardResponse(c *domain.Card) CardResponse {
	return CardResponse{
		CardNumber:       c.CardNumber,
		StudentID:        c.StudentID,
		GuardianClientID: c.GuardianClientID,
		Status:           string(c.Status),
		Balance:          c.Balance,
		AllowsNegative:   c.AllowsNegative,
		CreditLimit:      c.CreditLimit,
		NotifyLowBalance: c.NotifyLowBalance,
		LastNotifiedAt:   c.LastNotifiedAt,
		CreatedAt:        c.CreatedAt,
	}
}

// ToCardResponseSlice converts a slice of domain Cards.
func ToCardResponseSlice(cards []domain.Card) []CardResponse {
	out := make([]CardResponse, len(cards))
	for i := range cards {
		out[i] = ToCardResponse(&cards[i])
	}
	return out
}
