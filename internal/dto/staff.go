package dto

import (
	"time"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
)

// LoginRequest is the username/password login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token string `json:"token"`
}

// GoogleSignInRequest carries a Google ID token obtained by the frontend.
type GoogleSignInRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// CreateStaffRequest is the payload for creating a staff member.
type CreateStaffRequest struct {
	Username string           `json:"username" binding:"required"`
	Password string           `json:"password" binding:"required,min=8"`
	Name     string           `json:"name" binding:"required"`
	Email    string           `json:"email" binding:"required,email"`
	Role     domain.StaffRole `json:"role" binding:"required,oneof=CAJERO SUPERVISOR ADMINISTRADOR GERENTE"`
}

// StaffResponse is the API representation of a staff member.
type StaffResponse struct {
	StaffID   string    `json:"staffID"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToStaffResponse converts a domain Staff to its API representation.
func ToStaffResponse(s *domain.Staff) StaffResponse {
	return StaffResponse{
		StaffID:   s.StaffID,
		Username:  s.Username,
		Name:      s.Name,
		Email:     s.Email,
		Role:      string(s.Role),
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
	}
}

// ToStaffResponseSlice converts a slice of domain Staff.
func ToStaffResponseSlice(ss []domain.Staff) []StaffResponse {
	out := make([]StaffResponse, len(ss))
	for i := range ss {
		out[i] = ToStaffResponse(&ss[i])
	}
	return out
}
