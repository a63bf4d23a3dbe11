package services

import (
	"context"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	"github.com/cantinatita/card_ledger_app/internal/dto"
)

// StaffSvcFacade handles staff management and credential authentication.
type StaffSvcFacade interface {
	Login(ctx context.Context, req dto.LoginRequest) (string, error)
	CreateStaff(ctx context.Context, req dto.CreateStaffRequest, creatorStaffID string) (*domain.Staff, error)
	GetStaff(ctx context.Context, staffID string) (*domain.Staff, error)
	ListStaff(ctx context.Context, limit, offset int) ([]domain.Staff, error)
	DeactivateStaff(ctx context.Context, staffID, actorStaffID string) error

	StaffAuthority
}

// GoogleOAuthHandlerSvcFacade signs staff in with a Google identity.
// The account's email must already belong to an active staff member.
type GoogleOAuthHandlerSvcFacade interface {
	// AuthURL builds the Google consent URL carrying the given CSRF state.
	AuthURL(state string) string

	// HandleCallback exchanges the authorization code, fetches the Google
	// profile and issues an access token for the matching staff member.
	HandleCallback(ctx context.Context, code string) (string, error)

	// SignInWithIDToken verifies a Google ID token obtained by the
	// frontend and issues an access token.
	SignInWithIDToken(ctx context.Context, idToken string) (string, error)
}
