package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/cantinatita/card_ledger_app/internal/apperrors"
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
	"github.com/cantinatita/card_ledger_app/internal/platform/config"
	"github.com/cantinatita/card_ledger_app/internal/utils"
)

// googleOAuthHandlerService signs staff in with a Google identity.
// The Google account's email must belong to an active staff member;
// unknown accounts are rejected rather than provisioned.
type googleOAuthHandlerService struct {
	cfg          *config.Config
	staffRepo    portsrepo.StaffRepositoryFacade
	oauth2Config *oauth2.Config
}

// NewGoogleOAuthHandlerService creates a new instance of googleOAuthHandlerService.
func NewGoogleOAuthHandlerService(cfg *config.Config, staffRepo portsrepo.StaffRepositoryFacade) portssvc.GoogleOAuthHandlerSvcFacade {
	return &googleOAuthHandlerService{
		cfg:       cfg,
		staffRepo: staffRepo,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Ensure googleOAuthHandlerService implements the facade interface
var _ portssvc.GoogleOAuthHandlerSvcFacade = (*googleOAuthHandlerService)(nil)

// AuthURL builds the Google consent URL carrying the given CSRF state.
func (s *googleOAuthHandlerService) AuthURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

// HandleCallback exchanges the authorization code, fetches the Google
// profile and issues an access token for the matching staff member.
func (s *googleOAuthHandlerService) HandleCallback(ctx context.Context, code string) (string, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}

	userInfo, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		return "", err
	}

	if !userInfo.VerifiedEmail {
		return "", fmt.Errorf("%w: google account email is not verified", apperrors.ErrUnauthorized)
	}

	return s.issueTokenForEmail(ctx, userInfo.Email)
}

// SignInWithIDToken verifies a Google ID token obtained by the frontend and
// issues an access token.
func (s *googleOAuthHandlerService) SignInWithIDToken(ctx context.Context, idTokenString string) (string, error) {
	if s.cfg.GoogleClientID == "" {
		return "", errors.New("google client ID is not configured in the application")
	}

	payload, err := idtoken.Validate(ctx, idTokenString, s.cfg.GoogleClientID)
	if err != nil {
		return "", fmt.Errorf("google ID token validation failed: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return "", fmt.Errorf("%w: google ID token carries no email claim", apperrors.ErrUnauthorized)
	}
	if verified, _ := payload.Claims["email_verified"].(bool); !verified {
		return "", fmt.Errorf("%w: google account email is not verified", apperrors.ErrUnauthorized)
	}

	return s.issueTokenForEmail(ctx, email)
}

// fetchUserInfo uses the access token to get user information from Google's
// userinfo endpoint.
func (s *googleOAuthHandlerService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error) {
	client := s.oauth2Config.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to get user info from google: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google api returned non-200 status for userinfo: %s", resp.Status)
	}

	var userInfo domain.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode user info from google: %w", err)
	}

	return &userInfo, nil
}

// issueTokenForEmail matches the verified email against the staff registry
// and issues a JWT for the active member.
func (s *googleOAuthHandlerService) issueTokenForEmail(ctx context.Context, email string) (string, error) {
	staff, err := s.staffRepo.FindStaffByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: no staff member registered for %s", apperrors.ErrUnauthorized, email)
		}
		return "", fmt.Errorf("failed to look up staff by email: %w", err)
	}
	if !staff.IsActive {
		return "", apperrors.ErrUnauthorized
	}

	token, err := utils.GenerateJWT(staff.StaffID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, nil
}
