package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cantinatita/card_ledger_app/internal/apperrors"
	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
	"github.com/cantinatita/card_ledger_app/internal/dto"
	"github.com/cantinatita/card_ledger_app/internal/middleware"
	"github.com/cantinatita/card_ledger_app/internal/utils"
)

const oauthStateCookie = "oauth_state"

// googleOAuthHandler signs staff in against their Google identity. The
// Google account's email must belong to an existing active staff member;
// sign-in never provisions accounts.
type googleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
}

func newGoogleOAuthHandler(gs portssvc.GoogleOAuthHandlerSvcFacade) *googleOAuthHandler {
	return &googleOAuthHandler{googleOAuthService: gs}
}

// redirectToGoogle godoc
// @Summary Start Google sign-in
// @Description Redirects the browser to Google's consent page.
// @Tags auth
// @Success 307
// @Router /auth/google/login [get]
func (h *googleOAuthHandler) redirectToGoogle(c *gin.Context) {
	state, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to generate OAuth state", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to start Google sign-in"})
		return
	}

	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuthService.AuthURL(state))
}

// handleGoogleCallback godoc
// @Summary Google sign-in callback
// @Description Exchanges the authorization code and returns a JWT token.
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "CSRF state"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *googleOAuthHandler) handleGoogleCallback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	expectedState, err := c.Cookie(oauthStateCookie)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		logger.Warn("OAuth state mismatch on Google callback")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Authorization code is required"})
		return
	}

	token, err := h.googleOAuthService.HandleCallback(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Google account is not linked to an active staff member"})
			return
		}
		logger.Error("Google callback failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to sign in with Google"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}

// signInWithIDToken godoc
// @Summary Sign in with a Google ID token
// @Description Verifies an ID token obtained by the frontend and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param token body dto.GoogleSignInRequest true "Google ID token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/token [post]
func (h *googleOAuthHandler) signInWithIDToken(c *gin.Context) {
	var req dto.GoogleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	token, err := h.googleOAuthService.SignInWithIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Google account is not linked to an active staff member"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Google ID token sign-in failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to sign in with Google"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}
