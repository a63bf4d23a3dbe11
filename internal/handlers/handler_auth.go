package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/cantinatita/card_ledger_app/internal/apperrors"
	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
	"github.com/cantinatita/card_ledger_app/internal/dto"
	"github.com/cantinatita/card_ledger_app/internal/middleware"
)

// ErrorResponse is the generic error body returned by all handlers.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// authHandler handles credential authentication.
type authHandler struct {
	staffService portssvc.StaffSvcFacade
}

func newAuthHandler(ss portssvc.StaffSvcFacade) *authHandler {
	return &authHandler{staffService: ss}
}

// registerAuthRoutes sets up the public login routes with rate limiting.
func registerAuthRoutes(rg *gin.Engine, services *portssvc.ServiceContainer) {
	h := newAuthHandler(services.StaffSvc)
	gh := newGoogleOAuthHandler(services.GoogleOAuthSvc)

	// 5 attempts per minute per IP on credential endpoints
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	limitMiddleware := middleware.RateLimit(limiter.New(store, rate))

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/login", limitMiddleware, h.login)
		auth.GET("/google/login", gh.redirectToGoogle)
		auth.GET("/google/callback", gh.handleGoogleCallback)
		auth.POST("/google/token", limitMiddleware, gh.signInWithIDToken)
	}
}

// login godoc
// @Summary Staff login
// @Description Authenticates a staff member and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	token, err := h.staffService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Login failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}
