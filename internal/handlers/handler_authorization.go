package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cantinatita/card_ledger_app/internal/apperrors"
	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
	"github.com/cantinatita/card_ledger_app/internal/core/services"
	"github.com/cantinatita/card_ledger_app/internal/dto"
	"github.com/cantinatita/card_ledger_app/internal/middleware"
)

// authorizationHandler handles negative-balance authorization requests.
type authorizationHandler struct {
	authorizationService portssvc.AuthorizationSvcFacade
}

func newAuthorizationHandler(as portssvc.AuthorizationSvcFacade) *authorizationHandler {
	return &authorizationHandler{authorizationService: as}
}

// registerAuthorizationRoutes registers routes related to authorizations.
func registerAuthorizationRoutes(rg *gin.RouterGroup, authorizationService portssvc.AuthorizationSvcFacade) {
	h := newAuthorizationHandler(authorizationService)

	cards := rg.Group("/cards/:cardNumber/authorizations")
	{
		cards.POST("/preview", h.previewAuthorization)
		cards.POST("", h.approveAuthorization)
		cards.GET("", h.listAuthorizations)
	}
	rg.GET("/authorizations/:id", h.getAuthorization)
}

func writeAuthorizationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Card not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not allowed to authorize negative balances"})
	case errors.Is(err, services.ErrCardNotActive):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "CARD_NOT_ACTIVE"})
	case errors.Is(err, services.ErrAuthorizationUnnecessary):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "AUTHORIZATION_UNNECESSARY"})
	case errors.Is(err, services.ErrInsufficientBalance):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "NEGATIVE_NOT_ALLOWED"})
	case errors.Is(err, services.ErrCreditLimitExceeded):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "CREDIT_LIMIT_EXCEEDED"})
	case errors.Is(err, services.ErrJustificationMissing):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Authorization operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Authorization operation failed"})
	}
}

// previewAuthorization godoc
// @Summary Preview a negative-balance authorization
// @Description Computes the resulting balance and remaining credit for a proposed over-balance debit. Nothing is persisted.
// @Tags authorizations
// @Accept json
// @Produce json
// @Param cardNumber path string true "Card number"
// @Param preview body dto.PreviewAuthorizationRequest true "Proposed debit"
// @Success 200 {object} dto.AuthorizationPreviewResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{cardNumber}/authorizations/preview [post]
func (h *authorizationHandler) previewAuthorization(c *gin.Context) {
	var req dto.PreviewAuthorizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	preview, err := h.authorizationService.PreviewAuthorization(c.Request.Context(), c.Param("cardNumber"), req.Amount)
	if err != nil {
		writeAuthorizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAuthorizationPreviewResponse(preview))
}

// approveAuthorization godoc
// @Summary Approve a negative-balance authorization
// @Description Records a supervisor's approval for a debit of the exact given amount.
// @Tags authorizations
// @Accept json
// @Produce json
// @Param cardNumber path string true "Card number"
// @Param approval body dto.ApproveAuthorizationRequest true "Approval details"
// @Success 201 {object} dto.AuthorizationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{cardNumber}/authorizations [post]
func (h *authorizationHandler) approveAuthorization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ApproveAuthorizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	authorization, err := h.authorizationService.ApproveAuthorization(c.Request.Context(), c.Param("cardNumber"), req.Amount, req.Justification, staffID)
	if err != nil {
		writeAuthorizationError(c, err)
		return
	}

	logger.Info("Authorization approved",
		slog.String("authorization_id", authorization.AuthorizationID),
		slog.String("card_number", authorization.CardNumber),
		slog.Int64("amount", authorization.Amount))
	c.JSON(http.StatusCreated, dto.ToAuthorizationResponse(authorization))
}

// getAuthorization godoc
// @Summary Get an authorization
// @Tags authorizations
// @Produce json
// @Param id path string true "Authorization ID"
// @Success 200 {object} dto.AuthorizationResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /authorizations/{id} [get]
func (h *authorizationHandler) getAuthorization(c *gin.Context) {
	authorization, err := h.authorizationService.GetAuthorization(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Authorization not found"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to get authorization", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve authorization"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAuthorizationResponse(authorization))
}

// listAuthorizations godoc
// @Summary List a card's authorizations
// @Description Returns the card's authorizations oldest first. Set unsettledOnly to restrict to outstanding debt.
// @Tags authorizations
// @Produce json
// @Param cardNumber path string true "Card number"
// @Param unsettledOnly query bool false "Only unsettled authorizations"
// @Success 200 {array} dto.AuthorizationResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{cardNumber}/authorizations [get]
func (h *authorizationHandler) listAuthorizations(c *gin.Context) {
	unsettledOnly := c.Query("unsettledOnly") == "true"

	authorizations, err := h.authorizationService.ListAuthorizationsByCard(c.Request.Context(), c.Param("cardNumber"), unsettledOnly)
	if err != nil {
		writeAuthorizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAuthorizationResponseSlice(authorizations))
}
