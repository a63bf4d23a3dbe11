package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cantinatita/card_ledger_app/internal/apperrors"
	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
	"github.com/cantinatita/card_ledger_app/internal/dto"
	"github.com/cantinatita/card_ledger_app/internal/middleware"
)

// cardHandler handles HTTP requests related to the card registry.
type cardHandler struct {
	cardService portssvc.CardSvcFacade
}

func newCardHandler(cs portssvc.CardSvcFacade) *cardHandler {
	return &cardHandler{cardService: cs}
}

// registerCardRoutes registers routes related to cards.
func registerCardRoutes(rg *gin.RouterGroup, cardService portssvc.CardSvcFacade) {
	h := newCardHandler(cardService)

	cards := rg.Group("/cards")
	{
		cards.POST("", h.issueCard)
		cards.GET("/:cardNumber", h.getCard)
		cards.GET("/:cardNumber/policy", h.getCardPolicy)
		cards.GET("", h.listCards)
		cards.PUT("/:cardNumber/status", h.updateCardStatus)
		cards.PUT("/:cardNumber/policy", h.updateCardPolicy)
	}
}

// issueCard godoc
// @Summary Issue a new card
// @Description Registers a prepaid card for a student with a zero balance.
// @Tags cards
// @Accept json
// @Produce json
// @Param card body dto.IssueCardRequest true "Card details"
// @Success 201 {object} dto.CardResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards [post]
func (h *cardHandler) issueCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.IssueCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for issueCard", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	card, err := h.cardService.IssueCard(c.Request.Context(), req, staffID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to issue card", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to issue card"})
		}
		return
	}

	logger.Info("Card issued", slog.String("card_number", card.CardNumber))
	c.JSON(http.StatusCreated, dto.ToCardResponse(card))
}

// getCard godoc
// @Summary Get a card
// @Description Retrieves a card with its current balance and policy.
// @Tags cards
// @Produce json
// @Param cardNumber path string true "Card number"
// @Success 200 {object} dto.CardResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{cardNumber} [get]
func (h *cardHandler) getCard(c *gin.Context) {
	card, err := h.cardService.GetCard(c.Request.Context(), c.Param("cardNumber"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Card not found"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to get card", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve card"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCardResponse(card))
}

// getCardPolicy godoc
// @Summary Get a card's negative-balance policy
// @Description Returns whether the card may go negative and up to which limit.
// @Tags cards
// @Produce json
// @Param cardNumber path string true "Card number"
// @Success 200 {object} domain.NegativeBalancePolicy
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{cardNumber}/policy [get]
func (h *cardHandler) getCardPolicy(c *gin.Context) {
	policy, err := h.cardService.GetNegativeBalancePolicy(c.Request.Context(), c.Param("cardNumber"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Card not found"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to get card policy", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve card policy"})
		return
	}

	c.JSON(http.StatusOK, policy)
}

// listCards godoc
// @Summary List cards
// @Tags cards
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.CardResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards [get]
func (h *cardHandler) listCards(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	cards, err := h.cardService.ListCards(c.Request.Context(), limit, offset)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to list cards", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list cards"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCardResponseSlice(cards))
}

// updateCardStatus godoc
// @Summary Update a card's status
// @Description Transitions a card between ACTIVE, INACTIVE and BLOCKED.
// @Tags cards
// @Accept json
// @Produce json
// @Param cardNumber path string true "Card number"
// @Param status body dto.UpdateCardStatusRequest true "New status"
// @Success 200 {object} dto.CardResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{cardNumber}/status [put]
func (h *cardHandler) updateCardStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCardStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	card, err := h.cardService.UpdateCardStatus(c.Request.Context(), c.Param("cardNumber"), req.Status, staffID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Card not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to update card status", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update card status"})
		}
		return
	}

	logger.Info("Card status updated", slog.String("card_number", card.CardNumber), slog.String("status", string(card.Status)))
	c.JSON(http.StatusOK, dto.ToCardResponse(card))
}

// updateCardPolicy godoc
// @Summary Update a card's negative-balance policy
// @Description Sets whether the card may go negative, its credit limit and low-balance notification preference.
// @Tags cards
// @Accept json
// @Produce json
// @Param cardNumber path string true "Card number"
// @Param policy body dto.UpdateCardPolicyRequest true "New policy"
// @Success 200 {object} dto.CardResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{cardNumber}/policy [put]
func (h *cardHandler) updateCardPolicy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCardPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	card, err := h.cardService.UpdateCardPolicy(c.Request.Context(), c.Param("cardNumber"), req, staffID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Card not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to update card policy", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update card policy"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCardResponse(card))
}
