package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cantinatita/card_ledger_app/internal/apperrors"
	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
	"github.com/cantinatita/card_ledger_app/internal/core/services"
	"github.com/cantinatita/card_ledger_app/internal/dto"
	"github.com/cantinatita/card_ledger_app/internal/middleware"
)

// ledgerHandler handles HTTP requests for balance movements.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers routes related to the balance ledger.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	cards := rg.Group("/cards/:cardNumber")
	{
		cards.POST("/topups", h.applyTopup)
		cards.POST("/consumptions", h.applyConsumption)
		cards.GET("/events", h.listEvents)
		cards.GET("/integrity", h.checkIntegrity)
		cards.GET("/notifications", h.listPendingNotifications)
		cards.POST("/notifications/ack", h.acknowledgeNotifications)
	}
	rg.GET("/events/:id", h.getEvent)
}

// writeLedgerError maps ledger service failures to HTTP responses.
func writeLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Card not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrCardNotActive):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "CARD_NOT_ACTIVE"})
	case errors.Is(err, services.ErrInsufficientBalance):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "INSUFFICIENT_BALANCE"})
	case errors.Is(err, services.ErrCreditLimitExceeded):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "CREDIT_LIMIT_EXCEEDED"})
	case errors.Is(err, services.ErrAuthorizationRequired):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "AUTHORIZATION_REQUIRED"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Ledger operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Ledger operation failed"})
	}
}

// applyTopup godoc
// @Summary Load balance onto a card
// @Description Credits the card and generates the companion sale record. Outstanding authorizations are settled oldest first.
// @Tags ledger
// @Accept json
// @Produce json
// @Param cardNumber path string true "Card number"
// @Param topup body dto.TopupRequest true "Top-up details"
// @Success 201 {object} dto.LedgerEventResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{cardNumber}/topups [post]
func (h *ledgerHandler) applyTopup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	event, err := h.ledgerService.ApplyTopup(c.Request.Context(), c.Param("cardNumber"), req, staffID)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	logger.Info("Top-up applied",
		slog.String("card_number", event.CardNumber),
		slog.Int64("amount", event.Amount),
		slog.Int64("balance_after", event.BalanceAfter))
	c.JSON(http.StatusCreated, dto.ToLedgerEventResponse(event))
}

// applyConsumption godoc
// @Summary Debit a card at the point of sale
// @Description Debits the card. Driving the balance negative requires a matching unconsumed authorization.
// @Tags ledger
// @Accept json
// @Produce json
// @Param cardNumber path string true "Card number"
// @Param consumption body dto.ConsumptionRequest true "Consumption details"
// @Success 201 {object} dto.LedgerEventResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{cardNumber}/consumptions [post]
func (h *ledgerHandler) applyConsumption(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConsumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	event, err := h.ledgerService.ApplyConsumption(c.Request.Context(), c.Param("cardNumber"), req, staffID)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	logger.Info("Consumption applied",
		slog.String("card_number", event.CardNumber),
		slog.Int64("amount", event.Amount),
		slog.Int64("balance_after", event.BalanceAfter))
	c.JSON(http.StatusCreated, dto.ToLedgerEventResponse(event))
}

// getEvent godoc
// @Summary Get a ledger event
// @Tags ledger
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.LedgerEventResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /events/{id} [get]
func (h *ledgerHandler) getEvent(c *gin.Context) {
	event, err := h.ledgerService.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Event not found"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to get event", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve event"})
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerEventResponse(event))
}

// listEvents godoc
// @Summary List a card's ledger events
// @Description Returns one page of the card's event history, newest first.
// @Tags ledger
// @Produce json
// @Param cardNumber path string true "Card number"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Opaque pagination token"
// @Success 200 {object} dto.ListEventsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{cardNumber}/events [get]
func (h *ledgerHandler) listEvents(c *gin.Context) {
	var params dto.ListEventsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	events, nextToken, err := h.ledgerService.ListEventsByCard(c.Request.Context(), c.Param("cardNumber"), params.Limit, params.NextToken)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	resp := dto.ListEventsResponse{
		Events:    make([]dto.LedgerEventResponse, len(events)),
		NextToken: nextToken,
	}
	for i := range events {
		resp.Events[i] = dto.ToLedgerEventResponse(&events[i])
	}
	c.JSON(http.StatusOK, resp)
}

// checkIntegrity godoc
// @Summary Check a card's balance integrity
// @Description Recomputes the balance from the event log and compares it with the card's projection.
// @Tags ledger
// @Produce json
// @Param cardNumber path string true "Card number"
// @Success 200 {object} dto.BalanceIntegrityResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{cardNumber}/integrity [get]
func (h *ledgerHandler) checkIntegrity(c *gin.Context) {
	result, err := h.ledgerService.CheckBalanceIntegrity(c.Request.Context(), c.Param("cardNumber"))
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// listPendingNotifications godoc
// @Summary List a card's pending balance notifications
// @Description Returns notification rows not yet delivered by the external dispatcher, oldest first.
// @Tags ledger
// @Produce json
// @Param cardNumber path string true "Card number"
// @Param limit query int false "Page size" default(50)
// @Success 200 {array} domain.BalanceNotification
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{cardNumber}/notifications [get]
func (h *ledgerHandler) listPendingNotifications(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit parameter"})
		return
	}

	notifications, err := h.ledgerService.ListPendingNotifications(c.Request.Context(), c.Param("cardNumber"), limit)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// acknowledgeNotifications godoc
// @Summary Acknowledge delivered balance notifications
// @Description Called by the notification dispatcher after delivery. Stamps the rows and the card's last-notified time.
// @Tags ledger
// @Accept json
// @Produce json
// @Param cardNumber path string true "Card number"
// @Param ack body dto.AcknowledgeNotificationsRequest true "Delivered notification IDs"
// @Success 200 {object} dto.AcknowledgeNotificationsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /cards/{cardNumber}/notifications/ack [post]
func (h *ledgerHandler) acknowledgeNotifications(c *gin.Context) {
	var req dto.AcknowledgeNotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	acknowledged, err := h.ledgerService.AcknowledgeNotifications(c.Request.Context(), c.Param("cardNumber"), req.NotificationIDs)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AcknowledgeNotificationsResponse{Acknowledged: acknowledged})
}
