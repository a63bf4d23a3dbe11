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
)

// saleHandler exposes read access to generated sale records.
type saleHandler struct {
	saleService portssvc.SaleSvcFacade
}

func newSaleHandler(ss portssvc.SaleSvcFacade) *saleHandler {
	return &saleHandler{saleService: ss}
}

// registerSaleRoutes registers routes related to sales.
func registerSaleRoutes(rg *gin.RouterGroup, saleService portssvc.SaleSvcFacade) {
	h := newSaleHandler(saleService)

	sales := rg.Group("/sales")
	{
		sales.GET("/:id", h.getSale)
	}
	rg.GET("/events/:id/sale", h.getSaleByTopupEvent)
}

// getSale godoc
// @Summary Get a sale record
// @Description Retrieves a generated sale with its payment and fiscal document.
// @Tags sales
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /sales/{id} [get]
func (h *saleHandler) getSale(c *gin.Context) {
	sale, payment, doc, err := h.saleService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Sale not found"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to get sale", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve sale"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSaleResponse(sale, payment, doc))
}

// getSaleByTopupEvent godoc
// @Summary Get the sale generated for a top-up event
// @Tags sales
// @Produce json
// @Param id path string true "Top-up event ID"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /events/{id}/sale [get]
func (h *saleHandler) getSaleByTopupEvent(c *gin.Context) {
	sale, payment, doc, err := h.saleService.GetSaleByTopupEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Sale not found for event"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to get sale for event", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve sale"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSaleResponse(sale, payment, doc))
}
