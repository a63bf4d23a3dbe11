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

// staffHandler handles staff management requests.
type staffHandler struct {
	staffService portssvc.StaffSvcFacade
}

func newStaffHandler(ss portssvc.StaffSvcFacade) *staffHandler {
	return &staffHandler{staffService: ss}
}

// registerStaffRoutes registers routes related to staff management.
func registerStaffRoutes(rg *gin.RouterGroup, staffService portssvc.StaffSvcFacade) {
	h := newStaffHandler(staffService)

	staff := rg.Group("/staff")
	{
		staff.POST("", h.createStaff)
		staff.GET("/:id", h.getStaff)
		staff.GET("", h.listStaff)
		staff.DELETE("/:id", h.deactivateStaff)
	}
}

// createStaff godoc
// @Summary Create a staff member
// @Description Creates a staff account. Only administrators and managers may do this.
// @Tags staff
// @Accept json
// @Produce json
// @Param staff body dto.CreateStaffRequest true "Staff details"
// @Success 201 {object} dto.StaffResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /staff [post]
func (h *staffHandler) createStaff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	creatorStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	staff, err := h.staffService.CreateStaff(c.Request.Context(), req, creatorStaffID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not allowed to create staff accounts"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to create staff member", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create staff member"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToStaffResponse(staff))
}

// getStaff godoc
// @Summary Get a staff member
// @Tags staff
// @Produce json
// @Param id path string true "Staff ID"
// @Success 200 {object} dto.StaffResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /staff/{id} [get]
func (h *staffHandler) getStaff(c *gin.Context) {
	staff, err := h.staffService.GetStaff(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Staff member not found"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to get staff member", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve staff member"})
		return
	}

	c.JSON(http.StatusOK, dto.ToStaffResponse(staff))
}

// listStaff godoc
// @Summary List staff members
// @Tags staff
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.StaffResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /staff [get]
func (h *staffHandler) listStaff(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	staff, err := h.staffService.ListStaff(c.Request.Context(), limit, offset)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to list staff", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list staff"})
		return
	}

	c.JSON(http.StatusOK, dto.ToStaffResponseSlice(staff))
}

// deactivateStaff godoc
// @Summary Deactivate a staff member
// @Description Marks a staff account inactive. Only administrators and managers may do this.
// @Tags staff
// @Param id path string true "Staff ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /staff/{id} [delete]
func (h *staffHandler) deactivateStaff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorStaffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.staffService.DeactivateStaff(c.Request.Context(), c.Param("id"), actorStaffID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Staff member not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not allowed to deactivate staff accounts"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to deactivate staff member", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to deactivate staff member"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
