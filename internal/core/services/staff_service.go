package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cantinatita/card_ledger_app/internal/apperrors"
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
	"github.com/cantinatita/card_ledger_app/internal/dto"
	"github.com/cantinatita/card_ledger_app/internal/middleware"
	"github.com/cantinatita/card_ledger_app/internal/platform/config"
	"github.com/cantinatita/card_ledger_app/internal/utils"
)

// staffService handles staff management and credential authentication.
type staffService struct {
	cfg       *config.Config
	staffRepo portsrepo.StaffRepositoryFacade
}

// NewStaffService creates a new StaffService.
func NewStaffService(cfg *config.Config, staffRepo portsrepo.StaffRepositoryFacade) portssvc.StaffSvcFacade {
	return &staffService{
		cfg:       cfg,
		staffRepo: staffRepo,
	}
}

// Ensure staffService implements the portssvc.StaffSvcFacade interface
var _ portssvc.StaffSvcFacade = (*staffService)(nil)

// Login authenticates a staff member by username and password and issues a
// JWT access token.
func (s *staffService) Login(ctx context.Context, req dto.LoginRequest) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	staff, err := s.staffRepo.FindStaffByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.ErrUnauthorized
		}
		return "", fmt.Errorf("failed to look up staff by username: %w", err)
	}

	if !staff.IsActive {
		logger.Warn("Login attempt for deactivated staff member", slog.String("username", req.Username))
		return "", apperrors.ErrUnauthorized
	}

	if !utils.CheckPasswordHash(req.Password, staff.PasswordHash) {
		logger.Warn("Login attempt with wrong password", slog.String("username", req.Username))
		return "", apperrors.ErrUnauthorized
	}

	token, err := utils.GenerateJWT(staff.StaffID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	logger.Info("Staff member logged in", slog.String("staff_id", staff.StaffID), slog.String("role", string(staff.Role)))
	return token, nil
}

// CreateStaff registers a new staff member. Only administrators and managers
// may create staff.
func (s *staffService) CreateStaff(ctx context.Context, req dto.CreateStaffRequest, creatorStaffID string) (*domain.Staff, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	creator, err := s.staffRepo.FindStaffByID(ctx, creatorStaffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrForbidden
		}
		return nil, fmt.Errorf("failed to look up creator: %w", err)
	}
	if !creator.IsActive || (creator.Role != domain.RoleAdministrator && creator.Role != domain.RoleManager) {
		return nil, apperrors.ErrForbidden
	}

	switch req.Role {
	case domain.RoleCashier, domain.RoleSupervisor, domain.RoleAdministrator, domain.RoleManager:
	default:
		return nil, fmt.Errorf("%w: unknown staff role %q", apperrors.ErrValidation, req.Role)
	}

	if existing, err := s.staffRepo.FindStaffByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: username %s is taken", apperrors.ErrDuplicate, req.Username)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
	}
	if existing, err := s.staffRepo.FindStaffByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email %s is taken", apperrors.ErrDuplicate, req.Email)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	staff := domain.Staff{
		StaffID:      uuid.NewString(),
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorStaffID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorStaffID,
		},
	}

	if err := s.staffRepo.SaveStaff(ctx, staff); err != nil {
		logger.Error("Failed to save staff member", slog.String("username", req.Username), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save staff member: %w", err)
	}

	logger.Info("Staff member created", slog.String("staff_id", staff.StaffID), slog.String("role", string(staff.Role)))
	return &staff, nil
}

// GetStaff retrieves a staff member by ID.
func (s *staffService) GetStaff(ctx context.Context, staffID string) (*domain.Staff, error) {
	staff, err := s.staffRepo.FindStaffByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find staff %s: %w", staffID, err)
	}
	return staff, nil
}

// ListStaff retrieves a paginated list of staff members.
func (s *staffService) ListStaff(ctx context.Context, limit, offset int) ([]domain.Staff, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	staff, err := s.staffRepo.ListStaff(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

// DeactivateStaff marks a staff member as inactive. Deactivated members
// cannot log in or authorize anything.
func (s *staffService) DeactivateStaff(ctx context.Context, staffID, actorStaffID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	actor, err := s.staffRepo.FindStaffByID(ctx, actorStaffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrForbidden
		}
		return fmt.Errorf("failed to look up actor: %w", err)
	}
	if !actor.IsActive || (actor.Role != domain.RoleAdministrator && actor.Role != domain.RoleManager) {
		return apperrors.ErrForbidden
	}
	if staffID == actorStaffID {
		return fmt.Errorf("%w: cannot deactivate own account", apperrors.ErrValidation)
	}

	if _, err := s.staffRepo.FindStaffByID(ctx, staffID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.staffRepo.DeactivateStaff(ctx, staffID, actorStaffID, now); err != nil {
		return fmt.Errorf("failed to deactivate staff member: %w", err)
	}

	logger.Info("Staff member deactivated", slog.String("staff_id", staffID), slog.String("by", actorStaffID))
	return nil
}

// IsAuthorizedSupervisor reports whether the staff member is active and
// holds a role that may approve negative-balance debits.
func (s *staffService) IsAuthorizedSupervisor(ctx context.Context, staffID string) (bool, error) {
	staff, err := s.staffRepo.FindStaffByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up staff %s: %w", staffID, err)
	}
	return staff.IsActive && staff.Role.CanAuthorizeNegativeBalance(), nil
}
