package repositories

import (
	"context"
	"time"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
)

// StaffReader defines read operations for staff data
type StaffReader interface {
	// FindStaffByID retrieves a staff member by their unique identifier.
	FindStaffByID(ctx context.Context, staffID string) (*domain.Staff, error)

	// FindStaffByUsername retrieves a staff member by login username.
	FindStaffByUsername(ctx context.Context, username string) (*domain.Staff, error)

	// FindStaffByEmail retrieves a staff member by email (Google sign-in).
	FindStaffByEmail(ctx context.Context, email string) (*domain.Staff, error)

	// ListStaff retrieves a paginated list of staff members.
	ListStaff(ctx context.Context, limit int, offset int) ([]domain.Staff, error)
}

// StaffWriter defines write operations for staff data
type StaffWriter interface {
	// SaveStaff persists a new staff member.
	SaveStaff(ctx context.Context, staff domain.Staff) error

	// DeactivateStaff marks a staff member as inactive.
	DeactivateStaff(ctx context.Context, staffID string, updatedBy string, now time.Time) error
}

// StaffRepositoryFacade combines all staff repository interfaces
type StaffRepositoryFacade interface {
	StaffReader
	StaffWriter
}
