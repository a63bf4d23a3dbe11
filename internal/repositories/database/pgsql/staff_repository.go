package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cantinatita/card_ledger_app/internal/apperrors"
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
	"github.com/cantinatita/card_ledger_app/internal/models"
	"github.com/cantinatita/card_ledger_app/internal/utils/mapping"
)

type PgxStaffRepository struct {
	BaseRepository
}

// newPgxStaffRepository creates a new repository for staff data.
func newPgxStaffRepository(pool *pgxpool.Pool) portsrepo.StaffRepositoryFacade {
	return &PgxStaffRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxStaffRepository implements portsrepo.StaffRepositoryFacade
var _ portsrepo.StaffRepositoryFacade = (*PgxStaffRepository)(nil)

const staffColumns = `staff_id, username, name, email, password_hash, role, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanStaff(row pgx.Row) (*domain.Staff, error) {
	var m models.Staff
	err := row.Scan(
		&m.StaffID,
		&m.Username,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.Role,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	staff := mapping.ToDomainStaff(m)
	return &staff, nil
}

// SaveStaff persists a new staff member.
func (r *PgxStaffRepository) SaveStaff(ctx context.Context, staff domain.Staff) error {
	m := mapping.ToModelStaff(staff)

	query := `
		INSERT INTO staff (` + staffColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.StaffID,
		m.Username,
		m.Name,
		m.Email,
		m.PasswordHash,
		m.Role,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: staff username or email already taken", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save staff member %s: %w", m.StaffID, err)
	}
	return nil
}

// FindStaffByID retrieves a staff member by their unique identifier.
func (r *PgxStaffRepository) FindStaffByID(ctx context.Context, staffID string) (*domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE staff_id = $1;`
	staff, err := scanStaff(r.Pool.QueryRow(ctx, query, staffID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find staff %s: %w", staffID, err)
	}
	return staff, nil
}

// FindStaffByUsername retrieves a staff member by login username.
func (r *PgxStaffRepository) FindStaffByUsername(ctx context.Context, username string) (*domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE username = $1;`
	staff, err := scanStaff(r.Pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find staff by username: %w", err)
	}
	return staff, nil
}

// FindStaffByEmail retrieves a staff member by email.
func (r *PgxStaffRepository) FindStaffByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE LOWER(email) = LOWER($1);`
	staff, err := scanStaff(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find staff by email: %w", err)
	}
	return staff, nil
}

// ListStaff retrieves a paginated list of staff members.
func (r *PgxStaffRepository) ListStaff(ctx context.Context, limit int, offset int) ([]domain.Staff, error) {
	query := `
		SELECT ` + staffColumns + `
		FROM staff
		ORDER BY created_at DESC, staff_id
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	var staff []domain.Staff
	for rows.Next() {
		var m models.Staff
		if err := rows.Scan(
			&m.StaffID,
			&m.Username,
			&m.Name,
			&m.Email,
			&m.PasswordHash,
			&m.Role,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan staff row: %w", err)
		}
		staff = append(staff, mapping.ToDomainStaff(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff rows: %w", err)
	}

	return staff, nil
}

// DeactivateStaff marks a staff member as inactive.
func (r *PgxStaffRepository) DeactivateStaff(ctx context.Context, staffID string, updatedBy string, now time.Time) error {
	query := `
		UPDATE staff
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE staff_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, staffID, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to deactivate staff %s: %w", staffID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
