package models

// Staff represents one row of the staff table.
type Staff struct {
	StaffID      string `db:"staff_id"`
	Username     string `db:"username"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}
