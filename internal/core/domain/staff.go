package domain

// StaffRole defines a staff member's role in the cafeteria system.
type StaffRole string

const (
	RoleCashier       StaffRole = "CAJERO"
	RoleSupervisor    StaffRole = "SUPERVISOR"
	RoleAdministrator StaffRole = "ADMINISTRADOR"
	RoleManager       StaffRole = "GERENTE"
)

// CanAuthorizeNegativeBalance reports whether the role is supervisor-equivalent.
func (r StaffRole) CanAuthorizeNegativeBalance() bool {
	switch r {
	case RoleSupervisor, RoleAdministrator, RoleManager:
		return true
	}
	return false
}

// Staff represents an employee who operates the point of sale or supervises it.
type Staff struct {
	StaffID      string    `json:"staffID"` // Primary Key (UUID)
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         StaffRole `json:"role"`
	IsActive     bool      `json:"isActive"`
	AuditFields
}

// GoogleUserInfo holds the profile fields returned by Google's userinfo endpoint.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
