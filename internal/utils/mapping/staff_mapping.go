package mapping

import (
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	"github.com/cantinatita/card_ledger_app/internal/models"
)

// ToModelStaff converts a domain Staff to a model Staff.
func ToModelStaff(d domain.Staff) models.Staff {
	return models.Staff{
		StaffID:      d.StaffID,
		Username:     d.Username,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         string(d.Role),
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStaff converts a model Staff to a domain Staff.
func ToDomainStaff(m models.Staff) domain.Staff {
	return domain.Staff{
		StaffID:      m.StaffID,
		Username:     m.Username,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.StaffRole(m.Role),
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
