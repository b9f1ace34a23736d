package employee

import (
	"time"

	"hr-portal/internal/domain"

	"github.com/google/uuid"
)

const (
	PresenceActive  = "Active"
	PresenceOnLeave = "On Leave"
	PresenceRemote  = "Remote"
)

type Employee struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string
	Email            string
	Role             string
	Department       string
	Designation      string
	Phone            string
	Presence         string
	CasualBalance    int
	SickBalance      int
	PrivilegeBalance int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Employee) TableName() string {
	return "employees"
}

// Balance returns the remaining days for t.
func (e Employee) Balance(t domain.LeaveType) int {
	switch t {
	case domain.LeaveCasual:
		return e.CasualBalance
	case domain.LeaveSick:
		return e.SickBalance
	case domain.LeavePrivilege:
		return e.PrivilegeBalance
	default:
		return 0
	}
}
