package approval

import (
	"time"

	"github.com/google/uuid"
)

const IDPrefix = "TRX-"

// Approval is a sensitive transaction (salary hike, reimbursement...) that
// needs an HR decision.
type Approval struct {
	TrxID      string    `gorm:"column:trx_id;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null"`
	Category   string
	Details    string
	Amount     *float64 `gorm:"type:numeric(14,2)"`
	Status     string
	Version    int
	ResolvedBy *uuid.UUID `gorm:"type:uuid"`
	ResolvedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Approval) TableName() string {
	return "approvals"
}
