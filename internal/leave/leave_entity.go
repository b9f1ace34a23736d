package leave

import (
	"time"

	"github.com/google/uuid"
)

type Leave struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID      uuid.UUID `gorm:"type:uuid;not null"`
	LeaveType       string
	StartDate       time.Time `gorm:"type:date"`
	EndDate         time.Time `gorm:"type:date"`
	Days            int
	Reason          string
	Status          string
	Version         int
	ResolvedBy      *uuid.UUID `gorm:"type:uuid"`
	ResolvedAt      *time.Time
	BalanceRefunded bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Leave) TableName() string {
	return "leave_requests"
}
