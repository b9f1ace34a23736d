package ticket

import (
	"time"

	"github.com/google/uuid"
)

const IDPrefix = "TKT-"

type Ticket struct {
	ID         string    `gorm:"primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null"`
	Category   string
	Details    string
	Status     string
	Version    int
	ResolvedBy *uuid.UUID `gorm:"type:uuid"`
	ResolvedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Ticket) TableName() string {
	return "tickets"
}
