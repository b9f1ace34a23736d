package payroll

import (
	"time"

	"github.com/google/uuid"
)

// Payslip is one employee's pay for one calendar month. Amounts are in
// minor currency units.
type Payslip struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null"`
	Period     time.Time `gorm:"type:date;not null"`
	BaseSalary int64
	Allowance  int64
	Deduction  int64
	NetSalary  int64
	CreatedBy  uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Payslip) TableName() string {
	return "payslips"
}
