package gateway

import (
	"fmt"
	"time"

	"hr-portal/internal/domain"
)

type LoginResult struct {
	UserID      string      `json:"user_id" validate:"required"`
	Role        domain.Role `json:"role" validate:"required"`
	Name        string      `json:"name"`
	AccessToken string      `json:"access_token" validate:"required"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

func (r *LoginResult) normalize() error {
	return normalizeRole(&r.Role)
}

type SignupRequest struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	Role       domain.Role `json:"role"`
	Department string      `json:"department,omitempty"`
}

type signupResult struct {
	UserID string `json:"user_id" validate:"required"`
}

func (r *signupResult) normalize() error { return nil }

type LeaveBalance struct {
	Casual    int `json:"casual" validate:"gte=0"`
	Sick      int `json:"sick" validate:"gte=0"`
	Privilege int `json:"privilege" validate:"gte=0"`
}

type User struct {
	ID           string       `json:"id" validate:"required"`
	Name         string       `json:"name" validate:"required"`
	Email        string       `json:"email" validate:"required,email"`
	Role         domain.Role  `json:"role" validate:"required"`
	Department   string       `json:"department"`
	Designation  string       `json:"designation"`
	Phone        string       `json:"phone"`
	Presence     string       `json:"presence"`
	LeaveBalance LeaveBalance `json:"leave_balance"`
}

func (u *User) normalize() error {
	return normalizeRole(&u.Role)
}

type ProfileUpdate struct {
	Name        *string `json:"name,omitempty"`
	Department  *string `json:"department,omitempty"`
	Designation *string `json:"designation,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Presence    *string `json:"presence,omitempty"`
}

type Ticket struct {
	ID         string        `json:"id" validate:"required"`
	EmployeeID string        `json:"employee_id"`
	Category   string        `json:"category" validate:"required"`
	Details    string        `json:"details"`
	Status     domain.Status `json:"status" validate:"required"`
	Version    int           `json:"version"`
	CreatedAt  string        `json:"created_at"`
}

func (t *Ticket) normalize() error {
	return normalizeStatus(&t.Status)
}

type NewTicket struct {
	Category string `json:"category"`
	Details  string `json:"details"`
}

type Approval struct {
	TrxID      string        `json:"trx_id" validate:"required"`
	EmployeeID string        `json:"employee_id"`
	Category   string        `json:"category" validate:"required"`
	Details    string        `json:"details"`
	Amount     *float64      `json:"amount,omitempty"`
	Status     domain.Status `json:"status" validate:"required"`
	Version    int           `json:"version"`
	CreatedAt  string        `json:"created_at"`
}

func (a *Approval) normalize() error {
	return normalizeStatus(&a.Status)
}

type NewApproval struct {
	Category string   `json:"category"`
	Details  string   `json:"details"`
	Amount   *float64 `json:"amount,omitempty"`
}

type Leave struct {
	ID         string        `json:"id" validate:"required"`
	EmployeeID string        `json:"employee_id" validate:"required"`
	LeaveType  string        `json:"type" validate:"required"`
	StartDate  string        `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string        `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Days       int           `json:"days" validate:"gt=0"`
	Reason     string        `json:"reason"`
	Status     domain.Status `json:"status" validate:"required"`
	Version    int           `json:"version"`
}

func (l *Leave) normalize() error {
	if _, err := domain.ParseLeaveType(l.LeaveType); err != nil {
		return err
	}
	return normalizeStatus(&l.Status)
}

type NewLeave struct {
	LeaveType string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
	Days      int    `json:"days"`
	Reason    string `json:"reason"`
}

type Holiday struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Name string `json:"name" validate:"required"`
}

func (h *Holiday) normalize() error { return nil }

// Payslip amounts are in minor currency units.
type Payslip struct {
	ID         string `json:"id" validate:"required"`
	EmployeeID string `json:"employee_id" validate:"required"`
	Period     string `json:"period" validate:"required,datetime=2006-01"`
	BaseSalary int64  `json:"base_salary" validate:"gte=0"`
	Allowance  int64  `json:"allowance" validate:"gte=0"`
	Deduction  int64  `json:"deduction" validate:"gte=0"`
	NetSalary  int64  `json:"net_salary" validate:"gte=0"`
}

func (p *Payslip) normalize() error { return nil }

type PolicyDocument struct {
	ID        string `json:"id" validate:"required"`
	Title     string `json:"title" validate:"required"`
	FileName  string `json:"file_name"`
	SizeBytes int64  `json:"size_bytes" validate:"gte=0"`
	Status    string `json:"status" validate:"oneof=draft published"`
	CreatedAt string `json:"created_at"`
}

func (p *PolicyDocument) normalize() error { return nil }

type chatReply struct {
	Response string `json:"response"`
}

func (c *chatReply) normalize() error { return nil }

// Resolution is the body of every PUT that approves or rejects an item.
type Resolution struct {
	Status  domain.Status `json:"status"`
	Version *int          `json:"version,omitempty"`
}

func normalizeRole(r *domain.Role) error {
	parsed, err := domain.ParseRole(string(*r))
	if err != nil {
		return fmt.Errorf("role: %w", err)
	}
	*r = parsed
	return nil
}

func normalizeStatus(s *domain.Status) error {
	parsed, err := domain.ParseStatus(string(*s))
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	*s = parsed
	return nil
}
