package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hr-portal/internal/domain"
	"hr-portal/internal/employee"
	payrollerrors "hr-portal/internal/payroll/errors"
	"hr-portal/internal/shared/apperror"
	"hr-portal/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const periodLayout = "2006-01"

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreatePayslipRequest) (PayslipResponse, error)
	GetAll(ctx context.Context, actor domain.Actor, employeeID string) ([]PayslipResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (PayslipResponse, error)
	// Document renders the payslip as a PDF and suggests a file name.
	Document(ctx context.Context, actor domain.Actor, id string) ([]byte, string, error)
}

type service struct {
	repo      Repository
	employees employee.Repository
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(repo Repository, employees employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{repo: repo, employees: employees, now: time.Now, logger: l}
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreatePayslipRequest) (PayslipResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if !actor.IsHR() {
		return PayslipResponse{}, payrollerrors.ErrCreateForbidden
	}
	createdBy, err := uuid.Parse(actor.UserID)
	if err != nil {
		return PayslipResponse{}, apperror.ErrUnauthorized
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return PayslipResponse{}, payrollerrors.ErrInvalidEmployeeID
	}
	period, err := time.Parse(periodLayout, req.Period)
	if err != nil {
		return PayslipResponse{}, payrollerrors.ErrInvalidPeriod
	}

	net := req.BaseSalary + req.Allowance - req.Deduction
	if net < 0 {
		return PayslipResponse{}, payrollerrors.ErrNegativeNetSalary
	}

	if _, err := s.employees.FindByID(ctx, employeeID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipResponse{}, payrollerrors.ErrEmployeeNotFound
		}
		return PayslipResponse{}, err
	}

	now := s.now()
	p := &Payslip{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Period:     period,
		BaseSalary: req.BaseSalary,
		Allowance:  req.Allowance,
		Deduction:  req.Deduction,
		NetSalary:  net,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Warn("create payslip failed",
			zap.String("request_id", rid),
			zap.String("employee_id", req.EmployeeID),
			zap.String("period", req.Period),
			zap.Error(err),
		)
		return PayslipResponse{}, err
	}

	s.logger.Info("payslip issued",
		zap.String("request_id", rid),
		zap.String("payslip_id", p.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("period", req.Period),
	)
	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context, actor domain.Actor, employeeID string) ([]PayslipResponse, error) {
	if employeeID != "" {
		if _, err := uuid.Parse(employeeID); err != nil {
			return nil, payrollerrors.ErrInvalidEmployeeID
		}
	}

	payslips, err := s.repo.FindAll(ctx, ListFilter{Viewer: actor, EmployeeID: employeeID})
	if err != nil {
		return nil, err
	}
	return mapToListResponse(payslips), nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (PayslipResponse, error) {
	p, err := s.find(ctx, actor, id)
	if err != nil {
		return PayslipResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) Document(ctx context.Context, actor domain.Actor, id string) ([]byte, string, error) {
	p, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}

	empl, err := s.employees.FindByID(ctx, p.EmployeeID.String())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		empl = &employee.Employee{ID: p.EmployeeID}
	}

	pdf, err := buildSimplePayslipPDF(payslipLines(*p, *empl))
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("payslip-%s.pdf", p.Period.Format(periodLayout)), nil
}

// find hides other employees' payslips behind not found.
func (s *service) find(ctx context.Context, actor domain.Actor, id string) (*Payslip, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payrollerrors.ErrPayslipNotFound
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrPayslipNotFound
		}
		return nil, err
	}
	if !actor.CanView(p.EmployeeID.String()) {
		return nil, payrollerrors.ErrPayslipNotFound
	}
	return p, nil
}

func mapToResponse(p Payslip) PayslipResponse {
	return PayslipResponse{
		ID:         p.ID.String(),
		EmployeeID: p.EmployeeID.String(),
		Period:     p.Period.Format(periodLayout),
		BaseSalary: p.BaseSalary,
		Allowance:  p.Allowance,
		Deduction:  p.Deduction,
		NetSalary:  p.NetSalary,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(payslips []Payslip) []PayslipResponse {
	resp := make([]PayslipResponse, len(payslips))
	for i, p := range payslips {
		resp[i] = mapToResponse(p)
	}
	return resp
}
