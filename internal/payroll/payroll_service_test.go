package payroll_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"hr-portal/internal/domain"
	"hr-portal/internal/employee"
	employeeMock "hr-portal/internal/employee/mock"
	"hr-portal/internal/payroll"
	payrollerrors "hr-portal/internal/payroll/errors"
	payrollMock "hr-portal/internal/payroll/mock"
	"hr-portal/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	service   payroll.Service
	repo      *payrollMock.MockRepository
	employees *employeeMock.MockRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)
	repo := payrollMock.NewMockRepository(ctrl)
	employees := employeeMock.NewMockRepository(ctrl)

	return &serviceDeps{
		service:   payroll.NewService(repo, employees),
		repo:      repo,
		employees: employees,
	}
}

var (
	hrID       = uuid.New()
	employeeID = uuid.New()
	hr         = domain.Actor{UserID: hrID.String(), Role: domain.RoleHR}
	staff      = domain.Actor{UserID: employeeID.String(), Role: domain.RoleEmployee}
)

func TestService_Create(t *testing.T) {
	validReq := payroll.CreatePayslipRequest{
		EmployeeID: employeeID.String(),
		Period:     "2026-09",
		BaseSalary: 5000000,
		Allowance:  250000,
		Deduction:  120000,
	}

	t.Run("success computes net salary", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		deps.employees.EXPECT().FindByID(ctx, employeeID.String()).Return(&employee.Employee{ID: employeeID}, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, p *payroll.Payslip) error {
			assert.Equal(t, time.September, p.Period.Month())
			assert.Equal(t, hrID, p.CreatedBy)
			return nil
		})

		res, err := deps.service.Create(ctx, hr, validReq)
		assert.NoError(t, err)
		assert.Equal(t, int64(5130000), res.NetSalary)
		assert.Equal(t, "2026-09", res.Period)
	})

	t.Run("employee cannot issue payslips", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Create(context.Background(), staff, validReq)
		assert.ErrorIs(t, err, payrollerrors.ErrCreateForbidden)
	})

	t.Run("invalid period", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := validReq
		req.Period = "09/2026"

		_, err := deps.service.Create(context.Background(), hr, req)
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)
	})

	t.Run("deduction larger than gross", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := validReq
		req.Deduction = 9000000

		_, err := deps.service.Create(context.Background(), hr, req)
		assert.ErrorIs(t, err, payrollerrors.ErrNegativeNetSalary)
	})

	t.Run("unknown employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		deps.employees.EXPECT().FindByID(ctx, employeeID.String()).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Create(ctx, hr, validReq)
		assert.ErrorIs(t, err, payrollerrors.ErrEmployeeNotFound)
	})

	t.Run("duplicate period", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		deps.employees.EXPECT().FindByID(ctx, employeeID.String()).Return(&employee.Employee{ID: employeeID}, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(payrollerrors.ErrPayslipExists)

		_, err := deps.service.Create(ctx, hr, validReq)
		assert.ErrorIs(t, err, payrollerrors.ErrPayslipExists)
	})

	t.Run("actor id not a uuid", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Create(context.Background(), domain.Actor{UserID: "x", Role: domain.RoleHR}, validReq)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})
}

func TestService_GetAll(t *testing.T) {
	deps := setupServiceTest(t)
	ctx := context.Background()

	deps.repo.EXPECT().
		FindAll(ctx, payroll.ListFilter{Viewer: staff}).
		Return([]payroll.Payslip{{ID: uuid.New(), EmployeeID: employeeID, Period: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}}, nil)

	res, err := deps.service.GetAll(ctx, staff, "")
	assert.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, "2026-08", res[0].Period)

	_, err = deps.service.GetAll(ctx, hr, "not-a-uuid")
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidEmployeeID)
}

func TestService_GetByID(t *testing.T) {
	id := uuid.New()
	slip := &payroll.Payslip{ID: id, EmployeeID: employeeID, Period: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)}

	t.Run("owner sees own payslip", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(slip, nil)

		res, err := deps.service.GetByID(context.Background(), staff, id.String())
		assert.NoError(t, err)
		assert.Equal(t, id.String(), res.ID)
	})

	t.Run("other employee gets not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(slip, nil)

		other := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleEmployee}
		_, err := deps.service.GetByID(context.Background(), other, id.String())
		assert.ErrorIs(t, err, payrollerrors.ErrPayslipNotFound)
	})

	t.Run("missing row", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByID(context.Background(), hr, id.String())
		assert.ErrorIs(t, err, payrollerrors.ErrPayslipNotFound)
	})

	t.Run("malformed id never hits the repo", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.GetByID(context.Background(), hr, "123")
		assert.ErrorIs(t, err, payrollerrors.ErrPayslipNotFound)
	})
}

func TestService_Document(t *testing.T) {
	id := uuid.New()
	slip := &payroll.Payslip{
		ID:         id,
		EmployeeID: employeeID,
		Period:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		BaseSalary: 5000000,
		Allowance:  250000,
		Deduction:  120050,
		NetSalary:  5129950,
	}

	t.Run("renders pdf", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(slip, nil)
		deps.employees.EXPECT().FindByID(gomock.Any(), employeeID.String()).
			Return(&employee.Employee{ID: employeeID, Name: "Ravi (Eng)", Department: "Engineering"}, nil)

		pdf, name, err := deps.service.Document(context.Background(), staff, id.String())
		assert.NoError(t, err)
		assert.Equal(t, "payslip-2026-09.pdf", name)
		assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-1.4")))
		assert.Contains(t, string(pdf), "Payslip September 2026")
		assert.Contains(t, string(pdf), `Ravi \(Eng\)`)
		assert.Contains(t, string(pdf), "Net salary: 51,299.50")
	})

	t.Run("employee lookup failure", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(slip, nil)
		deps.employees.EXPECT().FindByID(gomock.Any(), employeeID.String()).Return(nil, errors.New("db down"))

		_, _, err := deps.service.Document(context.Background(), hr, id.String())
		assert.EqualError(t, err, "db down")
	})
}
