package employee_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hr-portal/internal/domain"
	"hr-portal/internal/employee"
	employeeerrors "hr-portal/internal/employee/errors"
	employeeMock "hr-portal/internal/employee/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   employee.Service
	repo      *employeeMock.MockRepository
	redismock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	dbRedis, redisMock := redismock.NewClientMock()
	repo := employeeMock.NewMockRepository(ctrl)

	svc := employee.NewService(db, repo, dbRedis)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		redismock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func sampleEmployee(id uuid.UUID) *employee.Employee {
	return &employee.Employee{
		ID:               id,
		Name:             "Ravi Kumar",
		Email:            "ravi@example.com",
		Role:             "EMPLOYEE",
		Department:       "Engineering",
		Designation:      "Developer",
		Presence:         employee.PresenceActive,
		CasualBalance:    12,
		SickBalance:      10,
		PrivilegeBalance: 15,
	}
}

func TestEmployeeService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips repository", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cached := []employee.EmployeeResponse{{ID: uuid.NewString(), Name: "Cached"}}
		payload, _ := json.Marshal(cached)
		deps.redismock.ExpectGet(employee.DirectoryCacheKey).SetVal(string(payload))

		resp, err := deps.service.GetAll(ctx)

		assert.NoError(t, err)
		assert.Equal(t, cached, resp)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.redismock.ExpectGet(employee.DirectoryCacheKey).RedisNil()
		deps.repo.EXPECT().FindAll(ctx).Return([]employee.Employee{*sampleEmployee(id)}, nil)

		expected := []employee.EmployeeResponse{{
			ID:           id.String(),
			Name:         "Ravi Kumar",
			Email:        "ravi@example.com",
			Role:         "EMPLOYEE",
			Department:   "Engineering",
			Designation:  "Developer",
			Presence:     employee.PresenceActive,
			LeaveBalance: employee.LeaveBalance{Casual: 12, Sick: 10, Privilege: 15},
		}}
		payload, _ := json.Marshal(expected)
		deps.redismock.ExpectSet(employee.DirectoryCacheKey, payload, time.Hour).SetVal("OK")

		resp, err := deps.service.GetAll(ctx)

		assert.NoError(t, err)
		assert.Equal(t, expected, resp)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("repository error", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet(employee.DirectoryCacheKey).RedisNil()
		deps.repo.EXPECT().FindAll(ctx).Return(nil, errors.New("db down"))

		resp, err := deps.service.GetAll(ctx)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("self", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(sampleEmployee(id), nil)

		resp, err := deps.service.GetByID(ctx, domain.Actor{UserID: id.String(), Role: domain.RoleEmployee}, id.String())

		assert.NoError(t, err)
		assert.Equal(t, "Ravi Kumar", resp.Name)
		assert.Equal(t, 10, resp.LeaveBalance.Sick)
	})

	t.Run("hr may read anyone", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(sampleEmployee(id), nil)

		_, err := deps.service.GetByID(ctx, domain.Actor{UserID: uuid.NewString(), Role: domain.RoleHR}, id.String())

		assert.NoError(t, err)
	})

	t.Run("other employee forbidden", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, domain.Actor{UserID: uuid.NewString(), Role: domain.RoleEmployee}, id.String())

		assert.ErrorIs(t, err, employeeerrors.ErrNotOwner)
	})

	t.Run("invalid id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, domain.Actor{UserID: "x", Role: domain.RoleHR}, "not-a-uuid")

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByID(ctx, domain.Actor{UserID: id.String(), Role: domain.RoleEmployee}, id.String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	self := domain.Actor{UserID: id.String(), Role: domain.RoleEmployee}

	t.Run("success invalidates directory", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(sampleEmployee(id), nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "Platform", e.Department)
				assert.Equal(t, employee.PresenceRemote, e.Presence)
				assert.Equal(t, "Ravi Kumar", e.Name)
				return nil
			})
		deps.redismock.ExpectDel(employee.DirectoryCacheKey).SetVal(1)

		dept := " Platform "
		presence := employee.PresenceRemote
		resp, err := deps.service.UpdateProfile(ctx, self, id.String(), employee.UpdateProfileRequest{
			Department: &dept,
			Presence:   &presence,
		})

		assert.NoError(t, err)
		assert.Equal(t, "Platform", resp.Department)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("persist failure rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(sampleEmployee(id), nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(errors.New("write failed"))

		name := "New"
		_, err := deps.service.UpdateProfile(ctx, self, id.String(), employee.UpdateProfileRequest{Name: &name})

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("blank name never opens a transaction", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		name := "   "
		_, err := deps.service.UpdateProfile(ctx, self, id.String(), employee.UpdateProfileRequest{Name: &name})

		assert.ErrorIs(t, err, employeeerrors.ErrBlankName)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("other employee forbidden", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		name := "New"
		_, err := deps.service.UpdateProfile(ctx,
			domain.Actor{UserID: uuid.NewString(), Role: domain.RoleEmployee},
			id.String(),
			employee.UpdateProfileRequest{Name: &name},
		)

		assert.ErrorIs(t, err, employeeerrors.ErrNotOwner)
	})
}

func TestEmployeeService_Export(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	id := uuid.New()
	cached := []employee.EmployeeResponse{{
		ID:           id.String(),
		Name:         "Ravi Kumar",
		Email:        "ravi@example.com",
		LeaveBalance: employee.LeaveBalance{Casual: 12, Sick: 10, Privilege: 15},
	}}
	payload, _ := json.Marshal(cached)
	deps.redismock.ExpectGet(employee.DirectoryCacheKey).SetVal(string(payload))

	data, err := deps.service.Export(ctx)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Employees")
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, "Ravi Kumar", rows[1][1])
	assert.Equal(t, "12", rows[1][8])
}
