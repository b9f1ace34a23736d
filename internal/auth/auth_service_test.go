package auth_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"hr-portal/internal/auth"
	autherrors "hr-portal/internal/auth/errors"
	authMock "hr-portal/internal/auth/mock"
	"hr-portal/internal/domain"
	"hr-portal/internal/employee"
	employeeMock "hr-portal/internal/employee/mock"
	"hr-portal/internal/shared/token"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "0123456789abcdef-test"

type fakeBlacklist struct {
	revoked map[string]time.Duration
}

func (f *fakeBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	f.revoked[tokenID] = ttl
	return nil
}

func (f *fakeBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, ok := f.revoked[tokenID]
	return ok, nil
}

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   auth.Service
	repo      *authMock.MockRepository
	employees *employeeMock.MockRepository
	tokens    *token.Manager
	blacklist *fakeBlacklist
	redismock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	dbRedis, redisMock := redismock.NewClientMock()
	repo := authMock.NewMockRepository(ctrl)
	employees := employeeMock.NewMockRepository(ctrl)
	tokens := token.NewManager(testSecret, time.Hour)
	bl := &fakeBlacklist{revoked: map[string]time.Duration{}}

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   auth.NewService(db, repo, employees, tokens, bl, dbRedis),
		repo:      repo,
		employees: employees,
		tokens:    tokens,
		blacklist: bl,
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

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success issues token for requested role", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().GetByEmail(ctx, "hr@example.com").
			Return(&auth.User{ID: id, Email: "hr@example.com", Password: hashed(t, "secret1"), Role: "HR"}, nil)
		deps.employees.EXPECT().FindByID(ctx, id.String()).
			Return(&employee.Employee{ID: id, Name: "Asha"}, nil)

		resp, err := deps.service.Login(ctx, auth.LoginRequest{Email: "hr@example.com", Password: "secret1", Role: "hr"})

		assert.NoError(t, err)
		assert.Equal(t, id.String(), resp.UserID)
		assert.Equal(t, "HR", resp.Role)
		assert.Equal(t, "Asha", resp.Name)

		claims, err := deps.tokens.Parse(resp.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, domain.RoleHR, claims.Role)
		assert.Equal(t, id.String(), claims.UserID)
	})

	t.Run("role mismatch is forbidden", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().GetByEmail(ctx, "emp@example.com").
			Return(&auth.User{ID: id, Password: hashed(t, "secret1"), Role: "EMPLOYEE"}, nil)

		resp, err := deps.service.Login(ctx, auth.LoginRequest{Email: "emp@example.com", Password: "secret1", Role: "HR"})

		assert.ErrorIs(t, err, autherrors.ErrRoleMismatch)
		assert.Equal(t, 403, autherrors.ErrRoleMismatch.HTTPStatus)
		assert.Empty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().GetByEmail(ctx, "emp@example.com").
			Return(&auth.User{ID: id, Password: hashed(t, "secret1"), Role: "EMPLOYEE"}, nil)

		_, err := deps.service.Login(ctx, auth.LoginRequest{Email: "emp@example.com", Password: "nope", Role: "EMPLOYEE"})

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().GetByEmail(ctx, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Login(ctx, auth.LoginRequest{Email: "ghost@example.com", Password: "x", Role: "EMPLOYEE"})

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("invalid role", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Login(ctx, auth.LoginRequest{Email: "a@example.com", Password: "x", Role: "CEO"})

		assert.ErrorIs(t, err, autherrors.ErrInvalidRole)
	})
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("success creates employee with default balances", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		var createdID uuid.UUID
		expectTx(t, deps.sqlMock, true)
		deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
		deps.employees.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "Ravi Kumar", e.Name)
				assert.Equal(t, "ravi@example.com", e.Email)
				assert.Equal(t, "EMPLOYEE", e.Role)
				assert.Equal(t, domain.DefaultCasualDays, e.CasualBalance)
				assert.Equal(t, domain.DefaultSickDays, e.SickBalance)
				assert.Equal(t, domain.DefaultPrivilegeDays, e.PrivilegeBalance)
				createdID = e.ID
				return nil
			})
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, u *auth.User) error {
				assert.Equal(t, createdID, u.ID)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret1")))
				return nil
			})
		deps.redismock.ExpectDel(employee.DirectoryCacheKey).SetVal(1)

		resp, err := deps.service.Signup(ctx, auth.SignupRequest{
			Name:     "Ravi Kumar",
			Email:    " Ravi@Example.com ",
			Password: "secret1",
			Role:     "Employee",
		})

		assert.NoError(t, err)
		assert.Equal(t, createdID.String(), resp.UserID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("duplicate email rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees)
		deps.employees.EXPECT().Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employees_email"})

		_, err := deps.service.Signup(ctx, auth.SignupRequest{
			Name: "Ravi", Email: "ravi@example.com", Password: "secret1", Role: "EMPLOYEE",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestAuthService_Logout(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	err := deps.service.Logout(context.Background(), "jti-1", 10*time.Minute)

	assert.NoError(t, err)
	assert.Equal(t, 10*time.Minute, deps.blacklist.revoked["jti-1"])
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().GetByID(ctx, id.String()).Return(&auth.User{ID: id, Email: "a@example.com", Role: "HR"}, nil)
		deps.employees.EXPECT().FindByID(ctx, id.String()).Return(&employee.Employee{ID: id, Name: "Asha"}, nil)

		resp, err := deps.service.Me(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, "Asha", resp.Name)
		assert.Equal(t, "HR", resp.Role)
	})

	t.Run("missing user", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().GetByID(ctx, id.String()).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Me(ctx, id.String())

		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})

	t.Run("repository failure", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().GetByID(ctx, id.String()).Return(nil, errors.New("db down"))

		_, err := deps.service.Me(ctx, id.String())

		assert.Error(t, err)
	})
}
