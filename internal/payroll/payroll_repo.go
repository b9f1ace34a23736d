package payroll

import (
	"context"
	"database/sql"
	"errors"

	"hr-portal/internal/domain"
	payrollerrors "hr-portal/internal/payroll/errors"
	"hr-portal/internal/shared/dbtx"
	"hr-portal/internal/shared/scope"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type ListFilter struct {
	Viewer     domain.Actor
	EmployeeID string
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Payslip) error
	FindAll(ctx context.Context, filter ListFilter) ([]Payslip, error)
	FindByID(ctx context.Context, id string) (*Payslip, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, p *Payslip) error {
	err := dbtx.Conn(ctx, r.db, r.tx).Create(p).Error
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.Is(err, gorm.ErrDuplicatedKey) || (errors.As(err, &pgErr) && pgErr.Code == "23505") {
		return payrollerrors.ErrPayslipExists
	}
	return err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Payslip, error) {
	q := dbtx.Conn(ctx, r.db, r.tx).
		Scopes(scope.Viewer(filter.Viewer.Role, filter.Viewer.UserID))
	if filter.EmployeeID != "" {
		q = q.Scopes(scope.Requester(filter.EmployeeID))
	}

	var payslips []Payslip
	err := q.Order("period DESC").Find(&payslips).Error
	return payslips, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payslip, error) {
	var p Payslip
	err := dbtx.Conn(ctx, r.db, r.tx).First(&p, "id = ?", id).Error
	return &p, err
}
