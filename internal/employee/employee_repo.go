package employee

import (
	"context"
	"database/sql"
	"fmt"

	"hr-portal/internal/domain"
	employeeerrors "hr-portal/internal/employee/errors"
	"hr-portal/internal/shared/dbtx"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	Update(ctx context.Context, empl *Employee) error
	DeductBalance(ctx context.Context, id string, leaveType domain.LeaveType, days int) error
	RefundBalance(ctx context.Context, id string, leaveType domain.LeaveType, days int) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Order("name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).First(&empl, "id = ?", id).Error
	return &empl, err
}

// profileColumns are the only columns a profile edit may write. Balances move
// through DeductBalance and RefundBalance alone.
var profileColumns = []string{"name", "department", "designation", "phone", "presence", "updated_at"}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	res := r.conn(ctx).
		Model(empl).
		Select(profileColumns).
		Updates(empl)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeductBalance fails with ErrInsufficientBalance when fewer than days remain.
func (r *repository) DeductBalance(ctx context.Context, id string, leaveType domain.LeaveType, days int) error {
	col := leaveType.BalanceColumn()
	if col == "" {
		return fmt.Errorf("unknown leave type %q", leaveType)
	}

	res := r.conn(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Where(col+" >= ?", days).
		Updates(map[string]any{
			col:          gorm.Expr(col+" - ?", days),
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return employeeerrors.ErrInsufficientBalance
	}
	return nil
}

func (r *repository) RefundBalance(ctx context.Context, id string, leaveType domain.LeaveType, days int) error {
	col := leaveType.BalanceColumn()
	if col == "" {
		return fmt.Errorf("unknown leave type %q", leaveType)
	}

	res := r.conn(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Updates(map[string]any{
			col:          gorm.Expr(col+" + ?", days),
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
