package approval

import (
	"context"
	"database/sql"
	"errors"

	approvalerrors "hr-portal/internal/approval/errors"
	"hr-portal/internal/domain"
	"hr-portal/internal/shared/dbtx"
	"hr-portal/internal/shared/scope"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type ListFilter struct {
	Viewer domain.Actor
	Status domain.Status
}

//go:generate mockgen -source=approval_repo.go -destination=mock/approval_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Approval) error
	FindAll(ctx context.Context, filter ListFilter) ([]Approval, error)
	FindByID(ctx context.Context, trxID string) (*Approval, error)
	Resolve(ctx context.Context, trxID string, status domain.Status, resolvedBy string, expectedVersion *int) (int64, error)
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

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, a *Approval) error {
	err := r.conn(ctx).Create(a).Error
	var pgErr *pgconn.PgError
	if errors.Is(err, gorm.ErrDuplicatedKey) || (errors.As(err, &pgErr) && pgErr.Code == "23505") {
		return approvalerrors.ErrApprovalAlreadyExists
	}
	return err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Approval, error) {
	var approvals []Approval
	err := r.conn(ctx).
		Scopes(
			scope.Viewer(filter.Viewer.Role, filter.Viewer.UserID),
			scope.Status(filter.Status),
		).
		Order("created_at DESC").
		Find(&approvals).Error
	return approvals, err
}

func (r *repository) FindByID(ctx context.Context, trxID string) (*Approval, error) {
	var a Approval
	err := r.conn(ctx).First(&a, "trx_id = ?", trxID).Error
	return &a, err
}

func (r *repository) Resolve(
	ctx context.Context,
	trxID string,
	status domain.Status,
	resolvedBy string,
	expectedVersion *int,
) (int64, error) {
	q := r.conn(ctx).
		Model(&Approval{}).
		Where("trx_id = ?", trxID).
		Where("status = ?", domain.StatusPending)
	if expectedVersion != nil {
		q = q.Where("version = ?", *expectedVersion)
	}

	res := q.Updates(map[string]any{
		"status":      status,
		"version":     gorm.Expr("version + 1"),
		"resolved_by": resolvedBy,
		"resolved_at": gorm.Expr("NOW()"),
		"updated_at":  gorm.Expr("NOW()"),
	})
	return res.RowsAffected, res.Error
}
