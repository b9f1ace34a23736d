package leave

import (
	"context"
	"database/sql"
	"time"

	"hr-portal/internal/domain"
	"hr-portal/internal/shared/dbtx"
	"hr-portal/internal/shared/scope"

	"gorm.io/gorm"
)

type ListFilter struct {
	Viewer domain.Actor
	Status domain.Status
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAll(ctx context.Context, filter ListFilter) ([]Leave, error)
	FindByID(ctx context.Context, id string) (*Leave, error)
	FindApprovedBetween(ctx context.Context, from, to time.Time) ([]Leave, error)
	HasOverlappingPeriod(ctx context.Context, employeeID string, start, end time.Time) (bool, error)
	Resolve(ctx context.Context, id string, status domain.Status, resolvedBy string, expectedVersion *int) (int64, error)
	MarkRefunded(ctx context.Context, id string) (int64, error)
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

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Leave, error) {
	var leaves []Leave
	err := r.conn(ctx).
		Scopes(
			scope.Viewer(filter.Viewer.Role, filter.Viewer.UserID),
			scope.Status(filter.Status),
		).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.conn(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindApprovedBetween(ctx context.Context, from, to time.Time) ([]Leave, error) {
	var leaves []Leave
	err := r.conn(ctx).
		Scopes(scope.Status(domain.StatusApproved)).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Order("start_date ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Leave{}).
		Scopes(scope.Requester(employeeID)).
		Where("status <> ?", domain.StatusRejected).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&count).Error
	return count > 0, err
}

// Resolve applies the transition only while the row is still pending (and at
// expectedVersion when given). It reports how many rows changed.
func (r *repository) Resolve(
	ctx context.Context,
	id string,
	status domain.Status,
	resolvedBy string,
	expectedVersion *int,
) (int64, error) {
	q := r.conn(ctx).
		Model(&Leave{}).
		Where("id = ?", id).
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

// MarkRefunded flips balance_refunded once for a rejected leave.
func (r *repository) MarkRefunded(ctx context.Context, id string) (int64, error) {
	res := r.conn(ctx).
		Model(&Leave{}).
		Where("id = ?", id).
		Where("status = ?", domain.StatusRejected).
		Where("balance_refunded = ?", false).
		Updates(map[string]any{
			"balance_refunded": true,
			"updated_at":       gorm.Expr("NOW()"),
		})
	return res.RowsAffected, res.Error
}
