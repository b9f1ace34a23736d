package ticket

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"hr-portal/internal/domain"
	"hr-portal/internal/shared/dbtx"
	"hr-portal/internal/shared/scope"
	ticketerrors "hr-portal/internal/ticket/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type ListFilter struct {
	Viewer domain.Actor
	Status domain.Status
}

//go:generate mockgen -source=ticket_repo.go -destination=mock/ticket_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Ticket) error
	FindAll(ctx context.Context, filter ListFilter) ([]Ticket, error)
	FindByID(ctx context.Context, id string) (*Ticket, error)
	Resolve(ctx context.Context, id string, status domain.Status, resolvedBy string, expectedVersion *int) (int64, error)
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

func (r *repository) Create(ctx context.Context, t *Ticket) error {
	if err := r.conn(ctx).Create(t).Error; err != nil {
		return mapCreateError(err)
	}
	return nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Ticket, error) {
	var tickets []Ticket
	err := r.conn(ctx).
		Scopes(
			scope.Viewer(filter.Viewer.Role, filter.Viewer.UserID),
			scope.Status(filter.Status),
		).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Ticket, error) {
	var t Ticket
	err := r.conn(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) Resolve(
	ctx context.Context,
	id string,
	status domain.Status,
	resolvedBy string,
	expectedVersion *int,
) (int64, error) {
	q := r.conn(ctx).
		Model(&Ticket{}).
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

func mapCreateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ticketerrors.ErrTicketAlreadyExists
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ticketerrors.ErrTicketAlreadyExists
	}
	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return ticketerrors.ErrTicketAlreadyExists
	}
	return err
}
