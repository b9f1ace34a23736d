package policy

import (
	"context"
	"database/sql"
	"time"

	"hr-portal/internal/shared/dbtx"

	"gorm.io/gorm"
)

//go:generate mockgen -source=policy_repo.go -destination=mock/policy_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, doc *Document) error
	FindAll(ctx context.Context, status Status) ([]Document, error)
	FindByID(ctx context.Context, id string) (*Document, error)
	// Publish flips a draft to published. It reports false when the row was
	// not a draft anymore.
	Publish(ctx context.Context, id string, at time.Time) (bool, error)
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

func (r *repository) Create(ctx context.Context, doc *Document) error {
	return dbtx.Conn(ctx, r.db, r.tx).Create(doc).Error
}

// FindAll lists every document when status is empty.
func (r *repository) FindAll(ctx context.Context, status Status) ([]Document, error) {
	q := dbtx.Conn(ctx, r.db, r.tx)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var docs []Document
	err := q.Order("created_at DESC").Find(&docs).Error
	return docs, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := dbtx.Conn(ctx, r.db, r.tx).First(&doc, "id = ?", id).Error
	return &doc, err
}

func (r *repository) Publish(ctx context.Context, id string, at time.Time) (bool, error) {
	res := dbtx.Conn(ctx, r.db, r.tx).
		Model(&Document{}).
		Where("id = ? AND status = ?", id, StatusDraft).
		Updates(map[string]any{"status": StatusPublished, "updated_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
