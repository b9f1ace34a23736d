package policy

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Document is a company policy file. The bytes live in object storage under
// ObjectKey; the row only tracks metadata and publication state.
type Document struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"not null"`
	FileName    string    `gorm:"not null"`
	ObjectKey   string    `gorm:"not null;unique"`
	ContentType string    `gorm:"not null"`
	SizeBytes   int64
	Status      Status    `gorm:"type:varchar(16);not null"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Document) TableName() string {
	return "policy_documents"
}
