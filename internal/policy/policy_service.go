package policy

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"hr-portal/internal/domain"
	policyerrors "hr-portal/internal/policy/errors"
	"hr-portal/internal/shared/apperror"
	"hr-portal/internal/shared/contextutil"
	"hr-portal/internal/shared/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MaxFileBytes   = 10 << 20
	maxTitleLength = 200
	pdfContentType = "application/pdf"
)

var pdfMagic = []byte("%PDF-")

//go:generate mockgen -source=policy_service.go -destination=mock/policy_service_mock.go -package=mock
type Service interface {
	Upload(ctx context.Context, actor domain.Actor, req UploadRequest) (DocumentResponse, error)
	GetAll(ctx context.Context, actor domain.Actor, status string) ([]DocumentResponse, error)
	Publish(ctx context.Context, actor domain.Actor, id string) (DocumentResponse, error)
	// File returns the stored PDF and its original file name.
	File(ctx context.Context, actor domain.Actor, id string) ([]byte, string, error)
}

type service struct {
	repo   Repository
	store  storage.ObjectStore
	now    func() time.Time
	logger *zap.Logger
}

// NewService accepts a nil store; uploads and downloads then fail with
// ErrStorageUnavailable while listing keeps working.
func NewService(repo Repository, store storage.ObjectStore, logger ...*zap.Logger) Service {
	l := zap.L().Named("policy.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("policy.service")
	}
	return &service{repo: repo, store: store, now: time.Now, logger: l}
}

func (s *service) Upload(ctx context.Context, actor domain.Actor, req UploadRequest) (DocumentResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if !actor.IsHR() {
		return DocumentResponse{}, policyerrors.ErrManageForbidden
	}
	uploadedBy, err := uuid.Parse(actor.UserID)
	if err != nil {
		return DocumentResponse{}, apperror.ErrUnauthorized
	}

	title := strings.TrimSpace(req.Title)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return DocumentResponse{}, policyerrors.ErrTitleRequired
	}
	switch {
	case len(req.Content) == 0:
		return DocumentResponse{}, policyerrors.ErrFileRequired
	case len(req.Content) > MaxFileBytes:
		return DocumentResponse{}, policyerrors.ErrFileTooLarge
	case !bytes.HasPrefix(req.Content, pdfMagic):
		return DocumentResponse{}, policyerrors.ErrNotPDF
	}
	if s.store == nil {
		return DocumentResponse{}, policyerrors.ErrStorageUnavailable
	}

	now := s.now()
	id := uuid.New()
	doc := &Document{
		ID:          id,
		Title:       title,
		FileName:    cleanFileName(req.FileName, title),
		ObjectKey:   "policies/" + id.String() + ".pdf",
		ContentType: pdfContentType,
		SizeBytes:   int64(len(req.Content)),
		Status:      StatusDraft,
		UploadedBy:  uploadedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Put(ctx, doc.ObjectKey, bytes.NewReader(req.Content), doc.SizeBytes, doc.ContentType); err != nil {
		s.logger.Error("store policy document failed",
			zap.String("request_id", rid),
			zap.String("object_key", doc.ObjectKey),
			zap.Error(err),
		)
		return DocumentResponse{}, err
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		// The row never landed, so the object would be unreachable.
		if rmErr := s.store.Remove(ctx, doc.ObjectKey); rmErr != nil {
			s.logger.Warn("orphaned policy object",
				zap.String("request_id", rid),
				zap.String("object_key", doc.ObjectKey),
				zap.Error(rmErr),
			)
		}
		return DocumentResponse{}, err
	}

	s.logger.Info("policy document uploaded",
		zap.String("request_id", rid),
		zap.String("document_id", id.String()),
		zap.Int64("size_bytes", doc.SizeBytes),
	)
	return mapToResponse(*doc), nil
}

// GetAll shows employees published documents only. HR sees everything unless
// a status narrows it.
func (s *service) GetAll(ctx context.Context, actor domain.Actor, status string) ([]DocumentResponse, error) {
	var filter Status
	switch Status(status) {
	case "":
		if !actor.IsHR() {
			filter = StatusPublished
		}
	case StatusPublished:
		filter = StatusPublished
	case StatusDraft:
		if !actor.IsHR() {
			return nil, policyerrors.ErrDraftsForbidden
		}
		filter = StatusDraft
	default:
		return nil, policyerrors.ErrInvalidStatus
	}

	docs, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		resp[i] = mapToResponse(d)
	}
	return resp, nil
}

func (s *service) Publish(ctx context.Context, actor domain.Actor, id string) (DocumentResponse, error) {
	if !actor.IsHR() {
		return DocumentResponse{}, policyerrors.ErrManageForbidden
	}
	doc, err := s.find(ctx, actor, id)
	if err != nil {
		return DocumentResponse{}, err
	}
	if doc.Status != StatusDraft {
		return DocumentResponse{}, policyerrors.ErrAlreadyPublished
	}

	now := s.now()
	ok, err := s.repo.Publish(ctx, id, now)
	if err != nil {
		return DocumentResponse{}, err
	}
	if !ok {
		return DocumentResponse{}, policyerrors.ErrAlreadyPublished
	}

	s.logger.Info("policy document published",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("document_id", id),
	)
	doc.Status = StatusPublished
	doc.UpdatedAt = now
	return mapToResponse(*doc), nil
}

func (s *service) File(ctx context.Context, actor domain.Actor, id string) ([]byte, string, error) {
	doc, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	if s.store == nil {
		return nil, "", policyerrors.ErrStorageUnavailable
	}

	data, err := s.store.Get(ctx, doc.ObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, "", policyerrors.ErrDocumentNotFound
		}
		return nil, "", err
	}
	return data, doc.FileName, nil
}

// find hides drafts from non-HR callers behind not found.
func (s *service) find(ctx context.Context, actor domain.Actor, id string) (*Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, policyerrors.ErrDocumentNotFound
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policyerrors.ErrDocumentNotFound
		}
		return nil, err
	}
	if doc.Status != StatusPublished && !actor.IsHR() {
		return nil, policyerrors.ErrDocumentNotFound
	}
	return doc, nil
}

func cleanFileName(name, title string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.Map(func(r rune) rune {
		if r == '"' || r < 0x20 {
			return -1
		}
		return r
	}, base)
	if base == "" || base == "." || base == "/" {
		base = title
	}
	if !strings.HasSuffix(strings.ToLower(base), ".pdf") {
		base += ".pdf"
	}
	return base
}

func mapToResponse(d Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID.String(),
		Title:       d.Title,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		Status:      string(d.Status),
		UploadedBy:  d.UploadedBy.String(),
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   d.UpdatedAt.Format(time.RFC3339),
	}
}
