package policy

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"hr-portal/internal/middleware"
	policyerrors "hr-portal/internal/policy/errors"
	"hr-portal/internal/shared/apperror"
	"hr-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("policy.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("policy.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("policy request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Upload takes a multipart form with a title field and a file part.
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxFileBytes+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.writeServiceError(c, policyerrors.ErrFileTooLarge)
			return
		}
		h.writeServiceError(c, policyerrors.ErrFileRequired)
		return
	}
	if fh.Size > MaxFileBytes {
		h.writeServiceError(c, policyerrors.ErrFileTooLarge)
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, MaxFileBytes+1))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Upload(c.Request.Context(), middleware.Actor(c), UploadRequest{
		Title:    c.PostForm("title"),
		FileName: fh.Filename,
		Content:  content,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	h.list(c, c.Query("status"))
}

func (h *Handler) GetDrafts(c *gin.Context) {
	h.list(c, string(StatusDraft))
}

func (h *Handler) list(c *gin.Context, status string) {
	resp, err := h.service.GetAll(c.Request.Context(), middleware.Actor(c), status)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, pageSize := response.PageQuery(c)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) Publish(c *gin.Context) {
	resp, err := h.service.Publish(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Download(c *gin.Context) {
	data, filename, err := h.service.File(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, pdfContentType, data)
}
