package calendar

import (
	"net/http"
	"strconv"

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
	l := zap.L().Named("calendar.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("calendar.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Holidays(c *gin.Context) {
	upcoming := c.Query("upcoming") == "true"
	response.Success(c, http.StatusOK, h.service.Holidays(c.Request.Context(), upcoming), nil)
}

func (h *Handler) Feed(c *gin.Context) {
	year, err := strconv.Atoi(c.DefaultQuery("year", "2026"))
	if err != nil || year < 2000 || year > 2100 {
		httpErr := apperror.ToHTTP(apperror.InvalidField("year"))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	body, err := h.service.Feed(c.Request.Context(), year)
	if err != nil {
		h.logger.Error("calendar feed failed", zap.Error(err))
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
