package calendar

import (
	"hr-portal/internal/middleware"
	"hr-portal/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMiddleware gin.HandlerFunc,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	r.GET("/holidays", middleware.RateLimitByIP(5, 20), handler.Holidays)

	feed := r.Group("")
	feed.Use(authMiddleware)
	feed.Use(middleware.ExtractUserID())
	feed.Use(middleware.ContextLogger(logger))
	feed.GET("/calendar.ics",
		middleware.RateLimitByUser(0.5, 2),
		middleware.RBACAuthorize(rbacService, rbac.ResourceCalendar, rbac.ActionRead),
		handler.Feed,
	)
}
