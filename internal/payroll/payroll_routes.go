package payroll

import (
	"hr-portal/internal/domain"
	"hr-portal/internal/middleware"
	"hr-portal/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMiddleware gin.HandlerFunc,
	rbacService rbac.Service,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	payslips := r.Group("/payslips")
	payslips.Use(authMiddleware)
	payslips.Use(middleware.ExtractUserID())
	payslips.Use(middleware.ContextLogger(logger))
	{
		payslips.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionRead),
			handler.GetAll,
		)
		payslips.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RoleMiddleware(domain.RoleHR),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionCreate),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		payslips.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionRead),
			handler.GetByID,
		)
		payslips.GET("/:id/pdf",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionRead),
			handler.Download,
		)
	}
}
