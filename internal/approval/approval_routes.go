package approval

import (
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
	approvals := r.Group("/approvals")
	approvals.Use(authMiddleware)
	approvals.Use(middleware.ExtractUserID())
	approvals.Use(middleware.ContextLogger(logger))
	{
		approvals.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceApproval, rbac.ActionRead),
			handler.GetAll,
		)
		approvals.POST("",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, rbac.ResourceApproval, rbac.ActionCreate),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		approvals.PUT("/:trx_id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceApproval, rbac.ActionResolve),
			handler.Resolve,
		)
	}
}
