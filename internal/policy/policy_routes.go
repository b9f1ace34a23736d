package policy

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
	policies := r.Group("/policies")
	policies.Use(authMiddleware)
	policies.Use(middleware.ExtractUserID())
	policies.Use(middleware.ContextLogger(logger))
	{
		policies.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePolicy, rbac.ActionRead),
			handler.GetAll,
		)
		policies.GET("/drafts",
			middleware.RateLimitByUser(3, 10),
			middleware.RoleMiddleware(domain.RoleHR),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePolicy, rbac.ActionCreate),
			handler.GetDrafts,
		)
		policies.POST("",
			middleware.RateLimitByUser(1, 3),
			middleware.RoleMiddleware(domain.RoleHR),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePolicy, rbac.ActionCreate),
			middleware.Idempotency(rdb),
			handler.Upload,
		)
		policies.PUT("/:id/publish",
			middleware.RateLimitByUser(1, 5),
			middleware.RoleMiddleware(domain.RoleHR),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePolicy, rbac.ActionUpdate),
			middleware.Idempotency(rdb),
			handler.Publish,
		)
		policies.GET("/:id/file",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePolicy, rbac.ActionRead),
			handler.Download,
		)
	}
}
