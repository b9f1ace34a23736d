package ticket

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
	tickets := r.Group("/tickets")
	tickets.Use(authMiddleware)
	tickets.Use(middleware.ExtractUserID())
	tickets.Use(middleware.ContextLogger(logger))
	{
		tickets.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceTicket, rbac.ActionRead),
			handler.GetAll,
		)
		tickets.POST("",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, rbac.ResourceTicket, rbac.ActionCreate),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		tickets.PUT("/:id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceTicket, rbac.ActionResolve),
			handler.Resolve,
		)
	}
}
