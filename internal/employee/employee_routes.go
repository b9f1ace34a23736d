package employee

import (
	"hr-portal/internal/domain"
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
	users := r.Group("/users")
	users.Use(authMiddleware)
	users.Use(middleware.ExtractUserID())
	users.Use(middleware.ContextLogger(logger))
	{
		users.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceProfile, rbac.ActionRead),
			handler.GetByID,
		)
		users.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceProfile, rbac.ActionUpdate),
			handler.UpdateProfile,
		)
	}

	employees := r.Group("/employees")
	employees.Use(authMiddleware)
	employees.Use(middleware.ExtractUserID())
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, rbac.ActionRead),
			handler.GetAll,
		)
		employees.GET("/export",
			middleware.RateLimitByUser(0.1, 2),
			middleware.RoleMiddleware(domain.RoleHR),
			middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, rbac.ActionExport),
			handler.Export,
		)
	}
}
