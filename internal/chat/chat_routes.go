package chat

import (
	"hr-portal/internal/middleware"
	"hr-portal/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes mounts POST /chat on the engine root, outside /api.
func RegisterRoutes(
	r gin.IRouter,
	handler *Handler,
	authMiddleware gin.HandlerFunc,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	r.POST("/chat",
		authMiddleware,
		middleware.ExtractUserID(),
		middleware.ContextLogger(logger),
		middleware.RateLimitByUser(1, 5),
		middleware.RBACAuthorize(rbacService, rbac.ResourceChat, rbac.ActionCreate),
		handler.Chat,
	)
}
