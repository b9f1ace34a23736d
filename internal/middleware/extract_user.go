package middleware

import (
	"net/http"

	"hr-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const KeyUserIDValidated = "user_id_validated"

// ExtractUserID re-publishes user_id as a checked string for later middleware.
func ExtractUserID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, exists := ctx.Get(KeyUserID)
		if !exists {
			response.Abort(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "User is not authenticated")
			return
		}

		userIDStr, ok := userID.(string)
		if !ok || userIDStr == "" {
			response.Abort(ctx, http.StatusUnauthorized, "INVALID_USER_ID", "Invalid user_id")
			return
		}

		ctx.Set(KeyUserIDValidated, userIDStr)
		ctx.Next()
	}
}
