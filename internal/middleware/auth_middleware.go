package middleware

import (
	"errors"
	"strings"
	"time"

	autherrors "hr-portal/internal/auth/errors"
	"hr-portal/internal/domain"
	"hr-portal/internal/shared/apperror"
	"hr-portal/internal/shared/contextutil"
	"hr-portal/internal/shared/response"
	"hr-portal/internal/shared/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Keys set on the gin context by AuthMiddleware.
const (
	KeyUserID     = "user_id"
	KeyEmployeeID = "employee_id"
	KeyRole       = "role"
	KeyName       = "name"
	KeyTokenID    = "token_id"
	KeyTokenExp   = "token_exp"
)

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Abort(c, err.HTTPStatus, err.Code, err.Message)
}

// AuthMiddleware accepts a bearer token or the access_token cookie. A nil
// blacklist skips revocation checks.
func AuthMiddleware(tokens *token.Manager, blacklist token.Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, autherrors.ErrTokenNotFound)
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				abortWith(c, autherrors.ErrTokenExpired)
				return
			}
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.IsRevoked(c.Request.Context(), claims.TokenID)
			if err != nil {
				zap.L().Named("middleware.auth").Error("blacklist lookup failed",
					zap.String("token_id", claims.TokenID),
					zap.Error(err),
				)
				abortWith(c, apperror.ErrInternal)
				return
			}
			if revoked {
				abortWith(c, autherrors.ErrTokenRevoked)
				return
			}
		}

		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyEmployeeID, claims.UserID)
		c.Set(KeyRole, string(claims.Role))
		c.Set(KeyName, claims.Name)
		c.Set(KeyTokenID, claims.TokenID)
		c.Set(KeyTokenExp, claims.ExpiresAt)

		ctx := contextutil.WithUserID(c.Request.Context(), claims.UserID)
		ctx = contextutil.WithRole(ctx, claims.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RoleMiddleware admits only the listed roles.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := domain.Role(c.GetString(KeyRole))
		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}
		abortWith(c, autherrors.ErrForbidden)
	}
}

// TokenTTL is the remaining lifetime of the caller's token.
func TokenTTL(c *gin.Context) time.Duration {
	exp, ok := c.Get(KeyTokenExp)
	if !ok {
		return 0
	}
	t, ok := exp.(time.Time)
	if !ok {
		return 0
	}
	return time.Until(t)
}

// Actor reads the caller identity set by AuthMiddleware.
func Actor(c *gin.Context) domain.Actor {
	role, _ := domain.ParseRole(c.GetString(KeyRole))
	return domain.Actor{UserID: c.GetString(KeyUserID), Role: role}
}
