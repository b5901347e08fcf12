package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"washday/internal/domain/user"
	"washday/internal/handler/httperr"
	"washday/internal/pkg/cookie"
	"washday/internal/pkg/errs"
	"washday/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxPrincipalKey = "principal"

type AuthMiddleware struct {
	tokens usecase.TokenValidator
}

func NewAuthMiddleware(tokens usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth accepts the access token from the cookie first, then from a
// Bearer Authorization header.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerOrCookie(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("no access token"), "Access token required", nil)
			return
		}

		principal, err := m.tokens.Authenticate(token)
		if err != nil {
			slog.Warn("rejected access token", "error", err.Error(), "request_id", GetRequestID(c))
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

// RequireRoleAtLeast must run after RequireAuth.
func (m *AuthMiddleware) RequireRoleAtLeast(min user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("principal missing from context"), "Internal server error", nil)
			return
		}

		if !principal.Role.AtLeast(min) {
			httperr.AbortWithError(c, http.StatusForbidden, errs.Newf("role %s below %s", principal.Role, min), "Insufficient permissions", nil)
			return
		}
		c.Next()
	}
}

func bearerOrCookie(c *gin.Context) string {
	if token := cookie.GetAccessToken(c); token != "" {
		return token
	}
	if rest, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}

func SetPrincipal(c *gin.Context, p user.Principal) {
	c.Set(ctxPrincipalKey, p)
}

func GetPrincipal(c *gin.Context) (user.Principal, bool) {
	v, ok := c.Get(ctxPrincipalKey)
	if !ok {
		return user.Principal{}, false
	}
	p, ok := v.(user.Principal)
	return p, ok
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	p, ok := GetPrincipal(c)
	return p.PlayerID, ok
}

func GetUserRole(c *gin.Context) (user.Role, bool) {
	p, ok := GetPrincipal(c)
	return p.Role, ok
}
