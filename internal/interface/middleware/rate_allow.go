package middleware

import (
	"net"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
)

// AllowPrivateIP bypasses the limit for loopback and private-range clients.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		return parsed != nil && (parsed.IsLoopback() || parsed.IsPrivate())
	}
}

// AllowRoles bypasses the limit for authenticated callers holding one of roles.
func AllowRoles(roles ...entity.Role) AllowFunc {
	return func(c *gin.Context) bool {
		role := c.GetString(CtxRoleKey)
		for _, r := range roles {
			if role == string(r) {
				return true
			}
		}
		return false
	}
}

// AllowAny bypasses when any of fns does.
func AllowAny(fns ...AllowFunc) AllowFunc {
	return func(c *gin.Context) bool {
		for _, fn := range fns {
			if fn != nil && fn(c) {
				return true
			}
		}
		return false
	}
}
