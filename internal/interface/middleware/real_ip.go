package middleware

import (
	"github.com/gin-gonic/gin"
)

// ClientIPHeaders are consulted in order, and only when the peer is a trusted proxy.
var ClientIPHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// ConfigureClientIP makes c.ClientIP() honour forwarding headers from proxies only.
// An empty proxies list trusts nobody, so the socket peer address is used as is.
func ConfigureClientIP(engine *gin.Engine, proxies []string) error {
	engine.ForwardedByClientIP = true
	engine.RemoteIPHeaders = ClientIPHeaders
	if len(proxies) == 0 {
		proxies = nil
	}
	return engine.SetTrustedProxies(proxies)
}

// RealIP stores the resolved client address under "real_ip" for rate-limit keys and logs.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}
