package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arpit00000/Blog-Devonate/internal/core/auth"
	resp "github.com/arpit00000/Blog-Devonate/internal/transport/http/response"
)

func bearer(c *gin.Context) (string, bool) {
	ah := c.GetHeader("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(ah, "Bearer "))
	return tok, tok != ""
}

func setIdentity(c *gin.Context, cl *auth.Claims) {
	c.Set(auth.CtxUserID, cl.UID)
	c.Set(auth.CtxRole, cl.Role)
}

// AuthJWT 必须登录；requireRole 非空时校验角色
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearer(c)
		if !ok {
			resp.Abort(c, resp.CodeUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			resp.Abort(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			resp.Abort(c, resp.CodeForbidden, "forbidden")
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth 有合法 token 就带上身份，否则按匿名放行
func OptionalAuth(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok, ok := bearer(c); ok {
			if claims, err := j.Parse(tok); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}
