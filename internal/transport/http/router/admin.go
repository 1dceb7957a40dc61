package router

import (
	"github.com/gin-gonic/gin"

	mdw "github.com/arpit00000/Blog-Devonate/internal/transport/http/middleware"
)

// NewAdminEngine 管理端：/admin/v1 统一要求 admin 角色
func NewAdminEngine(d Deps, reg *Registry) *gin.Engine {
	r := base(d, "admin", false)
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.JWT, "admin"))
	reg.MountAllAdmin(admin)
	return r
}
