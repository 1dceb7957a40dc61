package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arpit00000/Blog-Devonate/internal/domain"
	"github.com/arpit00000/Blog-Devonate/internal/service"
	"github.com/arpit00000/Blog-Devonate/internal/transport/http/ez"
)

// AdminModule 审核、用户管理与平台统计；分组已校验 admin 角色
type AdminModule struct {
	Moderation *service.ModerationService
	Users      *service.UserService
	Stats      *service.StatsService
}

type adminPostsQ struct {
	Status string `form:"status" binding:"omitempty,poststatus"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type moderateIn struct {
	Action string `json:"action" binding:"required,oneof=approve reject hide restore delete"`
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

type usersQ struct {
	Offset      int    `form:"offset,default=0"`
	Limit       int    `form:"limit,default=20"`
	Q           string `form:"q"`            // 按 email/name 模糊搜
	WithDeleted bool   `form:"with_deleted"` // 是否包含已封禁
}

type idOut struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted,omitempty"`
}

func (m AdminModule) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g)
	admin := []string{domain.RoleAdmin}

	ez.RegisterAction(e, ez.Action[adminPostsQ, *service.PostPage]{
		Method: http.MethodGet,
		Path:   "/posts",
		Binder: ez.BindQuery,
		Roles:  admin,
		Handler: func(c *gin.Context, in *adminPostsQ) (*service.PostPage, error) {
			return m.Moderation.List(c.Request.Context(), in.Status, in.Page, in.Limit)
		},
	})

	ez.RegisterAction(e, ez.Action[moderateIn, *service.ModerateResult]{
		Method: http.MethodPost,
		Path:   "/posts/:id/moderate",
		Binder: ez.BindJSON,
		Roles:  admin,
		Handler: func(c *gin.Context, in *moderateIn) (*service.ModerateResult, error) {
			return m.Moderation.Moderate(c.Request.Context(), ez.UserID(c), c.Param("id"), in.Action, in.Reason)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, idOut]{
		Method: http.MethodDelete,
		Path:   "/posts/:id",
		Roles:  admin,
		Handler: func(c *gin.Context, _ *struct{}) (idOut, error) {
			id := c.Param("id")
			if err := m.Moderation.Delete(c.Request.Context(), ez.UserID(c), id); err != nil {
				return idOut{}, err
			}
			return idOut{ID: id, Deleted: true}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.ModerationLog]{
		Method: http.MethodGet,
		Path:   "/posts/:id/history",
		Roles:  admin,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.ModerationLog, error) {
			return m.Moderation.History(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[usersQ, *service.UserPage]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Roles:  admin,
		Handler: func(c *gin.Context, in *usersQ) (*service.UserPage, error) {
			return m.Users.List(c.Request.Context(), in.Q, in.WithDeleted, in.Offset, in.Limit)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, idOut]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Roles:  admin,
		Handler: func(c *gin.Context, _ *struct{}) (idOut, error) {
			id := c.Param("id")
			if err := m.Users.Ban(c.Request.Context(), ez.UserID(c), id); err != nil {
				return idOut{}, err
			}
			return idOut{ID: id}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *service.PlatformStats]{
		Method: http.MethodGet,
		Path:   "/stats",
		Roles:  admin,
		Handler: func(c *gin.Context, _ *struct{}) (*service.PlatformStats, error) {
			return m.Stats.Stats(c.Request.Context())
		},
	})
}
