// Package handler 各业务模块的 HTTP 接口，只做参数转换，逻辑在 service
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arpit00000/Blog-Devonate/internal/domain"
	"github.com/arpit00000/Blog-Devonate/internal/service"
	"github.com/arpit00000/Blog-Devonate/internal/transport/http/ez"
)

// AccountModule 注册/登录与个人中心
type AccountModule struct {
	Auth  *service.AuthService
	Users *service.UserService
	Posts *service.PostService
}

func (AccountModule) Priority() int { return 10 }

type signupIn struct {
	Name     string `json:"name"     binding:"required,max=64"`
	Email    string `json:"email"    binding:"required,email,max=191"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type loginIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type profileIn struct {
	Name   string  `json:"name"   binding:"required,max=64"`
	Bio    *string `json:"bio"    binding:"omitempty,max=500"`
	Avatar *string `json:"avatar" binding:"omitempty,max=500"`
}

func (m AccountModule) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[signupIn, *service.Session]{
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *signupIn) (*service.Session, error) {
			return m.Auth.Signup(c.Request.Context(), service.SignupInput{Name: in.Name, Email: in.Email, Password: in.Password})
		},
	})

	ez.RegisterAction(e, ez.Action[loginIn, *service.Session]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (*service.Session, error) {
			return m.Auth.Login(c.Request.Context(), in.Email, in.Password)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return m.Users.Profile(c.Request.Context(), ez.UserID(c))
		},
	})

	ez.RegisterAction(e, ez.Action[profileIn, *domain.User]{
		Method: http.MethodPatch,
		Path:   "/me",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *profileIn) (*domain.User, error) {
			return m.Users.UpdateProfile(c.Request.Context(), ez.UserID(c), domain.ProfileUpdate{
				Name: in.Name, Bio: in.Bio, Avatar: in.Avatar,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *service.Dashboard]{
		Method: http.MethodGet,
		Path:   "/me/posts",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.Dashboard, error) {
			return m.Posts.Dashboard(c.Request.Context(), ez.UserID(c))
		},
	})
}
