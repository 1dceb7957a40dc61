package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arpit00000/Blog-Devonate/internal/domain"
	"github.com/arpit00000/Blog-Devonate/internal/service"
	"github.com/arpit00000/Blog-Devonate/internal/transport/http/ez"
)

// PostModule 作者写作流程与读者互动
type PostModule struct {
	Posts      *service.PostService
	Engagement *service.EngagementService
}

func (PostModule) Priority() int { return 20 }

type postIn struct {
	Title   string   `json:"title"   binding:"required,max=200"`
	Content string   `json:"content" binding:"required"`
	Excerpt string   `json:"excerpt" binding:"omitempty,max=1000"`
	Tags    []string `json:"tags"    binding:"omitempty,max=10,dive,posttag"`
	Status  string   `json:"status"  binding:"omitempty,oneof=draft submitted"`
}

func (in *postIn) input() service.PostInput {
	return service.PostInput{Title: in.Title, Content: in.Content, Excerpt: in.Excerpt, Tags: in.Tags}
}

type commentIn struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type pageQ struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type likeOut struct {
	Liked bool `json:"liked"`
}

type viewOut struct {
	Success bool `json:"success"`
}

func (m PostModule) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[postIn, *service.SubmitResult]{
		Method: http.MethodPost,
		Path:   "/posts",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *postIn) (*service.SubmitResult, error) {
			submit := in.Status == string(domain.StatusSubmitted)
			return m.Posts.Create(c.Request.Context(), ez.UserID(c), in.input(), submit)
		},
	})

	ez.RegisterAction(e, ez.Action[postIn, *service.SubmitResult]{
		Method: http.MethodPut,
		Path:   "/posts/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *postIn) (*service.SubmitResult, error) {
			ctx := c.Request.Context()
			res, err := m.Posts.Update(ctx, ez.UserID(c), c.Param("id"), in.input())
			if err != nil || in.Status != string(domain.StatusSubmitted) {
				return res, err
			}
			return m.Posts.Submit(ctx, ez.UserID(c), res.ID)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *service.SubmitResult]{
		Method: http.MethodPost,
		Path:   "/posts/:id/submit",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.SubmitResult, error) {
			return m.Posts.Submit(c.Request.Context(), ez.UserID(c), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Post]{
		Method: http.MethodGet,
		Path:   "/posts/:id",
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Post, error) {
			return m.Posts.Get(c.Request.Context(), ez.UserID(c), ez.Role(c), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, likeOut]{
		Method: http.MethodPost,
		Path:   "/posts/:id/like",
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (likeOut, error) {
			liked, err := m.Engagement.ToggleLike(c.Request.Context(), ez.UserID(c), c.Param("id"))
			return likeOut{Liked: liked}, err
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, likeOut]{
		Method: http.MethodGet,
		Path:   "/posts/:id/like",
		Handler: func(c *gin.Context, _ *struct{}) (likeOut, error) {
			liked, err := m.Engagement.LikeStatus(c.Request.Context(), ez.UserID(c), c.Param("id"))
			return likeOut{Liked: liked}, err
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, viewOut]{
		Method: http.MethodPost,
		Path:   "/posts/:id/view",
		Handler: func(c *gin.Context, _ *struct{}) (viewOut, error) {
			if err := m.Engagement.RecordView(c.Request.Context(), c.Param("id")); err != nil {
				return viewOut{}, err
			}
			return viewOut{Success: true}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[commentIn, *domain.Comment]{
		Method: http.MethodPost,
		Path:   "/posts/:id/comments",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *commentIn) (*domain.Comment, error) {
			return m.Engagement.AddComment(c.Request.Context(), ez.UserID(c), c.Param("id"), in.Content)
		},
	})

	ez.RegisterAction(e, ez.Action[pageQ, *service.CommentPage]{
		Method: http.MethodGet,
		Path:   "/posts/:id/comments",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageQ) (*service.CommentPage, error) {
			return m.Engagement.ListComments(c.Request.Context(), c.Param("id"), in.Page, in.Limit)
		},
	})
}
