package ez

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpit00000/Blog-Devonate/internal/core/auth"
	"github.com/arpit00000/Blog-Devonate/internal/domain"
	resp "github.com/arpit00000/Blog-Devonate/internal/transport/http/response"
)

type echoIn struct {
	Name string `json:"name" binding:"required"`
}

func newEngine(identity func(c *gin.Context)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(identity)
	e := New(r.Group(""))

	RegisterAction(e, Action[echoIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *echoIn) (gin.H, error) {
			return gin.H{"name": in.Name}, nil
		},
	})
	RegisterAction(e, Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/admin-only",
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			return gin.H{"uid": UserID(c)}, nil
		},
	})
	RegisterAction(e, Action[struct{}, any]{
		Method: http.MethodDelete,
		Path:   "/fail/:kind",
		Handler: func(c *gin.Context, _ *struct{}) (any, error) {
			switch c.Param("kind") {
			case "missing":
				return nil, fmt.Errorf("post x: %w", domain.ErrNotFound)
			case "dup":
				return nil, domain.ErrConflict
			case "custom":
				return nil, BadRequest("bad thing")
			}
			return nil, errors.New("db exploded")
		},
	})
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) (int, resp.Resp) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w.Code, out
}

func anonymous(c *gin.Context) {}

func as(uid, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(auth.CtxUserID, uid)
		c.Set(auth.CtxRole, role)
	}
}

func TestRegisterAction_Bind(t *testing.T) {
	r := newEngine(anonymous)

	code, body := do(t, r, http.MethodPost, "/echo", `{"name":"go"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, resp.CodeOK, body.Code)
	assert.Equal(t, map[string]any{"name": "go"}, body.Data)

	code, body = do(t, r, http.MethodPost, "/echo", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, resp.CodeBadRequest, body.Code)
}

func TestRegisterAction_Roles(t *testing.T) {
	code, _ := do(t, newEngine(anonymous), http.MethodGet, "/admin-only", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, newEngine(as("u-1", domain.RoleUser)), http.MethodGet, "/admin-only", "")
	assert.Equal(t, http.StatusForbidden, code)

	code, body := do(t, newEngine(as("a-1", domain.RoleAdmin)), http.MethodGet, "/admin-only", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"uid": "a-1"}, body.Data)
}

func TestRegisterAction_ErrorMapping(t *testing.T) {
	r := newEngine(anonymous)
	cases := map[string]int{
		"missing": http.StatusNotFound,
		"dup":     http.StatusConflict,
		"custom":  http.StatusBadRequest,
		"boom":    http.StatusInternalServerError,
	}
	for kind, want := range cases {
		code, body := do(t, r, http.MethodDelete, "/fail/"+kind, "")
		assert.Equal(t, want, code, kind)
		assert.Equal(t, want, body.Code, kind)
	}
	_, body := do(t, r, http.MethodDelete, "/fail/boom", "")
	assert.Equal(t, "internal error", body.Msg)
}

func TestFromError(t *testing.T) {
	assert.Equal(t, resp.CodeUnauthorized, FromError(domain.ErrInvalidCredentials).Code)
	assert.Equal(t, resp.CodeBadRequest, FromError(fmt.Errorf("x: %w", domain.ErrInvalidAction)).Code)
	assert.Equal(t, resp.CodeForbidden, FromError(domain.ErrForbidden).Code)
	ae := FromError(Internal("oops", errors.New("root")))
	assert.Equal(t, "oops", ae.Error())
	assert.EqualError(t, errors.Unwrap(ae), "root")
}
