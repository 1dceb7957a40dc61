package router

import (
	"slices"

	"github.com/gin-gonic/gin"
)

// APIModule 挂到 /api/v1；AdminModule 挂到 /admin/v1。一个模块可以同时实现两者
type APIModule interface{ MountAPI(*gin.RouterGroup) }
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// Priority 越小越先挂载，未实现按 100
type prioritizer interface{ Priority() int }

const defaultPriority = 100

// Registry 在启动时组装一次，之后只读
type Registry struct {
	mods []any
}

func NewRegistry(mods ...any) *Registry {
	return &Registry{mods: mods}
}

func (r *Registry) Register(mods ...any) { r.mods = append(r.mods, mods...) }

func (r *Registry) MountAllAPI(g *gin.RouterGroup) {
	for _, m := range ordered[APIModule](r.mods) {
		m.MountAPI(g)
	}
}

func (r *Registry) MountAllAdmin(g *gin.RouterGroup) {
	for _, m := range ordered[AdminModule](r.mods) {
		m.MountAdmin(g)
	}
}

func ordered[M any](mods []any) []M {
	var out []M
	for _, v := range mods {
		if m, ok := v.(M); ok {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b M) int { return priorityOf(a) - priorityOf(b) })
	return out
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return defaultPriority
}
