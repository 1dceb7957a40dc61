// Package service 业务编排：校验、状态机、计数与缓存，存储细节交给 repo
package service

import "time"

// Clock 便于测试固定时间
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// Pagination 1 起始页码
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// pageWindow 归一化 page/limit 并换算 offset
func pageWindow(page, limit, def, max int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return page, limit, (page - 1) * limit
}

func newPagination(page, limit int, total int64) Pagination {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
