package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MaxSearchLimit 搜索类接口的分页上限
	MaxSearchLimit = 100
)

// PageParams 分页参数
type PageParams struct {
	Page  int
	Limit int
}

// Offset 计算偏移量
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination 分页信息
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// ParsePage 从查询参数解析分页，maxLimit <= 0 表示不设上限
func ParsePage(c *gin.Context, maxLimit int) PageParams {
	return ParsePageValues(c.Query("page"), c.Query("limit"), maxLimit)
}

// ParsePageValues 解析分页字符串：无法解析时取默认值，小于 1 时取 1
func ParsePageValues(pageStr, limitStr string, maxLimit int) PageParams {
	page := coerce(pageStr, DefaultPage)
	limit := coerce(limitStr, DefaultLimit)
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return PageParams{Page: page, Limit: limit}
}

func coerce(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	if n < 1 {
		return 1
	}
	return n
}

// NewPagination 生成分页信息，无数据时总页数为 1
func NewPagination(p PageParams, total int64) Pagination {
	totalPages := 1
	if total > 0 {
		limit := int64(p.Limit)
		totalPages = int((total + limit - 1) / limit)
	}
	return Pagination{
		CurrentPage:  p.Page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: p.Limit,
	}
}

// PageSlice 在内存切片上取分页窗口
func PageSlice[T any](items []T, p PageParams) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
