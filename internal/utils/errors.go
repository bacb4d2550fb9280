package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind 错误分类
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

var kindNames = map[ErrorKind]string{
	KindInternal:     "internal_error",
	KindValidation:   "validation_error",
	KindUnauthorized: "unauthorized",
	KindForbidden:    "forbidden",
	KindNotFound:     "not_found",
	KindConflict:     "conflict",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindInternal]
}

// Status 错误分类对应的 HTTP 状态码
// 冲突类错误沿用 400，不单独使用 409
func (k ErrorKind) Status() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AppError 业务错误
type AppError struct {
	Kind    ErrorKind
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// WithDetail 附加错误详情
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func newError(kind ErrorKind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(format string, args ...interface{}) *AppError {
	return newError(KindValidation, format, args...)
}

func UnauthorizedError(format string, args ...interface{}) *AppError {
	return newError(KindUnauthorized, format, args...)
}

func ForbiddenError(format string, args ...interface{}) *AppError {
	return newError(KindForbidden, format, args...)
}

func NotFoundError(format string, args ...interface{}) *AppError {
	return newError(KindNotFound, format, args...)
}

func ConflictError(format string, args ...interface{}) *AppError {
	return newError(KindConflict, format, args...)
}

// InternalError 包装底层错误，响应中保留底层错误信息
func InternalError(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: err.Error(), Err: err}
}

// KindOf 获取错误分类，非 AppError 视为内部错误
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsNotFound 是否为资源不存在错误
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// IsConflict 是否为冲突错误
func IsConflict(err error) bool {
	return err != nil && KindOf(err) == KindConflict
}
