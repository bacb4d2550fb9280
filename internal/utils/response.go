package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一API响应结构
type Response struct {
	Code    int                    `json:"code"`              // 状态码
	Message string                 `json:"message"`           // 消息
	Data    interface{}            `json:"data"`              // 数据
	Success bool                   `json:"success"`           // 是否成功
	Error   string                 `json:"error,omitempty"`   // 错误分类
	Details map[string]interface{} `json:"details,omitempty"` // 错误详情
}

// Success 返回成功响应
func Success(c *gin.Context, data interface{}) {
	SuccessWithMessage(c, "success", data)
}

// SuccessWithMessage 返回成功响应并自定义消息
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
		Success: true,
	})
}

// Created 返回201响应
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: message,
		Data:    data,
		Success: true,
	})
}

// Error 返回错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    nil,
		Success: false,
		Error:   http.StatusText(code),
	})
}

// Fail 将错误转换为统一错误响应
// 非业务错误按 500 处理，并把底层错误信息透出给调用方
func Fail(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalError(err)
	}

	status := appErr.Kind.Status()
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(status, Response{
		Code:    status,
		Message: appErr.Message,
		Data:    nil,
		Success: false,
		Error:   appErr.Kind.String(),
		Details: appErr.Details,
	})
}
