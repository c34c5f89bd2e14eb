package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"convert-service/pkg/errno"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 返回成功响应
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Created 返回创建成功响应
func Created(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Failed 把错误映射为HTTP响应
func Failed(ctx *gin.Context, err error) {
	var e *errno.Errno
	if !errors.As(err, &e) {
		e = errno.ErrInternalServer
	}
	ctx.JSON(httpStatus(e), Response{
		Code:    e.Code,
		Message: e.Message,
	})
}

func httpStatus(e *errno.Errno) int {
	switch {
	case e.Code >= 400 && e.Code < 500:
		return e.Code
	case errno.IsNotFound(e):
		return http.StatusNotFound
	case e.Code >= 20001 && e.Code < 20400:
		return http.StatusBadRequest
	case e.Code >= 500 && e.Code < 600:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
