package api

import (
	"blogcms/internal/entity"
	"blogcms/internal/model/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const messageSuccess = "success"

// Success 返回 code=1 的统一响应
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, entity.Response{
		Code:    entity.CodeSuccess,
		Data:    data,
		Message: messageSuccess,
	})
}

// Failure 返回 code=0 的统一响应
func Failure(c *gin.Context, status int, message string) {
	c.JSON(status, entity.Response{
		Code:    entity.CodeFailure,
		Data:    nil,
		Message: message,
	})
}

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, message string) {
	Failure(c, http.StatusBadRequest, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, message string) {
	Failure(c, http.StatusNotFound, message)
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context, message string) {
	Failure(c, http.StatusInternalServerError, message)
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context) {
	BadRequest(c, "invalid request payload")
}

// StoreError logs a relational failure and answers 500. Connection and
// query errors are logged with their own message so the two are easy to
// tell apart.
func StoreError(c *gin.Context, err error, message string) {
	entry := logrus.WithError(err).WithField("path", c.FullPath())

	var connErr *sql.ConnectionError
	var queryErr *sql.QueryError
	switch {
	case errors.As(err, &connErr):
		entry.WithField("attempts", connErr.Attempts).Error("relational store unreachable")
	case errors.As(err, &queryErr):
		entry.WithField("sql", queryErr.Statement).Error("relational statement failed")
	default:
		entry.Error(message)
	}
	InternalError(c, message)
}
