// Package response формирует общий JSON конверт {success, data | error}.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/campus-market/internal/logger"
	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

// CodeRateLimited отдаётся при превышении лимита запросов.
const CodeRateLimited = "RATE_LIMITED"

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PaginatedResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func Paginated(c *gin.Context, data interface{}, total, limit, offset int) {
	c.JSON(http.StatusOK, PaginatedResponse{
		Success: true,
		Data:    data,
		Pagination: Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+limit < total,
		},
	})
}

// Error отдаёт ошибку в общем конверте. Ошибки БД и внутренние ошибки
// логируются, клиент получает только обезличенное сообщение.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Code != apperror.ErrCodeDatabaseError && appErr.Code != apperror.ErrCodeInternal {
		c.JSON(appErr.HTTPStatus, failure(string(appErr.Code), appErr.Message))
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"error":  err.Error(),
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}).Error("Request error")

	c.JSON(http.StatusInternalServerError, failure(string(apperror.ErrCodeInternal), "внутренняя ошибка сервера"))
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, failure(string(apperror.ErrCodeBadRequest), message))
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, failure(string(apperror.ErrCodeUnauthorized), message))
}

// Abort прерывает цепочку middleware с ошибкой в общем конверте.
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, failure(code, message))
}

func failure(code, message string) Response {
	return Response{Success: false, Error: &ErrorInfo{Code: code, Message: message}}
}
