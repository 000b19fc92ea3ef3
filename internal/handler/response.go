package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Every endpoint answers with the same envelope: {code, message, data}.
// code 0 is success; failures carry a 5-digit business code whose first
// three digits mirror the HTTP status (40001 validation, 40301
// permission, 40401 not found, ...). Services raise these as
// "<code>:<message>" error strings, decoded by parseErrorCode.

// codeInternal is the fallback for errors that carry no business code.
const codeInternal = 50001

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

func SuccessPaged(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"list":      list,
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}

func Error(c *gin.Context, httpCode int, code int, message string) {
	c.JSON(httpCode, gin.H{
		"code":    code,
		"message": message,
		"data":    nil,
	})
}

func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, codeInternal, message)
}

func parseID(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 64)
	return uint(id)
}

func parsePage(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// parseErrorCode splits a "<5-digit code>:<message>" service error.
// Anything else maps to codeInternal with the raw message.
func parseErrorCode(err error) (int, string) {
	msg := err.Error()
	if len(msg) > 5 && msg[5] == ':' {
		code, e := strconv.Atoi(msg[:5])
		if e == nil {
			return code, msg[6:]
		}
	}
	return codeInternal, msg
}
