package response

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/careertrail/core/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
)

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	TotalPage   int   `json:"total_page"`
	Size        int   `json:"size"`
	HasNextPage bool  `json:"has_next_page"`
}

// pagedResponse is the envelope for paginated list responses.
type pagedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// OK sends a 200 response. Arrays/slices are wrapped in {data: [...]}.
func OK(c *gin.Context, data interface{}) {
	if data != nil {
		v := reflect.ValueOf(data)
		if v.Kind() == reflect.Slice {
			c.JSON(http.StatusOK, gin.H{"data": data})
			return
		}
	}
	c.JSON(http.StatusOK, data)
}

// Paged sends a paginated response.
func Paged(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, pagedResponse{
		Data:       data,
		Pagination: pagination,
	})
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context) {
	fail(c, http.StatusUnauthorized, "authentication required")
}

// Forbidden sends a 403 error response.
func Forbidden(c *gin.Context) {
	fail(c, http.StatusForbidden, "forbidden")
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context) {
	fail(c, http.StatusNotFound, "not found")
}

// NotFoundMsg sends a 404 error with a custom message.
func NotFoundMsg(c *gin.Context, message string) {
	fail(c, http.StatusNotFound, message)
}

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, message string) {
	fail(c, http.StatusConflict, message)
}

// InternalError sends a 500 error response.
func InternalError(c *gin.Context, err error) {
	fail(c, http.StatusInternalServerError, err.Error())
}

// Error maps a typed core error to its HTTP status code.
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrConflict):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrPaymentRequired):
		fail(c, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, apperr.ErrBadRequest):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrValidationFailed):
		fail(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, apperr.ErrRateLimitExceeded):
		fail(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, apperr.ErrServiceUnavailable):
		fail(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		fail(c, http.StatusForbidden, err.Error())
	default:
		fail(c, http.StatusInternalServerError, err.Error())
	}
}

func fail(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"ok": 0, "code": code, "message": message})
}
