package utils

import (
	"net/http"

	"tonotes/apperr"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every route answers with: {ok, data} or {ok, error}.
type Response struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Success responses
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		OK:   true,
		Data: data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, &Response{
		OK:   true,
		Data: data,
	})
}

// OK answers a void operation.
func OK(c *gin.Context) {
	c.JSON(http.StatusOK, &Response{OK: true})
}

// Error responses
func Failure(c *gin.Context, status int, message string) {
	c.JSON(status, &Response{
		OK:    false,
		Error: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	Failure(c, http.StatusUnauthorized, message)
}

func BadRequest(c *gin.Context, message string) {
	Failure(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Failure(c, http.StatusNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	Failure(c, http.StatusInternalServerError, message)
}

// Fail maps err onto its status code and records it by kind.
func Fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	TrackError(kind.String())
	Failure(c, apperr.StatusCode(err), err.Error())
}
