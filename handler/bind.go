package handler

import (
	"errors"
	"io"

	"tonotes/apperr"
	"tonotes/middleware"
	"tonotes/model"
	"tonotes/utils"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes the request body into dst. An empty body leaves dst untouched.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

// currentIdentity returns the caller resolved by AuthMiddleware, answering 401 when absent.
func currentIdentity(c *gin.Context) (model.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		utils.Fail(c, apperr.ErrUnauthorized)
	}
	return identity, ok
}
