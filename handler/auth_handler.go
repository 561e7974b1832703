package handler

import (
	"net/http"
	"strings"

	"tonotes/apperr"
	"tonotes/dto"
	"tonotes/model"
	"tonotes/usecase"
	"tonotes/utils"

	"github.com/gin-gonic/gin"
)

func bindCredentials(c *gin.Context) (dto.CredentialsRequest, bool) {
	var req dto.CredentialsRequest
	if !bindJSON(c, &req) {
		return req, false
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		utils.Fail(c, apperr.Validation("Email and password required"))
		return req, false
	}
	return req, true
}

func clientInfo(c *gin.Context) model.ClientInfo {
	return model.ClientInfo{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	}
}

func SignUpHandler(c *gin.Context, identity usecase.IdentityProvider) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	result, err := identity.SignUp(c.Request.Context(), req.Email, req.Password, clientInfo(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, result)
}

// LoginHandler answers every sign-in failure with 401, whatever its cause.
func LoginHandler(c *gin.Context, identity usecase.IdentityProvider) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	result, err := identity.SignInWithPassword(c.Request.Context(), req.Email, req.Password, clientInfo(c))
	if err != nil {
		utils.TrackError(apperr.KindOf(err).String())
		utils.Unauthorized(c, err.Error())
		return
	}
	utils.Success(c, result)
}

func LogoutHandler(c *gin.Context, identity usecase.IdentityProvider) {
	caller, ok := currentIdentity(c)
	if !ok {
		return
	}

	if err := identity.SignOut(c.Request.Context(), caller); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c)
}

// GoogleURLHandler returns the Google authorization URL. redirect defaults to this
// server's /health.
func GoogleURLHandler(c *gin.Context, identity usecase.IdentityProvider) {
	redirectTo := c.Query("redirect")
	if redirectTo == "" {
		redirectTo = utils.GetBaseURL(c) + "/health"
	}

	url, err := identity.SignInWithOAuth(c.Request.Context(), "google", redirectTo)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, &dto.OAuthURLResponse{
		OK:   true,
		Data: dto.OAuthURLData{URL: url},
		URL:  url,
	})
}
