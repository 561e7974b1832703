package handler

import (
	"tonotes/dto"
	"tonotes/usecase"
	"tonotes/utils"

	"github.com/gin-gonic/gin"
)

func DeletionStatusHandler(c *gin.Context, accountService *usecase.AccountService) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	summary, err := accountService.DeletionStatus(c.Request.Context(), identity)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, dto.DeletionStatusResponse{DataSummary: *summary})
}

// DeleteAccountHandler removes every note, tag and association the caller owns, then
// the account itself.
func DeleteAccountHandler(c *gin.Context, accountService *usecase.AccountService) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	if err := accountService.DeleteAccount(c.Request.Context(), identity); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c)
}
