package handler

import (
	"errors"

	"myarc/dto"
	"myarc/usecase"
	"myarc/utils"

	"github.com/gin-gonic/gin"
)

func SetPINHandler(c *gin.Context, userService *usecase.UserService) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.PINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "PIN is required")
		return
	}

	if err := userService.SetPIN(c.Request.Context(), userID, req.PIN); err != nil {
		respondError(c, err, "Failed to set PIN")
		return
	}

	utils.Message(c, "PIN updated")
}

// VerifyPINHandler unlocks concealed mode on the client.
func VerifyPINHandler(c *gin.Context, userService *usecase.UserService) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.PINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "PIN is required")
		return
	}

	err := userService.VerifyPIN(c.Request.Context(), userID, req.PIN)
	if errors.Is(err, usecase.ErrUnauthorized) {
		utils.Unauthorized(c, "Incorrect PIN")
		return
	}
	if err != nil {
		respondError(c, err, "Failed to verify PIN")
		return
	}

	utils.Success(c, gin.H{"success": true})
}
