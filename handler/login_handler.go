package handler

import (
	"errors"

	"myarc/dto"
	"myarc/usecase"
	"myarc/utils"

	"github.com/gin-gonic/gin"
)

func LoginHandler(c *gin.Context, userService *usecase.UserService) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackAuthAttempt("failure", "validation")
		utils.BadRequest(c, "Invalid Request")
		return
	}

	session, err := userService.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, usecase.ErrUnauthorized) {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}

	utils.Success(c, dto.LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      dto.ToUserRef(session.User),
	})
}
