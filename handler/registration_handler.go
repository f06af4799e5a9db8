package handler

import (
	"myarc/dto"
	"myarc/usecase"
	"myarc/utils"

	"github.com/gin-gonic/gin"
)

func RegistrationHandler(c *gin.Context, userService *usecase.UserService) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackAuthAttempt("failure", "validation")
		utils.BadRequest(c, "Name, a valid email and a password of at least 6 characters are required")
		return
	}

	user, err := userService.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}

	utils.Created(c, gin.H{"user": dto.ToUserRef(user)})
}
