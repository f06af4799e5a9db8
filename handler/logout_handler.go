package handler

import (
	"time"

	"myarc/middleware"
	"myarc/usecase"
	"myarc/utils"

	"github.com/gin-gonic/gin"
)

func LogoutHandler(c *gin.Context, userService *usecase.UserService) {
	token := c.GetString(middleware.TokenKey)
	expiresAt := c.GetTime(middleware.TokenExpiresAtKey)
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(24 * time.Hour)
	}

	if err := userService.Logout(c.Request.Context(), token, expiresAt); err != nil {
		utils.InternalError(c, "Failed to log out")
		return
	}

	utils.Message(c, "Successfully logged out")
}
