package handler

import (
	"net/http"

	"myarc/dto"
	"myarc/model"
	"myarc/usecase"
	"myarc/utils"

	"github.com/gin-gonic/gin"
)

func profileLinks(c *gin.Context) map[string]dto.Link {
	baseURL := utils.GetBaseURL(c)
	return map[string]dto.Link{
		"self":     {Href: baseURL + "/user/profile", Method: http.MethodGet},
		"update":   {Href: baseURL + "/user/profile", Method: http.MethodPatch},
		"set-pin":  {Href: baseURL + "/user/pin", Method: http.MethodPut},
		"momentum": {Href: baseURL + "/user/momentum", Method: http.MethodGet},
	}
}

func GetUserProfileHandler(c *gin.Context, userService *usecase.UserService) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := userService.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Could not fetch user details")
		return
	}

	utils.Success(c, dto.ToUserProfileResponse(user, profileLinks(c)))
}

func UpdateUserProfileHandler(c *gin.Context, userService *usecase.UserService) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var upd model.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	user, err := userService.UpdateProfile(c.Request.Context(), userID, upd)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}

	utils.Success(c, dto.ToUserProfileResponse(user, profileLinks(c)))
}
