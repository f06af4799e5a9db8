package handler

import (
	"myarc/dto"
	"myarc/usecase"
	"myarc/utils"

	"github.com/gin-gonic/gin"
)

func GetShortsHandler(c *gin.Context, shortService *usecase.ShortService) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	shorts, err := shortService.List(c.Request.Context(), userID, c.Query("type"))
	if err != nil {
		respondError(c, err, "Failed to fetch shorts")
		return
	}

	utils.Success(c, gin.H{"shorts": dto.ToShortResponses(shorts)})
}

func CreateShortHandler(c *gin.Context, shortService *usecase.ShortService) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateShortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	short, err := shortService.Create(c.Request.Context(), userID, usecase.CreateShortInput{
		Type:       req.Type,
		Content:    req.Content,
		Milestones: req.Milestones,
	})
	if err != nil {
		respondError(c, err, "Failed to create short")
		return
	}

	utils.Created(c, dto.ToShortResponse(short))
}

func UpdateShortHandler(c *gin.Context, shortService *usecase.ShortService) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateShortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	short, err := shortService.Update(c.Request.Context(), userID, c.Param("id"), usecase.UpdateShortInput{
		Content:    req.Content,
		Status:     req.Status,
		Milestones: req.Milestones,
	})
	if err != nil {
		respondError(c, err, "Failed to update short")
		return
	}

	utils.Success(c, dto.ToShortResponse(short))
}

func DeleteShortHandler(c *gin.Context, shortService *usecase.ShortService) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := shortService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete short")
		return
	}

	utils.Message(c, "Short deleted successfully")
}

func GetCategoriesHandler(c *gin.Context, categoryService *usecase.CategoryService) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	categories, err := categoryService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch categories")
		return
	}

	utils.Success(c, gin.H{"categories": categories})
}

func AddCategoryHandler(c *gin.Context, categoryService *usecase.CategoryService) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid or reserved category name")
		return
	}

	categories, err := categoryService.Add(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondError(c, err, "Failed to add category")
		return
	}

	utils.Created(c, gin.H{"categories": categories})
}

// RemoveCategoryHandler deletes a category and every short filed under it.
// The name comes from the "name" query parameter.
func RemoveCategoryHandler(c *gin.Context, categoryService *usecase.CategoryService) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	categories, err := categoryService.Remove(c.Request.Context(), userID, c.Query("name"))
	if err != nil {
		respondError(c, err, "Failed to remove category")
		return
	}

	utils.Success(c, gin.H{"categories": categories})
}
