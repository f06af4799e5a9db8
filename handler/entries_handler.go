package handler

import (
	"strconv"

	"myarc/dto"
	"myarc/usecase"
	"myarc/utils"

	"github.com/gin-gonic/gin"
)

// SearchEntriesHandler lists entries. q switches to semantic + text search;
// tag filters the plain listing.
func SearchEntriesHandler(c *gin.Context, searchService *usecase.SearchService) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(usecase.DefaultPageSize)))

	results, err := searchService.Search(c.Request.Context(), usecase.SearchOptions{
		UserID:   userID,
		Query:    c.Query("q"),
		Tag:      c.Query("tag"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, err, "Failed to fetch entries")
		return
	}

	utils.Success(c, dto.NewEntriesPageResponse(results, utils.GetBaseURL(c)))
}

func CreateEntryHandler(c *gin.Context, entryService *usecase.EntryService) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	entry, err := entryService.CreateEntry(c.Request.Context(), userID, usecase.CreateEntryInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		respondError(c, err, "Failed to save entry")
		return
	}

	utils.Created(c, dto.ToEntryResponse(entry, dto.EntryLinks(utils.GetBaseURL(c), entry)))
}

func DeleteEntryHandler(c *gin.Context, entryService *usecase.EntryService) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := entryService.DeleteEntry(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete entry")
		return
	}

	utils.Message(c, "Entry deleted successfully")
}

func GetTagsHandler(c *gin.Context, entryService *usecase.EntryService) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tags, err := entryService.ListTags(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch tags")
		return
	}

	utils.Success(c, gin.H{"tags": tags})
}

func GetReflectionPromptHandler(c *gin.Context, entryService *usecase.EntryService) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	utils.Success(c, gin.H{"prompt": entryService.ReflectionPrompt(c.Request.Context(), userID)})
}
