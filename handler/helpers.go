package handler

import (
	"errors"
	"strings"

	"myarc/middleware"
	"myarc/usecase"
	"myarc/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUser returns the authenticated user's id, writing a 401 when the
// token carried something unusable.
func currentUser(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.UserIDKey))
	if err != nil {
		utils.Unauthorized(c, "Unauthorized")
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondError maps usecase sentinels onto the response envelope. Unknown
// errors are reported as 500 with fallback as the message.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		utils.BadRequest(c, clientMessage(err))
	case errors.Is(err, usecase.ErrNotFound):
		utils.NotFound(c, "Not found")
	case errors.Is(err, usecase.ErrConflict):
		utils.Conflict(c, "Already exists")
	case errors.Is(err, usecase.ErrUnauthorized):
		utils.Unauthorized(c, "Unauthorized")
	default:
		utils.TrackError("handler", c.FullPath())
		_ = c.Error(err)
		utils.InternalError(c, fallback)
	}
}

// clientMessage strips the "invalid input: " prefix added by the usecase layer.
func clientMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, usecase.ErrInvalidInput.Error()+": "); i >= 0 {
		return msg[i+len(usecase.ErrInvalidInput.Error())+2:]
	}
	return msg
}
