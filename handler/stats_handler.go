package handler

import (
	"time"

	"myarc/usecase"
	"myarc/utils"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	momentum *usecase.MomentumService
	arcs     *usecase.DailyArcService
	now      func() time.Time
}

func NewStatsHandler(momentum *usecase.MomentumService, arcs *usecase.DailyArcService) *StatsHandler {
	return &StatsHandler{momentum: momentum, arcs: arcs, now: time.Now}
}

// GetMomentum returns the seven-week momentum chart, oldest week first.
func (h *StatsHandler) GetMomentum(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	weeks, err := h.momentum.Weekly(c.Request.Context(), userID, h.now())
	if err != nil {
		respondError(c, err, "Failed to compute momentum")
		return
	}

	utils.Success(c, gin.H{"weeks": weeks})
}

// GetDailyArc returns today's arc, or {"is_new": true} before the first
// analyzed entry of the day.
func (h *StatsHandler) GetDailyArc(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	arc, err := h.arcs.Today(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch daily arc")
		return
	}
	if arc == nil {
		utils.Success(c, gin.H{"is_new": true})
		return
	}

	utils.Success(c, arc)
}
