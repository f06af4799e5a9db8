package dto

import (
	"time"

	"myarc/model"
)

type CreateShortRequest struct {
	Type       string   `json:"type" binding:"required"`
	Content    string   `json:"content" binding:"required,max=500"`
	Milestones []string `json:"milestones" binding:"max=10"`
}

// UpdateShortRequest leaves absent fields unchanged.
type UpdateShortRequest struct {
	Content    *string                 `json:"content"`
	Status     *model.ShortStatus      `json:"status"`
	Milestones *[]model.MilestoneInput `json:"milestones"`
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required,category"`
}

type ShortResponse struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	Content       string            `json:"content"`
	Source        model.ShortSource `json:"source"`
	Status        model.ShortStatus `json:"status"`
	SourceEntryID string            `json:"source_entry_id,omitempty"`
	Milestones    []model.Milestone `json:"milestones"`
	Progress      *int              `json:"progress,omitempty"` // percent of milestones completed, goals only
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func ToShortResponse(s *model.Short) ShortResponse {
	resp := ShortResponse{
		ID:         s.ID.Hex(),
		Type:       s.Category.String(),
		Content:    s.Content,
		Source:     s.Source,
		Status:     s.Status,
		Milestones: s.Milestones,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
	if resp.Milestones == nil {
		resp.Milestones = []model.Milestone{}
	}
	if s.SourceEntryID != nil {
		resp.SourceEntryID = s.SourceEntryID.Hex()
	}

	if s.Category.IsGoal() && len(s.Milestones) > 0 {
		done := 0
		for _, m := range s.Milestones {
			if m.IsCompleted {
				done++
			}
		}
		progress := done * 100 / len(s.Milestones)
		resp.Progress = &progress
	}
	return resp
}

func ToShortResponses(shorts []*model.Short) []ShortResponse {
	out := make([]ShortResponse, len(shorts))
	for i, s := range shorts {
		out[i] = ToShortResponse(s)
	}
	return out
}
