package dto

import (
	"time"

	"myarc/model"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type PINRequest struct {
	PIN string `json:"pin" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserRef   `json:"user"`
}

type UserRef struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type UserProfileResponse struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Email            string             `json:"email"`
	Image            string             `json:"image,omitempty"`
	IsOnboarded      bool               `json:"is_onboarded"`
	CurrentFocus     string             `json:"current_focus,omitempty"`
	ThemePreference  string             `json:"theme_preference"`
	Settings         model.UserSettings `json:"settings"`
	ShortsCategories []string           `json:"shorts_categories"`
	HasPIN           bool               `json:"has_pin"`
	CreatedAt        time.Time          `json:"created_at"`
	Links            map[string]Link    `json:"_links,omitempty"`
}

func ToUserRef(u *model.User) UserRef {
	return UserRef{ID: u.ID.Hex(), Email: u.Email, Name: u.Name}
}

func ToUserProfileResponse(u *model.User, links map[string]Link) UserProfileResponse {
	categories := u.ShortsCategories
	if categories == nil {
		categories = []string{}
	}
	return UserProfileResponse{
		ID:               u.ID.Hex(),
		Name:             u.Name,
		Email:            u.Email,
		Image:            u.Image,
		IsOnboarded:      u.IsOnboarded,
		CurrentFocus:     u.CurrentFocus,
		ThemePreference:  u.ThemePreference,
		Settings:         u.Settings,
		ShortsCategories: categories,
		HasPIN:           u.HasPIN(),
		CreatedAt:        u.CreatedAt,
		Links:            links,
	}
}
