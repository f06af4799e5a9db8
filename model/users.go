package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultTheme = "electric"

type PrivacySettings struct {
	EnableConcealedMode bool `bson:"enable_concealed_mode" json:"enable_concealed_mode"`
}

type UserSettings struct {
	EmailNotifications bool            `bson:"email_notifications" json:"email_notifications"`
	DailyReminders     bool            `bson:"daily_reminders" json:"daily_reminders"`
	Privacy            PrivacySettings `bson:"privacy" json:"privacy"`
}

func DefaultSettings() UserSettings {
	return UserSettings{EmailNotifications: true, DailyReminders: true}
}

type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Email            string             `bson:"email" json:"email"`
	Image            string             `bson:"image,omitempty" json:"image,omitempty"`
	Password         string             `bson:"password,omitempty" json:"-"`
	PrivacyPIN       string             `bson:"privacy_pin,omitempty" json:"-"`
	IsOnboarded      bool               `bson:"is_onboarded" json:"is_onboarded"`
	CurrentFocus     string             `bson:"current_focus,omitempty" json:"current_focus,omitempty"`
	ThemePreference  string             `bson:"theme_preference" json:"theme_preference"`
	Settings         UserSettings       `bson:"settings" json:"settings"`
	ShortsCategories []string           `bson:"shorts_categories" json:"shorts_categories"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

// HasPIN reports whether a privacy PIN has been set.
func (u *User) HasPIN() bool {
	return u.PrivacyPIN != ""
}

// ProfileUpdate carries the optional fields of a profile patch. Nil means
// "leave unchanged".
type ProfileUpdate struct {
	Name            *string       `json:"name"`
	ThemePreference *string       `json:"theme_preference"`
	CurrentFocus    *string       `json:"current_focus"`
	Settings        *UserSettings `json:"settings"`
	IsOnboarded     *bool         `json:"is_onboarded"`
}

func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.ThemePreference == nil && p.CurrentFocus == nil &&
		p.Settings == nil && p.IsOnboarded == nil
}
