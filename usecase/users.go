package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"myarc/logger"
	"myarc/model"
	"myarc/repository"
	"myarc/services"
	"myarc/utils"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const minPasswordLength = 6

var validate = validator.New()

var themes = map[string]bool{
	"electric": true,
	"midnight": true,
	"solar":    true,
	"boreal":   true,
}

type UserService struct {
	Users     UserStore
	Tokens    TokenIssuer
	Blacklist TokenRevoker
	Log       *logger.Logger
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	switch {
	case name == "":
		return nil, invalid("name is required")
	case validate.Var(email, "required,email") != nil:
		return nil, invalid("a valid email is required")
	case len(in.Password) < minPasswordLength:
		return nil, invalid("password must be at least %d characters", minPasswordLength)
	}

	hash, err := services.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Name:             name,
		Email:            email,
		Password:         hash,
		ThemePreference:  model.DefaultTheme,
		Settings:         model.DefaultSettings(),
		ShortsCategories: []string{},
	}
	if err := s.Users.Create(ctx, user); err != nil {
		utils.TrackAuthAttempt("failure", "register")
		return nil, storeErr("register", err)
	}
	utils.TrackAuthAttempt("success", "register")
	s.Log.Info("user registered", "user_id", user.ID.Hex(), "email", user.Email)
	return user, nil
}

// Login checks the credentials and issues an access token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, invalid("email and password are required")
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		utils.TrackAuthAttempt("failure", "login")
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, storeErr("login", err)
	}
	if !services.ComparePasswords(user.Password, password) {
		utils.TrackAuthAttempt("failure", "login")
		return nil, ErrUnauthorized
	}

	token, expiresAt, err := s.Tokens.GenerateJWT(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, err
	}
	utils.TrackAuthAttempt("success", "login")
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout revokes token until it would have expired anyway. Without a
// revocation store the call is a no-op.
func (s *UserService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	if s.Blacklist == nil || !s.Blacklist.Configured() {
		return nil
	}
	if err := s.Blacklist.Blacklist(ctx, token, expiresAt); err != nil {
		s.Log.Error("token revocation failed", "error", err)
		return err
	}
	return nil
}

func (s *UserService) Profile(ctx context.Context, userID primitive.ObjectID) (*model.User, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeErr("load profile", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, upd model.ProfileUpdate) (*model.User, error) {
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, invalid("name cannot be empty")
		}
		upd.Name = &name
	}
	if upd.ThemePreference != nil && !themes[*upd.ThemePreference] {
		return nil, invalid("unknown theme %q", *upd.ThemePreference)
	}
	if upd.CurrentFocus != nil {
		focus := strings.TrimSpace(*upd.CurrentFocus)
		upd.CurrentFocus = &focus
	}
	if upd.Empty() {
		return s.Profile(ctx, userID)
	}

	user, err := s.Users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return nil, storeErr("update profile", err)
	}
	return user, nil
}

func (s *UserService) SetPIN(ctx context.Context, userID primitive.ObjectID, pin string) error {
	hash, err := services.HashPIN(pin)
	if errors.Is(err, services.ErrInvalidPIN) {
		return invalid("pin must be exactly 4 digits")
	}
	if err != nil {
		return err
	}
	if err := s.Users.SetPIN(ctx, userID, hash); err != nil {
		return storeErr("set pin", err)
	}
	return nil
}

// VerifyPIN unlocks concealed mode. A malformed PIN or a user without a PIN
// is invalid input; a wrong PIN is unauthorized.
func (s *UserService) VerifyPIN(ctx context.Context, userID primitive.ObjectID, pin string) error {
	if !utils.ValidatePIN(pin) {
		return invalid("pin must be exactly 4 digits")
	}
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return storeErr("load user", err)
	}
	if !user.HasPIN() {
		return invalid("privacy pin not set")
	}
	if !services.ComparePIN(user.PrivacyPIN, pin) {
		utils.TrackAuthAttempt("failure", "pin")
		return ErrUnauthorized
	}
	utils.TrackAuthAttempt("success", "pin")
	return nil
}
