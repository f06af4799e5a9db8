package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"myarc/config"
	"myarc/logger"
	"myarc/model"
	"myarc/services"
	"myarc/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newUserService() (*UserService, *testutils.UserStore, *testutils.Revoker, *services.TokenService) {
	users := testutils.NewUserStore()
	revoker := &testutils.Revoker{}
	tokens := services.NewTokenService(config.AuthConfig{
		JWTSecret:      "test-secret",
		AccessTokenTTL: time.Hour,
		Issuer:         "myarc-test",
	})
	return &UserService{Users: users, Tokens: tokens, Blacklist: revoker, Log: logger.Nop()}, users, revoker, tokens
}

func TestUserService_Register(t *testing.T) {
	svc, users, _, _ := newUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: " Ada ", Email: "Ada@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.Password)
	assert.Equal(t, model.DefaultTheme, user.ThemePreference)
	assert.True(t, user.Settings.DailyReminders)

	stored, err := users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, services.ComparePasswords(stored.Password, "secret1"))

	_, err = svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ADA@example.com", Password: "another"})
	assert.ErrorIs(t, err, ErrConflict)

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"no name", RegisterInput{Email: "x@example.com", Password: "secret1"}},
		{"bad email", RegisterInput{Name: "X", Email: "not-an-email", Password: "secret1"}},
		{"short password", RegisterInput{Name: "X", Email: "x@example.com", Password: "12345"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUserService_LoginAndLogout(t *testing.T) {
	svc, _, revoker, tokens := newUserService()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Name: "Bo", Email: "bo@example.com", Password: "hunter22"})
	require.NoError(t, err)

	session, err := svc.Login(ctx, "BO@example.com", "hunter22")
	require.NoError(t, err)
	claims, err := tokens.ParseJWT(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID.Hex(), claims.UserID)
	assert.Equal(t, "bo@example.com", claims.Email)

	_, err = svc.Login(ctx, "bo@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.Logout(ctx, session.Token, session.ExpiresAt))
	assert.True(t, revoker.IsBlacklisted(ctx, session.Token))

	revoker.Disabled = true
	assert.NoError(t, svc.Logout(ctx, "other", time.Now()))
	assert.False(t, revoker.IsBlacklisted(ctx, "other"))

	revoker.Disabled = false
	revoker.Err = errors.New("redis down")
	assert.Error(t, svc.Logout(ctx, "third", time.Now()))
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, users, _, _ := newUserService()
	ctx := context.Background()
	user := users.Seed("profile@example.com")

	theme := "midnight"
	onboarded := true
	updated, err := svc.UpdateProfile(ctx, user.ID, model.ProfileUpdate{ThemePreference: &theme, IsOnboarded: &onboarded})
	require.NoError(t, err)
	assert.Equal(t, "midnight", updated.ThemePreference)
	assert.True(t, updated.IsOnboarded)
	assert.Equal(t, "Test User", updated.Name)

	unchanged, err := svc.UpdateProfile(ctx, user.ID, model.ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "midnight", unchanged.ThemePreference)

	bad := "neon"
	_, err = svc.UpdateProfile(ctx, user.ID, model.ProfileUpdate{ThemePreference: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)

	blank := "  "
	_, err = svc.UpdateProfile(ctx, user.ID, model.ProfileUpdate{Name: &blank})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Profile(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_PIN(t *testing.T) {
	svc, users, _, _ := newUserService()
	ctx := context.Background()
	user := users.Seed("pin@example.com")

	assert.ErrorIs(t, svc.VerifyPIN(ctx, user.ID, "1234"), ErrInvalidInput, "no pin set yet")
	assert.ErrorIs(t, svc.SetPIN(ctx, user.ID, "12a4"), ErrInvalidInput)

	require.NoError(t, svc.SetPIN(ctx, user.ID, "4821"))
	stored, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "4821", stored.PrivacyPIN)

	assert.NoError(t, svc.VerifyPIN(ctx, user.ID, "4821"))
	assert.ErrorIs(t, svc.VerifyPIN(ctx, user.ID, "0000"), ErrUnauthorized)
	assert.ErrorIs(t, svc.VerifyPIN(ctx, user.ID, "482"), ErrInvalidInput)
	assert.ErrorIs(t, svc.SetPIN(ctx, primitive.NewObjectID(), "1111"), ErrNotFound)
}
