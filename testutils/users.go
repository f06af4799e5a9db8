package testutils

import (
	"context"
	"strings"
	"sync"
	"time"

	"myarc/model"
	"myarc/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is an in-memory stand-in for repository.UserRepo.
type UserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]model.User

	Fail error
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[primitive.ObjectID]model.User)}
}

// Seed creates a user with the given email and categories and returns it.
func (s *UserStore) Seed(email string, categories ...string) *model.User {
	u := &model.User{
		Name:             "Test User",
		Email:            email,
		ThemePreference:  model.DefaultTheme,
		Settings:         model.DefaultSettings(),
		ShortsCategories: append([]string{}, categories...),
	}
	if err := s.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (s *UserStore) Create(_ context.Context, user *model.User) error {
	if s.Fail != nil {
		return s.Fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.ShortsCategories == nil {
		user.ShortsCategories = []string{}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.ShortsCategories = append([]string{}, u.ShortsCategories...)
	return &u, nil
}

func (s *UserStore) UpdateProfile(_ context.Context, id primitive.ObjectID, upd model.ProfileUpdate) (*model.User, error) {
	return s.update(id, func(u *model.User) error {
		if upd.Name != nil {
			u.Name = *upd.Name
		}
		if upd.ThemePreference != nil {
			u.ThemePreference = *upd.ThemePreference
		}
		if upd.CurrentFocus != nil {
			u.CurrentFocus = *upd.CurrentFocus
		}
		if upd.Settings != nil {
			u.Settings = *upd.Settings
		}
		if upd.IsOnboarded != nil {
			u.IsOnboarded = *upd.IsOnboarded
		}
		return nil
	})
}

func (s *UserStore) SetPIN(_ context.Context, id primitive.ObjectID, pinHash string) error {
	_, err := s.update(id, func(u *model.User) error {
		u.PrivacyPIN = pinHash
		return nil
	})
	return err
}

func (s *UserStore) AddCategory(_ context.Context, id primitive.ObjectID, name string) error {
	_, err := s.update(id, func(u *model.User) error {
		for _, c := range u.ShortsCategories {
			if strings.EqualFold(c, name) {
				return repository.ErrDuplicate
			}
		}
		u.ShortsCategories = append(u.ShortsCategories, name)
		return nil
	})
	return err
}

func (s *UserStore) RemoveCategory(_ context.Context, id primitive.ObjectID, name string) error {
	_, err := s.update(id, func(u *model.User) error {
		kept := make([]string, 0, len(u.ShortsCategories))
		for _, c := range u.ShortsCategories {
			if c != name {
				kept = append(kept, c)
			}
		}
		u.ShortsCategories = kept
		return nil
	})
	return err
}

func (s *UserStore) update(id primitive.ObjectID, apply func(*model.User) error) (*model.User, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.ShortsCategories = append([]string{}, u.ShortsCategories...)
	if err := apply(&u); err != nil {
		return nil, err
	}
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	out := u
	return &out, nil
}
