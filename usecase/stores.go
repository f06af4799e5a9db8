package usecase

import (
	"context"
	"time"

	"myarc/analysis"
	"myarc/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryStore is implemented by repository.EntriesRepo.
type EntryStore interface {
	Create(ctx context.Context, entry *model.Entry) error
	UpdateEnrichment(ctx context.Context, id, userID primitive.ObjectID, e model.EntryEnrichment) error
	FindByID(ctx context.Context, id, userID primitive.ObjectID) (*model.Entry, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
	FindPage(ctx context.Context, userID primitive.ObjectID, tag string, skip, limit int64) ([]*model.Entry, int64, error)
	FindWithEmbeddings(ctx context.Context, userID primitive.ObjectID) ([]*model.Entry, error)
	FindSimilarCandidates(ctx context.Context, userID, excludeID primitive.ObjectID) ([]*model.Entry, error)
	TextSearch(ctx context.Context, userID primitive.ObjectID, query string, withoutEmbeddingOnly bool, skip, limit int64) ([]*model.Entry, int64, error)
	DistinctTags(ctx context.Context, userID primitive.ObjectID) ([]string, error)
	Latest(ctx context.Context, userID primitive.ObjectID) (*model.Entry, error)
	CountBetween(ctx context.Context, userID primitive.ObjectID, from, to time.Time) (int64, error)
}

// ShortStore is implemented by repository.ShortsRepo.
type ShortStore interface {
	Create(ctx context.Context, short *model.Short) error
	CreateMany(ctx context.Context, shorts []*model.Short) error
	FindByID(ctx context.Context, id, userID primitive.ObjectID) (*model.Short, error)
	List(ctx context.Context, userID primitive.ObjectID, category model.Category) ([]*model.Short, error)
	Update(ctx context.Context, short *model.Short) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
	DeleteByCategory(ctx context.Context, userID primitive.ObjectID, category model.Category) (int64, error)
	ActiveHabits(ctx context.Context, userID primitive.ObjectID) ([]*model.Short, error)
	ActiveGoals(ctx context.Context, userID primitive.ObjectID, limit int64) ([]*model.Short, error)
	CountCompletedGoalsBetween(ctx context.Context, userID primitive.ObjectID, from, to time.Time) (int64, error)
	GoalsWithCompletedMilestones(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]*model.Short, error)
	CountCreatedBetween(ctx context.Context, userID primitive.ObjectID, from, to time.Time) (int64, error)
}

// DailyArcStore is implemented by repository.DailyArcRepo.
type DailyArcStore interface {
	Bump(ctx context.Context, userID primitive.ObjectID, day string, date time.Time, action string, increment int) (*model.DailyArc, error)
	FindForDay(ctx context.Context, userID primitive.ObjectID, day string) (*model.DailyArc, error)
}

// UserStore is implemented by repository.UserRepo.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, upd model.ProfileUpdate) (*model.User, error)
	SetPIN(ctx context.Context, id primitive.ObjectID, pinHash string) error
	AddCategory(ctx context.Context, id primitive.ObjectID, name string) error
	RemoveCategory(ctx context.Context, id primitive.ObjectID, name string) error
}

type Embedder interface {
	Embed(ctx context.Context, text string) analysis.Result[[]float32]
}

type ContextAssembler interface {
	Assemble(ctx context.Context, userID, excludeID primitive.ObjectID, vector []float32, query string) analysis.Result[*analysis.ContextBundle]
}

type Analyzer interface {
	Analyze(ctx context.Context, content string, bundle *analysis.ContextBundle) analysis.Result[*analysis.Analysis]
	ReflectionPrompt(ctx context.Context, last *analysis.LastEntry, goals []string) string
}

type MemoryWriter interface {
	Configured() bool
	Add(ctx context.Context, userID, text string) error
}

// Cipher seals entry bodies at rest.
type Cipher interface {
	Enabled() bool
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// TokenIssuer is implemented by services.TokenService.
type TokenIssuer interface {
	GenerateJWT(userID, email string) (string, time.Time, error)
}

// TokenRevoker is implemented by services.RedisTokenBlacklist.
type TokenRevoker interface {
	Configured() bool
	Blacklist(ctx context.Context, token string, expiresAt time.Time) error
}
