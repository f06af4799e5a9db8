package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"myarc/analysis"
	"myarc/config"
	"myarc/handler"
	"myarc/logger"
	"myarc/repository"
	"myarc/services"
	"myarc/usecase"
	"myarc/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode, cfg.LogHashSalt)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.InitValidator()

	ctx := context.Background()
	a, cleanup, err := buildApp(ctx, cfg, appLog)
	if err != nil {
		appLog.Fatal("Failed to start", "error", err)
	}
	defer cleanup()

	if err := serve(fmt.Sprintf(":%s", cfg.Port), setupRouter(a), appLog); err != nil {
		appLog.Error("Server stopped", "error", err)
		cleanup()
		os.Exit(1)
	}
}

// buildApp connects to every backing service and assembles the use cases.
// Optional vendors (Redis, Gemini, mem0, S3) degrade to disabled when unset.
func buildApp(ctx context.Context, cfg *config.Config, appLog *logger.Logger) (*app, func(), error) {
	client, err := repository.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	db := client.Database(cfg.Database.DatabaseName)
	if err := repository.SetupIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to set up indexes: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = services.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			appLog.Warn("Redis unavailable, continuing without blacklist and embedding cache", "error", err)
			redisClient = nil
		}
	}

	cleanup := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			appLog.Warn("MongoDB disconnect failed", "error", err)
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}

	gemini, err := services.NewGeminiClient(ctx, cfg.AI)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cipher, err := services.NewEncryptor(cfg.EncryptionKey)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	storage, err := services.NewObjectStorage(ctx, cfg.Storage)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if !gemini.Configured() {
		appLog.Warn("GEMINI_API_KEY not set, entries will be stored without analysis")
	}
	if !cipher.Enabled() {
		appLog.Warn("ENCRYPTION_KEY not set, entry bodies are stored in plaintext")
	}

	entriesRepo := repository.GetEntriesRepo(db)
	shortsRepo := repository.GetShortsRepo(db)
	arcsRepo := repository.GetDailyArcRepo(db)
	userRepo := repository.GetUserRepo(db)

	memory := services.NewMemoryClient(cfg.Memory, cfg.AI.RequestTimeout)
	blacklist := services.NewTokenBlacklist(redisClient, appLog)
	tokens := services.NewTokenService(cfg.Auth)

	embedder := analysis.NewEmbedder(gemini,
		services.NewEmbeddingCache(redisClient, cfg.Redis.EmbeddingCacheTTL, appLog),
		cfg.AI.EmbedCharBudget, cfg.AI.EmbeddingDimensions, appLog)
	assembler := analysis.NewContextAssembler(entriesRepo, shortsRepo, memory, cipher,
		analysis.ContextOptions{
			Threshold:   cfg.AI.ContextThreshold,
			TopK:        cfg.AI.ContextTopK,
			MemoryLimit: cfg.Memory.Limit,
		}, appLog)
	engine := analysis.NewEngine(gemini, appLog)

	checks := map[string]handler.Pinger{
		"mongodb": mongoPinger(client),
	}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	return &app{
		log:          appLog,
		maxBodyBytes: cfg.MaxBodyBytes,
		corsOrigins:  cfg.CORSOrigins,
		tokens:       tokens,
		revoked:      blacklist,
		users: &usecase.UserService{
			Users:     userRepo,
			Tokens:    tokens,
			Blacklist: blacklist,
			Log:       appLog,
		},
		entries: &usecase.EntryService{
			Entries:  entriesRepo,
			Shorts:   shortsRepo,
			Arcs:     arcsRepo,
			Embedder: embedder,
			Context:  assembler,
			Engine:   engine,
			Memory:   memory,
			Cipher:   cipher,
			Location: cfg.Timezone,
			Log:      appLog,
		},
		search: &usecase.SearchService{
			Entries:   entriesRepo,
			Embedder:  embedder,
			Cipher:    cipher,
			Threshold: cfg.AI.SearchThreshold,
			Log:       appLog,
		},
		shorts:     &usecase.ShortService{Shorts: shortsRepo, Users: userRepo, Log: appLog},
		categories: &usecase.CategoryService{Users: userRepo, Shorts: shortsRepo, Log: appLog},
		stats: handler.NewStatsHandler(
			&usecase.MomentumService{Entries: entriesRepo, Shorts: shortsRepo, Location: cfg.Timezone},
			&usecase.DailyArcService{Arcs: arcsRepo, Location: cfg.Timezone},
		),
		storage: storage,
		health:  handler.NewHealthHandler(checks),
	}, cleanup, nil
}

func mongoPinger(client *mongo.Client) handler.Pinger {
	return handler.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	})
}
