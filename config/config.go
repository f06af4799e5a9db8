package config

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"myarc/utils"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	URI             string
	DatabaseName    string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	RetryWrites     bool
	Timeout         time.Duration
}

type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	Issuer         string
}

type AIConfig struct {
	GeminiAPIKey        string
	GenerationModel     string
	EmbeddingModel      string
	EmbeddingDimensions int
	EmbedCharBudget     int
	ContextThreshold    float64
	SearchThreshold     float64
	ContextTopK         int
	RequestTimeout      time.Duration
}

type MemoryConfig struct {
	APIKey  string
	BaseURL string
	Limit   int
}

type StorageConfig struct {
	Endpoint   string
	Region     string
	Bucket     string
	AccessKey  string
	SecretKey  string
	PresignTTL time.Duration
}

func (s StorageConfig) Configured() bool {
	return s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

type RedisConfig struct {
	URL               string
	EmbeddingCacheTTL time.Duration
}

type Config struct {
	Env           string
	Port          string
	LogMode       string
	LogHashSalt   string
	Timezone      *time.Location
	EncryptionKey []byte
	MaxBodyBytes  int64
	CORSOrigins   []string

	Database DatabaseConfig
	Auth     AuthConfig
	AI       AIConfig
	Memory   MemoryConfig
	Storage  StorageConfig
	Redis    RedisConfig
}

// LoadEnvFile loads .env into the process environment. A missing file is only
// fatal outside tests, and only when the variables are not already exported.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GO_ENV") == "test" || os.Getenv("MONGO_URI") != "" {
			return nil
		}
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	tzName := utils.GetEnvAsString("TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tzName, err)
	}

	key, err := parseEncryptionKey(utils.GetEnvAsString("ENCRYPTION_KEY", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:           utils.GetEnvAsString("GO_ENV", "development"),
		Port:          utils.GetEnvAsString("PORT", "8080"),
		LogMode:       utils.GetEnvAsString("LOG_MODE", "dev"),
		LogHashSalt:   utils.GetEnvAsString("LOG_HASH_SALT", ""),
		Timezone:      loc,
		EncryptionKey: key,
		MaxBodyBytes:  int64(utils.GetEnvAsInt("MAX_BODY_BYTES", 1<<20)),
		CORSOrigins:   splitList(utils.GetEnvAsString("CORS_ORIGINS", "")),
		Database: DatabaseConfig{
			URI:             utils.GetEnvAsString("MONGO_URI", ""),
			DatabaseName:    utils.GetEnvAsString("MONGO_DB", "myarc"),
			MaxPoolSize:     utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", 100),
			MinPoolSize:     utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", 10),
			MaxConnIdleTime: time.Duration(utils.GetEnvAsInt("MONGO_MAX_CONN_IDLE_TIME", 60)) * time.Second,
			RetryWrites:     utils.GetEnvAsBool("MONGO_RETRY_WRITES", true),
			Timeout:         utils.GetEnvAsDuration("MONGO_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:      utils.GetEnvAsString("JWT_SECRET_KEY", ""),
			AccessTokenTTL: utils.GetEnvAsDuration("JWT_EXPIRATION_TIME", 24*time.Hour),
			Issuer:         utils.GetEnvAsString("JWT_ISSUER", "myarc"),
		},
		AI: AIConfig{
			GeminiAPIKey:        utils.GetEnvAsString("GEMINI_API_KEY", ""),
			GenerationModel:     utils.GetEnvAsString("GEMINI_MODEL", "gemini-2.0-flash"),
			EmbeddingModel:      utils.GetEnvAsString("GEMINI_EMBED_MODEL", "text-embedding-004"),
			EmbeddingDimensions: utils.GetEnvAsInt("EMBEDDING_DIMENSIONS", 768),
			EmbedCharBudget:     utils.GetEnvAsInt("EMBED_CHAR_BUDGET", 8000),
			ContextThreshold:    utils.GetEnvAsFloat("CONTEXT_SIMILARITY_THRESHOLD", 0.35),
			SearchThreshold:     utils.GetEnvAsFloat("SEARCH_SIMILARITY_THRESHOLD", 0.55),
			ContextTopK:         utils.GetEnvAsInt("CONTEXT_TOP_K", 5),
			RequestTimeout:      utils.GetEnvAsDuration("AI_REQUEST_TIMEOUT", 30*time.Second),
		},
		Memory: MemoryConfig{
			APIKey:  utils.GetEnvAsString("MEM0_API_KEY", ""),
			BaseURL: strings.TrimRight(utils.GetEnvAsString("MEM0_BASE_URL", "https://api.mem0.ai"), "/"),
			Limit:   utils.GetEnvAsInt("MEM0_SEARCH_LIMIT", 5),
		},
		Storage: StorageConfig{
			Endpoint:   utils.GetEnvAsString("S3_ENDPOINT", ""),
			Region:     utils.GetEnvAsString("S3_REGION", "us-east-1"),
			Bucket:     utils.GetEnvAsString("S3_BUCKET", ""),
			AccessKey:  utils.GetEnvAsString("S3_ACCESS_KEY", ""),
			SecretKey:  utils.GetEnvAsString("S3_SECRET_KEY", ""),
			PresignTTL: utils.GetEnvAsDuration("S3_PRESIGN_TTL", 15*time.Minute),
		},
		Redis: RedisConfig{
			URL:               utils.GetEnvAsString("REDIS_URL", ""),
			EmbeddingCacheTTL: utils.GetEnvAsDuration("EMBEDDING_CACHE_TTL", 24*time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URI == "" {
		errs = append(errs, errors.New("MONGO_URI is not set"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is not set"))
	}
	if c.AI.ContextThreshold >= c.AI.SearchThreshold {
		errs = append(errs, fmt.Errorf("context threshold %.2f must be below search threshold %.2f",
			c.AI.ContextThreshold, c.AI.SearchThreshold))
	}
	if c.AI.ContextTopK <= 0 {
		errs = append(errs, errors.New("CONTEXT_TOP_K must be positive"))
	}
	if c.AI.EmbedCharBudget <= 0 {
		errs = append(errs, errors.New("EMBED_CHAR_BUDGET must be positive"))
	}
	return errors.Join(errs...)
}

// parseEncryptionKey accepts a 32-byte key as hex or base64. Empty disables
// at-rest encryption.
func parseEncryptionKey(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	if key, err := hex.DecodeString(raw); err == nil && len(key) == 32 {
		return key, nil
	}
	if key, err := base64.StdEncoding.DecodeString(raw); err == nil && len(key) == 32 {
		return key, nil
	}
	return nil, errors.New("ENCRYPTION_KEY must be 32 bytes encoded as hex or base64")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
