package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"myarc/analysis"
	"myarc/config"
	"myarc/logger"
	"myarc/middleware"
	"myarc/model"
	"myarc/services"
	"myarc/testutils"
	"myarc/usecase"
	"myarc/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitValidator()
	os.Exit(m.Run())
}

// testServer is the protected API mounted on in-memory stores with every
// AI vendor disabled.
type testServer struct {
	users   *testutils.UserStore
	entries *testutils.EntryStore
	shorts  *testutils.ShortStore
	arcs    *testutils.DailyArcStore
	revoker *testutils.Revoker
	tokens  *services.TokenService
	storage ObjectStore
	router  *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.Nop()
	cipher, err := services.NewEncryptor(nil)
	require.NoError(t, err)

	s := &testServer{
		users:   testutils.NewUserStore(),
		entries: testutils.NewEntryStore(),
		shorts:  testutils.NewShortStore(),
		arcs:    testutils.NewDailyArcStore(),
		revoker: &testutils.Revoker{},
		tokens: services.NewTokenService(config.AuthConfig{
			JWTSecret:      "test_secret_key",
			AccessTokenTTL: time.Hour,
			Issuer:         "myarc",
		}),
		storage: &services.ObjectStorage{},
	}

	embedder := analysis.NewEmbedder(&testutils.EmbeddingClient{Disabled: true}, nil, 8000, 0, log)
	memory := &testutils.Memory{Disabled: true}
	userService := &usecase.UserService{Users: s.users, Tokens: s.tokens, Blacklist: s.revoker, Log: log}
	entryService := &usecase.EntryService{
		Entries:  s.entries,
		Shorts:   s.shorts,
		Arcs:     s.arcs,
		Embedder: embedder,
		Context: analysis.NewContextAssembler(s.entries, s.shorts, memory, cipher,
			analysis.ContextOptions{Threshold: 0.35, TopK: 5, MemoryLimit: 3}, log),
		Engine:   analysis.NewEngine(&testutils.Generator{Disabled: true}, log),
		Memory:   memory,
		Cipher:   cipher,
		Location: time.UTC,
		Log:      log,
	}
	searchService := &usecase.SearchService{Entries: s.entries, Embedder: embedder, Cipher: cipher, Threshold: 0.55, Log: log}
	shortService := &usecase.ShortService{Shorts: s.shorts, Users: s.users, Log: log}
	categoryService := &usecase.CategoryService{Users: s.users, Shorts: s.shorts, Log: log}
	stats := NewStatsHandler(
		&usecase.MomentumService{Entries: s.entries, Shorts: s.shorts, Location: time.UTC},
		&usecase.DailyArcService{Arcs: s.arcs, Location: time.UTC},
	)

	r := gin.New()
	r.POST("/api/auth/register", func(c *gin.Context) { RegistrationHandler(c, userService) })
	r.POST("/api/auth/login", func(c *gin.Context) { LoginHandler(c, userService) })

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(s.tokens, s.revoker), middleware.NoStoreMiddleware())
	api.POST("/auth/logout", func(c *gin.Context) { LogoutHandler(c, userService) })
	api.POST("/auth/verify-pin", func(c *gin.Context) { VerifyPINHandler(c, userService) })
	api.GET("/user/profile", func(c *gin.Context) { GetUserProfileHandler(c, userService) })
	api.PATCH("/user/profile", func(c *gin.Context) { UpdateUserProfileHandler(c, userService) })
	api.PUT("/user/pin", func(c *gin.Context) { SetPINHandler(c, userService) })
	api.GET("/user/momentum", stats.GetMomentum)
	api.GET("/daily-arc", stats.GetDailyArc)
	api.GET("/entries", func(c *gin.Context) { SearchEntriesHandler(c, searchService) })
	api.POST("/entries", func(c *gin.Context) { CreateEntryHandler(c, entryService) })
	api.GET("/entries/tags", func(c *gin.Context) { GetTagsHandler(c, entryService) })
	api.GET("/entries/prompt", func(c *gin.Context) { GetReflectionPromptHandler(c, entryService) })
	api.DELETE("/entries/:id", func(c *gin.Context) { DeleteEntryHandler(c, entryService) })
	api.GET("/shorts", func(c *gin.Context) { GetShortsHandler(c, shortService) })
	api.POST("/shorts", func(c *gin.Context) { CreateShortHandler(c, shortService) })
	api.GET("/shorts/categories", func(c *gin.Context) { GetCategoriesHandler(c, categoryService) })
	api.POST("/shorts/categories", func(c *gin.Context) { AddCategoryHandler(c, categoryService) })
	api.DELETE("/shorts/categories", func(c *gin.Context) { RemoveCategoryHandler(c, categoryService) })
	api.PUT("/shorts/:id", func(c *gin.Context) { UpdateShortHandler(c, shortService) })
	api.DELETE("/shorts/:id", func(c *gin.Context) { DeleteShortHandler(c, shortService) })
	api.POST("/uploads/presign", func(c *gin.Context) { PresignUploadHandler(c, s.storage) })
	api.DELETE("/uploads", func(c *gin.Context) { DeleteUploadHandler(c, s.storage) })

	s.router = r
	return s
}

// login seeds a user and returns a bearer token for them.
func (s *testServer) login(t *testing.T, email string, categories ...string) (*model.User, string) {
	t.Helper()
	user := s.users.Seed(email, categories...)
	token, _, err := s.tokens.GenerateJWT(user.ID.Hex(), user.Email)
	require.NoError(t, err)
	return user, token
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), w.Body.String())
	}
	return env
}
