package server

import (
	"context"
	"testing"

	"github.com/funkydonkey/fatherhood-is/internal/config"
	"github.com/funkydonkey/fatherhood-is/internal/database"
	"github.com/funkydonkey/fatherhood-is/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubGenerator returns canned image bytes without calling any API.
type stubGenerator struct {
	err error
}

func (g *stubGenerator) Generate(_ context.Context, _ string) ([]byte, error) {
	if g.err != nil {
		return nil, g.err
	}
	return []byte("stub-image-bytes"), nil
}

// stubStorage records uploads in memory.
type stubStorage struct {
	uploads []string
}

func (s *stubStorage) Upload(_ context.Context, _ []byte, filename string) (string, error) {
	s.uploads = append(s.uploads, filename)
	return "https://cdn.test/" + filename, nil
}

func (s *stubStorage) Delete(_ context.Context, _ string) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Port:                  "8000",
		Env:                   "test",
		PostRateLimit:         10,
		PostRateWindowMinutes: 60,
		APIRateLimit:          1000,
		APIRateWindowMinutes:  60,
	}
}

// newTestApp builds a fully wired app over sqlite with stubbed collaborators.
func newTestApp(t *testing.T, cfg *config.Config) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	srv := NewServerWithDeps(cfg, db, nil, &stubStorage{}, &stubGenerator{})
	t.Cleanup(func() {
		srv.postLimiter.Close()
		srv.apiLimiter.Close()
	})

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	return app, srv, db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, text string) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, ImageURL: "https://cdn.test/x.png", IsPublished: true}
	require.NoError(t, db.Create(post).Error)
	return post
}
