package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"murmur/internal/archive"
	"murmur/internal/config"
	"murmur/internal/models"
	"murmur/internal/repository"
	"murmur/internal/service"
	"murmur/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Entry{},
		&models.Comment{},
		&models.Vote{},
		&models.CommentVote{},
		&models.Report{},
		&models.CommentReport{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// newTestServer wires a Server onto an in-memory database with real
// repositories and services, without metrics or Redis.
func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()
	db := setupServerTestDB(t)

	cfg := &config.Config{
		Port:                 "0",
		Env:                  "test",
		AdminPasskey:         "test-passkey",
		AdminSessionSecret:   "test-session-secret-32-chars-long!!",
		RecycleRetentionDays: 7,
		ListDefaultLimit:     20,
		ListMaxLimit:         100,
		UploadsDir:           t.TempDir(),
		ArchiveDir:           t.TempDir(),
		ArchiveLogDir:        t.TempDir(),
	}

	entryRepo := repository.NewEntryRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	reportRepo := repository.NewReportRepository(db)

	archiver := archive.New(cfg.ArchiveDir, cfg.ArchiveLogDir)
	moderation := service.NewModerationService(entryRepo, commentRepo, voteRepo, reportRepo, archiver)
	retention := time.Duration(cfg.RecycleRetentionDays) * 24 * time.Hour

	s := &Server{
		config:         cfg,
		db:             db,
		entryRepo:      entryRepo,
		commentRepo:    commentRepo,
		voteRepo:       voteRepo,
		reportRepo:     reportRepo,
		entryService:   service.NewEntryService(entryRepo, reportRepo, retention, cfg.ListDefaultLimit, cfg.ListMaxLimit),
		commentService: service.NewCommentService(commentRepo, entryRepo),
		voteService:    service.NewVoteService(voteRepo, entryRepo, commentRepo, moderation),
		reportService:  service.NewReportService(reportRepo, entryRepo, commentRepo, moderation),
		adminService: service.NewAdminService(
			entryRepo, reportRepo, session.NewStore(nil),
			cfg.AdminPasskey, "", cfg.AdminSessionSecret, time.Hour,
		),
		mediaService: service.NewMediaService(cfg.UploadsDir),
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app, db
}

func seedEntry(t *testing.T, db *gorm.DB, content string) *models.Entry {
	t.Helper()
	entry := &models.Entry{UniqueID: uuid.NewString(), Content: content}
	require.NoError(t, db.Create(entry).Error)
	return entry
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, dest), "body: %s", data)
}

func adminToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	req := jsonRequest(t, http.MethodPost, "/api/admin/sessions", fiber.Map{"passkey": "test-passkey"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}
