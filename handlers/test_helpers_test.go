package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"minerva_app_go/config"
	"minerva_app_go/db"
	"minerva_app_go/models"
	"minerva_app_go/services"
	"minerva_app_go/services/i18n"
	"minerva_app_go/services/llm"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixedNow is the pinned clock for handler tests: Monday 2024-01-15
var fixedNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	err = testDB.Exec("PRAGMA journal_mode=WAL;").Error
	assert.NoError(t, err)

	// Each test gets its own upload directory
	previousStorage := services.Storage
	services.Storage = services.NewLocalStorage(t.TempDir())
	t.Cleanup(func() { services.Storage = previousStorage })

	err = testDB.AutoMigrate(
		&models.Deadline{},
		&models.GeneratedDocument{},
		&models.LegalResource{},
	)
	assert.NoError(t, err)

	require.NoError(t, i18n.Load())

	// Set global DB
	db.DB = testDB

	// Pin the clock
	nowFunc = func() time.Time { return fixedNow }
	t.Cleanup(func() { nowFunc = services.LocalNow })

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	req = req.WithContext(context.WithValue(req.Context(), i18n.LocaleContextKey, "es"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:   "test",
		EmailTestMode: true,
	})
	c.Set("locale", "es")

	return e, c, rec
}

func setupJSON(method, path, body string) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e, c, rec := setupEcho(method, path, strings.NewReader(body))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e, c, rec
}

// MockLLMClient is a mock implementation of llm.Client
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// MockPrinter is a mock implementation of services.Printer
type MockPrinter struct {
	mock.Mock
}

func (m *MockPrinter) RenderToFile(ctx context.Context, html string) (*services.RenderedFile, error) {
	args := m.Called(ctx, html)
	if file := args.Get(0); file != nil {
		return file.(*services.RenderedFile), args.Error(1)
	}
	return nil, args.Error(1)
}

// useAssembler installs an assembler built from the given mocks for one test
func useAssembler(t *testing.T, client llm.Client, printer services.Printer) {
	assembler := services.NewDocumentAssembler(client, printer)
	assembler.Now = func() time.Time { return fixedNow }

	previous := services.Assembler
	services.Assembler = assembler
	t.Cleanup(func() { services.Assembler = previous })
}

func stringToPtr(s string) *string {
	return &s
}
