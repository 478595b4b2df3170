package db

import (
	"database/sql"
	"fmt"

	"minerva_app_go/config"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize opens the database. A configured Turso URL wins over the
// local SQLite file, which is opened in WAL mode.
func Initialize(cfg *config.Config) error {
	// Determine log level based on environment
	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	var (
		dialector gorm.Dialector
		target    string
	)
	if cfg.TursoDatabaseURL != "" {
		sqlDB, err := openLibSQL(cfg.TursoDatabaseURL, cfg.TursoAuthToken)
		if err != nil {
			return err
		}
		dialector = sqlite.New(sqlite.Config{Conn: sqlDB})
		target = "turso"
	} else {
		dialector = sqlite.Open(cfg.DBPath + "?_journal_mode=WAL")
		target = cfg.DBPath
	}

	conn, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	DB = conn

	zap.L().Info("Database connection established", zap.String("target", target))
	return nil
}

func openLibSQL(url, authToken string) (*sql.DB, error) {
	dsn := url
	if authToken != "" {
		dsn = fmt.Sprintf("%s?authToken=%s", url, authToken)
	}
	sqlDB, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open libsql connection: %w", err)
	}
	return sqlDB, nil
}

// AutoMigrate runs database migrations for the provided models
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	zap.L().Info("Database migrations completed", zap.Int("models", len(models)))
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
