package config

import (
	"encoding/base64"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	// EncryptionKeyLength is the required decoded length of DATA_ENCRYPTION_KEY
	EncryptionKeyLength = 32

	// DefaultOpenAIModel mirrors the model the mobile app used for generation
	DefaultOpenAIModel = "gpt-4"
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	UploadDir   string
	// Remote database (Turso / libsql)
	TursoDatabaseURL string
	TursoAuthToken   string
	// Text generation (OpenAI compatible)
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	OpenAITimeout   int // seconds
	ChromePath      string
	DocumentTimeout int // seconds, PDF rendering
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged instead of sent
	// Cloudflare R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
	// Sealing of form values at rest (base64, 32 bytes)
	DataEncryptionKey string
	// Other
	AllowedOrigins []string
	AppURL         string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		zap.S().Info("No .env file found, using system environment variables")
	}

	cfg := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		DBPath:            getEnv("DB_PATH", "db/minerva.db"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		UploadDir:         getEnv("UPLOAD_DIR", "static/uploads"),
		TursoDatabaseURL:  getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:    getEnv("TURSO_AUTH_TOKEN", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", DefaultOpenAIModel),
		OpenAITimeout:     getEnvInt("OPENAI_TIMEOUT_SECONDS", 60),
		ChromePath:        getEnv("CHROME_PATH", ""),
		DocumentTimeout:   getEnvInt("PDF_TIMEOUT_SECONDS", 30),
		ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
		EmailFrom:         getEnv("EMAIL_FROM", "noreply@minerva-legal.app"),
		EmailFromName:     getEnv("EMAIL_FROM_NAME", "Minerva Legal"),
		EmailTestMode:     getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),
		DataEncryptionKey: getEnv("DATA_ENCRYPTION_KEY", ""),
		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		AppURL:            getEnv("APP_URL", "http://localhost:8080"),
	}

	if err := ValidateEncryptionKey(cfg.DataEncryptionKey); err != nil {
		if cfg.IsProduction() {
			zap.S().Fatalf("[CRITICAL] %v", err)
		}
		zap.S().Warnf("%v; form values will not be stored", err)
		cfg.DataEncryptionKey = ""
	}

	if cfg.OpenAIAPIKey == "" {
		zap.S().Warn("OPENAI_API_KEY is not set; document generation and chat will fail")
	}

	return cfg
}

// IsProduction reports whether the app runs with ENVIRONMENT=production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		zap.S().Warnf("Invalid value for %s (%q), using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// ValidateEncryptionKey checks that a configured key decodes to 32 bytes.
// An empty key is reported so callers can decide whether it is fatal.
func ValidateEncryptionKey(key string) error {
	if key == "" {
		return errEncryptionKeyMissing
	}
	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return &encryptionKeyError{msg: "DATA_ENCRYPTION_KEY is not valid base64"}
	}
	if len(raw) != EncryptionKeyLength {
		return &encryptionKeyError{msg: "DATA_ENCRYPTION_KEY must decode to " + strconv.Itoa(EncryptionKeyLength) + " bytes (got " + strconv.Itoa(len(raw)) + ")"}
	}
	return nil
}

type encryptionKeyError struct {
	msg string
}

func (e *encryptionKeyError) Error() string {
	return e.msg
}

var errEncryptionKeyMissing = &encryptionKeyError{msg: "DATA_ENCRYPTION_KEY is not set"}
