package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all environment-driven settings for the application.
type Config struct {
	DBDriver   string
	DBDSN      string
	SecretKey  string
	ServerHost string

	UploadFolder  string
	StagingFolder string
	ExportFolder  string

	MaxContentLength  int64
	AllowedExtensions map[string]bool
	ImageExtensions   map[string]bool

	AuditBackend string // noop, gorm or async
	LogMode      string

	RateLimitMax    int
	RateLimitWindow time.Duration
}

// Load reads configuration from the environment. A missing .env file is not an
// error; explicit environment variables always win.
func Load() (*Config, error) {
	_ = godotenv.Load(getEnv("ENV_FILE", ".env"))

	cfg := &Config{
		DBDriver:     getEnv("DB_DRIVER", "postgres"),
		DBDSN:        os.Getenv("DB_DSN"),
		SecretKey:    getEnv("SECRET_KEY", "fallback-secret-key-change-in-production"),
		ServerHost:   getEnv("SERVER_HOST", ":8080"),
		UploadFolder: getEnv("UPLOAD_FOLDER", filepath.Join(".", "uploads")),
		ExportFolder: getEnv("EXPORT_FOLDER", filepath.Join(".", "exports")),
		AuditBackend: getEnv("AUDIT_BACKEND", "gorm"),
		LogMode:      getEnv("LOG_MODE", "development"),
	}
	cfg.StagingFolder = getEnv("STAGING_FOLDER", filepath.Join(cfg.UploadFolder, ".staging"))

	maxLen, err := strconv.ParseInt(getEnv("MAX_CONTENT_LENGTH", "16777216"), 10, 64)
	if err != nil {
		return nil, err
	}
	cfg.MaxContentLength = maxLen

	cfg.AllowedExtensions = parseExtensions(getEnv("ALLOWED_EXTENSIONS", "png,jpg,jpeg,gif,pdf,xlsx,xls,ppt,pptx"))
	cfg.ImageExtensions = parseExtensions("png,jpg,jpeg,gif")

	cfg.RateLimitMax, err = strconv.Atoi(getEnv("RATE_LIMIT_MAX", "60"))
	if err != nil {
		return nil, err
	}
	windowSecs, err := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))
	if err != nil {
		return nil, err
	}
	cfg.RateLimitWindow = time.Duration(windowSecs) * time.Second

	return cfg, nil
}

// EnsureDirs creates the upload, staging and export directories if absent.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.UploadFolder, c.StagingFolder, c.ExportFolder} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// IsAllowed reports whether the filename carries an allow-listed extension.
func (c *Config) IsAllowed(filename string) bool {
	return c.AllowedExtensions[Extension(filename)]
}

// IsImage reports whether the filename carries an image extension.
func (c *Config) IsImage(filename string) bool {
	return c.ImageExtensions[Extension(filename)]
}

// Extension returns the lowercase extension of filename without the dot.
func Extension(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func parseExtensions(raw string) map[string]bool {
	set := make(map[string]bool)
	for _, ext := range strings.Split(raw, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			set[ext] = true
		}
	}
	return set
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
