package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the migrator.
type Config struct {
	Project Project
	Export  ExportConfig
	Result  ResultConfig
	Users   UsersConfig
	Mapping MappingConfig
	Storage StorageConfig
	Upload  UploadConfig
	Logger  LoggerConfig
}

// Project describes the target Jira project envelope.
type Project struct {
	Name        string
	Key         string
	URL         string
	Description string
}

// ExportConfig locates the legacy export tree.
type ExportConfig struct {
	Directory string
}

// ResultConfig controls where the output document is written.
type ResultConfig struct {
	Directory string
	Filename  string
}

// UsersConfig locates the required legacy-id to username map.
type UsersConfig struct {
	MapFile string
}

// MappingConfig holds optional translation overrides.
type MappingConfig struct {
	// PriorityMapFile optionally overrides the importance-name table.
	PriorityMapFile string
	// RepositoryURL enables commit-comment link rewriting when set.
	RepositoryURL string
}

// StorageConfig holds S3 connection values for attachment uploads.
type StorageConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	Endpoint        string
}

// UploadConfig tunes attachment upload behavior.
type UploadConfig struct {
	TimeoutSeconds     int
	RunDeadlineSeconds int
	Workers            int
	RetryMaxSeconds    int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Project: Project{
			Name:        getEnv("PROJECT_NAME", ""),
			Key:         getEnv("PROJECT_KEY", ""),
			URL:         getEnv("PROJECT_URL", ""),
			Description: getEnv("PROJECT_DESCRIPTION", ""),
		},
		Export: ExportConfig{
			Directory: getEnv("EXPORT_DIR", "."),
		},
		Result: ResultConfig{
			Directory: getEnv("RESULT_DIR", "."),
			Filename:  os.Getenv("RESULT_FILENAME"),
		},
		Users: UsersConfig{
			MapFile: os.Getenv("USER_MAP_FILE"),
		},
		Mapping: MappingConfig{
			PriorityMapFile: os.Getenv("PRIORITY_MAP_FILE"),
			RepositoryURL:   os.Getenv("REPOSITORY_URL"),
		},
		Storage: StorageConfig{
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			Bucket:          getEnv("S3_BUCKET", "lighthouse-attachments"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
		},
		Upload: UploadConfig{
			TimeoutSeconds:     getEnvAsInt("UPLOAD_TIMEOUT_SECONDS", 60),
			RunDeadlineSeconds: getEnvAsInt("RUN_DEADLINE_SECONDS", 3600),
			Workers:            getEnvAsInt("UPLOAD_WORKERS", 4),
			RetryMaxSeconds:    getEnvAsInt("UPLOAD_RETRY_MAX_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// UploadTimeout returns the configured per-upload timeout duration.
func (u UploadConfig) UploadTimeout() time.Duration {
	if u.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(u.TimeoutSeconds) * time.Second
}

// RunDeadline returns the configured whole-run deadline duration.
func (u UploadConfig) RunDeadline() time.Duration {
	if u.RunDeadlineSeconds <= 0 {
		return 0
	}
	return time.Duration(u.RunDeadlineSeconds) * time.Second
}

// RetryMaxElapsed returns the retry budget for a single upload.
func (u UploadConfig) RetryMaxElapsed() time.Duration {
	if u.RetryMaxSeconds <= 0 {
		return 0
	}
	return time.Duration(u.RetryMaxSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
