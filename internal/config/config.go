package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tenantdesk/internal/domain"
)

const (
	StorageDriverFile = "file"
	StorageDriverBolt = "bolt"
)

type Config struct {
	Port           string
	BaseURL        string
	ShareSecret    string
	ShareTTL       time.Duration
	MaxUploadBytes int64
	MaxChunkBytes  int64
	DataDir        string
	StorageDriver  string
	CatalogDSN     string
	CountdownTick  time.Duration
	SessionIdleTTL time.Duration
	SweepInterval  time.Duration
}

func LoadConfig() (Config, error) {
	cfg := Config{}

	cfg.Port = envOrDefault("PORT", "8080")
	cfg.BaseURL = strings.TrimRight(envOrDefault("BASE_URL", fmt.Sprintf("http://localhost:%s", cfg.Port)), "/")
	cfg.ShareSecret = envOrDefault("SHARE_SECRET", "change-me")
	cfg.DataDir = envOrDefault("DATA_DIR", "data")
	cfg.CatalogDSN = os.Getenv("CATALOG_DSN")

	cfg.StorageDriver = strings.ToLower(envOrDefault("STORAGE_DRIVER", StorageDriverFile))
	if cfg.StorageDriver != StorageDriverFile && cfg.StorageDriver != StorageDriverBolt {
		return Config{}, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	shareTTLSeconds, err := parseIntEnv("SHARE_TTL_SECONDS", 86400)
	if err != nil {
		return Config{}, fmt.Errorf("parse SHARE_TTL_SECONDS: %w", err)
	}
	cfg.ShareTTL = time.Duration(shareTTLSeconds) * time.Second

	maxUploadMB, err := parseIntEnv("MAX_UPLOAD_MB", 50)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_UPLOAD_MB: %w", err)
	}
	cfg.MaxUploadBytes = maxUploadMB * 1024 * 1024

	maxChunkMB, err := parseIntEnv("MAX_CHUNK_MB", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_CHUNK_MB: %w", err)
	}
	cfg.MaxChunkBytes = maxChunkMB * 1024 * 1024

	tickMS, err := parseIntEnv("COUNTDOWN_TICK_MS", 1000)
	if err != nil {
		return Config{}, fmt.Errorf("parse COUNTDOWN_TICK_MS: %w", err)
	}
	if tickMS <= 0 {
		return Config{}, fmt.Errorf("COUNTDOWN_TICK_MS must be positive")
	}
	cfg.CountdownTick = time.Duration(tickMS) * time.Millisecond

	idleSeconds, err := parseIntEnv("SESSION_IDLE_TTL_SECONDS", 3600)
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSION_IDLE_TTL_SECONDS: %w", err)
	}
	if idleSeconds > 0 && idleSeconds < domain.MaxQuestionSeconds {
		return Config{}, fmt.Errorf("SESSION_IDLE_TTL_SECONDS must be 0 or at least %d", domain.MaxQuestionSeconds)
	}
	cfg.SessionIdleTTL = time.Duration(idleSeconds) * time.Second

	sweepSeconds, err := parseIntEnv("SESSION_SWEEP_SECONDS", 60)
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSION_SWEEP_SECONDS: %w", err)
	}
	if sweepSeconds <= 0 {
		return Config{}, fmt.Errorf("SESSION_SWEEP_SECONDS must be positive")
	}
	cfg.SweepInterval = time.Duration(sweepSeconds) * time.Second

	absDataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg.DataDir = absDataDir

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseIntEnv(key string, fallback int64) (int64, error) {
	value := envOrDefault(key, "")
	if value == "" {
		return fallback, nil
	}

	num, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, err
	}
	return num, nil
}
