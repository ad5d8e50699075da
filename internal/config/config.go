package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds everything the application reads from the environment.
// main loads .env via godotenv before calling Load.
type Config struct {
	Port          string
	DatabaseURL   string
	JWTSecret     string
	AdminPassword string
	BackupDir     string
	BackupKeep    int
	Calendar      *Calendar
}

// Load reads configuration from the environment and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getenv("APP_PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),
		BackupDir:     getenv("BACKUP_DIR", "backups"),
		BackupKeep:    getenvInt("BACKUP_KEEP", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	cal, err := NewCalendar(getenv("SHOP_TIMEZONE", "UTC"), getenvInt("SHOP_DAY_CUTOFF_HOURS", 0))
	if err != nil {
		return nil, fmt.Errorf("invalid shop calendar config: %w", err)
	}
	cfg.Calendar = cal

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
