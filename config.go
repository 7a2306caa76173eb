package main

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spenceriam/portfolio/internal/logutil"
	"github.com/spenceriam/portfolio/internal/starfield"
)

type smtpConfig struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

type siteConfig struct {
	Port      string
	DBPath    string
	SMTP      smtpConfig
	Starfield starfield.Config
	Seed      int64
}

// loadConfig reads the environment (.env is already applied by godotenv's
// autoload). Bad values are logged and replaced by defaults.
func loadConfig() siteConfig {
	cfg := siteConfig{
		Port:   envString("PORT", "8080"),
		DBPath: envString("DB_PATH", "portfolio.db"),
		SMTP: smtpConfig{
			Host: envString("SMTP_HOST", "smtp.gmail.com"),
			Port: envString("SMTP_PORT", "587"),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			To:   envString("TO_EMAIL", OwnerEmail),
		},
		Seed: envInt64("STARFIELD_SEED", time.Now().UnixNano()),
	}

	sf := starfield.DefaultConfig()
	sf.DotCount = envInt("STARFIELD_DOT_COUNT", sf.DotCount)
	sf.ShootingStarCount = envInt("STARFIELD_SHOOTING_STARS", sf.ShootingStarCount)
	sf.ParticleCount = envInt("STARFIELD_PARTICLES", sf.ParticleCount)
	sf.Margin = envFloat("STARFIELD_MARGIN", sf.Margin)
	sf.BufferMargin = envFloat("STARFIELD_BUFFER_MARGIN", sf.BufferMargin)
	sf.GridStep = envFloat("STARFIELD_GRID_STEP", sf.GridStep)
	sf.ExclusionEnabled = envBool("STARFIELD_EXCLUSION", sf.ExclusionEnabled)
	sf.Phases.Drawing = envMillis("STARFIELD_DRAWING_MS", sf.Phases.Drawing)
	sf.Phases.Waiting = envMillis("STARFIELD_WAITING_MS", sf.Phases.Waiting)
	sf.Phases.Undrawing = envMillis("STARFIELD_UNDRAWING_MS", sf.Phases.Undrawing)
	cfg.Starfield = sf

	return cfg
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		logutil.Warnf("ignoring %s=%q: expected a non-negative integer", key, raw)
		return fallback
	}
	return v
}

func envInt64(key string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logutil.Warnf("ignoring %s=%q: %v", key, raw, err)
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		logutil.Warnf("ignoring %s=%q: expected a finite non-negative number", key, raw)
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		logutil.Warnf("ignoring %s=%q: %v", key, raw, err)
		return fallback
	}
	return v
}

func envMillis(key string, fallback time.Duration) time.Duration {
	ms := envInt(key, -1)
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
