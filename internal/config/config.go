package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// environment variable names
const (
	EnvAddr        = "CACTAT_ADDR"
	EnvLocale      = "CACTAT_LOCALE"
	EnvBannerDelay = "CACTAT_BANNER_DELAY"
	EnvFixturesDir = "CACTAT_FIXTURES_DIR"
	EnvProbeURL    = "CACTAT_PROBE_URL"
	EnvProbeExpect = "CACTAT_PROBE_EXPECT"
	EnvFormFile    = "CACTAT_FORM_FILE"
	EnvLogLevel    = "LOG_LEVEL"
)

const (
	defaultAddr     = ":8080"
	defaultLocale   = "pt-BR"
	defaultDelay    = 3 * time.Second
	defaultFixtures = "cypress/fixtures"
	defaultProbeURL = "https://cac-tat.s3.eu-central-1.amazonaws.com/index.html"
	defaultExpect   = "CAC TAT"
	defaultLogLevel = "info"
)

// Config holds the process settings shared by every command.
type Config struct {
	Addr        string
	Locale      string
	BannerDelay time.Duration
	FixturesDir string
	ProbeURL    string
	ProbeExpect string
	// FormFile replaces the embedded form definition when set.
	FormFile string
	LogLevel string
}

// Default returns the settings of the stock CAC TAT page.
func Default() Config {
	return Config{
		Addr:        defaultAddr,
		Locale:      defaultLocale,
		BannerDelay: defaultDelay,
		FixturesDir: defaultFixtures,
		ProbeURL:    defaultProbeURL,
		ProbeExpect: defaultExpect,
		LogLevel:    defaultLogLevel,
	}
}

// GetEnv retrieves the value of an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Load reads the given .env files (".env" when none are named) and then the
// environment. A missing .env file is not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the environment over Default.
func FromEnv() (Config, error) {
	cfg := Default()
	cfg.Addr = GetEnv(EnvAddr, cfg.Addr)
	cfg.Locale = GetEnv(EnvLocale, cfg.Locale)
	cfg.FixturesDir = GetEnv(EnvFixturesDir, cfg.FixturesDir)
	cfg.ProbeURL = GetEnv(EnvProbeURL, cfg.ProbeURL)
	cfg.ProbeExpect = GetEnv(EnvProbeExpect, cfg.ProbeExpect)
	cfg.FormFile = GetEnv(EnvFormFile, cfg.FormFile)
	cfg.LogLevel = GetEnv(EnvLogLevel, cfg.LogLevel)

	if raw := strings.TrimSpace(os.Getenv(EnvBannerDelay)); raw != "" {
		delay, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvBannerDelay, err)
		}
		cfg.BannerDelay = delay
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("config: %s cannot be empty", EnvAddr)
	}
	if strings.TrimSpace(c.Locale) == "" {
		return fmt.Errorf("config: %s cannot be empty", EnvLocale)
	}
	if c.BannerDelay <= 0 {
		return fmt.Errorf("config: %s must be positive, got %s", EnvBannerDelay, c.BannerDelay)
	}
	return nil
}
