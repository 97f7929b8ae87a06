package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ulule/limiter/v3"

	"codedrop/pkg/tz"
)

type Config struct {
	Token          string
	DatabaseURL    string
	MigrationsPath string
	Locale         string
	Timezone       string
	CommandPrefix  string
	StoreTimeout   time.Duration
	SetupTimeout   time.Duration
	ClaimRate      string
	OrganizerRole  string
}

// Load charge la configuration depuis les variables d'environnement et la valide.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env est optionnel lorsque les variables sont fournies par l'environnement (Docker, CI, etc.).
	}
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Token:          getenv("TOKEN"),
		DatabaseURL:    getenv("DATABASE_URL"),
		MigrationsPath: getenv("MIGRATIONS_PATH"),
		Locale:         getenv("LOCALE"),
		Timezone:       getenv("TIMEZONE"),
		CommandPrefix:  getenv("COMMAND_PREFIX"),
		ClaimRate:      getenv("CLAIM_RATE"),
		OrganizerRole:  strings.TrimSpace(getenv("ORGANIZER_ROLE")),
	}

	var err error
	if cfg.StoreTimeout, err = durationOr(getenv("STORE_TIMEOUT"), 5*time.Second); err != nil {
		return nil, fmt.Errorf("config: STORE_TIMEOUT invalide: %w", err)
	}
	if cfg.SetupTimeout, err = durationOr(getenv("SETUP_TIMEOUT"), 5*time.Minute); err != nil {
		return nil, fmt.Errorf("config: SETUP_TIMEOUT invalide: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate applique toutes les règles métier sur la configuration chargée.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: TOKEN est requis et ne peut pas être vide")
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		// Valeur par défaut utile en local lorsque DATABASE_URL n'est pas fournie.
		c.DatabaseURL = "postgres://localhost:5432/codedrop?sslmode=disable"
	}
	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("config: DATABASE_URL invalide (%q): %w", c.DatabaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: DATABASE_URL invalide (%q): scheme ou host manquant", c.DatabaseURL)
	}

	if c.MigrationsPath == "" {
		c.MigrationsPath = "migrations"
	}
	if c.Locale == "" {
		c.Locale = "en"
	}
	if _, err := tz.Load(c.Timezone); err != nil {
		return fmt.Errorf("config: TIMEZONE invalide (%q): %w", c.Timezone, err)
	}

	if c.CommandPrefix == "" {
		c.CommandPrefix = "!"
	}
	if strings.ContainsAny(c.CommandPrefix, " \t\n") {
		return fmt.Errorf("config: COMMAND_PREFIX ne doit pas contenir d'espace")
	}

	if c.ClaimRate == "" {
		c.ClaimRate = "5-M"
	}
	if _, err := limiter.NewRateFromFormatted(c.ClaimRate); err != nil {
		return fmt.Errorf("config: CLAIM_RATE invalide (%q): %w", c.ClaimRate, err)
	}

	if c.StoreTimeout <= 0 || c.SetupTimeout <= 0 {
		return fmt.Errorf("config: STORE_TIMEOUT et SETUP_TIMEOUT doivent être positifs")
	}
	return nil
}

// Location returns the configured time zone; validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := tz.Load(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func durationOr(raw string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	return time.ParseDuration(raw)
}
