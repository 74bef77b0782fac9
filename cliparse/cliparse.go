package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied when neither flag, env, nor file sets a value
const (
	DefaultPort             = 3318
	DefaultDatabaseType     = "sqlite"
	DefaultSubscriberBuffer = 16
	DefaultWriteTimeout     = 5 * time.Second
	DefaultRateLimit        = 10.0
	DefaultRateBurst        = 20
)

type Config struct {
	Port         int    `yaml:"port"`
	DatabaseURL  string `yaml:"database_url"`
	DatabaseType string `yaml:"database_type"`
	AdminKey     string `yaml:"admin_key"`

	// Number of demo participants inserted into an empty database
	SeedParticipants int `yaml:"seed_participants"`

	// Live channel tuning
	SubscriberBuffer int           `yaml:"subscriber_buffer"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`

	// Per-client limit on mutation endpoints (requests/second)
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`

	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ParseFlags validates flags and builds the configuration.
// Precedence is CLI flag, then environment (including .env), then the
// optional YAML file, then defaults.
func ParseFlags(args []string) (Config, error) {
	var cli Config
	var configFile, origins string

	fs := flag.NewFlagSet("jury-live", flag.ContinueOnError)

	fs.StringVar(&configFile, "c", "", "YAML config file")

	// Network config (can be CLI args or env)
	fs.IntVar(&cli.Port, "p", 0, "Server port")
	fs.StringVar(&cli.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cli.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cli.AdminKey, "admin-key", "", "Admin key (prefer env)")

	fs.IntVar(&cli.SeedParticipants, "seed", 0, "Insert N demo participants into an empty database")
	fs.IntVar(&cli.SubscriberBuffer, "subscriber-buffer", 0, "Queued updates per live subscriber before eviction")
	fs.DurationVar(&cli.WriteTimeout, "write-timeout", 0, "Live channel write timeout")
	fs.Float64Var(&cli.RateLimit, "rate-limit", 0, "Mutation requests per second per client")
	fs.IntVar(&cli.RateBurst, "rate-burst", 0, "Mutation burst per client")
	fs.StringVar(&origins, "origins", "", "Comma separated allowed WebSocket origins")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	cfg, err := loadFile(configFile)
	if err != nil {
		return Config{}, err
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	// CLI overrides everything below it
	if cli.Port != 0 {
		cfg.Port = cli.Port
	}
	if cli.DatabaseURL != "" {
		cfg.DatabaseURL = cli.DatabaseURL
	}
	if cli.DatabaseType != "" {
		cfg.DatabaseType = cli.DatabaseType
	}
	if cli.AdminKey != "" {
		cfg.AdminKey = cli.AdminKey
	}
	if cli.SeedParticipants != 0 {
		cfg.SeedParticipants = cli.SeedParticipants
	}
	if cli.SubscriberBuffer != 0 {
		cfg.SubscriberBuffer = cli.SubscriberBuffer
	}
	if cli.WriteTimeout != 0 {
		cfg.WriteTimeout = cli.WriteTimeout
	}
	if cli.RateLimit != 0 {
		cfg.RateLimit = cli.RateLimit
	}
	if cli.RateBurst != 0 {
		cfg.RateBurst = cli.RateBurst
	}
	if origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}

	applyDefaults(&cfg)

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.AdminKey == "" {
		return Config{}, errors.New("ADMIN_KEY required")
	}

	return cfg, nil
}

func loadFile(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Fall back to environment variables
func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid PORT env variable")
		}
		cfg.Port = port
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("DATABASE_TYPE"); v != "" {
		cfg.DatabaseType = v
	}
	if v := os.Getenv("ADMIN_KEY"); v != "" {
		cfg.AdminKey = v
	}
	if v := os.Getenv("SEED_PARTICIPANTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid SEED_PARTICIPANTS env variable")
		}
		cfg.SeedParticipants = n
	}
	if v := os.Getenv("SUBSCRIBER_BUFFER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid SUBSCRIBER_BUFFER env variable")
		}
		cfg.SubscriberBuffer = n
	}
	if v := os.Getenv("WRITE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.New("invalid WRITE_TIMEOUT env variable")
		}
		cfg.WriteTimeout = d
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.New("invalid RATE_LIMIT env variable")
		}
		cfg.RateLimit = f
	}
	if v := os.Getenv("RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid RATE_BURST env variable")
		}
		cfg.RateBurst = n
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = DefaultDatabaseType
	}
	if cfg.SubscriberBuffer <= 0 {
		cfg.SubscriberBuffer = DefaultSubscriberBuffer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = DefaultRateBurst
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
