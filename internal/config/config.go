package config

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"wordduel/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Match   MatchConfig
	Words   WordsConfig
	Store   StoreConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Host string
	Env  string // "development" or "production"
}

// MatchConfig holds the defaults applied to new matches
type MatchConfig struct {
	Rounds            int
	RoundSeconds      int
	CountdownSeconds  int
	InterRoundSeconds int
	StaleAfter        time.Duration
}

// WordsConfig locates the dictionary. An empty WordsFile selects the
// embedded word list and blocklist.
type WordsConfig struct {
	WordsFile     string
	BlocklistFile string
	CacheSize     int
}

// StoreConfig locates the match archive. An empty DBPath disables it.
type StoreConfig struct {
	DBPath string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "console"
}

// LoadDotEnv seeds the environment from .env files, if present. Variables
// already set win.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Match: MatchConfig{
			Rounds:            getEnvInt("MATCH_ROUNDS", 7),
			RoundSeconds:      getEnvInt("ROUND_SECONDS", 45),
			CountdownSeconds:  getEnvInt("COUNTDOWN_SECONDS", 3),
			InterRoundSeconds: getEnvInt("INTER_ROUND_SECONDS", 4),
			StaleAfter:        time.Duration(getEnvInt("STALE_MATCH_MINUTES", 120)) * time.Minute,
		},
		Words: WordsConfig{
			WordsFile:     getEnv("WORDS_FILE", ""),
			BlocklistFile: getEnv("BLOCKLIST_FILE", ""),
			CacheSize:     getEnvInt("WORD_CACHE_SIZE", 4096),
		},
		Store: StoreConfig{
			DBPath: getEnv("DB_PATH", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// MatchSettings returns the default settings for a new vs_bot match
func (c *Config) MatchSettings() domain.MatchSettings {
	s := domain.DefaultMatchSettings()
	s.TotalRounds = c.Match.Rounds
	s.RoundDuration = time.Duration(c.Match.RoundSeconds) * time.Second
	s.Countdown = time.Duration(c.Match.CountdownSeconds) * time.Second
	s.InterRound = time.Duration(c.Match.InterRoundSeconds) * time.Second
	return s
}

// NewLogger builds the process logger. Unknown levels fall back to info.
func (l LoggingConfig) NewLogger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(l.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if l.Format == "console" || l.Format == "text" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
