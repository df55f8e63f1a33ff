package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

type Config struct {
	CollabURL   string `env:"COLLAB_URL,default=redis://localhost:6379"`
	CollabRoom  string `env:"COLLAB_ROOM,default=chatroom"`
	CollabToken string `env:"COLLAB_TOKEN"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFile     string `env:"LOG_FILE,default=groupchat.log"`
}

// Load reads an optional .env file, then the environment. Variables already
// set in the environment win over the file.
func Load(dotenv string) (*Config, error) {
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", dotenv, err)
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if cfg.CollabRoom == "" {
		return nil, errors.New("COLLAB_ROOM must not be empty")
	}
	return &cfg, nil
}

// Logger builds the slog logger described by the config. The returned closer
// releases the log file.
func (c *Config) Logger() (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return nil, nil, fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
	}

	if c.LogFile == "" || c.LogFile == "-" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}
