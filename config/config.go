package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"savings-ledger/logger"
)

const (
	defaultDataDir  = "data"
	defaultLogName  = "ledger.log"
	defaultLogLevel = "info"
)

type Config struct {
	DataDir  string
	LogFile  string // empty means <DataDir>/ledger.log, "-" means stderr
	LogLevel string
	Debug    bool
}

func Default() Config {
	return Config{
		DataDir:  defaultDataDir,
		LogLevel: defaultLogLevel,
	}
}

// Normalize trims values and fills in defaults derived from other fields.
func (c Config) Normalize() Config {
	c.DataDir = strings.TrimSpace(c.DataDir)
	if c.DataDir == "" {
		c.DataDir = defaultDataDir
	}
	c.DataDir = filepath.Clean(c.DataDir)

	c.LogFile = strings.TrimSpace(c.LogFile)
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, defaultLogName)
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	return c
}

func (c Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("data directory is required"))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFile != logger.Stderr && filepath.Clean(c.LogFile) == c.DataDir {
		errs = append(errs, fmt.Errorf("log file %q cannot be the data directory", c.LogFile))
	}
	return errors.Join(errs...)
}

func (c Config) Level() zerolog.Level {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
