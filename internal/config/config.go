// Package config provides configuration management for the ClipTrim agent.
// Configuration is loaded from a .env file (if present) and environment
// variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// Default values
	DefaultPort     = 50123
	DefaultLogLevel = "info"

	// Environment variable names
	EnvPort          = "CLIPTRIM_PORT"
	EnvLogLevel      = "CLIPTRIM_LOG_LEVEL"
	EnvWorkingFolder = "CLIPTRIM_WORKING_FOLDER"
	EnvHeadless      = "CLIPTRIM_HEADLESS"
	EnvFFmpegPath    = "CLIPTRIM_FFMPEG"
	EnvFFprobePath   = "CLIPTRIM_FFPROBE"

	// Working folder layout
	InDirName     = "IN"
	OutDirName    = "OUT"
	BackupDirName = "BACKUP"
	DataDirName   = ".cliptrim"

	// Database and log filenames inside the data dir
	DBFilename  = "cliptrim.db"
	LogFilename = "cliptrim.log"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	WorkingFolder() string
	InDir() string
	OutDir() string
	BackupDir() string
	DataDir() string
	DBPath() string
	LogPath() string
	Headless() bool
	FFmpegPath() string
	FFprobePath() string
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port          int
	logLevel      string
	workingFolder string
	headless      bool
	ffmpegPath    string
	ffprobePath   string
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	// Optional .env in the current directory; absence is not an error.
	_ = godotenv.Load()

	cfg := &EnvConfig{
		port:        DefaultPort,
		logLevel:    DefaultLogLevel,
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if wf := os.Getenv(EnvWorkingFolder); wf != "" {
		abs, err := filepath.Abs(wf)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvWorkingFolder, err)
		}
		cfg.workingFolder = abs
	} else {
		cfg.workingFolder = defaultWorkingFolder()
	}

	if h := os.Getenv(EnvHeadless); h != "" {
		headless, err := strconv.ParseBool(h)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHeadless, err)
		}
		cfg.headless = headless
	}

	if f := os.Getenv(EnvFFmpegPath); f != "" {
		cfg.ffmpegPath = f
	}
	if f := os.Getenv(EnvFFprobePath); f != "" {
		cfg.ffprobePath = f
	}

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// WorkingFolder returns the root of the operator's working folder
func (c *EnvConfig) WorkingFolder() string {
	return c.workingFolder
}

// InDir returns the folder scanned for incoming clips
func (c *EnvConfig) InDir() string {
	return filepath.Join(c.workingFolder, InDirName)
}

// OutDir returns the folder exported segments are written to
func (c *EnvConfig) OutDir() string {
	return filepath.Join(c.workingFolder, OutDirName)
}

// BackupDir returns the folder opened clips are moved into
func (c *EnvConfig) BackupDir() string {
	return filepath.Join(c.workingFolder, BackupDirName)
}

// DataDir returns the hidden data directory inside the working folder
func (c *EnvConfig) DataDir() string {
	return filepath.Join(c.workingFolder, DataDirName)
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.DataDir(), DBFilename)
}

// LogPath returns the full path to the agent log file
func (c *EnvConfig) LogPath() string {
	return filepath.Join(c.DataDir(), LogFilename)
}

// Headless reports whether tray and TUI should be suppressed
func (c *EnvConfig) Headless() bool {
	return c.headless
}

func (c *EnvConfig) FFmpegPath() string {
	return c.ffmpegPath
}

func (c *EnvConfig) FFprobePath() string {
	return c.ffprobePath
}

// EnsureDirs creates the working folder layout if it does not exist.
func (c *EnvConfig) EnsureDirs() error {
	for _, dir := range []string{c.InDir(), c.OutDir(), c.BackupDir(), c.DataDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

func defaultWorkingFolder() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cliptrim"
	}
	return filepath.Join(home, "ClipTrim")
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
