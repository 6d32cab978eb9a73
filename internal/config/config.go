// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/afossey/message-schema-plugin/pkg/message"
)

// DefaultMessageType is the generic message type whose GetString call
// sites are checked.
const DefaultMessageType = message.MessageTypeName

// Indexing and lookup defaults
const (
	DefaultScanWorkersValue    = 8
	DefaultSchemaCacheMaxItems = 128
	DefaultRefreshIntervalMs   = 5000
	DefaultMaxSuggestionsValue = 200
	DefaultWorkspaceDir        = "."
)

// Config holds all configuration for the checker, the indexer and the MCP server.
type Config struct {
	WorkspaceDir    string        // MSGSCHEMA_WORKSPACE, default "."
	SourceRoots     []string      // MSGSCHEMA_SOURCE_ROOTS, comma separated, default [WorkspaceDir]
	IndexFile       string        // MSGSCHEMA_INDEX_FILE, default "" (in memory only)
	MessageType     string        // MSGSCHEMA_MESSAGE_TYPE, default DefaultMessageType
	ScanWorkers     int           // SCAN_WORKERS, default 8
	SchemaCacheMax  int           // SCHEMA_CACHE_MAX_ITEMS, default 128
	RefreshInterval time.Duration // REFRESH_INTERVAL_MS, default 5000ms, 0 disables
	MaxSuggestions  int           // MAX_SUGGESTIONS, default 200

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 3
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	workspace := getEnvString("MSGSCHEMA_WORKSPACE", DefaultWorkspaceDir)
	return &Config{
		WorkspaceDir:    workspace,
		SourceRoots:     getEnvList("MSGSCHEMA_SOURCE_ROOTS", []string{workspace}),
		IndexFile:       getEnvString("MSGSCHEMA_INDEX_FILE", ""),
		MessageType:     getEnvString("MSGSCHEMA_MESSAGE_TYPE", DefaultMessageType),
		ScanWorkers:     getEnvInt("SCAN_WORKERS", DefaultScanWorkersValue),
		SchemaCacheMax:  getEnvInt("SCHEMA_CACHE_MAX_ITEMS", DefaultSchemaCacheMaxItems),
		RefreshInterval: getEnvDurationMs("REFRESH_INTERVAL_MS", DefaultRefreshIntervalMs),
		MaxSuggestions:  getEnvInt("MAX_SUGGESTIONS", DefaultMaxSuggestionsValue),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// ResolveRoots returns SourceRoots with relative entries joined to the
// workspace directory.
func (c *Config) ResolveRoots() []string {
	roots := make([]string, 0, len(c.SourceRoots))
	for _, r := range c.SourceRoots {
		if r == "" {
			continue
		}
		if !filepath.IsAbs(r) && r != c.WorkspaceDir {
			r = filepath.Join(c.WorkspaceDir, r)
		}
		roots = append(roots, r)
	}
	if len(roots) == 0 {
		roots = append(roots, c.WorkspaceDir)
	}
	return roots
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
