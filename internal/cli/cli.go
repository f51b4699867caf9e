// Package cli implements the edgebundle command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/edgebundle/pkg/cache"
	"github.com/matzehuels/edgebundle/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "edgebundle"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Cache backends selectable with --cache.
const (
	backendFile   = "file"
	backendMemory = "memory"
	backendRedis  = "redis"
	backendMongo  = "mongo"
	backendNone   = "none"
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// stdout receives command results (tables, TOML, paths).
	stdout io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		stdout: os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command results.
func (c *CLI) SetOutput(w io.Writer) {
	c.stdout = w
}

// =============================================================================
// Cache Factory
// =============================================================================

// cacheFlags selects and locates a cache backend.
type cacheFlags struct {
	backend   string
	redisURL  string
	mongoURI  string
	mongoDB   string
	namespace string
	entries   int
}

func (f *cacheFlags) keyer() cache.Keyer {
	if f.namespace == "" {
		return nil
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), f.namespace+":")
}

// open connects to the selected backend.
func (f *cacheFlags) open(ctx context.Context) (cache.Cache, error) {
	switch f.backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendMemory:
		return cache.NewMemoryCache(f.entries), nil
	case backendFile:
		dir, err := cacheDir()
		if err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
		return cache.NewFileCache(dir)
	case backendRedis:
		if f.redisURL == "" {
			return nil, fmt.Errorf("--redis-url is required for the redis cache")
		}
		return cache.NewRedisCache(ctx, f.redisURL, cache.DefaultRedisPrefix)
	case backendMongo:
		if f.mongoURI == "" {
			return nil, fmt.Errorf("--mongo-uri is required for the mongo cache")
		}
		return cache.NewMongoCache(ctx, f.mongoURI, f.mongoDB, cache.DefaultMongoCollection)
	}
	return nil, fmt.Errorf("unknown cache backend %q (file, memory, redis, mongo, none)", f.backend)
}

// newRunner creates a pipeline runner for the selected cache.
func (c *CLI) newRunner(ctx context.Context, f *cacheFlags) (*pipeline.Runner, error) {
	store, err := f.open(ctx)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("cache ready", "backend", f.backend)
	return pipeline.NewRunner(store, f.keyer(), c.Logger), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/edgebundle/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
