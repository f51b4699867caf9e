package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a structured logger at debug level, with
// failures at warn. It implements BundleHooks, CacheHooks and HTTPHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l}
}

func (h *LogHooks) OnBundleStart(_ context.Context, edges int) {
	h.logger.Debug("bundle start", "edges", edges)
}

func (h *LogHooks) OnBundleComplete(_ context.Context, edges, rows int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("bundle failed", "edges", edges, "elapsed", d, "err", err)
		return
	}
	h.logger.Debug("bundle complete", "edges", edges, "rows", rows, "elapsed", d)
}

func (h *LogHooks) OnCompatibility(_ context.Context, pairs, candidates, compatible int) {
	h.logger.Debug("compatibility", "pairs", pairs, "candidates", candidates, "compatible", compatible)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnCacheError(_ context.Context, keyType, op string, err error) {
	h.logger.Warn("cache error", "type", keyType, "op", op, "err", err)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "elapsed", d)
}

var (
	_ BundleHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ HTTPHooks   = (*LogHooks)(nil)
)
