package tessera

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// nopHandler is a slog.Handler that discards every record. Enabled reports
// false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger sets the logger tessera writes to. By default nothing is logged.
// Pass nil to restore silence.
//
// Levels used:
//   - [slog.LevelDebug]: per-frame draw statistics (debug mode only)
//   - [slog.LevelInfo]: lifecycle events such as focus changes and screen effects
//   - [slog.LevelWarn]: suspicious tree shapes and recovered failures
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// globalDebug mirrors the most recently set Instance debug flag so that tree
// operations, which have no Instance at hand, can check it cheaply.
var globalDebug bool

// debugStats holds per-frame draw metrics. Only reported when debug mode is on.
type debugStats struct {
	drawTime  time.Duration
	drawCount int
}

// frameDraws counts components redrawn since the last resetDrawCount.
var frameDraws int

func countDraw() { frameDraws++ }

func resetDrawCount() { frameDraws = 0 }

func (i *Instance) debugLog(stats debugStats) {
	if !i.debug {
		return
	}
	Logger().Debug("tessera: frame",
		"draw", stats.drawTime,
		"redrawn", stats.drawCount,
		"form", i.focus.Name)
}

// debugMaxChildCount is the child count above which a warning is logged.
const debugMaxChildCount = 1000

func debugCheckChildCount(f *Form) {
	if len(f.children) > debugMaxChildCount {
		Logger().Warn("tessera: form has many children",
			"form", f.Name, "children", len(f.children), "threshold", debugMaxChildCount)
	}
}

// debugMaxTreeDepth is the nesting depth above which a warning is logged.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(c *Component) {
	depth := 0
	for p := c.parent; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Logger().Warn("tessera: deep component tree",
			"component", c.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}
