package gles

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gles/gl"
)

// pkgLogger is read on every log call by Contexts created without
// WithLogger, so SetLogger reaches them immediately.
var pkgLogger atomic.Pointer[slog.Logger]

var discard = slog.New(slog.DiscardHandler)

func init() {
	pkgLogger.Store(discard)
}

// SetLogger sets the logger used by Contexts that have no WithLogger option,
// including those created earlier. Passing nil silences them again, which is
// the default.
//
// gles logs native binds, skipped binds and lazy binding loads at
// [slog.LevelDebug], context creation at [slog.LevelInfo], and cache
// mismatches and failed links at [slog.LevelWarn]:
//
//	gles.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = discard
	}
	pkgLogger.Store(l)
}

// Logger returns the logger set with SetLogger.
func Logger() *slog.Logger {
	return pkgLogger.Load()
}

func (c *Context) log() *slog.Logger {
	if c.opts.logger != nil {
		return c.opts.logger
	}
	return Logger()
}

// logSlot writes a record about slot s of kind k holding o. The attributes
// are only built when level is enabled, which keeps the bind path free of
// allocations under the default logger.
func (c *Context) logSlot(level slog.Level, msg string, k kind, s slot, o gl.Object, extra ...slog.Attr) {
	l := c.log()
	if !l.Enabled(context.Background(), level) {
		return
	}
	attrs := append(slotAttrs(k, s, o), extra...)
	l.LogAttrs(context.Background(), level, msg, attrs...)
}

func slotAttrs(k kind, s slot, o gl.Object) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("kind", k.String()),
		slog.String("target", s.target.String()),
	}
	if k == kindTexture || k == kindIndexedBuffer {
		attrs = append(attrs, slog.Int("index", s.index))
	}
	return append(attrs, slog.Uint64("handle", uint64(o)))
}
