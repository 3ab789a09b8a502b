package gles

import "log/slog"

// Option configures a Context during creation.
//
// Example:
//
//	// Single-goroutine context, silent
//	c := gles.NewContext(api)
//
//	// Shared between goroutines, with diagnostics
//	c := gles.NewContext(api, gles.WithLocking(), gles.WithCoherencyCheck())
type Option func(*options)

// defaultUniformCacheLimit is the per-program uniform location cache size.
const defaultUniformCacheLimit = 64

type options struct {
	logger       *slog.Logger
	locking      bool
	check        bool
	passThrough  bool
	errorCheck   bool
	uniformLimit int
	backend      string
}

func defaultOptions() options {
	return options{
		uniformLimit: defaultUniformCacheLimit,
		backend:      "unknown",
	}
}

// WithLogger sets the logger for the Context, overriding the package
// logger set with SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithLocking serializes every operation on the Context with a mutex.
// Without it a Context must be confined to one goroutine.
//
// The lock is not held while the function passed to With runs, so the
// function may use the Context freely.
func WithLocking() Option {
	return func(o *options) {
		o.locking = true
	}
}

// WithCoherencyCheck cross-checks every cached binding read against the
// native query. Mismatches are logged at warn level and the native value
// replaces the cached one. Every read then costs a native query, so this is
// for debugging only.
func WithCoherencyCheck() Option {
	return func(o *options) {
		o.check = true
	}
}

// WithoutCache issues every bind natively, even when the cache shows the
// object already bound. The cache is still maintained so scoped binds
// restore correctly. Useful for measuring what the cache saves.
func WithoutCache() Option {
	return func(o *options) {
		o.passThrough = true
	}
}

// WithErrorCheck reads GetError after every data, upload and attachment
// call. A non-zero code is returned as a *NativeError and the resource's
// shadow state is left unchanged.
func WithErrorCheck() Option {
	return func(o *options) {
		o.errorCheck = true
	}
}

// WithUniformCacheLimit sets the soft limit of each program's uniform
// location cache. Values <= 0 select the default (64).
func WithUniformCacheLimit(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = defaultUniformCacheLimit
		}
		o.uniformLimit = n
	}
}

// WithBackendName labels the Context in log output and Stats.
func WithBackendName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.backend = name
		}
	}
}
