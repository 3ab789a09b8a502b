package gles

import "fmt"

type counters struct {
	binds         uint64
	skipped       uint64
	queries       uint64
	evictions     uint64
	invalidations uint64
	mismatches    uint64
	created       uint64
	deleted       uint64
}

// Stats reports binding cache activity of a Context.
type Stats struct {
	// Backend is the name given with WithBackendName.
	Backend string

	// BindsIssued is the number of native bind calls made.
	BindsIssued uint64

	// BindsSkipped is the number of binds answered from the cache.
	BindsSkipped uint64

	// Queries is the number of native binding queries made.
	Queries uint64

	// Evictions is the number of native unbinds issued to keep a buffer
	// bound to a single target.
	Evictions uint64

	// Invalidations is the number of cache entries dropped, e.g. the element
	// array binding on a vertex array switch.
	Invalidations uint64

	// Mismatches is the number of cached bindings found stale by
	// WithCoherencyCheck.
	Mismatches uint64

	// Created and Deleted count native objects over the Context lifetime.
	Created uint64
	Deleted uint64

	// Live resources per kind.
	Buffers       int
	Textures      int
	Framebuffers  int
	Renderbuffers int
	Programs      int
	VertexArrays  int
}

// HitRate is the share of binds answered from the cache, 0.0 to 1.0.
func (s Stats) HitRate() float64 {
	total := s.BindsIssued + s.BindsSkipped
	if total == 0 {
		return 0
	}
	return float64(s.BindsSkipped) / float64(total)
}

// Live returns the total number of live resources.
func (s Stats) Live() int {
	return s.Buffers + s.Textures + s.Framebuffers + s.Renderbuffers + s.Programs + s.VertexArrays
}

// String returns a human-readable summary.
func (s Stats) String() string {
	return fmt.Sprintf("Bindings[%s: %d issued, %d skipped (%.1f%% hit), %d queries, %d evictions, %d live]",
		s.Backend,
		s.BindsIssued,
		s.BindsSkipped,
		s.HitRate()*100,
		s.Queries,
		s.Evictions,
		s.Live(),
	)
}

// Stats returns a snapshot of the Context's counters.
func (c *Context) Stats() Stats {
	c.lock()
	defer c.unlock()
	return Stats{
		Backend:       c.opts.backend,
		BindsIssued:   c.stats.binds,
		BindsSkipped:  c.stats.skipped,
		Queries:       c.stats.queries,
		Evictions:     c.stats.evictions,
		Invalidations: c.stats.invalidations,
		Mismatches:    c.stats.mismatches,
		Created:       c.stats.created,
		Deleted:       c.stats.deleted,
		Buffers:       c.live[kindBuffer],
		Textures:      c.live[kindTexture],
		Framebuffers:  c.live[kindFramebuffer],
		Renderbuffers: c.live[kindRenderbuffer],
		Programs:      c.live[kindProgram],
		VertexArrays:  c.live[kindVertexArray],
	}
}

// ResetStats zeroes the activity counters. Live counts are kept.
func (c *Context) ResetStats() {
	c.lock()
	defer c.unlock()
	c.stats = counters{}
}
