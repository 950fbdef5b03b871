package extract

import (
	"sync"
	"time"

	"github.com/starford/apiops/internal/index"
)

// Report summarizes one extraction run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	mu        sync.Mutex
	created   int
	updated   int
	unchanged int
	// Stale lists artifacts recorded by earlier runs that this run did not
	// write. Only filled when an index is configured and the run succeeded.
	Stale []string
}

func (r *Report) count(c index.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch c {
	case index.Created:
		r.created++
	case index.Updated:
		r.updated++
	case index.Unchanged:
		r.unchanged++
	}
}

// Counts returns how many written artifacts were new, changed or identical.
func (r *Report) Counts() (created, updated, unchanged int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created, r.updated, r.unchanged
}

// Written returns the number of artifacts written.
func (r *Report) Written() int {
	c, u, n := r.Counts()
	return c + u + n
}
