package diskusage

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// Counters tracks files and bytes seen so far. It is safe for concurrent use.
type Counters struct {
	files atomic.Int64
	bytes atomic.Int64
}

func (c *Counters) add(size uint64) {
	if c == nil {
		return
	}

	c.files.Add(1)
	c.bytes.Add(int64(size)) //nolint:gosec // File sizes fit in int64
}

// Load returns the current file and byte counts.
func (c *Counters) Load() (files, bytes int64) {
	return c.files.Load(), c.bytes.Load()
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx is done.
func startProgressReporter(ctx context.Context, c *Counters, hook func(int64, int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(c.Load())
			case <-ctx.Done():
				return
			}
		}
	}()
}
