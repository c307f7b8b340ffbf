package app

import (
	"context"
	"time"
)

const (
	defaultSyncInterval = 5 * time.Minute
	maxBackoff          = 30 * time.Minute
)

// StartPoller launches a background goroutine that syncs every server at a
// fixed cadence. While every registered server keeps failing the delay
// doubles up to maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, stores *Stores, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	go func() {
		failures := 0
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			if refresh(ctx, stores) {
				failures = 0
			} else {
				failures++
			}
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

// refresh syncs every server and reports whether at least one is reachable.
// An empty registry counts as healthy.
func refresh(ctx context.Context, stores *Stores) bool {
	ids := stores.Servers.IDs()
	if len(ids) == 0 {
		return true
	}
	stores.SyncAll(ctx)

	for _, id := range ids {
		st, ok := stores.Library.Status(id)
		if ok && st.ConsecutiveFailures == 0 {
			return true
		}
	}
	stores.log.Warn().Int("servers", len(ids)).Msg("no server reachable")
	return false
}

// calculateBackoff doubles interval per consecutive failure, capped at
// maxBackoff. An interval above the cap is used unchanged.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 || interval >= maxBackoff {
		return interval
	}
	d := interval
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
