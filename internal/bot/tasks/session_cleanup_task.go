package tasks

import (
	"context"
)

// newSessionCleanupTask creates the task that drops expired quick-reply and
// compose sessions from the in-memory tracker.
func newSessionCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "session_cleanup")

	return func(ctx context.Context) error {
		removed := deps.Sessions.ExpireStale()
		if removed > 0 {
			log.InfoContext(ctx, "Expired stale sessions", "count", removed)
		}
		return nil
	}
}
