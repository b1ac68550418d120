package tasks

import (
	"context"
	"time"

	"github.com/edgard/autoreply/internal/logger"
)

// newGuardReportTask warns about senders whose guard has been held longer
// than scheduler.stuck_after. Such guards are usually left behind by a failed
// send and block the sender until /release.
func newGuardReportTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "guard_report")

	return func(ctx context.Context) error {
		stuckAfter := deps.Config.Scheduler.StuckAfter
		stale := deps.Guard.Stale(stuckAfter)
		log.DebugContext(ctx, "Guard report", "held", deps.Guard.Len(), "stale", len(stale))

		for _, e := range stale {
			log.WarnContext(ctx, "Reply guard held too long",
				"sender_id", e.SenderID,
				"state", e.State.String(),
				"held_for", time.Since(e.Since).Round(time.Second).String(),
				logger.TelegramAttr, true,
			)
		}
		return nil
	}
}
