package tasks

import "context"

// ScheduledTaskFunc is the signature of every scheduled task. The context is
// cancelled when the scheduler shuts down.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the tasks keyed by the name used in
// scheduler.tasks configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		"sql_maintenance": newSQLMaintenanceTask(deps),
		"guard_report":    newGuardReportTask(deps),
	}
	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
