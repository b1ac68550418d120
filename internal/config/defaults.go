package config

import "time"

const (
	defaultStuckAfter    = 10 * time.Minute
	defaultMaxConcurrent = 16
)

var defaults = map[string]any{
	"gemini.model": "gemini-2.5-flash-lite",

	"dispatch.max_concurrent":           defaultMaxConcurrent,
	"dispatch.release_guard_on_failure": true,

	"db.path": "autoreply.db",

	"log.level":  "info",
	"log.format": "json",

	"scheduler.stuck_after":                    defaultStuckAfter,
	"scheduler.tasks.sql_maintenance.enabled":  true,
	"scheduler.tasks.sql_maintenance.schedule": "0 0 4 * * *",
	"scheduler.tasks.guard_report.enabled":     true,
	"scheduler.tasks.guard_report.schedule":    "0 */5 * * * *",

	"messages.welcome":         "👋 Autoreply is running. Send /help for the list of commands.",
	"messages.help":            "Commands:\n/trust <user_id> [note] - never auto-reply to this user\n/untrust <user_id> - remove a known contact\n/trusted - list known contacts\n/inflight - show senders currently being replied to\n/release <user_id> - clear a stuck reply guard",
	"messages.general_error":   "❌ An error occurred. Check the logs.",
	"messages.invalid_user_id": "⚠️ User ID must be a positive integer.",
	"messages.trust_usage":     "Usage: /trust <user_id> [note]",
	"messages.trust_done":      "✅ User %d is now a known contact.",
	"messages.untrust_usage":   "Usage: /untrust <user_id>",
	"messages.untrust_done":    "✅ User %d is no longer a known contact.",
	"messages.untrust_missing": "ℹ️ User is not a known contact.",
	"messages.no_contacts":     "No known contacts.",
	"messages.contacts_header": "Known contacts:\n\n",
	"messages.inflight_empty":  "No reply sequences in flight.",
	"messages.inflight_header": "In-flight senders:\n\n",
	"messages.release_usage":   "Usage: /release <user_id>",
	"messages.release_done":    "✅ Guard for user %d released.",
	"messages.release_missing": "ℹ️ No guard held for that user.",
}

// envBindings maps configuration keys to the environment variable names the
// deployment uses. Keys bound here are always visible to Unmarshal.
var envBindings = map[string]string{
	"telegram.token":                    "TELEGRAM_TOKEN",
	"telegram.admin_user_id":            "ADMIN_USER_ID",
	"gemini.api_key":                    "GEMINI_API_KEY",
	"gemini.model":                      "GEMINI_MODEL",
	"autoreply.trigger_keywords":        "TRIGGER_KEYWORDS",
	"autoreply.exclude_user_ids":        "EXCLUDE_USER_IDS",
	"responses.file":                    "RESPONSES_FILE",
	"dispatch.max_concurrent":           "DISPATCH_MAX_CONCURRENT",
	"dispatch.release_guard_on_failure": "DISPATCH_RELEASE_GUARD_ON_FAILURE",
	"db.path":                           "DB_PATH",
	"log.level":                         "LOG_LEVEL",
	"log.format":                        "LOG_FORMAT",
	"log.telegram_chat_id":              "LOG_TELEGRAM_CHAT_ID",
}
