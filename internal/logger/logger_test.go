package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

// NewLogger replaces the slog default, so these tests are not parallel.
func TestNewLoggerJSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	log := NewLogger(Options{Level: "warn", Format: "json", Output: &buf})

	log.Info("hidden")
	log.Warn("shown", "sender_id", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"sender_id":42`) {
		t.Errorf("unexpected JSON output: %s", out)
	}
	if slog.Default() != log {
		t.Error("NewLogger did not install the default logger")
	}
}

func TestNewLoggerText(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	log := NewLogger(Options{Level: "debug", Format: "text", Output: &buf})
	log.Debug("console line")

	if !strings.Contains(buf.String(), "console line") {
		t.Errorf("text output missing record: %q", buf.String())
	}
	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("text format produced JSON: %q", buf.String())
	}
}

func TestForwardToTelegram(t *testing.T) {
	t.Parallel()

	record := func(level slog.Level, attrs ...slog.Attr) slog.Record {
		r := slog.NewRecord(time.Now(), level, "msg", 0)
		r.AddAttrs(attrs...)
		return r
	}

	tests := []struct {
		name string
		r    slog.Record
		want bool
	}{
		{name: "error", r: record(slog.LevelError), want: true},
		{name: "warn", r: record(slog.LevelWarn), want: false},
		{name: "tagged warn", r: record(slog.LevelWarn, slog.Bool(TelegramAttr, true)), want: true},
		{name: "info with other attrs", r: record(slog.LevelInfo, slog.Int("sender_id", 1)), want: false},
	}
	for _, tt := range tests {
		if got := forwardToTelegram(context.Background(), tt.r); got != tt.want {
			t.Errorf("%s: forwardToTelegram() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		update   *models.Update
		wantType string
	}{
		{
			name: "private message",
			update: &models.Update{ID: 1, Message: &models.Message{
				ID: 10, Chat: models.Chat{ID: 5}, From: &models.User{ID: 5}, Text: "hello",
			}},
			wantType: "message",
		},
		{
			name: "business message",
			update: &models.Update{ID: 2, BusinessMessage: &models.Message{
				ID: 11, Chat: models.Chat{ID: 6}, From: &models.User{ID: 6}, Text: "job offer",
			}},
			wantType: "business_message",
		},
		{name: "other", update: &models.Update{ID: 3}, wantType: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			called := false
			handler := Middleware(log)(func(context.Context, *bot.Bot, *models.Update) { called = true })
			handler(context.Background(), nil, tt.update)

			if !called {
				t.Fatal("next handler not called")
			}
			if !strings.Contains(buf.String(), `"update_type":"`+tt.wantType+`"`) {
				t.Errorf("log output missing update_type %q: %s", tt.wantType, buf.String())
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		max  int
		want string
	}{
		{in: "short", max: 10, want: "short"},
		{in: "exactly10!", max: 10, want: "exactly10!"},
		{in: "hello world", max: 8, want: "hello..."},
		{in: "ёжики в тумане", max: 5, want: "ёж..."},
		{in: "abc", max: 2, want: "..."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
