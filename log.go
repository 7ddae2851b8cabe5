package boxfit

import (
	"log/slog"
	"os"
	"strings"
)

// LogLevelEnv names the environment variable that sets the level of the
// default logger: "debug", "info", "warn" (default) or "error".
const LogLevelEnv = "BOXFIT_LOG_LEVEL"

// newDefaultLogger writes text records to stderr at the level taken from
// LogLevelEnv.
func newDefaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: levelFromEnv(os.Getenv(LogLevelEnv)),
	}))
}

func levelFromEnv(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
