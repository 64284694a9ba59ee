package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level defines the logging level for the application
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format defines the output format for the logger
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// RedactedValue replaces the value of any attribute whose key looks sensitive
const RedactedValue = "[REDACTED]"

// sensitiveKeys are matched against lowercased attribute keys
var sensitiveKeys = []string{"password", "secret", "token", "key", "credential"}

// SlogConfig holds all the configuration for the application logger (slog)
type SlogConfig struct {
	Level     Level     // Level is the minimum level of logs to be written
	Format    Format    // Format specifies the output format (e.g., "json" or "text")
	AddSource bool      // AddSource determines whether to include the source code file and line number in the log output
	Writer    io.Writer // Writer is the destination for the logs. Defaults to os.Stdout if nil
}

// ParseLevel maps a textual level onto slog, falling back to info
func ParseLevel(l Level) slog.Level {
	switch strings.ToLower(string(l)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewSlogConfig creates a new slog.Logger based on the provided configuration.
// Attributes with sensitive keys (passwords, issued keys) are always redacted
func NewSlogConfig(cfg SlogConfig) *slog.Logger {
	writer := cfg.Writer
	if writer == nil {
		writer = os.Stdout
	}

	opts := slog.HandlerOptions{
		AddSource:   cfg.AddSource,
		Level:       ParseLevel(cfg.Level),
		ReplaceAttr: redact,
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatText:
		handler = slog.NewTextHandler(writer, &opts)
	default:
		handler = slog.NewJSONHandler(writer, &opts)
	}

	return slog.New(handler)
}

// redact hides the value of string attributes whose key names a secret.
// The built-in time/level/msg/source keys are never touched
func redact(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 {
		switch a.Key {
		case slog.TimeKey, slog.LevelKey, slog.MessageKey, slog.SourceKey:
			return a
		}
	}

	if !IsSensitiveKey(a.Key) {
		return a
	}

	if a.Value.Kind() == slog.KindString && a.Value.String() == "" {
		return a
	}

	return slog.String(a.Key, RedactedValue)
}

// IsSensitiveKey reports whether an attribute key should never be logged in clear
func IsSensitiveKey(k string) bool {
	k = strings.ToLower(k)
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}
