package config

import "log/slog"

// Logger is our contract for the logger
type Logger interface {
	Warn(msg string, fields ...slog.Attr)
}
