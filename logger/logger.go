package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// SlogLogger is a structured JSON logger on top of log/slog.
type SlogLogger struct {
	logger *slog.Logger
}

// New creates a logger from configuration.
func New(cfg Configuration) (*SlogLogger, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	handler := slog.NewJSONHandler(cfg.Writer, &slog.HandlerOptions{
		Level:     convertLevel(cfg.Level),
		AddSource: true,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, time.Now().Format(cfg.TimeFormat))
			}
			return a
		},
	})

	return &SlogLogger{logger: slog.New(handler)}, nil
}

// NewDefault creates an INFO-level logger writing JSON to stdout.
func NewDefault() *SlogLogger {
	log, err := New(Configuration{
		Writer:     os.Stdout,
		TimeFormat: time.RFC3339Nano,
		Level:      INFO_LEVEL,
	})
	if err != nil {
		// Defaults are static, New cannot fail on them.
		panic(err)
	}

	return log
}

func (cfg *Configuration) validate() error {
	if cfg.Writer == nil {
		return ErrNilWriter
	}
	if cfg.Level < ERROR_LEVEL || cfg.Level > DEBUG_LEVEL {
		return ErrInvalidLogLevel
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339Nano
	}
	return nil
}

func (log *SlogLogger) Close() error {
	return nil
}

// convertLevel converts our log level to slog level
func convertLevel(level int) slog.Level {
	switch level {
	case ERROR_LEVEL:
		return slog.LevelError
	case WARN_LEVEL:
		return slog.LevelWarn
	case INFO_LEVEL:
		return slog.LevelInfo
	case DEBUG_LEVEL:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// logWithContext enriches fields with the active trace/span before logging.
func (log *SlogLogger) logWithContext(ctx context.Context, level slog.Level, msg string, fields ...slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}

	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		fields = append(fields,
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}

	log.logger.LogAttrs(ctx, level, msg, fields...)
}
