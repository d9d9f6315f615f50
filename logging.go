package controllable

import (
	"context"
	"log/slog"
	"time"
)

// EvaluatorLogEvent describes an initial-value expression evaluation.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Key      string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// WithEvaluatorLogger attaches an evaluator logger.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *containerConfig) {
		if logger == nil {
			cfg.evaluatorLogger = noopEvaluatorLogger{}
			return
		}
		cfg.evaluatorLogger = logger
	}
}

// UpdateLogEvent describes one dispatched update request.
type UpdateLogEvent struct {
	ContainerID string
	Key         string
	Kind        UpdateKind
	Controlled  bool
	Previous    any
	Next        any
	Notified    bool
	Err         error
	HookErr     error
}

// UpdateLogger records dispatcher events.
type UpdateLogger interface {
	LogUpdate(UpdateLogEvent)
}

// UpdateLoggerFunc adapts a function to UpdateLogger.
type UpdateLoggerFunc func(UpdateLogEvent)

// LogUpdate implements UpdateLogger.
func (f UpdateLoggerFunc) LogUpdate(event UpdateLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopUpdateLogger struct{}

func (noopUpdateLogger) LogUpdate(UpdateLogEvent) {}

// WithUpdateLogger attaches an update logger.
func WithUpdateLogger(logger UpdateLogger) Option {
	return func(cfg *containerConfig) {
		if logger == nil {
			cfg.updateLogger = noopUpdateLogger{}
			return
		}
		cfg.updateLogger = logger
	}
}

// SlogLogger emits update and evaluator events to a slog.Logger. Successful
// events are logged at debug level, failures at error level.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger creates a SlogLogger. A nil logger falls back to slog.Default.
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

// WithSlogLogger routes both update and evaluator events to logger.
func WithSlogLogger(logger *slog.Logger) Option {
	sl := NewSlogLogger(logger)
	return func(cfg *containerConfig) {
		cfg.updateLogger = sl
		cfg.evaluatorLogger = sl
	}
}

// LogUpdate implements UpdateLogger.
func (l *SlogLogger) LogUpdate(event UpdateLogEvent) {
	attrs := []slog.Attr{
		slog.String("container_id", event.ContainerID),
		slog.String("key", event.Key),
		slog.String("kind", event.Kind.String()),
		slog.Bool("controlled", event.Controlled),
	}
	if event.Notified {
		attrs = append(attrs, slog.Bool("notified", true))
	}
	level := slog.LevelDebug
	if event.Err != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.Any("error", event.Err))
	}
	if event.HookErr != nil {
		if level < slog.LevelWarn {
			level = slog.LevelWarn
		}
		attrs = append(attrs, slog.Any("hook_error", event.HookErr))
	}
	l.logger.LogAttrs(context.Background(), level, "controllable.update", attrs...)
}

// LogEvaluation implements EvaluatorLogger.
func (l *SlogLogger) LogEvaluation(event EvaluatorLogEvent) {
	attrs := []slog.Attr{
		slog.String("engine", event.Engine),
		slog.String("expr", event.Expr),
		slog.String("key", event.Key),
		slog.Duration("duration", event.Duration),
	}
	level := slog.LevelDebug
	if event.Err != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.Any("error", event.Err))
	}
	l.logger.LogAttrs(context.Background(), level, "controllable.evaluate", attrs...)
}
