package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for structured logging. Use these constants instead
// of raw strings.
const (
	// Components
	FieldComponent = "component"
	FieldEngine    = "engine"

	// Transformation
	FieldRecord    = "record"
	FieldField     = "field"
	FieldStage     = "stage"
	FieldDependent = "dependent"

	// Files
	FieldFile   = "file"
	FieldOutput = "output"
	FieldLine   = "line"

	// Counts and timing
	FieldItems    = "items"
	FieldFailed   = "failed"
	FieldDuration = "duration_ms"

	// Errors
	FieldError = "error"
)

type contextKey string

const (
	fileKey      contextKey = "logger_file"
	componentKey contextKey = "logger_component"
)

// WithFile adds the file being processed to the context for logging
func WithFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, fileKey, path)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context as key-value pairs
// suitable for Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}
	if file, ok := ctx.Value(fileKey).(string); ok && file != "" {
		fields = append(fields, FieldFile, file)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}
	return fields
}

// LoggerFromContext returns the global logger with the context's fields.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	t := &Transformer{log: logger.ComponentLogger("dismantle")}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
