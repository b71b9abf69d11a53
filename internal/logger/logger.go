// Package logger holds the process-wide structured logger.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for consistent structured logging.
const (
	FieldRequestID  = "request_id"
	FieldQueryID    = "query_id"
	FieldComponent  = "component"
	FieldBackend    = "backend"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldQuery      = "query"
	FieldTokens     = "tokens"
	FieldCount      = "count"
	FieldCandidates = "candidates"
	FieldTopScore   = "top_score"
	FieldDurationMS = "duration_ms"
	FieldError      = "error"
	FieldAddress    = "address"
)

// Logger is the global logger instance.
var Logger *zap.SugaredLogger

func init() {
	// Safe no-op logger until Initialize is called
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger. JSON output uses the production
// encoder; otherwise a human-readable console encoder is used.
func Initialize(jsonOutput bool, level string) error {
	atomicLevel, err := parseLevel(level)
	if err != nil {
		return err
	}

	var config zap.Config
	if jsonOutput {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	}
	config.Level = atomicLevel

	zapLogger, err := config.Build()
	if err != nil {
		return err
	}

	Logger = zapLogger.Sugar()
	return nil
}

// Named returns a child logger tagged with a component name.
func Named(component string) *zap.SugaredLogger {
	return Logger.With(FieldComponent, component)
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Logger.Sync()
}

func parseLevel(level string) (zap.AtomicLevel, error) {
	if strings.TrimSpace(level) == "" {
		return zap.NewAtomicLevelAt(zap.InfoLevel), nil
	}
	return zap.ParseAtomicLevel(strings.ToLower(level))
}
