package logging

import "go.uber.org/zap"

// NewNopLogger discards everything. Used by tests and the CLI diagnostics.
func NewNopLogger() Logger {
	return &zapLogger{cfg: &LoggerConfig{}, logger: zap.NewNop().Sugar()}
}
