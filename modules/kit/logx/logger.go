package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger is the minimal logging interface reused across services.
//
// Keep the API tiny: structured fields plus ctx propagation (trace/span)
// is all business code needs.
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	WithContext(ctx context.Context) Logger
}
