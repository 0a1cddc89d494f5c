package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the global logger instance
	Log = zap.NewNop()
)

// RequestIDKey is the key used to store request ID in the gin context
const RequestIDKey = "request_id"

type ctxKey string

const (
	requestIDCtxKey ctxKey = "request_id"
	userIDCtxKey    ctxKey = "user_id"
)

// Initialize sets up the logger with the specified environment
func Initialize(env string) {
	InitializeWithWriter(env, nil)
}

// InitializeWithWriter sets up the logger and tees JSON output into w when it is not nil.
func InitializeWithWriter(env string, w io.Writer) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if w == nil {
		l, err := config.Build()
		if err != nil {
			fmt.Printf("Failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
		Log = l
		return
	}

	level := zap.NewAtomicLevelAt(config.Level.Level())
	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(config.EncoderConfig), zapcore.AddSync(os.Stdout), level)

	// CloudWatch wants plain JSON lines without terminal colors.
	jsonConfig := config.EncoderConfig
	jsonConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	jsonCore := zapcore.NewCore(zapcore.NewJSONEncoder(jsonConfig), zapcore.AddSync(w), level)

	Log = zap.New(zapcore.NewTee(consoleCore, jsonCore), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// RequestID assigns every request an id, reusing X-Request-ID when the caller sent one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// Error logs an error with request ID and additional context
func Error(ctx context.Context, msg string, err error, fields ...zap.Field) {
	fields = append(contextFields(ctx), fields...)
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	Log.Error(msg, fields...)
}

// Info logs an info message with request ID and additional context
func Info(ctx context.Context, msg string, fields ...zap.Field) {
	Log.Info(msg, append(contextFields(ctx), fields...)...)
}

// Debug logs a debug message with request ID and additional context
func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	Log.Debug(msg, append(contextFields(ctx), fields...)...)
}

// Warn logs a warning message with request ID and additional context
func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	Log.Warn(msg, append(contextFields(ctx), fields...)...)
}

func contextFields(ctx context.Context) []zap.Field {
	fields := []zap.Field{zap.String("request_id", RequestIDFrom(ctx))}
	if userID := UserIDFrom(ctx); userID != "" {
		fields = append(fields, zap.String("user_id", userID))
	}
	return fields
}

// RequestIDFrom extracts the request ID from a gin or standard context.
func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if ginCtx, ok := ctx.(*gin.Context); ok {
		if id := ginCtx.GetString(RequestIDKey); id != "" {
			return id
		}
		ctx = ginCtx.Request.Context()
	}
	if id, ok := ctx.Value(requestIDCtxKey).(string); ok && id != "" {
		return id
	}
	return "unknown"
}

// UserIDFrom returns the user id stored by WithUserID, if any.
func UserIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if ginCtx, ok := ctx.(*gin.Context); ok {
		if ginCtx.Request == nil {
			return ""
		}
		ctx = ginCtx.Request.Context()
	}
	id, _ := ctx.Value(userIDCtxKey).(string)
	return id
}

// WithRequestID creates a new context with the given request ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey, requestID)
}

// WithUserID creates a new context carrying the authenticated user id
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}
