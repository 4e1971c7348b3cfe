package logger

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const headerRequestID = "X-Request-ID"

var (
	global *zap.Logger = zap.NewNop()
	once   sync.Once
)

// Init builds the global logger. Call once at startup.
func Init(level string, development bool) {
	once.Do(func() {
		var cfg zap.Config
		if development {
			cfg = zap.NewDevelopmentConfig()
		} else {
			cfg = zap.NewProductionConfig()
		}
		cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
		l, err := cfg.Build(zap.AddCallerSkip(0))
		if err != nil {
			l = zap.NewNop()
		}
		global = l
	})
}

// L returns the global logger.
func L() *zap.Logger { return global }

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// GinMiddleware logs each completed request with a request id.
// The id is taken from X-Request-ID when the client sends one.
func GinMiddleware(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(headerRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Header(headerRequestID, reqID)
		c.Set("request_id", reqID)

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if uid, ok := c.Get("user_id"); ok {
			fields = append(fields, zap.Int64("user_id", uid.(int64)))
		}
		if len(c.Errors) > 0 {
			l.Error(c.Errors.String(), fields...)
			return
		}
		l.Info("request completed", fields...)
	}
}
