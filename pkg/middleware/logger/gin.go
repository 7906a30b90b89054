package logger

import (
	"time"

	"github.com/gin-gonic/gin"
)

// LogWithWriter writes one access log line per request.
func LogWithWriter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path
		if raw := ctx.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		ctx.Next()

		status := ctx.Writer.Status()
		latency := time.Since(start)
		switch {
		case status >= 500:
			Errorf(ctx, "%s %s %d %s %s", ctx.Request.Method, path, status, latency, ctx.Errors.String())
		case status >= 400:
			Warnf(ctx, "%s %s %d %s", ctx.Request.Method, path, status, latency)
		default:
			Infof(ctx, "%s %s %d %s", ctx.Request.Method, path, status, latency)
		}
	}
}
