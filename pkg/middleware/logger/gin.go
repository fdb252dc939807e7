package logger

import (
	"time"

	"github.com/gin-gonic/gin"
)

// LogWithWriter logs one line per request once the handler chain returns.
func LogWithWriter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path
		if raw := ctx.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		ctx.Next()

		status := ctx.Writer.Status()
		switch {
		case status >= 500:
			Errorf(ctx, "%s %s %d %s %s", ctx.Request.Method, path, status, time.Since(start), ctx.Errors.String())
		case status >= 400:
			Warnf(ctx, "%s %s %d %s", ctx.Request.Method, path, status, time.Since(start))
		default:
			Infof(ctx, "%s %s %d %s", ctx.Request.Method, path, status, time.Since(start))
		}
	}
}
