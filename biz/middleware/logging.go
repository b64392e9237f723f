package middleware

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// Logging returns a middleware that logs request and response information.
func Logging() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()

		// Process request
		c.Next(ctx)

		// Calculate latency
		latency := time.Since(start)

		// Get request details
		method := string(c.Request.Method())
		path := string(c.Request.URI().Path())
		statusCode := c.Response.StatusCode()
		clientIP := c.ClientIP()
		bodySize := len(c.Response.Body())

		// Log the request. Body size matters here because media payloads
		// dominate the traffic.
		hlog.CtxInfof(ctx, "[%s] %s %s %d %dB %v",
			clientIP,
			method,
			path,
			statusCode,
			bodySize,
			latency,
		)
	}
}
