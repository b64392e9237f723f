package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/pressio/mediahub/pkg/common"
)

// Auth returns a middleware that extracts user information from request headers
// and adds it to the context. This middleware does NOT enforce authentication,
// it only enriches the context with user info if present.
func Auth() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if userHeader := c.GetHeader("X-User-Id"); len(userHeader) > 0 {
			ctx = common.ContextWithActor(ctx, string(userHeader))
		}
		c.Next(ctx)
	}
}
