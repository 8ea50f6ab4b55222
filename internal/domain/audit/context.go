package audit

import (
	"context"

	"github.com/labstack/echo/v4"
)

type metaKey struct{}

// RequestMeta carries the caller's network details into audit entries.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// WithRequestMeta returns a context carrying the request metadata.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, metaKey{}, meta)
}

// MetaFromContext retrieves request metadata, if any.
func MetaFromContext(ctx context.Context) (RequestMeta, bool) {
	meta, ok := ctx.Value(metaKey{}).(RequestMeta)
	return meta, ok
}

// RequestMetaMiddleware captures the client IP and user agent on every
// request so services can stamp them onto audit entries.
func RequestMetaMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			meta := RequestMeta{
				IPAddress: c.RealIP(),
				UserAgent: c.Request().UserAgent(),
			}
			ctx := WithRequestMeta(c.Request().Context(), meta)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
