package utility

import (
	"net"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewIPExtractor decides how the client IP is resolved. Without trusted
// proxies the remote address is used as is, so a client cannot pick its own
// identity through headers. Behind trusted proxies X-Forwarded-For is walked
// from the right until the first untrusted hop.
func NewIPExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, ipNet := range trusted {
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// Logger returns the request-scoped logger set by the server middleware,
// falling back to the global logger.
func Logger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get("logger").(*zerolog.Logger); ok && l != nil {
		return l
	}
	l := log.Logger
	return &l
}
