package relay

import (
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

// Client facing error strings. Wallet SDKs match on these, keep them stable.
const (
	ErrMsgInvalidRequest  = "Invalid request"
	ErrMsgNotSponsorable  = "Not a sponsorable operation"
	ErrMsgUpstream        = "Upstream paymaster error"
	ErrMsgMethodNotFound  = "Method not found"
	ErrMsgInvalidAddress  = "Invalid address"
	ErrMsgTooManyTokens   = "Too many addresses"
	ErrMsgMarketData      = "Failed to fetch market data"
	ErrMsgChainDisabled   = "Chain reads are not configured"
	ErrMsgNoHeadTag       = "No head tag found"
	ErrMsgMetadataPrefix  = "Failed to fetch metadata"
	ErrMsgMissingMetaPath = "Failed to fetch metadata: missing path"
)

// goSafe runs fn in a goroutine that reports panics to Sentry before re-panicking
func goSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				sentryRecover(r)
				panic(r)
			}
		}()
		fn()
	}()
}

// sentryRecover is a no-op when Sentry was never initialized
func sentryRecover(rec interface{}) {
	sentry.CurrentHub().Recover(rec)
}

// captureError reports err on the request hub when the Sentry middleware is installed
func captureError(c echo.Context, err error) {
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}

func sentryFlushSafely(timeout time.Duration) {
	_ = sentry.Flush(timeout)
}
