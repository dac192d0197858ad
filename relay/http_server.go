package relay

import (
	"net/http"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// apiBodyLimit bounds request bodies on /api, a paymaster request is a single user operation
const apiBodyLimit = "64K"

type HttpJsonResp[T any] struct {
	Data T `json:"data"`
}

func (r *Relay) newHttpServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())

	// Register Sentry before Recover so panics are reported
	if r.config != nil && r.config.SentryDsn != "" {
		e.Use(sentryecho.New(sentryecho.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	e.GET("/up", func(c echo.Context) error {
		if r.Status() == runningStatus {
			return c.String(http.StatusOK, "up")
		}

		return c.String(http.StatusServiceUnavailable, "pending...")
	})

	if r.registry != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))
	}

	api := e.Group("/api", middleware.BodyLimit(apiBodyLimit))
	api.POST("/paymaster", r.handlePaymaster)
	api.GET("/tokens/dex", r.handleTokensMarket)
	api.GET("/tokens/:address/dex", r.handleTokenDex)
	api.GET("/tokens/:address/pool", r.handleTokenPool)
	api.GET("/accounts/:address/memecoins", r.handleAccountMemecoins)
	api.GET("/leaderboard", r.handleLeaderboard)
	api.GET("/eth/price", r.handleEthPrice)
	api.GET("/metadata", r.handleMetadata)

	return e
}
