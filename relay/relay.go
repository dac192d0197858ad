package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	sdklogging "github.com/Layr-Labs/eigensdk-go/logging"

	"github.com/FomoFactory/fomo-relay/core/chainio/aa"
	"github.com/FomoFactory/fomo-relay/core/chainio/fomo"
	"github.com/FomoFactory/fomo-relay/core/config"
	"github.com/FomoFactory/fomo-relay/core/sponsorship"
	"github.com/FomoFactory/fomo-relay/metrics"
	"github.com/FomoFactory/fomo-relay/pkg/erc4337/userop"
	"github.com/FomoFactory/fomo-relay/pkg/erc7677"
	"github.com/FomoFactory/fomo-relay/pkg/market"
	"github.com/FomoFactory/fomo-relay/version"
)

const (
	shutdownTimeout = 10 * time.Second
	uptimeInterval  = 10 * time.Second
)

type RelayStatus string

const (
	initStatus     RelayStatus = "init"
	runningStatus  RelayStatus = "running"
	shutdownStatus RelayStatus = "shutdown"
)

func RunWithConfig(configPath string) error {
	relayConfig, err := config.NewConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to parse config file %s, make sure it exists and is valid yaml: %w", configPath, err)
	}

	r, err := NewRelay(relayConfig)
	if err != nil {
		return fmt.Errorf("cannot initialize relay from config: %w", err)
	}

	return r.Start(context.Background())
}

// Relay fronts the upstream paymaster with the sponsorship policy and serves the market data
// endpoints of the web client.
type Relay struct {
	logger sdklogging.Logger
	config *config.Config

	evaluator Evaluator
	paymaster PaymasterClient
	market    MarketService

	registry *prometheus.Registry
	metrics  metrics.MetricsGenerator

	ethClient *ethclient.Client

	statusMu sync.RWMutex
	status   RelayStatus
}

// Evaluator decides sponsorship, implemented by sponsorship.Evaluator
type Evaluator interface {
	Decide(ctx context.Context, chainID *big.Int, entryPoint common.Address, op *userop.UserOperation) sponsorship.Decision
}

type PaymasterClient interface {
	Call(ctx context.Context, method string, userOp json.RawMessage, entryPoint common.Address, chainID *big.Int, paymasterContext json.RawMessage) (json.RawMessage, error)
}

type MarketService interface {
	TokenDex(ctx context.Context, token common.Address) (*market.DexAggregate, error)
	TokensMarket(ctx context.Context, tokens []common.Address) ([]*market.TokenMarket, error)
	Leaderboard(ctx context.Context) ([]*market.LeaderboardEntry, error)
	FrameMetadata(ctx context.Context, path string) (string, error)
	AccountMemecoins(ctx context.Context, account common.Address) ([]common.Address, error)
	TokenPool(ctx context.Context, token common.Address) (*market.PoolInfo, error)
	EthPrice(ctx context.Context) (*market.EthPrice, error)
}

// NewRelay creates a Relay with the provided config. The chain client is optional: without
// eth_rpc_url the account gate and on-chain market reads are disabled.
func NewRelay(c *config.Config) (*Relay, error) {
	var ethClient *ethclient.Client
	if c.EthRpcUrl != "" {
		client, err := ethclient.Dial(c.EthRpcUrl)
		if err != nil {
			c.Logger.Error("Cannot create http ethclient", "err", err)
			return nil, err
		}
		ethClient = client
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	relayMetrics := metrics.NewRelayMetrics(registry)

	var verifierClient aa.CodeStorageReader
	if ethClient != nil {
		verifierClient = ethClient
	}
	evaluator, err := NewEvaluatorFromConfig(c, verifierClient)
	if err != nil {
		return nil, err
	}

	paymaster, err := erc7677.NewClient(c.PaymasterServiceUrl, c.PaymasterTimeout)
	if err != nil {
		return nil, err
	}

	var reader market.ChainReader
	if ethClient != nil {
		fomoReader, err := fomo.NewReader(ethClient, fomo.Contracts{
			Factory:         c.Contracts.FomoFactory,
			Locker:          c.Contracts.LiquidityLocker,
			Weth:            c.Contracts.Weth,
			Multicall:       c.Contracts.Multicall,
			PositionManager: c.Contracts.PositionManager,
			EthUsdFeed:      c.Contracts.EthUsdAggregator,
		})
		if err != nil {
			return nil, err
		}
		reader = fomoReader
	}

	marketService, err := market.NewService(context.Background(), market.Config{
		DexScreenerURL:       c.Market.DexScreenerURL,
		GeckoTerminalURL:     c.Market.GeckoTerminalURL,
		GeckoTerminalNetwork: c.Market.GeckoTerminalNetwork,
		FrameAppURL:          c.FrameAppUrl,
		Weth:                 c.Contracts.Weth,
		CacheTTL:             c.Market.CacheTTL,
		RequestTimeout:       c.Market.RequestTimeout,
	}, reader, c.Logger, relayMetrics)
	if err != nil {
		return nil, err
	}

	return &Relay{
		logger:    c.Logger,
		config:    c,
		evaluator: evaluator,
		paymaster: paymaster,
		market:    marketService,
		registry:  registry,
		metrics:   relayMetrics,
		ethClient: ethClient,
		status:    initStatus,
	}, nil
}

// NewEvaluatorFromConfig builds the sponsorship policy. client backs the optional account gate and
// must be set when sponsorship.verify_account is on.
func NewEvaluatorFromConfig(c *config.Config, client aa.CodeStorageReader) (*sponsorship.Evaluator, error) {
	opts := []sponsorship.Option{sponsorship.WithLogger(c.Logger)}

	if c.Sponsorship.VerifyAccount {
		if client == nil {
			return nil, errors.New("sponsorship.verify_account requires eth_rpc_url")
		}
		opts = append(opts, sponsorship.WithAccountVerifier(aa.NewSmartWalletVerifier(
			client,
			c.Contracts.SmartWalletFactory,
			c.Contracts.SmartWalletImplementation,
			c.SmartWalletProxyBytecode,
			c.Sponsorship.VerifyTimeout,
		)))
	}

	return sponsorship.NewEvaluator(sponsorship.PolicyConfig{
		ChainID:    c.ChainID,
		EntryPoint: c.Contracts.EntryPoint,
		MagicSpend: c.Contracts.MagicSpend,
		Factory:    c.Contracts.FomoFactory,
		Locker:     c.Contracts.LiquidityLocker,
		Router:     c.Contracts.SwapRouter,
	}, opts...)
}

func (r *Relay) Start(ctx context.Context) error {
	r.logger.Infof("Starting relay %s", version.Get())
	r.initSentry()

	e := r.newHttpServer()
	serverErr := make(chan error, 1)

	addr := r.config.HttpBindAddress
	r.logger.Info("HTTP server listening", "address", addr)
	goSafe(func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	})
	r.setStatus(runningStatus)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	goSafe(func() { r.trackUptime(runCtx) })

	// Setup wait signal
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	var runErr error
	select {
	case sig := <-sigs:
		r.logger.Info("Received signal", "signal", sig.String())
	case <-ctx.Done():
	case runErr = <-serverErr:
		r.logger.Error("HTTP server failed", "address", addr, "error", runErr)
	}

	r.logger.Infof("Shutting down...")
	r.setStatus(shutdownStatus)
	r.shutdown(e)

	return runErr
}

func (r *Relay) shutdown(e *echo.Echo) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		r.logger.Warn("HTTP server did not shut down cleanly", "error", err)
	}

	if c, ok := r.paymaster.(interface{ Close() }); ok {
		c.Close()
	}
	if c, ok := r.market.(interface{ Close() error }); ok {
		_ = c.Close()
	}
	if r.ethClient != nil {
		r.ethClient.Close()
	}

	sentryFlushSafely(2 * time.Second)
}

func (r *Relay) trackUptime(ctx context.Context) {
	ticker := time.NewTicker(uptimeInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.metrics.AddUptime(float64(now.Sub(last).Milliseconds()))
			last = now
		}
	}
}

func (r *Relay) initSentry() {
	if r.config.SentryDsn == "" {
		r.logger.Info("Sentry DSN not configured, Sentry integration is disabled")
		return
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              r.config.SentryDsn,
		ServerName:       r.config.ServerName,
		Environment:      string(r.config.Environment),
		Release:          fmt.Sprintf("fomo-relay@%s+%s", version.Get(), version.Commit()),
		AttachStacktrace: true,
		TracesSampleRate: 0.1,
	})
	if err != nil {
		r.logger.Errorf("Sentry initialization failed: %v", err)
		return
	}
	r.logger.Infof("Sentry initialized for environment: %s", r.config.Environment)
}

func (r *Relay) setStatus(s RelayStatus) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status = s
}

func (r *Relay) Status() RelayStatus {
	r.statusMu.RLock()
	defer r.statusMu.RUnlock()
	return r.status
}
