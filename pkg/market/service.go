package market

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/FomoFactory/fomo-relay/core/chainio/fomo"
	"github.com/FomoFactory/fomo-relay/metrics"
	"github.com/FomoFactory/fomo-relay/pkg/logger"
)

// ChainReader is the on-chain side of market data, implemented by fomo.Reader
type ChainReader interface {
	QueryMemecoins(ctx context.Context) ([]common.Address, error)
	MemecoinsOf(ctx context.Context, account common.Address) ([]common.Address, error)
	PoolStates(ctx context.Context, tokens []common.Address) ([]*fomo.PoolState, error)
	PoolPosition(ctx context.Context, token common.Address) (*fomo.PoolPosition, error)
	EthUsdPrice(ctx context.Context) (*big.Int, uint8, error)
}

// fees are reported in ether units whatever the pool tokens are
const feeDecimals = 18

type Config struct {
	DexScreenerURL       string
	GeckoTerminalURL     string
	GeckoTerminalNetwork string
	FrameAppURL          string
	Weth                 common.Address
	CacheTTL             time.Duration
	RequestTimeout       time.Duration
}

// Service answers the market endpoints. Every answer is cached for CacheTTL so a busy landing
// page does not fan out to the third party APIs on each load.
type Service struct {
	reader  ChainReader
	dex     *DexScreenerClient
	gecko   *GeckoTerminalClient
	frame   *FrameClient
	network string
	weth    common.Address
	timeout time.Duration

	cache   *bigcache.BigCache
	logger  logger.Logger
	metrics metrics.MetricsGenerator
}

// NewService builds the market service. reader may be nil when no RPC endpoint is configured,
// in which case only the DexScreener and metadata lookups work.
func NewService(ctx context.Context, cfg Config, reader ChainReader, l logger.Logger, m metrics.MetricsGenerator) (*Service, error) {
	ttl := cfg.CacheTTL
	if ttl < time.Second {
		// bigcache has a one second resolution
		ttl = time.Second
	}

	cache, err := bigcache.New(ctx, bigcache.Config{
		// number of shards (must be a power of 2). A shard holds at most
		// HardMaxCacheSize/Shards, which bounds the largest entry, the leaderboard.
		Shards:             16,
		LifeWindow:         ttl,
		CleanWindow:        ttl,
		MaxEntriesInWindow: 10 * 1024,
		MaxEntrySize:       2048,
		// value in MB
		HardMaxCacheSize: 256,
	})
	if err != nil {
		return nil, err
	}

	return &Service{
		reader:  reader,
		dex:     NewDexScreenerClient(cfg.DexScreenerURL, cfg.RequestTimeout),
		gecko:   NewGeckoTerminalClient(cfg.GeckoTerminalURL, cfg.GeckoTerminalNetwork, cfg.RequestTimeout),
		frame:   NewFrameClient(cfg.FrameAppURL, cfg.RequestTimeout),
		network: cfg.GeckoTerminalNetwork,
		weth:    cfg.Weth,
		timeout: cfg.RequestTimeout,
		cache:   cache,
		logger:  logger.EnsureLogger(l),
		metrics: metrics.EnsureMetrics(m),
	}, nil
}

func (s *Service) Close() error {
	return s.cache.Close()
}

// TokenDex returns the DexScreener aggregate of one token
func (s *Service) TokenDex(ctx context.Context, token common.Address) (*DexAggregate, error) {
	key := "dex:" + strings.ToLower(token.Hex())

	var agg DexAggregate
	if s.cached(key, &agg) {
		return &agg, nil
	}

	result, err := s.dex.TokenAggregate(ctx, token)
	s.track("dexscreener", err)
	if err != nil {
		return nil, err
	}

	s.store(key, result)
	return result, nil
}

// TokensMarket prices tokens from their pools. The result is index aligned with tokens.
func (s *Service) TokensMarket(ctx context.Context, tokens []common.Address) ([]*TokenMarket, error) {
	if s.reader == nil {
		return nil, ErrChainUnavailable
	}

	out := make([]*TokenMarket, len(tokens))
	var missing []common.Address
	for i, token := range tokens {
		var tm TokenMarket
		if s.cached(marketKey(token), &tm) {
			out[i] = &tm
			continue
		}
		missing = append(missing, token)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fresh, _, err := s.priceTokens(ctx, missing)
	if err != nil {
		return nil, err
	}

	byToken := lo.KeyBy(fresh, func(tm *TokenMarket) common.Address { return tm.Address })
	for i, token := range tokens {
		if out[i] == nil {
			out[i] = byToken[token]
		}
	}
	return out, nil
}

// Leaderboard ranks every factory memecoin with a market cap, largest first
func (s *Service) Leaderboard(ctx context.Context) ([]*LeaderboardEntry, error) {
	if s.reader == nil {
		return nil, ErrChainUnavailable
	}

	const key = "leaderboard"
	var entries []*LeaderboardEntry
	if s.cached(key, &entries) {
		return entries, nil
	}

	chainCtx, cancel := s.chainContext(ctx)
	tokens, err := s.reader.QueryMemecoins(chainCtx)
	cancel()
	s.track("rpc", err)
	if err != nil {
		return nil, err
	}

	markets, states, err := s.priceTokens(ctx, tokens)
	if err != nil {
		return nil, err
	}

	statesByToken := lo.KeyBy(states, func(st *fomo.PoolState) common.Address { return st.Token })
	ranked := lo.Filter(markets, func(tm *TokenMarket, _ int) bool {
		return tm.marketCap() > 0
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].marketCap() > ranked[j].marketCap()
	})

	entries = lo.Map(ranked, func(tm *TokenMarket, i int) *LeaderboardEntry {
		entry := &LeaderboardEntry{TokenMarket: *tm, Rank: i + 1}
		if st, ok := statesByToken[tm.Address]; ok {
			entry.Name = st.Name
			entry.Symbol = st.Symbol
			entry.TotalSupply = ToDecimal(st.TotalSupply, st.Decimals).InexactFloat64()
		}
		return entry
	})

	s.store(key, entries)
	return entries, nil
}

// FrameMetadata proxies the head of a frame page
func (s *Service) FrameMetadata(ctx context.Context, path string) (string, error) {
	head, err := s.frame.Metadata(ctx, path)
	s.track("frame", err)
	return head, err
}

// AccountMemecoins lists the memecoins account created
func (s *Service) AccountMemecoins(ctx context.Context, account common.Address) ([]common.Address, error) {
	if s.reader == nil {
		return nil, ErrChainUnavailable
	}

	key := "account:" + strings.ToLower(account.Hex())
	var tokens []common.Address
	if s.cached(key, &tokens) {
		return tokens, nil
	}

	chainCtx, cancel := s.chainContext(ctx)
	defer cancel()
	tokens, err := s.reader.MemecoinsOf(chainCtx, account)
	s.track("rpc", err)
	if err != nil {
		return nil, err
	}
	if tokens == nil {
		tokens = []common.Address{}
	}

	s.store(key, tokens)
	return tokens, nil
}

// TokenPool reports the owner of a memecoin's locked liquidity and the fees it has accrued
func (s *Service) TokenPool(ctx context.Context, token common.Address) (*PoolInfo, error) {
	if s.reader == nil {
		return nil, ErrChainUnavailable
	}

	key := "pool:" + strings.ToLower(token.Hex())
	var info PoolInfo
	if s.cached(key, &info) {
		return &info, nil
	}

	chainCtx, cancel := s.chainContext(ctx)
	defer cancel()
	pos, err := s.reader.PoolPosition(chainCtx, token)
	s.track("rpc", err)
	if err != nil {
		return nil, err
	}

	result := &PoolInfo{
		Address:    pos.Pool,
		Owner:      pos.Owner,
		PositionID: pos.PositionID.String(),
		Token0:     pos.Token0,
		Token1:     pos.Token1,
		Fees: PoolFees{
			Token0: ToDecimal(pos.Fees0, feeDecimals).InexactFloat64(),
			Token1: ToDecimal(pos.Fees1, feeDecimals).InexactFloat64(),
		},
	}
	s.store(key, result)
	return result, nil
}

// EthPrice is the Chainlink ETH/USD answer
func (s *Service) EthPrice(ctx context.Context) (*EthPrice, error) {
	if s.reader == nil {
		return nil, ErrChainUnavailable
	}

	const key = "eth_usd"
	var price EthPrice
	if s.cached(key, &price) {
		return &price, nil
	}

	chainCtx, cancel := s.chainContext(ctx)
	defer cancel()
	answer, decimals, err := s.reader.EthUsdPrice(chainCtx)
	s.track("rpc", err)
	if err != nil {
		return nil, err
	}

	price.USD = ToDecimal(answer, decimals).InexactFloat64()
	s.store(key, &price)
	return &price, nil
}

// chainContext bounds a chain read by the request timeout
func (s *Service) chainContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) priceTokens(ctx context.Context, tokens []common.Address) ([]*TokenMarket, []*fomo.PoolState, error) {
	chainCtx, cancel := s.chainContext(ctx)
	states, err := s.reader.PoolStates(chainCtx, tokens)
	cancel()
	s.track("rpc", err)
	if err != nil {
		return nil, nil, err
	}

	pools, err := s.gecko.Pools(ctx, lo.Map(states, func(st *fomo.PoolState, _ int) common.Address { return st.Pool }))
	s.track("geckoterminal", err)
	if err != nil {
		// prices are optional, the addresses are still worth returning
		s.logger.Warn("geckoterminal lookup failed", "pools", len(states), "error", err)
		pools = map[string]*GeckoPool{}
	}

	markets := lo.Map(states, func(st *fomo.PoolState, _ int) *TokenMarket {
		tm := PriceTokenMarket(s.network, s.weth, st, pools[s.gecko.PoolID(st.Pool)])
		s.store(marketKey(st.Token), tm)
		return tm
	})
	return markets, states, nil
}

func marketKey(token common.Address) string {
	return "market:" + strings.ToLower(token.Hex())
}

// cached decodes the entry at key into v. Expired entries count as misses.
func (s *Service) cached(key string, v interface{}) bool {
	data, resp, err := s.cache.GetWithInfo(key)
	if err != nil || resp.EntryStatus == bigcache.Expired {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (s *Service) store(key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(key, data); err != nil {
		s.logger.Debug("market cache set failed", "key", key, "error", err)
	}
}

func (s *Service) track(source string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		if errors.Is(err, context.Canceled) {
			status = "canceled"
		}
	}
	s.metrics.IncMarketRequest(source, status)
}
