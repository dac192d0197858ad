package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	sdklogging "github.com/Layr-Labs/eigensdk-go/logging"

	"github.com/FomoFactory/fomo-relay/core/chainio/aa"
)

// Contracts is the set of addresses the relay checks against or reads from
type Contracts struct {
	EntryPoint                common.Address
	MagicSpend                common.Address
	FomoFactory               common.Address
	LiquidityLocker           common.Address
	SwapRouter                common.Address
	Weth                      common.Address
	SmartWalletFactory        common.Address
	SmartWalletImplementation common.Address
	Multicall                 common.Address
	PositionManager           common.Address
	EthUsdAggregator          common.Address
}

type SponsorshipConfig struct {
	VerifyAccount bool
	VerifyTimeout time.Duration
}

type MarketConfig struct {
	DexScreenerURL       string
	GeckoTerminalURL     string
	GeckoTerminalNetwork string
	CacheTTL             time.Duration
	RequestTimeout       time.Duration
}

// Config is the typed relay configuration. It is loaded once at startup and passed down, nothing
// reads the environment after that.
type Config struct {
	Environment     sdklogging.LogLevel
	Logger          sdklogging.Logger
	HttpBindAddress string

	ChainID             *big.Int
	EthRpcUrl           string
	PaymasterServiceUrl string
	PaymasterTimeout    time.Duration
	SentryDsn           string
	ServerName          string
	FrameAppUrl         string

	Contracts                Contracts
	SmartWalletProxyBytecode []byte

	Sponsorship SponsorshipConfig
	Market      MarketConfig
}

// These are read from configPath
type ConfigRaw struct {
	Environment         sdklogging.LogLevel `yaml:"environment" validate:"oneof=development production"`
	HttpBindAddress     string              `yaml:"http_bind_address" validate:"required"`
	ChainID             int64               `yaml:"chain_id" validate:"gt=0"`
	EthRpcUrl           string              `yaml:"eth_rpc_url" validate:"omitempty,url"`
	PaymasterServiceUrl string              `yaml:"paymaster_service_url" validate:"required,url"`
	PaymasterTimeout    time.Duration       `yaml:"paymaster_timeout" validate:"gte=0"`
	SentryDsn           string              `yaml:"sentry_dsn" validate:"omitempty,url"`
	ServerName          string              `yaml:"server_name"`
	FrameAppUrl         string              `yaml:"frame_app_url" validate:"omitempty,url"`

	Contracts                ContractsRaw `yaml:"contracts"`
	SmartWalletProxyBytecode string       `yaml:"smart_wallet_proxy_bytecode" validate:"omitempty,hexadecimal"`

	Sponsorship SponsorshipRaw `yaml:"sponsorship"`
	Market      MarketRaw      `yaml:"market"`
}

type ContractsRaw struct {
	EntryPoint                string `yaml:"entrypoint" validate:"omitempty,eth_addr"`
	MagicSpend                string `yaml:"magic_spend" validate:"omitempty,eth_addr"`
	FomoFactory               string `yaml:"fomo_factory" validate:"required,eth_addr"`
	LiquidityLocker           string `yaml:"liquidity_locker" validate:"required,eth_addr"`
	SwapRouter                string `yaml:"swap_router" validate:"omitempty,eth_addr"`
	Weth                      string `yaml:"weth" validate:"omitempty,eth_addr"`
	SmartWalletFactory        string `yaml:"smart_wallet_factory" validate:"omitempty,eth_addr"`
	SmartWalletImplementation string `yaml:"smart_wallet_implementation" validate:"omitempty,eth_addr"`
	Multicall                 string `yaml:"multicall" validate:"omitempty,eth_addr"`
	PositionManager           string `yaml:"position_manager" validate:"omitempty,eth_addr"`
	EthUsdAggregator          string `yaml:"eth_usd_aggregator" validate:"omitempty,eth_addr"`
}

type SponsorshipRaw struct {
	VerifyAccount bool          `yaml:"verify_account"`
	VerifyTimeout time.Duration `yaml:"verify_timeout" validate:"gte=0"`
}

type MarketRaw struct {
	DexScreenerURL       string        `yaml:"dexscreener_url" validate:"omitempty,url"`
	GeckoTerminalURL     string        `yaml:"geckoterminal_url" validate:"omitempty,url"`
	GeckoTerminalNetwork string        `yaml:"geckoterminal_network"`
	CacheTTL             time.Duration `yaml:"cache_ttl" validate:"gte=0"`
	RequestTimeout       time.Duration `yaml:"request_timeout" validate:"gte=0"`
}

var (
	ErrInvalidConfig = errors.New("invalid config")

	validate = validator.New()
)

// NewConfig reads the yaml file at configFilePath, applies .env and environment overrides, then
// validates the result.
func NewConfig(configFilePath string) (*Config, error) {
	// a missing .env is the normal production case
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cannot load .env: %w", err)
	}

	var configRaw ConfigRaw
	if configFilePath != "" {
		data, err := os.ReadFile(configFilePath)
		if err != nil {
			return nil, fmt.Errorf("cannot read config %s: %w", configFilePath, err)
		}
		if err := yaml.Unmarshal(data, &configRaw); err != nil {
			return nil, fmt.Errorf("cannot parse config %s: %w", configFilePath, err)
		}
	}

	configRaw.applyEnv()
	configRaw.applyDefaults()

	return FromRaw(configRaw)
}

// FromRaw validates a raw config and converts it into the typed form
func FromRaw(configRaw ConfigRaw) (*Config, error) {
	if err := validate.Struct(configRaw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, describeValidation(err))
	}

	var proxyCode []byte
	if configRaw.SmartWalletProxyBytecode != "" {
		code, err := hexutil.Decode(ensureHexPrefix(configRaw.SmartWalletProxyBytecode))
		if err != nil {
			return nil, fmt.Errorf("%w: smart_wallet_proxy_bytecode: %v", ErrInvalidConfig, err)
		}
		proxyCode = code
	}

	if configRaw.Sponsorship.VerifyAccount && configRaw.EthRpcUrl == "" {
		return nil, fmt.Errorf("%w: eth_rpc_url is required when sponsorship.verify_account is set", ErrInvalidConfig)
	}
	if configRaw.Sponsorship.VerifyAccount && len(proxyCode) == 0 {
		return nil, fmt.Errorf("%w: smart_wallet_proxy_bytecode is required when sponsorship.verify_account is set", ErrInvalidConfig)
	}

	logger, err := sdklogging.NewZapLogger(configRaw.Environment)
	if err != nil {
		return nil, err
	}

	c := &Config{
		Environment:         configRaw.Environment,
		Logger:              logger,
		HttpBindAddress:     configRaw.HttpBindAddress,
		ChainID:             big.NewInt(configRaw.ChainID),
		EthRpcUrl:           configRaw.EthRpcUrl,
		PaymasterServiceUrl: configRaw.PaymasterServiceUrl,
		PaymasterTimeout:    configRaw.PaymasterTimeout,
		SentryDsn:           configRaw.SentryDsn,
		ServerName:          configRaw.ServerName,
		FrameAppUrl:         strings.TrimRight(configRaw.FrameAppUrl, "/"),
		Contracts: Contracts{
			EntryPoint:                common.HexToAddress(configRaw.Contracts.EntryPoint),
			MagicSpend:                common.HexToAddress(configRaw.Contracts.MagicSpend),
			FomoFactory:               common.HexToAddress(configRaw.Contracts.FomoFactory),
			LiquidityLocker:           common.HexToAddress(configRaw.Contracts.LiquidityLocker),
			SwapRouter:                common.HexToAddress(configRaw.Contracts.SwapRouter),
			Weth:                      common.HexToAddress(configRaw.Contracts.Weth),
			SmartWalletFactory:        common.HexToAddress(configRaw.Contracts.SmartWalletFactory),
			SmartWalletImplementation: common.HexToAddress(configRaw.Contracts.SmartWalletImplementation),
			Multicall:                 common.HexToAddress(configRaw.Contracts.Multicall),
			PositionManager:           common.HexToAddress(configRaw.Contracts.PositionManager),
			EthUsdAggregator:          common.HexToAddress(configRaw.Contracts.EthUsdAggregator),
		},
		SmartWalletProxyBytecode: proxyCode,
		Sponsorship: SponsorshipConfig{
			VerifyAccount: configRaw.Sponsorship.VerifyAccount,
			VerifyTimeout: configRaw.Sponsorship.VerifyTimeout,
		},
		Market: MarketConfig{
			DexScreenerURL:       strings.TrimRight(configRaw.Market.DexScreenerURL, "/"),
			GeckoTerminalURL:     strings.TrimRight(configRaw.Market.GeckoTerminalURL, "/"),
			GeckoTerminalNetwork: configRaw.Market.GeckoTerminalNetwork,
			CacheTTL:             configRaw.Market.CacheTTL,
			RequestTimeout:       configRaw.Market.RequestTimeout,
		},
	}

	return c, nil
}

func (r *ConfigRaw) applyDefaults() {
	if r.Environment == "" {
		r.Environment = sdklogging.Production
	}
	if r.HttpBindAddress == "" {
		r.HttpBindAddress = DefaultHttpBindAddress
	}
	if r.ChainID == 0 {
		r.ChainID = BaseChainID.Int64()
	}
	if r.PaymasterTimeout == 0 {
		r.PaymasterTimeout = DefaultPaymasterTimeout
	}
	if r.ServerName == "" {
		r.ServerName, _ = os.Hostname()
	}

	setDefault(&r.Contracts.EntryPoint, aa.EntrypointV06Address.Hex())
	setDefault(&r.Contracts.MagicSpend, aa.DefaultMagicSpend.Hex())
	setDefault(&r.Contracts.SwapRouter, DefaultSwapRouter.Hex())
	setDefault(&r.Contracts.Weth, DefaultWeth.Hex())
	setDefault(&r.Contracts.SmartWalletFactory, aa.DefaultSmartWalletFactory.Hex())
	setDefault(&r.Contracts.SmartWalletImplementation, aa.DefaultSmartWalletImplementation.Hex())
	setDefault(&r.Contracts.Multicall, DefaultMulticall.Hex())
	setDefault(&r.Contracts.PositionManager, DefaultPositionManager.Hex())
	setDefault(&r.Contracts.EthUsdAggregator, DefaultEthUsdAggregator.Hex())

	if r.Sponsorship.VerifyTimeout == 0 {
		r.Sponsorship.VerifyTimeout = aa.DefaultVerifyTimeout
	}

	setDefault(&r.Market.DexScreenerURL, DefaultDexScreenerURL)
	setDefault(&r.Market.GeckoTerminalURL, DefaultGeckoTerminalURL)
	setDefault(&r.Market.GeckoTerminalNetwork, DefaultGeckoTerminalNetwork)
	if r.Market.CacheTTL == 0 {
		r.Market.CacheTTL = DefaultMarketCacheTTL
	}
	if r.Market.RequestTimeout == 0 {
		r.Market.RequestTimeout = DefaultMarketRequestTimeout
	}
}

func describeValidation(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.StructNamespace(), fe.Tag()))
	}
	return strings.Join(fields, "; ")
}
