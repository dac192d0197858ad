package config

import (
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Secrets and deploy-specific endpoints can come from the environment instead of the yaml file
const (
	EnvPaymasterServiceUrl = "PAYMASTER_SERVICE_URL"
	EnvSentryDsn           = "SENTRY_DSN"
	EnvEthRpcUrl           = "ETH_RPC_URL"
	EnvHttpBindAddress     = "HTTP_BIND_ADDRESS"
	EnvVerifyAccount       = "SPONSORSHIP_VERIFY_ACCOUNT"
)

const (
	DefaultHttpBindAddress      = ":3000"
	DefaultDexScreenerURL       = "https://api.dexscreener.com"
	DefaultGeckoTerminalURL     = "https://api.geckoterminal.com/api/v2"
	DefaultGeckoTerminalNetwork = "base"
	DefaultMarketCacheTTL       = 30 * time.Second
	DefaultMarketRequestTimeout = 10 * time.Second
	DefaultPaymasterTimeout     = 10 * time.Second
)

var (
	BaseChainID = big.NewInt(8453)

	DefaultWeth       = common.HexToAddress("0x4200000000000000000000000000000000000006")
	DefaultSwapRouter = common.HexToAddress("0x3fC91A3afd70395Cd496C647d5a6CC9D4B2b7FAD")

	DefaultMulticall        = common.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11")
	DefaultPositionManager  = common.HexToAddress("0x03a520b32C04BF3bEEf7BEb72E919cf822Ed34f1")
	DefaultEthUsdAggregator = common.HexToAddress("0x71041dddad3595F9CEd3DcCFBe3D1F4b0a16Bb70")
)

type EnvType interface {
	string | int | bool
}

// GetEnv returns the parsed value of envName, or defaultValue when it is unset or does not parse
func GetEnv[T EnvType](envName string, defaultValue T) T {
	value := os.Getenv(envName)
	if value == "" {
		return defaultValue
	}

	var ret any = defaultValue
	switch any(defaultValue).(type) {
	case string:
		ret = value
	case bool:
		if b, err := strconv.ParseBool(value); err == nil {
			ret = b
		}
	case int:
		if i, err := strconv.Atoi(value); err == nil {
			ret = i
		}
	}

	return ret.(T)
}

func (r *ConfigRaw) applyEnv() {
	r.PaymasterServiceUrl = GetEnv(EnvPaymasterServiceUrl, r.PaymasterServiceUrl)
	r.SentryDsn = GetEnv(EnvSentryDsn, r.SentryDsn)
	r.EthRpcUrl = GetEnv(EnvEthRpcUrl, r.EthRpcUrl)
	r.HttpBindAddress = GetEnv(EnvHttpBindAddress, r.HttpBindAddress)
	r.Sponsorship.VerifyAccount = GetEnv(EnvVerifyAccount, r.Sponsorship.VerifyAccount)
}
