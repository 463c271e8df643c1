// Package config loads service configuration from the environment and an optional TOML file.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cyphera/gator-permissions/internal/client/chain"
	"github.com/cyphera/gator-permissions/internal/client/retry"
	"github.com/cyphera/gator-permissions/internal/constants"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// ConfigFileEnv names the variable pointing at the TOML file
const ConfigFileEnv = "GATOR_CONFIG_FILE"

// StorageConfig selects the state store backend
type StorageConfig struct {
	Backend     string `toml:"Backend" validate:"required,oneof=memory postgres leveldb"`
	DatabaseURL string `toml:"DatabaseURL" validate:"required_if=Backend postgres"`
	LevelDBPath string `toml:"LevelDBPath" validate:"required_if=Backend leveldb"`
}

// DataAPIConfig points at the centralized data APIs
type DataAPIConfig struct {
	AccountsURL          string `toml:"AccountsURL" validate:"required,url"`
	TokensURL            string `toml:"TokensURL" validate:"required,url"`
	PriceURL             string `toml:"PriceURL" validate:"required,url"`
	TimeoutMS            int    `toml:"TimeoutMS" validate:"gt=0"`
	MaxResponseSizeBytes int64  `toml:"MaxResponseSizeBytes" validate:"gt=0"`
}

// RetryConfig is the default remote call retry policy
type RetryConfig struct {
	Count   int `toml:"Count" validate:"gte=0,lte=10"`
	DelayMS int `toml:"DelayMS" validate:"gte=0"`
}

// RateLimitConfig bounds API requests per client
type RateLimitConfig struct {
	RPS   float64 `toml:"RPS" validate:"gte=0"`
	Burst int     `toml:"Burst" validate:"gte=0"`
}

// Config is the complete service configuration
type Config struct {
	Stage                   string            `toml:"Stage" validate:"required,oneof=prod dev local test"`
	LogLevel                string            `toml:"LogLevel"`
	HTTPAddr                string            `toml:"HTTPAddr" validate:"required"`
	Storage                 StorageConfig     `toml:"Storage"`
	DataAPI                 DataAPIConfig     `toml:"DataAPI"`
	Retry                   RetryConfig       `toml:"Retry"`
	RPC                     map[string]string `toml:"RPC"`
	SupportedChains         []uint64          `toml:"SupportedChains"`
	VerifyRevocationReceipt bool              `toml:"VerifyRevocationReceipt"`
	RPCTimeoutMS            int               `toml:"RPCTimeoutMS" validate:"gt=0"`
	RateLimit               RateLimitConfig   `toml:"RateLimit"`
	CORSAllowedOrigins      []string          `toml:"CORSAllowedOrigins"`
	TrustedProxies          []string          `toml:"TrustedProxies" validate:"omitempty,dive,ip|cidr"`

	// RPCEndpoints is RPC keyed by numeric chain ID
	RPCEndpoints map[uint64]string `toml:"-"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Stage:    constants.DevEnvironment,
		LogLevel: "info",
		HTTPAddr: ":8080",
		Storage: StorageConfig{
			Backend: constants.StorageMemory,
		},
		DataAPI: DataAPIConfig{
			AccountsURL:          "https://accounts.api.cx.metamask.io",
			TokensURL:            "https://token.api.cx.metamask.io",
			PriceURL:             "https://price.api.cx.metamask.io",
			TimeoutMS:            10000,
			MaxResponseSizeBytes: 1 << 20,
		},
		Retry: RetryConfig{
			Count:   1,
			DelayMS: 1000,
		},
		RPC:          map[string]string{},
		RPCTimeoutMS: 15000,
		RateLimit: RateLimitConfig{
			RPS:   10,
			Burst: 20,
		},
		CORSAllowedOrigins: []string{"*"},
	}
}

// Load reads .env (if present), then the TOML file named by GATOR_CONFIG_FILE, then
// environment variables. Later sources override earlier ones.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the TOML file at path onto cfg
func LoadFile(path string, cfg *Config) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrapf(err, "failed to decode config file %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return fmt.Errorf("unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Stage, "STAGE")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.Storage.Backend, "STORAGE_BACKEND")
	setString(&cfg.Storage.DatabaseURL, "DATABASE_URL")
	setString(&cfg.Storage.LevelDBPath, "LEVELDB_PATH")
	setString(&cfg.DataAPI.AccountsURL, "ACCOUNTS_API_URL")
	setString(&cfg.DataAPI.TokensURL, "TOKENS_API_URL")
	setString(&cfg.DataAPI.PriceURL, "PRICE_API_URL")

	ints := []struct {
		key    string
		target *int
	}{
		{"HTTP_TIMEOUT_MS", &cfg.DataAPI.TimeoutMS},
		{"RETRY_COUNT", &cfg.Retry.Count},
		{"RETRY_DELAY_MS", &cfg.Retry.DelayMS},
		{"RPC_TIMEOUT_MS", &cfg.RPCTimeoutMS},
		{"RATE_LIMIT_BURST", &cfg.RateLimit.Burst},
	}
	for _, entry := range ints {
		if err := setInt(entry.target, entry.key); err != nil {
			return err
		}
	}

	if value := os.Getenv("MAX_RESPONSE_SIZE_BYTES"); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return errors.Wrap(err, "invalid MAX_RESPONSE_SIZE_BYTES")
		}
		cfg.DataAPI.MaxResponseSizeBytes = parsed
	}
	if value := os.Getenv("RATE_LIMIT_RPS"); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.Wrap(err, "invalid RATE_LIMIT_RPS")
		}
		cfg.RateLimit.RPS = parsed
	}
	if value := os.Getenv("VERIFY_REVOCATION_RECEIPT"); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrap(err, "invalid VERIFY_REVOCATION_RECEIPT")
		}
		cfg.VerifyRevocationReceipt = parsed
	}
	if value := os.Getenv("RPC_URLS"); value != "" {
		rpc, err := parseRPCURLs(value)
		if err != nil {
			return err
		}
		cfg.RPC = rpc
	}
	if value := os.Getenv("SUPPORTED_CHAINS"); value != "" {
		chains, err := parseChainList(value)
		if err != nil {
			return err
		}
		cfg.SupportedChains = chains
	}
	if value := os.Getenv("CORS_ALLOWED_ORIGINS"); value != "" {
		cfg.CORSAllowedOrigins = splitList(value)
	}
	if value := os.Getenv("TRUSTED_PROXIES"); value != "" {
		cfg.TrustedProxies = splitList(value)
	}
	return nil
}

// finalize resolves derived values and validates the result
func (c *Config) finalize() error {
	endpoints := make(map[uint64]string, len(c.RPC))
	for key, url := range c.RPC {
		chainID, err := chain.ParseChainID(key)
		if err != nil {
			return errors.Wrapf(err, "invalid RPC chain id %q", key)
		}
		if strings.TrimSpace(url) == "" {
			return fmt.Errorf("empty RPC url for chain %d", chainID)
		}
		endpoints[chainID] = url
	}
	c.RPCEndpoints = endpoints

	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// HTTPTimeout is the per-attempt data API timeout
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.DataAPI.TimeoutMS) * time.Millisecond
}

// RPCTimeout bounds dialling an RPC endpoint
func (c *Config) RPCTimeout() time.Duration {
	return time.Duration(c.RPCTimeoutMS) * time.Millisecond
}

// RetryOptions is the default retry policy of remote calls
func (c *Config) RetryOptions() *retry.Options {
	return &retry.Options{
		Retries: c.Retry.Count,
		Delay:   time.Duration(c.Retry.DelayMS) * time.Millisecond,
	}
}

// RPCChains lists the chains with a configured RPC endpoint, ascending
func (c *Config) RPCChains() []uint64 {
	ids := make([]uint64, 0, len(c.RPCEndpoints))
	for id := range c.RPCEndpoints {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func setString(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func setInt(target *int, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return errors.Wrapf(err, "invalid %s", key)
	}
	*target = parsed
	return nil
}

// parseRPCURLs parses "chainId=url,chainId=url"
func parseRPCURLs(value string) (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range splitList(value) {
		key, url, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid RPC_URLS entry %q, expected chainId=url", pair)
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(url)
	}
	return out, nil
}

func parseChainList(value string) ([]uint64, error) {
	var out []uint64
	for _, item := range splitList(value) {
		chainID, err := chain.ParseChainID(item)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid SUPPORTED_CHAINS entry %q", item)
		}
		out = append(out, chainID)
	}
	return out, nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
