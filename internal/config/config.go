package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type Config struct {
	//===============
	// Endpoints
	//===============
	// CoinGecko API base, used for market data (price, supply)
	coingeckoBase string
	// Messari API base, used for issuance metrics
	messariBase string
	// DeFiLlama API base, used for chain and protocol TVL
	defillamaBase string
	// Dashboards scraped for the Zcash shielded pool value
	zkpBabyDashboard string
	zecHubDashboard  string

	//===============
	// Politeness
	//===============
	// Requests-per-window ceiling enforced by the rate limiter
	maxRequestsPerWindow int
	// Trailing window over which requests are counted
	window time.Duration
	// Bounds of the uniform jitter added to a window wait
	jitterMin time.Duration
	jitterMax time.Duration
	// Controls the random number generator
	randomSeed int64
	// Maximum attempts for one logical fetch
	maxRetries int
	// Initial delay when a throttling response triggers backoff
	backoffInitialDuration time.Duration
	// Multiplier during exponential backoff
	backoffMultiplier float64
	// Capped maximum delay for backoff to stop exponential multiplication
	backoffMaxDuration time.Duration

	//===============
	// Fetch
	//===============
	// Maximum time of a single fetch request
	timeout time.Duration
	// User agent that will be used in the request header. In raw string
	userAgent string

	//===============
	// Cache
	//===============
	// Root directory for the on-disk response cache
	cacheDir string
}

type configDTO struct {
	CoingeckoBase          string        `json:"coingeckoBase,omitempty"`
	MessariBase            string        `json:"messariBase,omitempty"`
	DefillamaBase          string        `json:"defillamaBase,omitempty"`
	ZkpBabyDashboard       string        `json:"zkpBabyDashboard,omitempty"`
	ZecHubDashboard        string        `json:"zecHubDashboard,omitempty"`
	MaxRequestsPerWindow   int           `json:"maxRequestsPerWindow,omitempty"`
	Window                 time.Duration `json:"window,omitempty"`
	JitterMin              time.Duration `json:"jitterMin,omitempty"`
	JitterMax              time.Duration `json:"jitterMax,omitempty"`
	RandomSeed             int64         `json:"randomSeed,omitempty"`
	MaxRetries             int           `json:"maxRetries,omitempty"`
	BackoffInitialDuration time.Duration `json:"backoffInitialDuration,omitempty"`
	BackoffMultiplier      float64       `json:"backoffMultiplier,omitempty"`
	BackoffMaxDuration     time.Duration `json:"backoffMaxDuration,omitempty"`
	Timeout                time.Duration `json:"timeout,omitempty"`
	UserAgent              string        `json:"userAgent,omitempty"`
	CacheDir               string        `json:"cacheDir,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {

	// Start with default config
	cfg, err := WithDefault().Build()
	if err != nil {
		return Config{}, err
	}

	// Only override where a non-zero value is provided
	if dto.CoingeckoBase != "" {
		cfg.coingeckoBase = dto.CoingeckoBase
	}
	if dto.MessariBase != "" {
		cfg.messariBase = dto.MessariBase
	}
	if dto.DefillamaBase != "" {
		cfg.defillamaBase = dto.DefillamaBase
	}
	if dto.ZkpBabyDashboard != "" {
		cfg.zkpBabyDashboard = dto.ZkpBabyDashboard
	}
	if dto.ZecHubDashboard != "" {
		cfg.zecHubDashboard = dto.ZecHubDashboard
	}
	if dto.MaxRequestsPerWindow != 0 {
		cfg.maxRequestsPerWindow = dto.MaxRequestsPerWindow
	}
	if dto.Window != 0 {
		cfg.window = dto.Window
	}
	if dto.JitterMin != 0 {
		cfg.jitterMin = dto.JitterMin
	}
	if dto.JitterMax != 0 {
		cfg.jitterMax = dto.JitterMax
	}
	if dto.RandomSeed != 0 {
		cfg.randomSeed = dto.RandomSeed
	}
	if dto.MaxRetries != 0 {
		cfg.maxRetries = dto.MaxRetries
	}
	if dto.BackoffInitialDuration != 0 {
		cfg.backoffInitialDuration = dto.BackoffInitialDuration
	}
	if dto.BackoffMultiplier != 0 {
		cfg.backoffMultiplier = dto.BackoffMultiplier
	}
	if dto.BackoffMaxDuration != 0 {
		cfg.backoffMaxDuration = dto.BackoffMaxDuration
	}
	if dto.Timeout != 0 {
		cfg.timeout = dto.Timeout
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	if dto.CacheDir != "" {
		cfg.cacheDir = dto.CacheDir
	}

	return cfg, nil
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	cfg, err := newConfigFromDTO(cfgDTO)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithDefault creates a new Config with default values for all fields.
// The request ceiling stays under CoinGecko's free tier.
func WithDefault() *Config {
	defaultConfig := Config{
		coingeckoBase:          "https://api.coingecko.com/api/v3",
		messariBase:            "https://api.messari.io",
		defillamaBase:          "https://api.llama.fi",
		zkpBabyDashboard:       "https://zkp.baby",
		zecHubDashboard:        "https://zechub.wiki/dashboard",
		maxRequestsPerWindow:   18,
		window:                 60 * time.Second,
		jitterMin:              500 * time.Millisecond,
		jitterMax:              1500 * time.Millisecond,
		randomSeed:             time.Now().UnixNano(),
		maxRetries:             3,
		backoffInitialDuration: 30 * time.Second,
		backoffMultiplier:      2.0,
		backoffMaxDuration:     300 * time.Second,
		timeout:                15 * time.Second,
		userAgent:              "coin-checker/1.0",
		cacheDir:               "cache",
	}
	return &defaultConfig
}

func (c *Config) WithCoingeckoBase(base string) *Config {
	c.coingeckoBase = base
	return c
}

func (c *Config) WithMessariBase(base string) *Config {
	c.messariBase = base
	return c
}

func (c *Config) WithDefillamaBase(base string) *Config {
	c.defillamaBase = base
	return c
}

func (c *Config) WithZkpBabyDashboard(dashboard string) *Config {
	c.zkpBabyDashboard = dashboard
	return c
}

func (c *Config) WithZecHubDashboard(dashboard string) *Config {
	c.zecHubDashboard = dashboard
	return c
}

func (c *Config) WithMaxRequestsPerWindow(maxRequests int) *Config {
	c.maxRequestsPerWindow = maxRequests
	return c
}

func (c *Config) WithWindow(window time.Duration) *Config {
	c.window = window
	return c
}

func (c *Config) WithJitterRange(min time.Duration, max time.Duration) *Config {
	c.jitterMin = min
	c.jitterMax = max
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithMaxRetries(maxRetries int) *Config {
	c.maxRetries = maxRetries
	return c
}

func (c *Config) WithBackoffInitialDuration(duration time.Duration) *Config {
	c.backoffInitialDuration = duration
	return c
}

func (c *Config) WithBackoffMultiplier(multiplier float64) *Config {
	c.backoffMultiplier = multiplier
	return c
}

func (c *Config) WithBackoffMaxDuration(duration time.Duration) *Config {
	c.backoffMaxDuration = duration
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithCacheDir(cacheDir string) *Config {
	c.cacheDir = cacheDir
	return c
}

func (c *Config) Build() (Config, error) {
	if c.maxRequestsPerWindow < 1 {
		return Config{}, fmt.Errorf("%w: maxRequestsPerWindow must be positive", ErrInvalidConfig)
	}
	if c.jitterMax < c.jitterMin {
		return Config{}, fmt.Errorf("%w: jitterMax must not be below jitterMin", ErrInvalidConfig)
	}
	if c.backoffMaxDuration < c.backoffInitialDuration {
		return Config{}, fmt.Errorf("%w: backoffMaxDuration must not be below backoffInitialDuration", ErrInvalidConfig)
	}

	return *c, nil
}

func (c Config) CoingeckoBase() string {
	return c.coingeckoBase
}

func (c Config) MessariBase() string {
	return c.messariBase
}

func (c Config) DefillamaBase() string {
	return c.defillamaBase
}

func (c Config) ZkpBabyDashboard() string {
	return c.zkpBabyDashboard
}

func (c Config) ZecHubDashboard() string {
	return c.zecHubDashboard
}

func (c Config) MaxRequestsPerWindow() int {
	return c.maxRequestsPerWindow
}

func (c Config) Window() time.Duration {
	return c.window
}

func (c Config) JitterMin() time.Duration {
	return c.jitterMin
}

func (c Config) JitterMax() time.Duration {
	return c.jitterMax
}

func (c Config) RandomSeed() int64 {
	return c.randomSeed
}

func (c Config) MaxRetries() int {
	return c.maxRetries
}

func (c Config) BackoffInitialDuration() time.Duration {
	return c.backoffInitialDuration
}

func (c Config) BackoffMultiplier() float64 {
	return c.backoffMultiplier
}

func (c Config) BackoffMaxDuration() time.Duration {
	return c.backoffMaxDuration
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) CacheDir() string {
	return c.cacheDir
}
