package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rohmanhakim/coin-checker/internal/build"
	"github.com/rohmanhakim/coin-checker/internal/cache"
	"github.com/rohmanhakim/coin-checker/internal/coins"
	"github.com/rohmanhakim/coin-checker/internal/config"
	"github.com/rohmanhakim/coin-checker/internal/fetcher"
	"github.com/rohmanhakim/coin-checker/internal/markets"
	"github.com/rohmanhakim/coin-checker/internal/metadata"
	"github.com/rohmanhakim/coin-checker/internal/report"
	"github.com/rohmanhakim/coin-checker/internal/scrape"
	"github.com/rohmanhakim/coin-checker/internal/whitepaper"
	"github.com/rohmanhakim/coin-checker/pkg/hashutil"
	"github.com/rohmanhakim/coin-checker/pkg/limiter"
	"github.com/rohmanhakim/coin-checker/pkg/timeutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	cfgFile        string
	coinInputs     []string
	cacheDir       string
	issuanceManual string
	valueLockedUSD string
	whitepaperURL  string
	messariAPIKey  string
	userAgent      string
	timeout        time.Duration
	maxRetries     int
	maxRequests    int
	randomSeed     int64
	verbose        bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "coin-checker",
	Version: build.FullVersion(),
	Short:   "An undervaluation checker for cryptocurrencies.",
	Long: `coin-checker gathers market, issuance and value locked figures for a
cryptocurrency from public APIs and dashboards, then grades the asset on
inflation pressure and its fully diluted market cap over value locked.

All network access is rate limited, retried and cached on disk, so
repeated checks stay polite to the upstream APIs.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(coinInputs) == 0 {
			fmt.Fprintf(os.Stderr, "Error: --coin is required. Supported coins: %v\n", coins.Supported())
			cmd.Usage()
			os.Exit(1)
		}

		cfg := InitConfig()

		overrides, err := parseOverrides()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

		runner := buildRunner(cfg)

		ctx := context.Background()
		for _, input := range coinInputs {
			result, runErr := runner.Run(ctx, input, overrides)
			if runErr != nil {
				fmt.Fprintf(os.Stderr, "Error checking %s: %s\n", input, runErr.Error())
				continue
			}
			report.Render(os.Stdout, result)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringArrayVar(&coinInputs, "coin", []string{}, "coin name, symbol or alias (can be repeated)")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "root directory for the on-disk response cache")
	rootCmd.PersistentFlags().StringVar(&issuanceManual, "issuance", "", "manual annual issuance in coins (skips Messari)")
	rootCmd.PersistentFlags().StringVar(&valueLockedUSD, "value-locked", "", "manual value locked in USD (skips TVL sources)")
	rootCmd.PersistentFlags().StringVar(&whitepaperURL, "whitepaper-url", "", "whitepaper page to analyze alongside the valuation")
	rootCmd.PersistentFlags().StringVar(&messariAPIKey, "messari-api-key", "", "API key for Messari requests")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for HTTP requests")
	rootCmd.PersistentFlags().IntVar(&maxRetries, "max-retries", 0, "maximum attempts for one logical fetch")
	rootCmd.PersistentFlags().IntVar(&maxRequests, "max-requests", 0, "request ceiling per rate limit window")
	rootCmd.PersistentFlags().Int64Var(&randomSeed, "random-seed", 0, "seed for random number generation (0 for current time)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log fetch and cache events")
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() config.Config {
	cfg, err := InitConfigWithError()
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// InitConfigWithError reads in config file and flag values, returning any
// errors. This makes it easier to test error cases.
func InitConfigWithError() (config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	configBuilder := config.WithDefault()

	if cacheDir != "" {
		configBuilder = configBuilder.WithCacheDir(cacheDir)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if maxRetries > 0 {
		configBuilder = configBuilder.WithMaxRetries(maxRetries)
	}

	if maxRequests > 0 {
		configBuilder = configBuilder.WithMaxRequestsPerWindow(maxRequests)
	}

	if randomSeed != 0 {
		configBuilder = configBuilder.WithRandomSeed(randomSeed)
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func parseOverrides() (report.Overrides, error) {
	var annualIssuance *decimal.Decimal
	if issuanceManual != "" {
		parsed, err := decimal.NewFromString(issuanceManual)
		if err != nil {
			return report.Overrides{}, fmt.Errorf("error parsing --issuance %q: %w", issuanceManual, err)
		}
		annualIssuance = &parsed
	}

	var valueLocked *decimal.Decimal
	if valueLockedUSD != "" {
		parsed, err := decimal.NewFromString(valueLockedUSD)
		if err != nil {
			return report.Overrides{}, fmt.Errorf("error parsing --value-locked %q: %w", valueLockedUSD, err)
		}
		valueLocked = &parsed
	}

	return report.NewOverrides(annualIssuance, valueLocked, whitepaperURL), nil
}

// buildRunner wires the shared limiter, cache and fetcher into the
// per-source clients. All clients share one limiter so the request
// ceiling holds across APIs.
func buildRunner(cfg config.Config) report.Runner {
	var metadataSink metadata.MetadataSink = &metadata.NoopSink{}
	if verbose {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Level:           log.DebugLevel,
		})
		recorder := metadata.NewRecorder(logger)
		metadataSink = &recorder
	}

	rateLimiter := limiter.NewWindowLimiter(cfg.MaxRequestsPerWindow())
	rateLimiter.SetWindow(cfg.Window())
	rateLimiter.SetJitterRange(cfg.JitterMin(), cfg.JitterMax())
	rateLimiter.SetRandomSeed(cfg.RandomSeed())
	rateLimiter.SetBackoffParam(timeutil.NewBackoffParam(
		cfg.BackoffInitialDuration(),
		cfg.BackoffMultiplier(),
		cfg.BackoffMaxDuration(),
	))

	store := cache.NewFileStore(cfg.CacheDir(), hashutil.HashAlgoBLAKE3, metadataSink)

	resilientFetcher := fetcher.NewResilientFetcher(rateLimiter, metadataSink, cfg.UserAgent())
	resilientFetcher.SetMaxRetries(cfg.MaxRetries())
	resilientFetcher.SetTimeout(cfg.Timeout())
	cachedFetcher := fetcher.NewCachedFetcher(&resilientFetcher, store)

	coingecko := markets.NewCoingeckoClient(cachedFetcher, cfg.CoingeckoBase())
	messari := markets.NewMessariClient(cachedFetcher, cfg.MessariBase(), messariAPIKey)
	defillama := markets.NewDefillamaClient(cachedFetcher, cfg.DefillamaBase())
	shieldedPool := scrape.NewShieldedPoolScraper(&resilientFetcher, cfg.ZkpBabyDashboard(), cfg.ZecHubDashboard())
	analyzer := whitepaper.NewAnalyzer(&resilientFetcher, metadataSink)

	return report.NewRunner(&coingecko, &messari, &defillama, &shieldedPool, &analyzer)
}

func ResetFlags() {
	cfgFile = ""
	coinInputs = []string{}
	cacheDir = ""
	issuanceManual = ""
	valueLockedUSD = ""
	whitepaperURL = ""
	messariAPIKey = ""
	userAgent = ""
	timeout = 0
	maxRetries = 0
	maxRequests = 0
	randomSeed = 0
	verbose = false
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetCoinsForTest(inputs []string) {
	coinInputs = inputs
}

func SetCacheDirForTest(dir string) {
	cacheDir = dir
}

func SetIssuanceForTest(issuance string) {
	issuanceManual = issuance
}

func SetValueLockedForTest(valueLocked string) {
	valueLockedUSD = valueLocked
}

func SetWhitepaperURLForTest(whitepaper string) {
	whitepaperURL = whitepaper
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetMaxRetriesForTest(retries int) {
	maxRetries = retries
}

func SetMaxRequestsForTest(requests int) {
	maxRequests = requests
}

func SetRandomSeedForTest(seed int64) {
	randomSeed = seed
}
