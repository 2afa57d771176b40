package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/gbdtbot/internal/dataset"
	"github.com/vadiminshakov/gbdtbot/internal/domain"
	"github.com/vadiminshakov/gbdtbot/internal/model/gbdt"
	"gopkg.in/yaml.v3"
)

// ErrMissingRequired is returned when symbol or period is not provided.
var ErrMissingRequired = errors.New("symbol and period are required")

const (
	defaultPollInterval = 30 * time.Second
	defaultQuantity     = "1"
	defaultPaperBalance = "10000"
	defaultLags         = 10
	defaultSMAPeriod    = 15
	defaultLookahead    = 25
	defaultTrainLimit   = 1000
	defaultLiveLimit    = 50
	defaultHTTPTimeout  = 10 * time.Second
	defaultDataDir      = "data"
	defaultWALDir       = "wal"
)

type Config struct {
	Pair               domain.Pair
	Interval           domain.Interval
	PollPriceInterval  time.Duration
	Quantity           decimal.Decimal
	Lags               int
	SMAPeriod          int
	Lookahead          int
	TrainLimit         int
	LiveLimit          int
	BuyThreshold       float64
	SellThreshold      float64
	Model              gbdt.Params
	DataDir            string
	WALDir             string
	DatasetFormat      string
	MetricsAddr        string
	BaseURL            string
	HTTPTimeout        time.Duration
	InsecureSkipVerify bool
	Paper              bool
	PaperBalance       decimal.Decimal
	Train              bool
	Setup              bool
}

// ConfigTmp is the yaml representation of Config.
type ConfigTmp struct {
	Pair               string        `yaml:"pair"`
	Period             string        `yaml:"period"`
	PollPriceInterval  time.Duration `yaml:"poll_price_interval,omitempty"`
	Quantity           string        `yaml:"quantity,omitempty"`
	Lags               int           `yaml:"lags,omitempty"`
	SMAPeriod          int           `yaml:"sma_period,omitempty"`
	Lookahead          int           `yaml:"lookahead,omitempty"`
	TrainLimit         int           `yaml:"train_limit,omitempty"`
	LiveLimit          int           `yaml:"live_limit,omitempty"`
	BuyThreshold       *float64      `yaml:"buy_threshold,omitempty"`
	SellThreshold      *float64      `yaml:"sell_threshold,omitempty"`
	Model              *gbdt.Params  `yaml:"model,omitempty"`
	DataDir            string        `yaml:"data_dir,omitempty"`
	WALDir             string        `yaml:"wal_dir,omitempty"`
	DatasetFormat      string        `yaml:"dataset_format,omitempty"`
	MetricsAddr        string        `yaml:"metrics_addr,omitempty"`
	BaseURL            string        `yaml:"base_url,omitempty"`
	HTTPTimeout        time.Duration `yaml:"http_timeout,omitempty"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify,omitempty"`
	Paper              bool          `yaml:"paper,omitempty"`
	PaperBalance       string        `yaml:"paper_balance,omitempty"`
	Train              bool          `yaml:"train,omitempty"`
}

// TrainPath returns the dataset file for the configured symbol and period.
func (c Config) TrainPath() string {
	return filepath.Join(c.DataDir, fmt.Sprintf("%s_%s_train.dat", c.Pair.Symbol(), c.Interval))
}

// ModelPath returns the model file for the configured symbol and period.
func (c Config) ModelPath() string {
	return filepath.Join(c.DataDir, fmt.Sprintf("%s_%s_model.dat", c.Pair.Symbol(), c.Interval))
}

// PaperDir returns the directory for the paper trading wallet.
func (c Config) PaperDir() string {
	return filepath.Join(c.WALDir, "paper")
}

// PositionDir returns the WAL directory for the position. Paper sessions
// keep theirs under PaperDir so live mode never restores a paper order id.
func (c Config) PositionDir() string {
	if c.Paper {
		return filepath.Join(c.PaperDir(), c.Pair.String()+"-position")
	}
	return filepath.Join(c.WALDir, c.Pair.String())
}

// Get reads the configuration from the process command line.
func Get() (Config, error) {
	return Parse(os.Args[1:])
}

// Parse reads the configuration from args. With --config the yaml file is
// used and only the mode flags (--train, --setup) are taken from args.
func Parse(args []string) (Config, error) {
	fs := flag.NewFlagSet("gbdtbot", flag.ContinueOnError)

	configPath := fs.String("config", "", "path to yaml config")
	setup := fs.Bool("setup", false, "run the interactive configuration wizard")
	train := fs.Bool("train", false, "train the model instead of trading")
	pair := fs.String("symbol", "", "trade pair, example: BTC_USDT")
	period := fs.String("period", "", "kline interval, one of 1m 5m 15m 30m 60m 4h 1d 1W 1M")
	poll := fs.Duration("pollpriceinterval", defaultPollInterval, "poll market interval")
	quantity := fs.String("quantity", defaultQuantity, "order quantity in base currency")
	lags := fs.Int("lags", defaultLags, "number of sma lags in the feature vector")
	smaPeriod := fs.Int("sma", defaultSMAPeriod, "sma period")
	lookahead := fs.Int("lookahead", defaultLookahead, "label horizon in bars")
	trainLimit := fs.Int("train_limit", defaultTrainLimit, "klines fetched for training")
	liveLimit := fs.Int("live_limit", defaultLiveLimit, "klines fetched on every poll")
	buyThreshold := fs.Float64("buy_threshold", domain.DefaultBuyThreshold, "score above which to buy")
	sellThreshold := fs.Float64("sell_threshold", domain.DefaultSellThreshold, "score below which to sell")
	dataDir := fs.String("data_dir", defaultDataDir, "directory for dataset and model files")
	walDir := fs.String("wal_dir", defaultWALDir, "directory for the position WAL")
	format := fs.String("format", dataset.FormatLiblinear, "dataset format")
	metricsAddr := fs.String("metrics_addr", "", "address for the prometheus endpoint, disabled when empty")
	baseURL := fs.String("base_url", "", "exchange REST endpoint")
	timeout := fs.Duration("timeout", defaultHTTPTimeout, "exchange request timeout")
	insecure := fs.Bool("insecure_skip_verify", false, "disable TLS certificate verification")
	paper := fs.Bool("paper", false, "fill orders against a local paper wallet instead of the exchange")
	paperBalance := fs.String("paper_balance", defaultPaperBalance, "starting quote balance of the paper wallet")

	defaults := gbdt.DefaultParams()
	var params gbdt.Params
	fs.IntVar(&params.Verbose, "verbose", defaults.Verbose, "gbdt verbosity")
	fs.IntVar(&params.MaxLevel, "max_level", defaults.MaxLevel, "gbdt max tree depth")
	fs.IntVar(&params.MaxLeafNumber, "max_leaf_number", defaults.MaxLeafNumber, "gbdt max leaves per tree")
	fs.IntVar(&params.MinValuesInLeaf, "min_values_in_leaf", defaults.MinValuesInLeaf, "gbdt min samples per leaf")
	fs.IntVar(&params.TreeNumber, "tree_number", defaults.TreeNumber, "gbdt number of trees")
	fs.Float64Var(&params.LearningRate, "learning_rate", defaults.LearningRate, "gbdt learning rate")
	fs.Float64Var(&params.SampleRate, "sample_rate", defaults.SampleRate, "gbdt row subsample rate")
	fs.StringVar(&params.Loss, "loss", defaults.Loss, "gbdt loss")
	fs.Int64Var(&params.Seed, "seed", defaults.Seed, "random seed for labels and subsampling")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *setup {
		return Config{Setup: true}, nil
	}

	if *configPath != "" {
		c, err := getYaml(*configPath)
		if err != nil {
			return Config{}, err
		}
		c.Train = c.Train || *train
		c.Paper = c.Paper || *paper
		return c, nil
	}

	if *pair == "" || *period == "" {
		return Config{}, ErrMissingRequired
	}

	tmp := ConfigTmp{
		Pair:               *pair,
		Period:             *period,
		PollPriceInterval:  *poll,
		Quantity:           *quantity,
		Lags:               *lags,
		SMAPeriod:          *smaPeriod,
		Lookahead:          *lookahead,
		TrainLimit:         *trainLimit,
		LiveLimit:          *liveLimit,
		BuyThreshold:       buyThreshold,
		SellThreshold:      sellThreshold,
		DataDir:            *dataDir,
		WALDir:             *walDir,
		DatasetFormat:      *format,
		MetricsAddr:        *metricsAddr,
		BaseURL:            *baseURL,
		HTTPTimeout:        *timeout,
		InsecureSkipVerify: *insecure,
		Paper:              *paper,
		PaperBalance:       *paperBalance,
		Train:              *train,
	}

	conf, err := fromTmp(tmp)
	if err != nil {
		return Config{}, err
	}
	conf.Model = params
	if err := conf.Model.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp ConfigTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, errors.Wrapf(err, "parse yaml config %s", path)
	}

	return fromTmp(tmp)
}

// fromTmp validates tmp and fills defaults.
func fromTmp(c ConfigTmp) (Config, error) {
	if c.Pair == "" || c.Period == "" {
		return Config{}, ErrMissingRequired
	}

	pair, err := domain.ParsePair(c.Pair)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'pair' param: %s, error: %w", c.Pair, err)
	}
	interval, err := domain.ParseInterval(c.Period)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'period' param: %w", err)
	}

	quantity := decimal.RequireFromString(defaultQuantity)
	if c.Quantity != "" {
		quantity, err = decimal.NewFromString(c.Quantity)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'quantity' param (must be a decimal), error: %w", err)
		}
	}
	if !quantity.IsPositive() {
		return Config{}, fmt.Errorf("incorrect 'quantity' param: must be positive, got %s", quantity)
	}

	paperBalance := decimal.RequireFromString(defaultPaperBalance)
	if c.PaperBalance != "" {
		paperBalance, err = decimal.NewFromString(c.PaperBalance)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'paper_balance' param (must be a decimal), error: %w", err)
		}
	}
	if paperBalance.IsNegative() {
		return Config{}, fmt.Errorf("incorrect 'paper_balance' param: must not be negative, got %s", paperBalance)
	}

	conf := Config{
		Pair:               pair,
		Interval:           interval,
		PollPriceInterval:  orDuration(c.PollPriceInterval, defaultPollInterval),
		Quantity:           quantity,
		Lags:               orInt(c.Lags, defaultLags),
		SMAPeriod:          orInt(c.SMAPeriod, defaultSMAPeriod),
		Lookahead:          orInt(c.Lookahead, defaultLookahead),
		TrainLimit:         orInt(c.TrainLimit, defaultTrainLimit),
		LiveLimit:          orInt(c.LiveLimit, defaultLiveLimit),
		BuyThreshold:       domain.DefaultBuyThreshold,
		SellThreshold:      domain.DefaultSellThreshold,
		Model:              gbdt.DefaultParams(),
		DataDir:            orString(c.DataDir, defaultDataDir),
		WALDir:             orString(c.WALDir, defaultWALDir),
		DatasetFormat:      orString(c.DatasetFormat, dataset.FormatLiblinear),
		MetricsAddr:        c.MetricsAddr,
		BaseURL:            c.BaseURL,
		HTTPTimeout:        orDuration(c.HTTPTimeout, defaultHTTPTimeout),
		InsecureSkipVerify: c.InsecureSkipVerify,
		Paper:              c.Paper,
		PaperBalance:       paperBalance,
		Train:              c.Train,
	}
	if c.BuyThreshold != nil {
		conf.BuyThreshold = *c.BuyThreshold
	}
	if c.SellThreshold != nil {
		conf.SellThreshold = *c.SellThreshold
	}
	if c.Model != nil {
		conf.Model = mergeParams(conf.Model, *c.Model)
	}

	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if c.PollPriceInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.Lags < 1 || c.SMAPeriod < 1 || c.Lookahead < 1 {
		return fmt.Errorf("lags, sma period and lookahead must be positive")
	}
	if need := c.Lags + c.SMAPeriod; c.LiveLimit < need {
		return fmt.Errorf("live_limit %d is below the %d bars needed for features", c.LiveLimit, need)
	}
	if need := c.Lags + c.SMAPeriod + c.Lookahead + 1; c.TrainLimit < need {
		return fmt.Errorf("train_limit %d is below the %d bars needed for one example", c.TrainLimit, need)
	}
	if c.BuyThreshold < c.SellThreshold {
		return fmt.Errorf("buy_threshold %g is below sell_threshold %g", c.BuyThreshold, c.SellThreshold)
	}
	if _, err := dataset.Lookup(c.DatasetFormat); err != nil {
		return err
	}
	return c.Model.Validate()
}

// mergeParams overrides base with every non-zero field of p.
func mergeParams(base, p gbdt.Params) gbdt.Params {
	if p.Verbose != 0 {
		base.Verbose = p.Verbose
	}
	base.MaxLevel = orInt(p.MaxLevel, base.MaxLevel)
	base.MaxLeafNumber = orInt(p.MaxLeafNumber, base.MaxLeafNumber)
	base.MinValuesInLeaf = orInt(p.MinValuesInLeaf, base.MinValuesInLeaf)
	base.TreeNumber = orInt(p.TreeNumber, base.TreeNumber)
	if p.LearningRate != 0 {
		base.LearningRate = p.LearningRate
	}
	if p.SampleRate != 0 {
		base.SampleRate = p.SampleRate
	}
	base.Loss = orString(p.Loss, base.Loss)
	if p.Seed != 0 {
		base.Seed = p.Seed
	}
	return base
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDuration(v, def time.Duration) time.Duration {
	if v == 0 {
		return def
	}
	return v
}
