package setup

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/gbdtbot/config"
	"github.com/vadiminshakov/gbdtbot/internal/dataset"
	"github.com/vadiminshakov/gbdtbot/internal/domain"
	"github.com/vadiminshakov/gbdtbot/internal/model/gbdt"
)

// ConfigFile is where the wizard writes its result.
const ConfigFile = "config.gen.yaml"

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// Answers raw wizard input, kept as strings the way the form fields hold them.
type Answers struct {
	Pair          string
	Period        string
	PollInterval  string
	Quantity      string
	BuyThreshold  string
	SellThreshold string
	Format        string
	TreeNumber    string
	MaxLevel      string
	LearningRate  string
	MetricsAddr   string
	Train         bool
}

// DefaultAnswers values prefilled in the form.
func DefaultAnswers() Answers {
	p := gbdt.DefaultParams()
	return Answers{
		PollInterval:  "30s",
		Quantity:      "1",
		BuyThreshold:  strconv.FormatFloat(domain.DefaultBuyThreshold, 'f', -1, 64),
		SellThreshold: strconv.FormatFloat(domain.DefaultSellThreshold, 'f', -1, 64),
		Format:        dataset.FormatLiblinear,
		TreeNumber:    strconv.Itoa(p.TreeNumber),
		MaxLevel:      strconv.Itoa(p.MaxLevel),
		LearningRate:  strconv.FormatFloat(p.LearningRate, 'f', -1, 64),
	}
}

// RunTUI launches the terminal configuration wizard and returns the path of
// the generated config file.
func RunTUI() (string, error) {
	a := DefaultAnswers()
	var confirm bool

	step := func(title string) {
		fmt.Print("\033[H\033[2J") // clear screen
		fmt.Println(headerStyle.Render("GBDTBOT CONFIG WIZARD"))
		fmt.Println(stepStyle.Render(title))
	}

	step("STEP 1: MARKET")
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Pick what to trade and how often.\n"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Trading Pair").
				Description("Must contain underscore (e.g. BTC_USDT)").
				Value(&a.Pair).
				Validate(validatePair),
			huh.NewSelect[string]().
				Title("Kline Interval").
				Options(lo.Map(domain.Intervals, func(iv domain.Interval, _ int) huh.Option[string] {
					return huh.NewOption(string(iv), string(iv))
				})...).
				Value(&a.Period),
			huh.NewInput().
				Title("Poll Interval").
				Description("Duration string (e.g. 30s, 1m)").
				Value(&a.PollInterval).
				Validate(validateDuration),
		),
	).Run()
	if err != nil {
		return "", err
	}

	step("STEP 2: ORDERS")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Order Quantity").
				Description("Base currency amount per market order").
				Value(&a.Quantity).
				Validate(validatePositiveDecimal),
			huh.NewInput().
				Title("Buy Threshold").
				Description("Buy when the model score is above this").
				Value(&a.BuyThreshold).
				Validate(validateFloat),
			huh.NewInput().
				Title("Sell Threshold").
				Description("Sell when the model score is below this").
				Value(&a.SellThreshold).
				Validate(validateFloat),
		),
	).Run()
	if err != nil {
		return "", err
	}

	step("STEP 3: MODEL")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Dataset Format").
				Options(huh.NewOptions(dataset.Formats()...)...).
				Value(&a.Format),
			huh.NewInput().
				Title("Number of Trees").
				Value(&a.TreeNumber).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Max Tree Depth").
				Value(&a.MaxLevel).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Learning Rate").
				Value(&a.LearningRate).
				Validate(validateFloat),
			huh.NewInput().
				Title("Metrics Address").
				Description("Optional, e.g. :9090").
				Value(&a.MetricsAddr),
			huh.NewConfirm().
				Title("Train the model first?").
				Value(&a.Train),
		),
	).Run()
	if err != nil {
		return "", err
	}

	step("FINAL CONFIRMATION")
	summary := fmt.Sprintf(
		"Pair: %s\nInterval: %s\nPoll: %s\nQuantity: %s\nThresholds: %s / %s\nTrees: %s\n",
		a.Pair, a.Period, a.PollInterval, a.Quantity, a.BuyThreshold, a.SellThreshold, a.TreeNumber,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return "", err
	}
	if !confirm {
		return "", errors.New("setup cancelled by user")
	}

	tmp, err := a.ConfigTmp()
	if err != nil {
		return "", err
	}
	if err := Save(ConfigFile, tmp); err != nil {
		return "", err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s\nStarting bot...", ConfigFile)))
	time.Sleep(1500 * time.Millisecond) // small pause to read success message
	return ConfigFile, nil
}

// ConfigTmp converts the answers into the yaml config representation.
func (a Answers) ConfigTmp() (config.ConfigTmp, error) {
	pollInterval, err := time.ParseDuration(a.PollInterval)
	if err != nil {
		return config.ConfigTmp{}, errors.Wrap(err, "poll interval")
	}
	buy, err := strconv.ParseFloat(a.BuyThreshold, 64)
	if err != nil {
		return config.ConfigTmp{}, errors.Wrap(err, "buy threshold")
	}
	sell, err := strconv.ParseFloat(a.SellThreshold, 64)
	if err != nil {
		return config.ConfigTmp{}, errors.Wrap(err, "sell threshold")
	}

	params := gbdt.DefaultParams()
	if params.TreeNumber, err = strconv.Atoi(a.TreeNumber); err != nil {
		return config.ConfigTmp{}, errors.Wrap(err, "tree number")
	}
	if params.MaxLevel, err = strconv.Atoi(a.MaxLevel); err != nil {
		return config.ConfigTmp{}, errors.Wrap(err, "max level")
	}
	if params.LearningRate, err = strconv.ParseFloat(a.LearningRate, 64); err != nil {
		return config.ConfigTmp{}, errors.Wrap(err, "learning rate")
	}

	return config.ConfigTmp{
		Pair:              strings.ToUpper(a.Pair),
		Period:            a.Period,
		PollPriceInterval: pollInterval,
		Quantity:          a.Quantity,
		BuyThreshold:      &buy,
		SellThreshold:     &sell,
		Model:             &params,
		DatasetFormat:     a.Format,
		MetricsAddr:       a.MetricsAddr,
		Train:             a.Train,
	}, nil
}

// Save writes tmp to path as yaml.
func Save(path string, tmp config.ConfigTmp) error {
	data, err := yaml.Marshal(tmp)
	if err != nil {
		return errors.Wrap(err, "failed to generate yaml")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to save config file")
	}
	return nil
}

func validatePair(s string) error {
	if s == "" {
		return errors.New("pair cannot be empty")
	}
	if _, err := domain.ParsePair(s); err != nil {
		return errors.New("invalid format: must be BASE_QUOTE (e.g. BTC_USDT)")
	}
	return nil
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

func validatePositiveDecimal(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return errors.New("must be a valid number")
	}
	if !d.IsPositive() {
		return errors.New("must be positive")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.New("must be an integer")
	}
	if n < 1 {
		return errors.New("must be at least 1")
	}
	return nil
}

func validateFloat(s string) error {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return errors.New("must be a valid number")
	}
	return nil
}
