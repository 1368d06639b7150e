package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/oftw/impact-dashboard-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	OrphanPolicyExclude = "exclude"
	OrphanPolicyInclude = "include"
)

type Config struct {
	App        App        `mapstructure:",squash"`
	Server     Server     `mapstructure:",squash"`
	Cors       Cors       `mapstructure:",squash"`
	Data       Data       `mapstructure:",squash"`
	Metrics    Metrics    `mapstructure:",squash"`
	Targets    Targets    `mapstructure:",squash"`
	DataReload DataReload `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Data struct {
	Dir                string   `mapstructure:"data_dir"`
	PledgeFile         string   `mapstructure:"pledge_file"`
	PaymentsFile       string   `mapstructure:"payments_file"`
	ExchangeRateDir    string   `mapstructure:"exchange_rate_dir"`
	ExchangeRateSeries []string `mapstructure:"exchange_rate_series"`
}

type Metrics struct {
	ReportingCurrency           string   `mapstructure:"reporting_currency"`
	PivotCurrency               string   `mapstructure:"pivot_currency"`
	FiscalYearStartMonth        int      `mapstructure:"fiscal_year_start_month"`
	CounterfactualFactorList    []string `mapstructure:"counterfactual_factors"` // canal=fator
	DefaultCounterfactualFactor string   `mapstructure:"default_counterfactual_factor"`
	ExcludedPortfolios          []string `mapstructure:"excluded_portfolios"`
	OrphanPaymentPolicy         string   `mapstructure:"orphan_payment_policy"`

	CounterfactualFactors map[string]decimal.Decimal `mapstructure:"-"`
	DefaultFactor         decimal.Decimal            `mapstructure:"-"`
}

// Targets são as metas exibidas nos cartões de KPI
type Targets struct {
	MoneyMoved               float64 `mapstructure:"target_money_moved"`
	CounterfactualMoneyMoved float64 `mapstructure:"target_counterfactual_money_moved"`
	ActiveARR                float64 `mapstructure:"target_active_arr"`
	AttritionRate            float64 `mapstructure:"target_attrition_rate"`
	ActiveDonors             float64 `mapstructure:"target_active_donors"`
	ActivePledges            float64 `mapstructure:"target_active_pledges"`
}

type DataReload struct {
	CronSchedule string `mapstructure:"data_reload_cron"`
	Enabled      bool   `mapstructure:"data_reload_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8050")

	viper.SetDefault("DATA_DIR", ".")
	viper.SetDefault("PLEDGE_FILE", "CSV/Pledge.csv")
	viper.SetDefault("PAYMENTS_FILE", "CSV/Payments.csv")
	viper.SetDefault("EXCHANGE_RATE_DIR", "ExchangeRate_CSV")
	viper.SetDefault("EXCHANGE_RATE_SERIES", "DEXUSUK,DEXUSAL,DEXUSEU,DEXCAUS,DEXSIUS,DEXSZUS")

	viper.SetDefault("REPORTING_CURRENCY", "USD")
	viper.SetDefault("PIVOT_CURRENCY", "USD")
	viper.SetDefault("FISCAL_YEAR_START_MONTH", 7) // Julho
	viper.SetDefault("COUNTERFACTUAL_FACTORS", "")
	viper.SetDefault("DEFAULT_COUNTERFACTUAL_FACTOR", "1")
	viper.SetDefault("EXCLUDED_PORTFOLIOS", "One for the World Discretionary Fund,One for the World Operating Costs")
	viper.SetDefault("ORPHAN_PAYMENT_POLICY", OrphanPolicyExclude)

	// Metas do painel original
	viper.SetDefault("TARGET_MONEY_MOVED", 1800000)
	viper.SetDefault("TARGET_COUNTERFACTUAL_MONEY_MOVED", 1260000)
	viper.SetDefault("TARGET_ACTIVE_ARR", 1200000)
	viper.SetDefault("TARGET_ATTRITION_RATE", 0.18)
	viper.SetDefault("TARGET_ACTIVE_DONORS", 1200)
	viper.SetDefault("TARGET_ACTIVE_PLEDGES", 850)

	viper.SetDefault("DATA_RELOAD_CRON", "0 */6 * * *") // A cada 6 horas
	viper.SetDefault("DATA_RELOAD_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate normaliza os valores lidos e interpreta os fatores de contrafactualidade
func (c *Config) Validate() error {
	c.Cors.AllowedOrigins = trimList(c.Cors.AllowedOrigins)
	c.Data.ExchangeRateSeries = trimList(c.Data.ExchangeRateSeries)
	c.Metrics.ExcludedPortfolios = trimList(c.Metrics.ExcludedPortfolios)
	c.Metrics.ReportingCurrency = strings.ToUpper(strings.TrimSpace(c.Metrics.ReportingCurrency))
	c.Metrics.PivotCurrency = strings.ToUpper(strings.TrimSpace(c.Metrics.PivotCurrency))
	c.Metrics.OrphanPaymentPolicy = strings.ToLower(strings.TrimSpace(c.Metrics.OrphanPaymentPolicy))

	if c.Metrics.FiscalYearStartMonth < 1 || c.Metrics.FiscalYearStartMonth > 12 {
		return fmt.Errorf("FISCAL_YEAR_START_MONTH deve estar entre 1 e 12: %d", c.Metrics.FiscalYearStartMonth)
	}

	if len(c.Metrics.ReportingCurrency) != 3 || len(c.Metrics.PivotCurrency) != 3 {
		return fmt.Errorf("moedas de reporte e pivô devem ter 3 letras: %q, %q", c.Metrics.ReportingCurrency, c.Metrics.PivotCurrency)
	}

	switch c.Metrics.OrphanPaymentPolicy {
	case OrphanPolicyExclude, OrphanPolicyInclude:
	default:
		return fmt.Errorf("ORPHAN_PAYMENT_POLICY desconhecida: %q", c.Metrics.OrphanPaymentPolicy)
	}

	for _, code := range c.Data.ExchangeRateSeries {
		if _, ok := domain.KnownRateSeries[strings.ToUpper(code)]; !ok {
			return fmt.Errorf("série de cotação desconhecida: %q", code)
		}
	}

	factors, err := ParseCounterfactualFactors(c.Metrics.CounterfactualFactorList)
	if err != nil {
		return err
	}
	c.Metrics.CounterfactualFactors = factors

	defaultFactor, err := parseFactor(c.Metrics.DefaultCounterfactualFactor)
	if err != nil {
		return fmt.Errorf("DEFAULT_COUNTERFACTUAL_FACTOR: %w", err)
	}
	c.Metrics.DefaultFactor = defaultFactor

	return nil
}

// ParseCounterfactualFactors interpreta a lista canal=fator
func ParseCounterfactualFactors(entries []string) (map[string]decimal.Decimal, error) {
	factors := make(map[string]decimal.Decimal, len(entries))

	for _, entry := range trimList(entries) {
		channel, raw, ok := strings.Cut(entry, "=")
		channel = strings.TrimSpace(channel)
		if !ok || channel == "" {
			return nil, fmt.Errorf("COUNTERFACTUAL_FACTORS: entrada inválida %q, use canal=fator", entry)
		}

		factor, err := parseFactor(raw)
		if err != nil {
			return nil, fmt.Errorf("COUNTERFACTUAL_FACTORS %q: %w", channel, err)
		}
		factors[channel] = factor
	}

	return factors, nil
}

func parseFactor(raw string) (decimal.Decimal, error) {
	factor, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("fator inválido %q", raw)
	}
	if factor.IsNegative() || factor.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("fator deve estar entre 0 e 1: %s", factor)
	}
	return factor, nil
}

// FiscalYearStart retorna o mês de início do ano fiscal
func (m Metrics) FiscalYearStart() time.Month {
	return time.Month(m.FiscalYearStartMonth)
}

// PledgePath resolve o caminho do arquivo de pledges relativo ao DATA_DIR
func (d Data) PledgePath() string {
	return d.resolve(d.PledgeFile)
}

func (d Data) PaymentsPath() string {
	return d.resolve(d.PaymentsFile)
}

func (d Data) ExchangeRatePath() string {
	return d.resolve(d.ExchangeRateDir)
}

// RateSeries retorna as séries configuradas, sem repetição e em ordem alfabética
func (d Data) RateSeries() []domain.RateSeries {
	seen := make(map[string]bool)
	series := make([]domain.RateSeries, 0, len(d.ExchangeRateSeries))

	for _, code := range d.ExchangeRateSeries {
		code = strings.ToUpper(code)
		known, ok := domain.KnownRateSeries[code]
		if !ok || seen[code] {
			continue
		}
		seen[code] = true
		series = append(series, known)
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Code < series[j].Code
	})
	return series
}

func (d Data) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(d.Dir, path)
}

func trimList(values []string) []string {
	trimmed := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			trimmed = append(trimmed, value)
		}
	}
	return trimmed
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando variáveis de ambiente")
}
