package aggregating

import (
	"testing"
	"time"

	"github.com/oftw/impact-dashboard-api/internal/config"
	"github.com/oftw/impact-dashboard-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func newAggregator(setup func(cfg *config.Config)) Aggregator {
	cfg := &config.Config{}
	cfg.Metrics.DefaultFactor = decimal.NewFromInt(1)
	cfg.Metrics.OrphanPaymentPolicy = config.OrphanPolicyExclude
	if setup != nil {
		setup(cfg)
	}
	return NewService(cfg)
}

// usdDataset monta o dataset já normalizado, com todos os valores em USD
func usdDataset(pledges []domain.Pledge, payments []domain.Payment) (*domain.Dataset, *domain.NormalizedDataset) {
	dataset := &domain.Dataset{Pledges: pledges, Payments: payments}
	normalized := &domain.NormalizedDataset{}

	for _, pledge := range pledges {
		normalized.Pledges = append(normalized.Pledges, domain.NormalizedPledge{Pledge: pledge, ReportingAmount: pledge.Amount})
	}
	for _, payment := range payments {
		normalized.Payments = append(normalized.Payments, domain.NormalizedPayment{Payment: payment, ReportingAmount: payment.Amount})
	}

	return dataset, normalized
}

func value(t *testing.T, result Result, metric, dimension string) *float64 {
	t.Helper()
	for _, row := range result.Tables[metric] {
		if row.Dimension == dimension {
			return row.Value
		}
	}
	t.Fatalf("métrica %s sem dimensão %s", metric, dimension)
	return nil
}

func scenarioPledges() []domain.Pledge {
	return []domain.Pledge{
		{ID: "P1", DonorID: "D1", Amount: decimal.NewFromInt(10), Currency: "USD", StartDate: day(2023, time.December, 1),
			Cadence: domain.CadenceMonthly, Channel: "Chapter Pledge", Chapter: "Harvard", ChapterType: "Undergraduate", Status: domain.PledgeStatusActive},
		{ID: "P2", DonorID: "D2", Amount: decimal.NewFromInt(10), Currency: "USD", StartDate: day(2023, time.December, 1),
			Cadence: domain.CadenceMonthly, Channel: "Corporate", Chapter: "Google", ChapterType: "Corporate", Status: domain.PledgeStatusActive},
		{ID: "P3", DonorID: "D3", Amount: decimal.NewFromInt(100), Currency: "USD", StartDate: day(2022, time.January, 1),
			Cadence: domain.CadenceAnnual, Channel: "Corporate", Chapter: "Google", ChapterType: "Corporate", Status: domain.PledgeStatusLapsed,
			EndedAt: datePtr(day(2023, time.June, 30))},
	}
}

func TestService_Compute_Scenario(t *testing.T) {
	dataset, normalized := usdDataset(scenarioPledges(), []domain.Payment{
		{DonorID: "D1", PledgeID: "P1", Amount: decimal.NewFromInt(10), Currency: "USD", Date: day(2024, time.January, 5), Platform: "Stripe"},
	})
	period := domain.MonthPeriod(2024, time.January)

	result := newAggregator(nil).Compute(dataset, normalized, period, period.End)

	assert.Equal(t, 10.0, *value(t, result, domain.MetricMoneyMoved, domain.DimensionTotal))
	assert.Equal(t, 2.0, *value(t, result, domain.MetricActivePledgeCount, domain.DimensionTotal))
	assert.Equal(t, 2.0, *value(t, result, domain.MetricActiveDonorCount, domain.DimensionTotal))
	assert.Equal(t, 240.0, *value(t, result, domain.MetricActiveARRByChannel, domain.DimensionTotal))
	assert.Equal(t, 120.0, *value(t, result, domain.MetricActiveARRByChannel, "Corporate"))
	assert.Equal(t, 10.0, *value(t, result, domain.MetricMoneyMovedByPlatform, "Stripe"))
	assert.Equal(t, 10.0, *value(t, result, domain.MetricMoneyMovedByRecurrence, domain.DimensionRecurring))

	t.Run("linhas com total primeiro e dimensões em ordem alfabética", func(t *testing.T) {
		rows := result.Tables[domain.MetricActiveARRByChannel]
		require.Len(t, rows, 3)
		assert.Equal(t, domain.DimensionTotal, rows[0].Dimension)
		assert.Equal(t, "Chapter Pledge", rows[1].Dimension)
		assert.Equal(t, "Corporate", rows[2].Dimension)
		assert.Equal(t, "2024-01", rows[0].Bucket)
	})

	t.Run("ARR por chapter e tipo", func(t *testing.T) {
		rows := result.Tables[domain.MetricChapterARRByType]
		require.Len(t, rows, 2)
		assert.Equal(t, "Google / Corporate", rows[0].Dimension)
		assert.Equal(t, "Harvard / Undergraduate", rows[1].Dimension)
		assert.Equal(t, 120.0, *rows[1].Value)
	})
}

func TestService_Compute_ActiveDonorsAreDistinct(t *testing.T) {
	pledges := []domain.Pledge{
		{ID: "P1", DonorID: "D1", Amount: decimal.NewFromInt(10), Currency: "USD", StartDate: day(2023, time.December, 1),
			Cadence: domain.CadenceMonthly, Channel: "Chapter Pledge", Status: domain.PledgeStatusActive},
		{ID: "P2", DonorID: "D1", Amount: decimal.NewFromInt(50), Currency: "USD", StartDate: day(2023, time.December, 1),
			Cadence: domain.CadenceAnnual, Channel: "Corporate", Status: domain.PledgeStatusActive},
		{ID: "P3", DonorID: "D2", Amount: decimal.NewFromInt(10), Currency: "USD", StartDate: day(2023, time.December, 1),
			Cadence: domain.CadenceMonthly, Channel: "Corporate", Status: domain.PledgeStatusPledged},
	}
	dataset, normalized := usdDataset(pledges, nil)
	period := domain.MonthPeriod(2024, time.January)

	result := newAggregator(nil).Compute(dataset, normalized, period, period.End)

	assert.Equal(t, 1.0, *value(t, result, domain.MetricActiveDonorCount, domain.DimensionTotal))
	assert.Equal(t, 2.0, *value(t, result, domain.MetricActivePledgeCount, domain.DimensionTotal))
	assert.Equal(t, 170.0, *value(t, result, domain.MetricActiveARRByChannel, domain.DimensionTotal))
}

func TestService_Compute_FiscalYearEqualsSumOfMonths(t *testing.T) {
	pledges := scenarioPledges()

	var payments []domain.Payment
	for i := 0; i < 40; i++ {
		payments = append(payments, domain.Payment{
			PledgeID: pledges[i%2].ID,
			Amount:   decimal.New(int64(1000+i*37), -2),
			Currency: "USD",
			Date:     day(2023, time.July, 1).AddDate(0, 0, i*9),
		})
	}
	dataset, normalized := usdDataset(pledges, payments)
	aggregator := newAggregator(nil)

	// pagamentos anteriores ao início do pledge (dezembro) ficam de fora em todos os períodos
	fiscalYear := domain.FiscalYearOf(day(2023, time.July, 1), time.July)
	yearly := aggregator.Compute(dataset, normalized, fiscalYear, fiscalYear.End)
	total := *value(t, yearly, domain.MetricMoneyMoved, domain.DimensionTotal)

	months := fiscalYear.Months()
	require.Len(t, months, 12)

	sum := 0.0
	for _, month := range months {
		monthly := aggregator.Compute(dataset, normalized, month, month.End)
		sum += *value(t, monthly, domain.MetricMoneyMoved, domain.DimensionTotal)
	}
	assert.InDelta(t, total, sum, 0.001)

	monthlyRows := yearly.Tables[domain.MetricMoneyMovedMonthly]
	require.Len(t, monthlyRows, 12)
	rowSum := 0.0
	for _, row := range monthlyRows {
		rowSum += *row.Value
	}
	assert.InDelta(t, total, rowSum, 0.001)

	cumulative := yearly.Tables[domain.MetricMoneyMovedCumulative]
	assert.InDelta(t, total, *cumulative[len(cumulative)-1].Value, 0.001)
	assert.InDelta(t, total/12, *value(t, yearly, domain.MetricMoneyMovedMonthlyAverage, domain.DimensionTotal), 0.01)
}

func TestService_Compute_Attrition(t *testing.T) {
	tests := []struct {
		name     string
		pledges  []domain.Pledge
		period   domain.Period
		expected *float64
	}{
		{
			name:     "indefinida sem pledges ativos no início do período",
			pledges:  scenarioPledges(),
			period:   domain.MonthPeriod(2023, time.November),
			expected: nil,
		},
		{
			name: "pledges encerrados sobre ativos no início",
			pledges: append(scenarioPledges(),
				domain.Pledge{ID: "P4", DonorID: "D4", StartDate: day(2023, time.January, 1), Cadence: domain.CadenceMonthly,
					Status: domain.PledgeStatusCancelled, EndedAt: datePtr(day(2024, time.January, 20))},
				domain.Pledge{ID: "P5", DonorID: "D5", StartDate: day(2023, time.January, 1), Cadence: domain.CadenceMonthly,
					Status: domain.PledgeStatusLapsed},
			),
			period:   domain.MonthPeriod(2024, time.January),
			expected: func() *float64 { v := 0.3333; return &v }(),
		},
		{
			name: "pledge encerrado no primeiro dia conta como ativo no início",
			pledges: []domain.Pledge{
				{ID: "P1", DonorID: "D1", StartDate: day(2023, time.January, 1), Cadence: domain.CadenceMonthly,
					Status: domain.PledgeStatusLapsed, EndedAt: datePtr(day(2023, time.July, 1))},
				{ID: "P2", DonorID: "D2", StartDate: day(2023, time.January, 1), Cadence: domain.CadenceMonthly,
					Status: domain.PledgeStatusActive},
			},
			period:   domain.MonthPeriod(2023, time.July),
			expected: func() *float64 { v := 0.5; return &v }(),
		},
		{
			name: "único pledge encerrado no primeiro dia",
			pledges: []domain.Pledge{
				{ID: "P1", DonorID: "D1", StartDate: day(2023, time.January, 1), Cadence: domain.CadenceMonthly,
					Status: domain.PledgeStatusCancelled, EndedAt: datePtr(day(2023, time.July, 1))},
			},
			period:   domain.MonthPeriod(2023, time.July),
			expected: func() *float64 { v := 1.0; return &v }(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dataset, normalized := usdDataset(tt.pledges, nil)

			result := newAggregator(nil).Compute(dataset, normalized, tt.period, tt.period.End)

			rows := result.Tables[domain.MetricPledgeAttritionRate]
			require.Len(t, rows, 1)
			if tt.expected == nil {
				assert.Nil(t, rows[0].Value)
				return
			}
			require.NotNil(t, rows[0].Value)
			assert.Equal(t, *tt.expected, *rows[0].Value)
		})
	}
}

func TestService_Compute_Counterfactual(t *testing.T) {
	override := decimal.RequireFromString("0.1")
	dataset, normalized := usdDataset(scenarioPledges(), []domain.Payment{
		{PledgeID: "P1", Amount: decimal.NewFromInt(100), Currency: "USD", Date: day(2024, time.January, 5), Portfolio: "Top Charities"},
		{PledgeID: "P2", Amount: decimal.NewFromInt(100), Currency: "USD", Date: day(2024, time.January, 6), Portfolio: "Top Charities"},
		{PledgeID: "P2", Amount: decimal.NewFromInt(50), Currency: "USD", Date: day(2024, time.January, 7), Portfolio: "One for the World Operating Costs"},
		{PledgeID: "P1", Amount: decimal.NewFromInt(10), Currency: "USD", Date: day(2024, time.January, 8), Counterfactuality: &override},
	})
	period := domain.MonthPeriod(2024, time.January)

	aggregator := newAggregator(func(cfg *config.Config) {
		cfg.Metrics.CounterfactualFactors = map[string]decimal.Decimal{"Corporate": decimal.RequireFromString("0.5")}
		cfg.Metrics.DefaultFactor = decimal.RequireFromString("0.8")
		cfg.Metrics.ExcludedPortfolios = []string{"One for the World Operating Costs"}
	})

	result := aggregator.Compute(dataset, normalized, period, period.End)

	assert.Equal(t, 260.0, *value(t, result, domain.MetricMoneyMoved, domain.DimensionTotal))
	// 100*0.8 + 100*0.5 + 0 + 10*0.1
	assert.Equal(t, 131.0, *value(t, result, domain.MetricCounterfactualMoneyMoved, domain.DimensionTotal))
	assert.Equal(t, 81.0, *value(t, result, domain.MetricCounterfactualMoneyMoved, "Chapter Pledge"))
	assert.Equal(t, 50.0, *value(t, result, domain.MetricCounterfactualMoneyMoved, "Corporate"))
}

func TestService_Compute_PaymentJoin(t *testing.T) {
	payments := []domain.Payment{
		{PledgeID: "P1", Amount: decimal.NewFromInt(10), Currency: "USD", Date: day(2024, time.January, 5)},
		{PledgeID: "", Amount: decimal.NewFromInt(20), Currency: "USD", Date: day(2024, time.January, 5)},
		{PledgeID: "P404", Amount: decimal.NewFromInt(30), Currency: "USD", Date: day(2024, time.January, 5)},
		{PledgeID: "P1", Amount: decimal.NewFromInt(40), Currency: "USD", Date: day(2023, time.November, 30)},
		{PledgeID: "P2", Amount: decimal.NewFromInt(40), Currency: "USD", Date: day(2023, time.November, 30)},
	}
	dataset, normalized := usdDataset(scenarioPledges(), payments)
	period := domain.FiscalYearOf(day(2024, time.January, 1), time.July)

	tests := []struct {
		name     string
		policy   string
		validate func(t *testing.T, result Result)
	}{
		{
			name:   "órfãos excluídos por padrão",
			policy: config.OrphanPolicyExclude,
			validate: func(t *testing.T, result Result) {
				assert.Equal(t, 10.0, *value(t, result, domain.MetricMoneyMoved, domain.DimensionTotal))
				assert.Equal(t, 2, result.OrphanedPayments)
				assert.Equal(t, 2, result.PaymentsBeforePledgeStart)
			},
		},
		{
			name:   "órfãos incluídos como não atribuídos",
			policy: config.OrphanPolicyInclude,
			validate: func(t *testing.T, result Result) {
				assert.Equal(t, 60.0, *value(t, result, domain.MetricMoneyMoved, domain.DimensionTotal))
				assert.Equal(t, 50.0, *value(t, result, domain.MetricCounterfactualMoneyMoved, domain.DimensionUnattributed))
				assert.Equal(t, 60.0, *value(t, result, domain.MetricMoneyMovedByPlatform, domain.DimensionUnknown))
				assert.Equal(t, 2, result.OrphanedPayments)
				assert.Equal(t, 2, result.PaymentsBeforePledgeStart)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aggregator := newAggregator(func(cfg *config.Config) {
				cfg.Metrics.OrphanPaymentPolicy = tt.policy
			})

			tt.validate(t, aggregator.Compute(dataset, normalized, period, period.End))
		})
	}
}

func TestService_Compute_FuturePledges(t *testing.T) {
	pledges := append(scenarioPledges(), domain.Pledge{
		ID: "P6", DonorID: "D6", Amount: decimal.NewFromInt(25), Currency: "USD", StartDate: day(2024, time.September, 1),
		Cadence: domain.CadenceQuarterly, Channel: "Chapter Pledge", Status: domain.PledgeStatusPledged,
	})
	dataset, normalized := usdDataset(pledges, nil)
	period := domain.FiscalYearToDate(day(2024, time.February, 1), time.July)

	result := newAggregator(nil).Compute(dataset, normalized, period, period.End)

	assert.Equal(t, 1.0, *value(t, result, domain.MetricFuturePledgeCount, domain.DimensionTotal))
	assert.Equal(t, 100.0, *value(t, result, domain.MetricFutureARR, domain.DimensionTotal))
	assert.Equal(t, 340.0, *value(t, result, domain.MetricTotalARR, domain.DimensionTotal))
	assert.Equal(t, 2.0, *value(t, result, domain.MetricActivePledgeCount, domain.DimensionTotal))
}

func TestAttritionRate(t *testing.T) {
	_, ok := AttritionRate(3, 0)
	assert.False(t, ok)

	rate, ok := AttritionRate(1, 4)
	assert.True(t, ok)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.25")))
}
