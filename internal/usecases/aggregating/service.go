// Package aggregating calcula as tabelas de métricas a partir do dataset normalizado
package aggregating

import (
	"sort"
	"time"

	"github.com/oftw/impact-dashboard-api/internal/config"
	"github.com/oftw/impact-dashboard-api/internal/domain"
	"github.com/oftw/impact-dashboard-api/pkg/utils"
	"github.com/shopspring/decimal"
)

type Aggregator interface {
	Compute(dataset *domain.Dataset, normalized *domain.NormalizedDataset, period domain.Period, asOf time.Time) Result
}

// Result contém as tabelas calculadas e os avisos de junção entre pagamentos e pledges
type Result struct {
	Tables                    map[string][]domain.MetricRow
	OrphanedPayments          int
	PaymentsBeforePledgeStart int
}

type Service struct {
	factors            map[string]decimal.Decimal
	defaultFactor      decimal.Decimal
	excludedPortfolios map[string]bool
	includeOrphans     bool
}

func NewService(cfg *config.Config) Aggregator {
	excluded := make(map[string]bool, len(cfg.Metrics.ExcludedPortfolios))
	for _, portfolio := range cfg.Metrics.ExcludedPortfolios {
		excluded[portfolio] = true
	}

	return &Service{
		factors:            cfg.Metrics.CounterfactualFactors,
		defaultFactor:      cfg.Metrics.DefaultFactor,
		excludedPortfolios: excluded,
		includeOrphans:     cfg.Metrics.OrphanPaymentPolicy == config.OrphanPolicyInclude,
	}
}

// Compute recalcula todas as métricas do período. Os pledges brutos alimentam as contagens e a atrição,
// os valores normalizados alimentam os totais monetários.
func (s *Service) Compute(dataset *domain.Dataset, normalized *domain.NormalizedDataset, period domain.Period, asOf time.Time) Result {
	asOf = domain.DateOf(asOf)

	pledgesByID := make(map[string]domain.Pledge, len(dataset.Pledges))
	for _, pledge := range dataset.Pledges {
		pledgesByID[pledge.ID] = pledge
	}

	payments := s.aggregatePayments(normalized.Payments, pledgesByID, period)
	pledges := aggregatePledges(dataset.Pledges, normalized.Pledges, period, asOf)

	tables := make(map[string][]domain.MetricRow, len(domain.MetricNames))
	payments.appendRows(tables, period)
	pledges.appendRows(tables, period.Label)

	return Result{
		Tables:                    tables,
		OrphanedPayments:          payments.orphaned,
		PaymentsBeforePledgeStart: payments.beforeStart,
	}
}

type paymentTotals struct {
	moneyMoved     decimal.Decimal
	counterfactual decimal.Decimal
	cfByChannel    map[string]decimal.Decimal
	monthly        map[string]decimal.Decimal
	byPlatform     map[string]decimal.Decimal
	byChapterType  map[string]decimal.Decimal
	byRecurrence   map[string]decimal.Decimal
	orphaned       int
	beforeStart    int
}

func (s *Service) aggregatePayments(payments []domain.NormalizedPayment, pledgesByID map[string]domain.Pledge, period domain.Period) *paymentTotals {
	totals := &paymentTotals{
		cfByChannel:   make(map[string]decimal.Decimal),
		monthly:       make(map[string]decimal.Decimal),
		byPlatform:    make(map[string]decimal.Decimal),
		byChapterType: make(map[string]decimal.Decimal),
		byRecurrence:  make(map[string]decimal.Decimal),
	}

	for _, payment := range payments {
		if !period.Contains(payment.Date) {
			continue
		}

		channel, chapterType, recurrence := domain.DimensionUnattributed, domain.DimensionUnknown, domain.DimensionUnknown

		pledge, linked := pledgesByID[payment.PledgeID]
		switch {
		case payment.PledgeID == "" || !linked:
			totals.orphaned++
			if !s.includeOrphans {
				continue
			}
		case payment.Date.Before(pledge.StartDate):
			totals.beforeStart++
			continue
		default:
			channel = orUnknown(pledge.Channel)
			chapterType = orUnknown(pledge.ChapterType)
			recurrence = domain.DimensionRecurring
			if pledge.Cadence == domain.CadenceOneTime {
				recurrence = domain.DimensionOneTime
			}
		}

		amount := payment.ReportingAmount

		totals.moneyMoved = totals.moneyMoved.Add(amount)
		addTo(totals.monthly, payment.Date.Format("2006-01"), amount)
		addTo(totals.byPlatform, orUnknown(payment.Platform), amount)
		addTo(totals.byChapterType, chapterType, amount)
		addTo(totals.byRecurrence, recurrence, amount)

		counterfactual := decimal.Zero
		if !s.excludedPortfolios[payment.Portfolio] {
			counterfactual = amount.Mul(s.factorFor(payment.Payment, channel))
		}
		totals.counterfactual = totals.counterfactual.Add(counterfactual)
		addTo(totals.cfByChannel, channel, counterfactual)
	}

	return totals
}

// factorFor usa o fator do próprio pagamento, depois o do canal e por fim o fator padrão
func (s *Service) factorFor(payment domain.Payment, channel string) decimal.Decimal {
	if payment.Counterfactuality != nil {
		return *payment.Counterfactuality
	}
	if factor, ok := s.factors[channel]; ok {
		return factor
	}
	return s.defaultFactor
}

func (t *paymentTotals) appendRows(tables map[string][]domain.MetricRow, period domain.Period) {
	bucket := period.Label

	tables[domain.MetricMoneyMoved] = []domain.MetricRow{
		moneyRow(domain.MetricMoneyMoved, bucket, domain.DimensionTotal, t.moneyMoved),
	}
	tables[domain.MetricCounterfactualMoneyMoved] = withTotal(domain.MetricCounterfactualMoneyMoved, bucket, t.counterfactual, t.cfByChannel)
	tables[domain.MetricMoneyMovedByPlatform] = dimensionRows(domain.MetricMoneyMovedByPlatform, bucket, t.byPlatform)
	tables[domain.MetricMoneyMovedByChapterType] = dimensionRows(domain.MetricMoneyMovedByChapterType, bucket, t.byChapterType)
	tables[domain.MetricMoneyMovedByRecurrence] = dimensionRows(domain.MetricMoneyMovedByRecurrence, bucket, t.byRecurrence)

	months := period.Months()
	monthly := make([]domain.MetricRow, 0, len(months))
	cumulative := make([]domain.MetricRow, 0, len(months))
	running := decimal.Zero
	for _, month := range months {
		amount := t.monthly[month.Label]
		running = running.Add(amount)
		monthly = append(monthly, moneyRow(domain.MetricMoneyMovedMonthly, month.Label, month.Label, amount))
		cumulative = append(cumulative, moneyRow(domain.MetricMoneyMovedCumulative, month.Label, month.Label, running))
	}
	tables[domain.MetricMoneyMovedMonthly] = monthly
	tables[domain.MetricMoneyMovedCumulative] = cumulative

	average := decimal.Zero
	if len(months) > 0 {
		average = t.moneyMoved.Div(decimal.NewFromInt(int64(len(months))))
	}
	tables[domain.MetricMoneyMovedMonthlyAverage] = []domain.MetricRow{
		moneyRow(domain.MetricMoneyMovedMonthlyAverage, bucket, domain.DimensionTotal, average),
	}
}

type pledgeTotals struct {
	activeARR     decimal.Decimal
	arrByChannel  map[string]decimal.Decimal
	arrByChapter  map[string]decimal.Decimal
	futureARR     decimal.Decimal
	activePledges int
	activeDonors  int
	futurePledges int
	terminated    int
	activeAtStart int
}

func aggregatePledges(pledges []domain.Pledge, normalized []domain.NormalizedPledge, period domain.Period, asOf time.Time) *pledgeTotals {
	totals := &pledgeTotals{
		arrByChannel: make(map[string]decimal.Decimal),
		arrByChapter: make(map[string]decimal.Decimal),
	}

	donors := make(map[string]bool)
	for _, pledge := range pledges {
		if pledge.CurrentlyActive(asOf) {
			totals.activePledges++
			donors[pledge.DonorID] = true
		}
		if pledge.Status == domain.PledgeStatusPledged {
			totals.futurePledges++
		}
		if pledge.ActiveOn(period.Start) {
			totals.activeAtStart++
		}
		if pledge.TerminatedWithin(period) {
			totals.terminated++
		}
	}
	totals.activeDonors = len(donors)

	for _, pledge := range normalized {
		annualized := pledge.AnnualizedAmount()

		switch {
		case pledge.CurrentlyActive(asOf):
			totals.activeARR = totals.activeARR.Add(annualized)
			addTo(totals.arrByChannel, orUnknown(pledge.Channel), annualized)
			addTo(totals.arrByChapter, orUnknown(pledge.Chapter)+" / "+orUnknown(pledge.ChapterType), annualized)
		case pledge.Status == domain.PledgeStatusPledged:
			totals.futureARR = totals.futureARR.Add(annualized)
		}
	}

	return totals
}

func (t *pledgeTotals) appendRows(tables map[string][]domain.MetricRow, bucket string) {
	tables[domain.MetricActiveARRByChannel] = withTotal(domain.MetricActiveARRByChannel, bucket, t.activeARR, t.arrByChannel)
	tables[domain.MetricChapterARRByType] = dimensionRows(domain.MetricChapterARRByType, bucket, t.arrByChapter)

	tables[domain.MetricActivePledgeCount] = []domain.MetricRow{countRow(domain.MetricActivePledgeCount, bucket, t.activePledges)}
	tables[domain.MetricActiveDonorCount] = []domain.MetricRow{countRow(domain.MetricActiveDonorCount, bucket, t.activeDonors)}
	tables[domain.MetricFuturePledgeCount] = []domain.MetricRow{countRow(domain.MetricFuturePledgeCount, bucket, t.futurePledges)}

	tables[domain.MetricFutureARR] = []domain.MetricRow{moneyRow(domain.MetricFutureARR, bucket, domain.DimensionTotal, t.futureARR)}
	tables[domain.MetricTotalARR] = []domain.MetricRow{moneyRow(domain.MetricTotalARR, bucket, domain.DimensionTotal, t.activeARR.Add(t.futureARR))}

	attrition := domain.MetricRow{Metric: domain.MetricPledgeAttritionRate, Bucket: bucket, Dimension: domain.DimensionTotal}
	if rate, ok := AttritionRate(t.terminated, t.activeAtStart); ok {
		value := utils.RatioValue(rate)
		attrition.Value = &value
	}
	tables[domain.MetricPledgeAttritionRate] = []domain.MetricRow{attrition}
}

// AttritionRate divide os pledges encerrados pelos ativos no início do período.
// Sem pledges ativos no início o resultado é indefinido.
func AttritionRate(terminated, activeAtStart int) (decimal.Decimal, bool) {
	if activeAtStart == 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(int64(terminated)).Div(decimal.NewFromInt(int64(activeAtStart))), true
}

func addTo(totals map[string]decimal.Decimal, key string, amount decimal.Decimal) {
	totals[key] = totals[key].Add(amount)
}

func orUnknown(value string) string {
	if value == "" {
		return domain.DimensionUnknown
	}
	return value
}

func moneyRow(metric, bucket, dimension string, amount decimal.Decimal) domain.MetricRow {
	value := utils.MoneyValue(amount)
	return domain.MetricRow{Metric: metric, Bucket: bucket, Dimension: dimension, Value: &value}
}

func countRow(metric, bucket string, count int) domain.MetricRow {
	value := float64(count)
	return domain.MetricRow{Metric: metric, Bucket: bucket, Dimension: domain.DimensionTotal, Value: &value}
}

// dimensionRows gera uma linha por dimensão em ordem alfabética
func dimensionRows(metric, bucket string, totals map[string]decimal.Decimal) []domain.MetricRow {
	dimensions := make([]string, 0, len(totals))
	for dimension := range totals {
		dimensions = append(dimensions, dimension)
	}
	sort.Strings(dimensions)

	rows := make([]domain.MetricRow, 0, len(dimensions))
	for _, dimension := range dimensions {
		rows = append(rows, moneyRow(metric, bucket, dimension, totals[dimension]))
	}
	return rows
}

// withTotal coloca a linha total antes das linhas por dimensão
func withTotal(metric, bucket string, total decimal.Decimal, totals map[string]decimal.Decimal) []domain.MetricRow {
	return append([]domain.MetricRow{moneyRow(metric, bucket, domain.DimensionTotal, total)}, dimensionRows(metric, bucket, totals)...)
}
