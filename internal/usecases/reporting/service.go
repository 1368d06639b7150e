// Package reporting monta as respostas da API a partir do dataset atual
package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/oftw/impact-dashboard-api/infrastructure/repository"
	"github.com/oftw/impact-dashboard-api/internal/config"
	"github.com/oftw/impact-dashboard-api/internal/domain"
	"github.com/oftw/impact-dashboard-api/internal/usecases/aggregating"
	"github.com/oftw/impact-dashboard-api/internal/usecases/normalizing"
)

type Reporter interface {
	GetMetrics(req domain.ReportRequest) (*domain.MetricSet, error)
	GetMetricTable(name string, req domain.ReportRequest) (*domain.MetricSet, error)
	GetKPIs(req domain.ReportRequest) (*domain.KPISet, error)
	GetAvailableFiscalYears() (*domain.AvailableFiscalYears, error)
}

type Service struct {
	cfg               *config.Config
	datasetRepository repository.DatasetRepository
	normalizer        normalizing.Normalizer
	aggregator        aggregating.Aggregator
	now               func() time.Time
}

func NewService(
	cfg *config.Config,
	datasetRepo repository.DatasetRepository,
	normalizer normalizing.Normalizer,
	aggregator aggregating.Aggregator,
) Reporter {
	return &Service{
		cfg:               cfg,
		datasetRepository: datasetRepo,
		normalizer:        normalizer,
		aggregator:        aggregator,
		now:               time.Now,
	}
}

// GetMetrics recalcula todas as tabelas sobre o snapshot atual do dataset
func (s *Service) GetMetrics(req domain.ReportRequest) (*domain.MetricSet, error) {
	dataset := s.datasetRepository.Current()
	if dataset == nil {
		return nil, ErrDatasetNotLoaded
	}

	period, asOf, err := domain.ResolvePeriod(req, s.cfg.Metrics.FiscalYearStart(), s.now().UTC())
	if err != nil {
		return nil, err
	}

	normalized := s.normalizer.NormalizeDataset(dataset)
	result := s.aggregator.Compute(dataset, normalized, period, asOf)

	return &domain.MetricSet{
		DatasetID:         dataset.ID,
		Period:            period,
		AsOf:              asOf,
		ReportingCurrency: s.normalizer.ReportingCurrency(),
		Tables:            result.Tables,
		Warnings: domain.Warnings{
			SkippedPledgeRows:         dataset.Report.SkippedBySource(domain.SourcePledges),
			SkippedPaymentRows:        dataset.Report.SkippedBySource(domain.SourcePayments),
			SkippedRateRows:           dataset.Report.SkippedBySource(domain.SourceExchangeRates),
			UnconvertiblePledges:      normalized.UnconvertiblePledges,
			UnconvertiblePayments:     normalized.UnconvertiblePayments,
			OrphanedPayments:          result.OrphanedPayments,
			PaymentsBeforePledgeStart: result.PaymentsBeforePledgeStart,
		},
	}, nil
}

// GetMetricTable retorna o conjunto de métricas contendo apenas a tabela solicitada
func (s *Service) GetMetricTable(name string, req domain.ReportRequest) (*domain.MetricSet, error) {
	if !domain.IsKnownMetric(name) {
		return nil, fmt.Errorf("%w: %s", ErrMetricNotFound, name)
	}

	metrics, err := s.GetMetrics(req)
	if err != nil {
		return nil, err
	}

	metrics.Tables = map[string][]domain.MetricRow{name: metrics.Tables[name]}
	return metrics, nil
}

func (s *Service) GetKPIs(req domain.ReportRequest) (*domain.KPISet, error) {
	metrics, err := s.GetMetrics(req)
	if err != nil {
		return nil, err
	}

	return &domain.KPISet{
		DatasetID:         metrics.DatasetID,
		Period:            metrics.Period,
		AsOf:              metrics.AsOf,
		ReportingCurrency: metrics.ReportingCurrency,
		Cards:             buildKPIs(metrics, s.cfg.Targets),
	}, nil
}

// GetAvailableFiscalYears lista os anos fiscais presentes nas datas de pagamento
func (s *Service) GetAvailableFiscalYears() (*domain.AvailableFiscalYears, error) {
	dataset := s.datasetRepository.Current()
	if dataset == nil {
		return nil, ErrDatasetNotLoaded
	}

	startMonth := s.cfg.Metrics.FiscalYearStart()
	starts := make(map[string]time.Time)
	for _, payment := range dataset.Payments {
		fiscalYear := domain.FiscalYearOf(payment.Date, startMonth)
		starts[fiscalYear.Label] = fiscalYear.Start
	}

	labels := make([]string, 0, len(starts))
	for label := range starts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return starts[labels[i]].Before(starts[labels[j]])
	})

	available := &domain.AvailableFiscalYears{FiscalYears: labels}
	if len(labels) > 0 {
		available.Latest = labels[len(labels)-1]
	}

	return available, nil
}
