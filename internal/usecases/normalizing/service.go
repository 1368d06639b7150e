// Package normalizing converte os valores do dataset para a moeda de reporte
package normalizing

import (
	"time"

	"github.com/oftw/impact-dashboard-api/internal/config"
	"github.com/oftw/impact-dashboard-api/internal/domain"
	"github.com/oftw/impact-dashboard-api/pkg/log"
	"github.com/shopspring/decimal"
)

// inversePrecision é o número de casas usado ao inverter uma cotação
const inversePrecision = 16

type Normalizer interface {
	Convert(rates *domain.RateTable, amount decimal.Decimal, currency string, date time.Time) (decimal.Decimal, error)
	NormalizeDataset(dataset *domain.Dataset) *domain.NormalizedDataset
	ReportingCurrency() string
}

type Service struct {
	reportingCurrency string
	pivotCurrency     string
}

func NewService(cfg *config.Config) Normalizer {
	return &Service{
		reportingCurrency: cfg.Metrics.ReportingCurrency,
		pivotCurrency:     cfg.Metrics.PivotCurrency,
	}
}

func (s *Service) ReportingCurrency() string {
	return s.reportingCurrency
}

// Convert converte o valor para a moeda de reporte usando a cotação mais recente com data <= date.
// Ordem de busca: par direto, par inverso e cotação cruzada pela moeda pivô.
func (s *Service) Convert(rates *domain.RateTable, amount decimal.Decimal, currency string, date time.Time) (decimal.Decimal, error) {
	if currency == s.reportingCurrency {
		return amount, nil
	}

	if rate, ok := lookup(rates, currency, s.reportingCurrency, date); ok {
		return amount.Mul(rate), nil
	}

	if s.pivotCurrency != currency && s.pivotCurrency != s.reportingCurrency {
		toPivot, ok := lookup(rates, currency, s.pivotCurrency, date)
		if ok {
			if fromPivot, ok := lookup(rates, s.pivotCurrency, s.reportingCurrency, date); ok {
				return amount.Mul(toPivot).Mul(fromPivot), nil
			}
		}
	}

	return decimal.Zero, &RateNotFoundError{From: currency, To: s.reportingCurrency, Date: date}
}

// lookup resolve a cotação from->to pelo par direto ou pelo inverso
func lookup(rates *domain.RateTable, from, to string, date time.Time) (decimal.Decimal, bool) {
	pair := domain.CurrencyPair{Base: from, Quote: to}

	if rate, ok := rates.LatestOnOrBefore(pair, date); ok {
		return rate.Rate, true
	}

	if rate, ok := rates.LatestOnOrBefore(pair.Inverse(), date); ok {
		return decimal.NewFromInt(1).DivRound(rate.Rate, inversePrecision), true
	}

	return decimal.Zero, false
}

// NormalizeDataset converte pledges na data de início e pagamentos na data do pagamento.
// Linhas sem cotação ficam de fora e são contadas.
func (s *Service) NormalizeDataset(dataset *domain.Dataset) *domain.NormalizedDataset {
	normalized := &domain.NormalizedDataset{
		Pledges:  make([]domain.NormalizedPledge, 0, len(dataset.Pledges)),
		Payments: make([]domain.NormalizedPayment, 0, len(dataset.Payments)),
	}

	for _, pledge := range dataset.Pledges {
		amount, err := s.Convert(dataset.Rates, pledge.Amount, pledge.Currency, pledge.StartDate)
		if err != nil {
			normalized.UnconvertiblePledges++
			log.L.WithField("dataset_pledge_id", pledge.ID).WithError(err).Debug("Pledge sem cotação")
			continue
		}
		normalized.Pledges = append(normalized.Pledges, domain.NormalizedPledge{Pledge: pledge, ReportingAmount: amount})
	}

	for _, payment := range dataset.Payments {
		amount, err := s.Convert(dataset.Rates, payment.Amount, payment.Currency, payment.Date)
		if err != nil {
			normalized.UnconvertiblePayments++
			log.L.WithField("dataset_payment_id", payment.ID).WithError(err).Debug("Pagamento sem cotação")
			continue
		}
		normalized.Payments = append(normalized.Payments, domain.NormalizedPayment{Payment: payment, ReportingAmount: amount})
	}

	if normalized.UnconvertiblePledges > 0 || normalized.UnconvertiblePayments > 0 {
		log.L.WithFields(log.Fields{
			"dataset_id":                     dataset.ID,
			"dataset_unconvertible_pledges":  normalized.UnconvertiblePledges,
			"dataset_unconvertible_payments": normalized.UnconvertiblePayments,
		}).Warn("Linhas sem cotação excluídas das métricas")
	}

	return normalized
}
