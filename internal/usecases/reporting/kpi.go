package reporting

import (
	"github.com/oftw/impact-dashboard-api/internal/config"
	"github.com/oftw/impact-dashboard-api/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type kpiDefinition struct {
	metric string
	label  string
	format domain.KPIFormat
	target func(targets config.Targets) float64
	// lowerIsBetter inverte a comparação com a meta
	lowerIsBetter bool
}

var kpiDefinitions = []kpiDefinition{
	{
		metric: domain.MetricMoneyMoved,
		label:  "Money Moved",
		format: domain.KPIFormatCurrency,
		target: func(t config.Targets) float64 { return t.MoneyMoved },
	},
	{
		metric: domain.MetricCounterfactualMoneyMoved,
		label:  "Counterfactual Money Moved",
		format: domain.KPIFormatCurrency,
		target: func(t config.Targets) float64 { return t.CounterfactualMoneyMoved },
	},
	{
		metric: domain.MetricActiveARRByChannel,
		label:  "Active Annualized Run Rate",
		format: domain.KPIFormatCurrency,
		target: func(t config.Targets) float64 { return t.ActiveARR },
	},
	{
		metric:        domain.MetricPledgeAttritionRate,
		label:         "Pledge Attrition Rate",
		format:        domain.KPIFormatPercent,
		target:        func(t config.Targets) float64 { return t.AttritionRate },
		lowerIsBetter: true,
	},
	{
		metric: domain.MetricActiveDonorCount,
		label:  "Active Donors",
		format: domain.KPIFormatCount,
		target: func(t config.Targets) float64 { return t.ActiveDonors },
	},
	{
		metric: domain.MetricActivePledgeCount,
		label:  "Active Pledges",
		format: domain.KPIFormatCount,
		target: func(t config.Targets) float64 { return t.ActivePledges },
	},
}

func buildKPIs(metrics *domain.MetricSet, targets config.Targets) []domain.KPI {
	printer := message.NewPrinter(language.English)
	cards := make([]domain.KPI, 0, len(kpiDefinitions))

	for _, def := range kpiDefinitions {
		value, _ := metrics.Value(def.metric, domain.DimensionTotal)
		target := def.target(targets)

		card := domain.KPI{
			Metric:        def.metric,
			Label:         def.label,
			Format:        def.format,
			Value:         value,
			Display:       formatValue(printer, def.format, metrics.ReportingCurrency, value),
			Target:        target,
			TargetDisplay: formatValue(printer, def.format, metrics.ReportingCurrency, &target),
		}

		if value != nil {
			if def.lowerIsBetter {
				card.OnTrack = *value <= target
			} else {
				card.OnTrack = *value >= target
			}
		}

		cards = append(cards, card)
	}

	return cards
}

// formatValue gera o texto exibido no cartão, com separador de milhar
func formatValue(printer *message.Printer, format domain.KPIFormat, currency string, value *float64) string {
	if value == nil {
		return "n/a"
	}

	switch format {
	case domain.KPIFormatCurrency:
		if currency == "USD" {
			return printer.Sprintf("$%.2f", *value)
		}
		return printer.Sprintf("%s %.2f", currency, *value)
	case domain.KPIFormatPercent:
		return printer.Sprintf("%.1f%%", *value*100)
	default:
		return printer.Sprintf("%d", int64(*value))
	}
}
