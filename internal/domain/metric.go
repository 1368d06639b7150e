package domain

import (
	"time"
)

const (
	MetricMoneyMoved               = "money_moved"
	MetricCounterfactualMoneyMoved = "counterfactual_money_moved"
	MetricActiveARRByChannel       = "active_arr_by_channel"
	MetricPledgeAttritionRate      = "pledge_attrition_rate"
	MetricActiveDonorCount         = "active_donor_count"
	MetricActivePledgeCount        = "active_pledge_count"
	MetricChapterARRByType         = "chapter_arr_by_type"
	MetricMoneyMovedMonthly        = "money_moved_monthly"
	MetricMoneyMovedCumulative     = "money_moved_cumulative"
	MetricMoneyMovedMonthlyAverage = "money_moved_monthly_average"
	MetricMoneyMovedByPlatform     = "money_moved_by_platform"
	MetricMoneyMovedByChapterType  = "money_moved_by_chapter_type"
	MetricMoneyMovedByRecurrence   = "money_moved_by_recurrence"
	MetricFuturePledgeCount        = "future_pledge_count"
	MetricFutureARR                = "future_arr"
	MetricTotalARR                 = "total_arr"
)

// MetricNames lista as métricas na ordem em que são apresentadas
var MetricNames = []string{
	MetricMoneyMoved,
	MetricCounterfactualMoneyMoved,
	MetricActiveARRByChannel,
	MetricPledgeAttritionRate,
	MetricActiveDonorCount,
	MetricActivePledgeCount,
	MetricChapterARRByType,
	MetricMoneyMovedMonthly,
	MetricMoneyMovedCumulative,
	MetricMoneyMovedMonthlyAverage,
	MetricMoneyMovedByPlatform,
	MetricMoneyMovedByChapterType,
	MetricMoneyMovedByRecurrence,
	MetricFuturePledgeCount,
	MetricFutureARR,
	MetricTotalARR,
}

func IsKnownMetric(name string) bool {
	for _, metric := range MetricNames {
		if metric == name {
			return true
		}
	}
	return false
}

const (
	DimensionTotal        = "total"
	DimensionUnattributed = "unattributed"
	DimensionUnknown      = "unknown"
	DimensionOneTime      = "one_time"
	DimensionRecurring    = "recurring"
)

// MetricRow é uma linha derivada de uma tabela de métricas; Value nulo indica resultado indefinido
type MetricRow struct {
	Metric    string   `json:"metric"`
	Bucket    string   `json:"bucket"`
	Dimension string   `json:"dimension"`
	Value     *float64 `json:"value"`
}

type MetricSet struct {
	DatasetID         string                 `json:"dataset_id"`
	Period            Period                 `json:"period"`
	AsOf              time.Time              `json:"as_of"`
	ReportingCurrency string                 `json:"reporting_currency"`
	Tables            map[string][]MetricRow `json:"tables"`
	Warnings          Warnings               `json:"warnings"`
}

// Value retorna o valor da primeira linha da métrica com a dimensão informada
func (s *MetricSet) Value(metric, dimension string) (*float64, bool) {
	for _, row := range s.Tables[metric] {
		if row.Dimension == dimension {
			return row.Value, true
		}
	}
	return nil, false
}

// Warnings agrega os problemas de linha e de conversão encontrados junto a um resultado válido
type Warnings struct {
	SkippedPledgeRows         int `json:"skipped_pledge_rows"`
	SkippedPaymentRows        int `json:"skipped_payment_rows"`
	SkippedRateRows           int `json:"skipped_rate_rows"`
	UnconvertiblePledges      int `json:"unconvertible_pledges"`
	UnconvertiblePayments     int `json:"unconvertible_payments"`
	OrphanedPayments          int `json:"orphaned_payments"`
	PaymentsBeforePledgeStart int `json:"payments_before_pledge_start"`
}

type KPIFormat string

const (
	KPIFormatCurrency KPIFormat = "currency"
	KPIFormatPercent  KPIFormat = "percent"
	KPIFormatCount    KPIFormat = "count"
)

// KPI é um cartão do painel com valor, meta e indicação de cumprimento
type KPI struct {
	Metric        string    `json:"metric"`
	Label         string    `json:"label"`
	Format        KPIFormat `json:"format"`
	Value         *float64  `json:"value"`
	Display       string    `json:"display"`
	Target        float64   `json:"target"`
	TargetDisplay string    `json:"target_display"`
	OnTrack       bool      `json:"on_track"`
}

type KPISet struct {
	DatasetID         string    `json:"dataset_id"`
	Period            Period    `json:"period"`
	AsOf              time.Time `json:"as_of"`
	ReportingCurrency string    `json:"reporting_currency"`
	Cards             []KPI     `json:"cards"`
}
