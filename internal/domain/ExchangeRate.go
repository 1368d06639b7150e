package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyPair representa a conversão de uma unidade de Base para Quote
type CurrencyPair struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
}

func (p CurrencyPair) String() string {
	return fmt.Sprintf("%s/%s", p.Base, p.Quote)
}

func (p CurrencyPair) Inverse() CurrencyPair {
	return CurrencyPair{Base: p.Quote, Quote: p.Base}
}

// ExchangeRate é a cotação de um par em uma data: 1 Base = Rate Quote
type ExchangeRate struct {
	Pair CurrencyPair    `json:"pair"`
	Date time.Time       `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// RateSeries descreve um arquivo de cotações no formato exportado pelo FRED
type RateSeries struct {
	Code     string // código da série, também usado como nome da coluna
	Currency string // moeda estrangeira da série
	Base     string // moeda de referência da série (USD em todas as séries do FRED)
	// UnitsPerBase indica que a série é cotada como unidades da moeda estrangeira por 1 Base
	// (ex: DEXCAUS = CAD por USD) e precisa ser invertida na carga
	UnitsPerBase bool
}

// Pair retorna o par armazenado depois da carga: 1 moeda estrangeira = Rate Base
func (s RateSeries) Pair() CurrencyPair {
	return CurrencyPair{Base: s.Currency, Quote: s.Base}
}

// KnownRateSeries são as séries do FRED usadas pela planilha de origem
var KnownRateSeries = map[string]RateSeries{
	"DEXUSUK": {Code: "DEXUSUK", Currency: "GBP", Base: "USD"},
	"DEXUSAL": {Code: "DEXUSAL", Currency: "AUD", Base: "USD"},
	"DEXUSEU": {Code: "DEXUSEU", Currency: "EUR", Base: "USD"},
	"DEXCAUS": {Code: "DEXCAUS", Currency: "CAD", Base: "USD", UnitsPerBase: true},
	"DEXSIUS": {Code: "DEXSIUS", Currency: "SGD", Base: "USD", UnitsPerBase: true},
	"DEXSZUS": {Code: "DEXSZUS", Currency: "CHF", Base: "USD", UnitsPerBase: true},
}

// RateTable é uma tabela imutável de cotações indexada por par e ordenada por data
type RateTable struct {
	series map[CurrencyPair][]ExchangeRate
}

// NewRateTable cria a tabela a partir das cotações carregadas. Datas repetidas mantêm a última ocorrência.
func NewRateTable(rates []ExchangeRate) *RateTable {
	series := make(map[CurrencyPair][]ExchangeRate)
	for _, rate := range rates {
		series[rate.Pair] = append(series[rate.Pair], rate)
	}

	for pair, list := range series {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Date.Before(list[j].Date)
		})

		deduped := list[:0]
		for _, rate := range list {
			if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(rate.Date) {
				deduped[n-1] = rate
				continue
			}
			deduped = append(deduped, rate)
		}
		series[pair] = deduped
	}

	return &RateTable{series: series}
}

// LatestOnOrBefore retorna a cotação mais recente do par com data <= date
func (t *RateTable) LatestOnOrBefore(pair CurrencyPair, date time.Time) (ExchangeRate, bool) {
	if t == nil {
		return ExchangeRate{}, false
	}

	list := t.series[pair]
	idx := sort.Search(len(list), func(i int) bool {
		return list[i].Date.After(date)
	})
	if idx == 0 {
		return ExchangeRate{}, false
	}

	return list[idx-1], true
}

// HasPair indica se existe ao menos uma cotação para o par
func (t *RateTable) HasPair(pair CurrencyPair) bool {
	return t != nil && len(t.series[pair]) > 0
}

// Pairs retorna os pares disponíveis em ordem alfabética
func (t *RateTable) Pairs() []CurrencyPair {
	if t == nil {
		return nil
	}

	pairs := make([]CurrencyPair, 0, len(t.series))
	for pair := range t.series {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].String() < pairs[j].String()
	})
	return pairs
}

func (t *RateTable) Len() int {
	if t == nil {
		return 0
	}

	total := 0
	for _, list := range t.series {
		total += len(list)
	}
	return total
}
