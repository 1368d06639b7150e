package domain

import "time"

// Dataset é o conjunto imutável das três tabelas carregadas.
// Uma recarga cria um novo Dataset em vez de alterar o atual.
type Dataset struct {
	ID       string     `json:"id"`
	LoadedAt time.Time  `json:"loaded_at"`
	Pledges  []Pledge   `json:"-"`
	Payments []Payment  `json:"-"`
	Rates    *RateTable `json:"-"`
	Report   LoadReport `json:"report"`
}

// LoadReport resume a carga dos arquivos, incluindo as linhas descartadas
type LoadReport struct {
	Files []FileReport `json:"files"`
}

const (
	SourcePledges       = "pledges"
	SourcePayments      = "payments"
	SourceExchangeRates = "exchange_rates"
)

type FileReport struct {
	Source  string     `json:"source"`
	File    string     `json:"file"`
	Rows    int        `json:"rows"`
	Loaded  int        `json:"loaded"`
	Skipped int        `json:"skipped"`
	Issues  []RowIssue `json:"issues,omitempty"` // apenas as primeiras ocorrências
}

type RowIssue struct {
	Line   int    `json:"line"`
	Column string `json:"column,omitempty"`
	Reason string `json:"reason"`
}

// SkippedRows soma as linhas descartadas em todos os arquivos
func (r LoadReport) SkippedRows() int {
	total := 0
	for _, file := range r.Files {
		total += file.Skipped
	}
	return total
}

// SkippedBySource soma as linhas descartadas dos arquivos de uma origem (pledges, payments ou exchange_rates)
func (r LoadReport) SkippedBySource(source string) int {
	total := 0
	for _, file := range r.Files {
		if file.Source == source {
			total += file.Skipped
		}
	}
	return total
}
