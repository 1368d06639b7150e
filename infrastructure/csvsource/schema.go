package csvsource

import (
	"slices"
	"sort"
	"strings"
)

const (
	colPledgeID           = "pledge_id"
	colDonorID            = "donor_id"
	colContributionAmount = "contribution_amount"
	colCurrency           = "currency"
	colPledgeStartsAt     = "pledge_starts_at"
	colFrequency          = "frequency"
	colChannel            = "channel"
	colDonorChapter       = "donor_chapter"
	colPledgeStatus       = "pledge_status"
	colChapterType        = "chapter_type"
	colPledgeCreatedAt    = "pledge_created_at"
	colPledgeEndedAt      = "pledge_ended_at"

	colAmount          = "amount"
	colDate            = "date"
	colPaymentID       = "payment_id"
	colPaymentPlatform = "payment_platform"
	colPortfolio       = "portfolio"
	colCounterfactual  = "counterfactuality"

	colRateDate = "DATE"
)

const utf8BOM = "\ufeff"

// schema define as colunas obrigatórias e opcionais conhecidas de um arquivo
type schema struct {
	required []string
	optional []string
}

var pledgeSchema = schema{
	required: []string{
		colPledgeID, colDonorID, colContributionAmount, colCurrency, colPledgeStartsAt,
		colFrequency, colChannel, colDonorChapter, colPledgeStatus,
	},
	optional: []string{colChapterType, colPledgeCreatedAt, colPledgeEndedAt},
}

var paymentSchema = schema{
	required: []string{colDonorID, colPledgeID, colAmount, colCurrency, colDate},
	optional: []string{colPaymentID, colPaymentPlatform, colPortfolio, colCounterfactual},
}

func rateSchema(seriesCode string) schema {
	return schema{required: []string{colRateDate, seriesCode}}
}

// columns mapeia o nome da coluna para a posição no registro
type columns map[string]int

// get retorna o valor aparado da coluna ou vazio quando a coluna opcional não existe
func (c columns) get(record []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// bind valida o cabeçalho contra o schema
func (s schema) bind(file string, header []string) (columns, error) {
	known := make(map[string]bool, len(s.required)+len(s.optional))
	for _, name := range s.required {
		known[name] = true
	}
	for _, name := range s.optional {
		known[name] = true
	}

	cols := make(columns, len(header))
	var unknown, duplicated []string
	for idx, raw := range header {
		name := strings.TrimSpace(raw)
		if idx == 0 {
			name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
		}

		if !known[name] {
			unknown = append(unknown, name)
			continue
		}
		if _, seen := cols[name]; seen {
			if !slices.Contains(duplicated, name) {
				duplicated = append(duplicated, name)
			}
			continue
		}
		cols[name] = idx
	}

	var missing []string
	for _, name := range s.required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 || len(unknown) > 0 || len(duplicated) > 0 {
		sort.Strings(missing)
		sort.Strings(unknown)
		sort.Strings(duplicated)
		return nil, &SchemaError{File: file, Missing: missing, Unknown: unknown, Duplicated: duplicated}
	}

	return cols, nil
}

func (s schema) sortedRequired() []string {
	required := append([]string(nil), s.required...)
	sort.Strings(required)
	return required
}
