package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type PeriodKind string

const (
	PeriodMonth      PeriodKind = "month"
	PeriodFiscalYear PeriodKind = "fiscal_year"
	PeriodFYTD       PeriodKind = "fytd"
)

var ErrInvalidPeriod = errors.New("invalid period")

// Period é um intervalo fechado de datas de calendário [Start, End]
type Period struct {
	Kind  PeriodKind `json:"kind"`
	Label string     `json:"label"`
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
}

// DateOf trunca o instante para a data de calendário em UTC
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (p Period) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Months divide o período em meses de calendário, recortando o primeiro e o último mês nos limites do período
func (p Period) Months() []Period {
	months := make([]Period, 0, 12)

	current := time.Date(p.Start.Year(), p.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !current.After(p.End) {
		month := MonthPeriod(current.Year(), current.Month())
		if month.Start.Before(p.Start) {
			month.Start = p.Start
		}
		if month.End.After(p.End) {
			month.End = p.End
		}
		months = append(months, month)

		current = current.AddDate(0, 1, 0)
	}

	return months
}

func MonthPeriod(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{
		Kind:  PeriodMonth,
		Label: start.Format("2006-01"),
		Start: start,
		End:   start.AddDate(0, 1, -1),
	}
}

// ParseMonth lê um mês no formato yyyy-mm
func ParseMonth(value string) (Period, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(value))
	if err != nil {
		return Period{}, fmt.Errorf("%w: mês inválido %q, use yyyy-mm", ErrInvalidPeriod, value)
	}
	return MonthPeriod(t.Year(), t.Month()), nil
}

// FiscalYearStart retorna o primeiro dia do ano fiscal que contém a data
func FiscalYearStart(date time.Time, startMonth time.Month) time.Time {
	year := date.Year()
	if date.Month() < startMonth {
		year--
	}
	return time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
}

// FiscalYearLabel gera o rótulo no formato FY2023-2024 (ou FY2024 quando o ano fiscal começa em janeiro)
func FiscalYearLabel(start time.Time, startMonth time.Month) string {
	if startMonth == time.January {
		return fmt.Sprintf("FY%d", start.Year())
	}
	return fmt.Sprintf("FY%d-%d", start.Year(), start.Year()+1)
}

func FiscalYearOf(date time.Time, startMonth time.Month) Period {
	start := FiscalYearStart(date, startMonth)
	return Period{
		Kind:  PeriodFiscalYear,
		Label: FiscalYearLabel(start, startMonth),
		Start: start,
		End:   start.AddDate(1, 0, -1),
	}
}

// ParseFiscalYear converte um rótulo FY2023-2024 (ou FY2024) no período correspondente
func ParseFiscalYear(label string, startMonth time.Month) (Period, error) {
	raw := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(label)), "FY")
	parts := strings.Split(raw, "-")

	first, err := strconv.Atoi(parts[0])
	if err != nil || len(parts) > 2 {
		return Period{}, fmt.Errorf("%w: ano fiscal inválido %q", ErrInvalidPeriod, label)
	}

	switch {
	case startMonth == time.January && len(parts) != 1:
		return Period{}, fmt.Errorf("%w: ano fiscal %q deve ter o formato FYyyyy", ErrInvalidPeriod, label)
	case startMonth != time.January && len(parts) != 2:
		return Period{}, fmt.Errorf("%w: ano fiscal %q deve ter o formato FYyyyy-yyyy", ErrInvalidPeriod, label)
	}

	if len(parts) == 2 {
		second, err := strconv.Atoi(parts[1])
		if err != nil || second != first+1 {
			return Period{}, fmt.Errorf("%w: ano fiscal inválido %q", ErrInvalidPeriod, label)
		}
	}

	return FiscalYearOf(time.Date(first, startMonth, 1, 0, 0, 0, 0, time.UTC), startMonth), nil
}

// FiscalYearToDate acumula do início do ano fiscal até a data de referência, inclusive
func FiscalYearToDate(asOf time.Time, startMonth time.Month) Period {
	fiscalYear := FiscalYearOf(asOf, startMonth)
	return Period{
		Kind:  PeriodFYTD,
		Label: fiscalYear.Label + " FYTD",
		Start: fiscalYear.Start,
		End:   DateOf(asOf),
	}
}

// ReportRequest descreve o período solicitado pela camada de apresentação
type ReportRequest struct {
	Kind       PeriodKind
	FiscalYear string     // usado com PeriodFiscalYear
	Month      string     // usado com PeriodMonth
	AsOf       *time.Time // usado com PeriodFYTD
}

// ResolvePeriod converte a requisição em período e data de referência.
// Para mês e ano fiscal completo a data de referência é o último dia do período.
func ResolvePeriod(req ReportRequest, startMonth time.Month, today time.Time) (Period, time.Time, error) {
	switch req.Kind {
	case "", PeriodFYTD:
		asOf := DateOf(today)
		if req.AsOf != nil {
			asOf = DateOf(*req.AsOf)
		}
		return FiscalYearToDate(asOf, startMonth), asOf, nil

	case PeriodFiscalYear:
		period, err := ParseFiscalYear(req.FiscalYear, startMonth)
		if err != nil {
			return Period{}, time.Time{}, err
		}
		return period, period.End, nil

	case PeriodMonth:
		period, err := ParseMonth(req.Month)
		if err != nil {
			return Period{}, time.Time{}, err
		}
		return period, period.End, nil

	default:
		return Period{}, time.Time{}, fmt.Errorf("%w: tipo de período desconhecido %q", ErrInvalidPeriod, req.Kind)
	}
}
