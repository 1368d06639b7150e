// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PledgeStatus string

const (
	PledgeStatusActive    PledgeStatus = "active"
	PledgeStatusPledged   PledgeStatus = "pledged" // assinado, mas ainda não iniciado
	PledgeStatusLapsed    PledgeStatus = "lapsed"
	PledgeStatusCancelled PledgeStatus = "cancelled"
	PledgeStatusOneTime   PledgeStatus = "one_time"
)

// pledgeStatusAliases mapeia os rótulos exportados pela planilha de origem para os status canônicos
var pledgeStatusAliases = map[string]PledgeStatus{
	"active":          PledgeStatusActive,
	"active donor":    PledgeStatusActive,
	"pledged":         PledgeStatusPledged,
	"pledged donor":   PledgeStatusPledged,
	"lapsed":          PledgeStatusLapsed,
	"payment failure": PledgeStatusLapsed,
	"cancelled":       PledgeStatusCancelled,
	"canceled":        PledgeStatusCancelled,
	"churned donor":   PledgeStatusCancelled,
	"one_time":        PledgeStatusOneTime,
	"one-time":        PledgeStatusOneTime,
}

func ParsePledgeStatus(value string) (PledgeStatus, error) {
	status, ok := pledgeStatusAliases[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return "", fmt.Errorf("status de pledge desconhecido: %q", value)
	}
	return status, nil
}

// IsTerminated indica se o pledge deixou de contribuir (lapsed ou cancelled)
func (s PledgeStatus) IsTerminated() bool {
	return s == PledgeStatusLapsed || s == PledgeStatusCancelled
}

type Cadence string

const (
	CadenceMonthly   Cadence = "monthly"
	CadenceQuarterly Cadence = "quarterly"
	CadenceAnnual    Cadence = "annual"
	CadenceOneTime   Cadence = "one_time"
)

var cadenceAliases = map[string]Cadence{
	"monthly":   CadenceMonthly,
	"quarterly": CadenceQuarterly,
	"annual":    CadenceAnnual,
	"annually":  CadenceAnnual,
	"yearly":    CadenceAnnual,
	"one_time":  CadenceOneTime,
	"one-time":  CadenceOneTime,
	"once":      CadenceOneTime,
}

func ParseCadence(value string) (Cadence, error) {
	cadence, ok := cadenceAliases[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return "", fmt.Errorf("frequência desconhecida: %q", value)
	}
	return cadence, nil
}

// AnnualMultiplier retorna quantas vezes por ano o valor do pledge é cobrado
func (c Cadence) AnnualMultiplier() decimal.Decimal {
	switch c {
	case CadenceMonthly:
		return decimal.NewFromInt(12)
	case CadenceQuarterly:
		return decimal.NewFromInt(4)
	default:
		return decimal.NewFromInt(1)
	}
}

type Pledge struct {
	ID          string          `json:"pledge_id"`
	DonorID     string          `json:"donor_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	StartDate   time.Time       `json:"start_date"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
	EndedAt     *time.Time      `json:"ended_at,omitempty"`
	Cadence     Cadence         `json:"cadence"`
	Channel     string          `json:"channel"`
	Chapter     string          `json:"chapter"`
	ChapterType string          `json:"chapter_type,omitempty"`
	Status      PledgeStatus    `json:"status"`
}

// ActiveOn indica se o pledge estava ativo no início da data informada.
// Um pledge encerrado nessa mesma data ainda conta como ativo.
// Pledges encerrados sem data de término não podem ser situados no tempo e nunca contam como ativos.
func (p Pledge) ActiveOn(date time.Time) bool {
	if p.StartDate.After(date) {
		return false
	}

	switch {
	case p.Status == PledgeStatusActive:
		return true
	case p.Status.IsTerminated():
		return p.EndedAt != nil && !DateOf(*p.EndedAt).Before(DateOf(date))
	default:
		return false
	}
}

// TerminatedWithin indica se o pledge passou para lapsed/cancelled dentro do período
func (p Pledge) TerminatedWithin(period Period) bool {
	return p.Status.IsTerminated() && p.EndedAt != nil && period.Contains(*p.EndedAt)
}

// CurrentlyActive indica se o pledge tem status active e já havia iniciado na data de referência
func (p Pledge) CurrentlyActive(asOf time.Time) bool {
	return p.Status == PledgeStatusActive && !p.StartDate.After(asOf)
}
