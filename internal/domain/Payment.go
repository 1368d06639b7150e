package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID        string          `json:"payment_id,omitempty"`
	DonorID   string          `json:"donor_id"`
	PledgeID  string          `json:"pledge_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Date      time.Time       `json:"date"`
	Platform  string          `json:"payment_platform,omitempty"`
	Portfolio string          `json:"portfolio,omitempty"`

	// Counterfactuality substitui o fator do canal quando informado no arquivo
	Counterfactuality *decimal.Decimal `json:"counterfactuality,omitempty"`
}
