package domain

import "github.com/shopspring/decimal"

// NormalizedPledge carrega o valor do pledge convertido para a moeda de reporte na data de início
type NormalizedPledge struct {
	Pledge
	ReportingAmount decimal.Decimal `json:"reporting_amount"`
}

// AnnualizedAmount é o valor anualizado pela frequência de cobrança
func (p NormalizedPledge) AnnualizedAmount() decimal.Decimal {
	return p.ReportingAmount.Mul(p.Cadence.AnnualMultiplier())
}

// NormalizedPayment carrega o valor do pagamento convertido para a moeda de reporte na data do pagamento
type NormalizedPayment struct {
	Payment
	ReportingAmount decimal.Decimal `json:"reporting_amount"`
}

type NormalizedDataset struct {
	Pledges               []NormalizedPledge
	Payments              []NormalizedPayment
	UnconvertiblePledges  int
	UnconvertiblePayments int
}
