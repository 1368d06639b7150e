package domain

// AvailableFiscalYears representa os anos fiscais presentes nas datas de pagamento do dataset
type AvailableFiscalYears struct {
	FiscalYears []string `json:"fiscal_years"` // Rótulos no formato FY2023-2024, em ordem crescente
	Latest      string   `json:"latest,omitempty"`
}
