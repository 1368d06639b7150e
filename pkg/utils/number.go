package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// MoneyValue converte um total monetário para float com duas casas
func MoneyValue(d decimal.Decimal) float64 {
	return RoundWithTwoDecimalPlace(d.InexactFloat64())
}

// RatioValue converte uma razão para float com quatro casas
func RatioValue(d decimal.Decimal) float64 {
	return d.Round(4).InexactFloat64()
}
