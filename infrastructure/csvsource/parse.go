package csvsource

import (
	"strings"

	"github.com/oftw/impact-dashboard-api/internal/domain"
	"github.com/oftw/impact-dashboard-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// fredMissingValue é o marcador usado pelo FRED para dias sem cotação
const fredMissingValue = "."

func fieldError(column, reason string) *ParseError {
	return &ParseError{Column: column, Reason: reason}
}

func parsePledge(record []string, cols columns) (domain.Pledge, *ParseError) {
	pledge := domain.Pledge{
		ID:          cols.get(record, colPledgeID),
		DonorID:     cols.get(record, colDonorID),
		Channel:     cols.get(record, colChannel),
		Chapter:     cols.get(record, colDonorChapter),
		ChapterType: cols.get(record, colChapterType),
	}

	if pledge.ID == "" {
		return pledge, fieldError(colPledgeID, "identificador vazio")
	}
	if pledge.DonorID == "" {
		return pledge, fieldError(colDonorID, "identificador vazio")
	}

	var perr *ParseError
	if pledge.Amount, perr = parseAmount(colContributionAmount, cols.get(record, colContributionAmount)); perr != nil {
		return pledge, perr
	}
	if pledge.Currency, perr = parseCurrency(colCurrency, cols.get(record, colCurrency)); perr != nil {
		return pledge, perr
	}

	startDate, err := utils.ParseDate(cols.get(record, colPledgeStartsAt))
	if err != nil {
		return pledge, fieldError(colPledgeStartsAt, err.Error())
	}
	pledge.StartDate = startDate

	if pledge.CreatedAt, err = utils.ParseOptionalDate(cols.get(record, colPledgeCreatedAt)); err != nil {
		return pledge, fieldError(colPledgeCreatedAt, err.Error())
	}
	if pledge.EndedAt, err = utils.ParseOptionalDate(cols.get(record, colPledgeEndedAt)); err != nil {
		return pledge, fieldError(colPledgeEndedAt, err.Error())
	}

	if pledge.Cadence, err = domain.ParseCadence(cols.get(record, colFrequency)); err != nil {
		return pledge, fieldError(colFrequency, err.Error())
	}
	if pledge.Status, err = domain.ParsePledgeStatus(cols.get(record, colPledgeStatus)); err != nil {
		return pledge, fieldError(colPledgeStatus, err.Error())
	}

	return pledge, nil
}

func parsePayment(record []string, cols columns) (domain.Payment, *ParseError) {
	payment := domain.Payment{
		ID:        cols.get(record, colPaymentID),
		DonorID:   cols.get(record, colDonorID),
		PledgeID:  cols.get(record, colPledgeID),
		Platform:  cols.get(record, colPaymentPlatform),
		Portfolio: cols.get(record, colPortfolio),
	}

	var perr *ParseError
	if payment.Amount, perr = parseAmount(colAmount, cols.get(record, colAmount)); perr != nil {
		return payment, perr
	}
	if payment.Currency, perr = parseCurrency(colCurrency, cols.get(record, colCurrency)); perr != nil {
		return payment, perr
	}

	date, err := utils.ParseDate(cols.get(record, colDate))
	if err != nil {
		return payment, fieldError(colDate, err.Error())
	}
	payment.Date = date

	if raw := cols.get(record, colCounterfactual); raw != "" {
		factor, err := decimal.NewFromString(raw)
		if err != nil || factor.IsNegative() || factor.GreaterThan(decimal.NewFromInt(1)) {
			return payment, fieldError(colCounterfactual, "fator deve estar entre 0 e 1: "+raw)
		}
		payment.Counterfactuality = &factor
	}

	return payment, nil
}

// parseRate lê uma linha de série do FRED. Séries cotadas em unidades por dólar são invertidas
// para que toda cotação armazenada represente dólares por unidade da moeda estrangeira.
func parseRate(record []string, cols columns, series domain.RateSeries) (domain.ExchangeRate, *ParseError) {
	rate := domain.ExchangeRate{Pair: series.Pair()}

	date, err := utils.ParseDate(cols.get(record, colRateDate))
	if err != nil {
		return rate, fieldError(colRateDate, err.Error())
	}
	rate.Date = date

	raw := cols.get(record, series.Code)
	if raw == "" || raw == fredMissingValue {
		return rate, fieldError(series.Code, "cotação ausente")
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return rate, fieldError(series.Code, "cotação inválida "+raw)
	}
	if !value.IsPositive() {
		return rate, fieldError(series.Code, "cotação deve ser positiva")
	}

	if series.UnitsPerBase {
		value = decimal.NewFromInt(1).DivRound(value, 12)
	}
	rate.Rate = value

	return rate, nil
}

func parseAmount(column, raw string) (decimal.Decimal, *ParseError) {
	if raw == "" {
		return decimal.Zero, fieldError(column, "valor vazio")
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fieldError(column, "valor inválido "+raw)
	}
	if amount.IsNegative() {
		return decimal.Zero, fieldError(column, "valor negativo "+raw)
	}

	return amount, nil
}

func parseCurrency(column, raw string) (string, *ParseError) {
	code := strings.ToUpper(raw)
	if len(code) != 3 {
		return "", fieldError(column, "código de moeda inválido "+raw)
	}

	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fieldError(column, "código de moeda inválido "+raw)
		}
	}

	return code, nil
}
