package normalizing

import (
	"errors"
	"fmt"
	"time"
)

var ErrRateNotFound = errors.New("exchange rate not found")

// RateNotFoundError indica que nenhuma cotação anterior ou igual à data resolve a conversão.
// A conversão falha em vez de assumir cotação 1.
type RateNotFoundError struct {
	From string
	To   string
	Date time.Time
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s->%s em %s", ErrRateNotFound.Error(), e.From, e.To, e.Date.Format(time.DateOnly))
}

func (e *RateNotFoundError) Unwrap() error {
	return ErrRateNotFound
}
