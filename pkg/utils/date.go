package utils

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts são os formatos aceitos nos arquivos exportados e nos parâmetros da API
var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"01/02/2006",
}

// ParseDate interpreta a data em um dos formatos aceitos e a trunca para o dia em UTC
func ParseDate(dateStr string) (time.Time, error) {
	value := strings.TrimSpace(dateStr)
	if value == "" {
		return time.Time{}, fmt.Errorf("data vazia")
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("data inválida %q", dateStr)
}

// ParseOptionalDate retorna nil para valores vazios
func ParseOptionalDate(dateStr string) (*time.Time, error) {
	if strings.TrimSpace(dateStr) == "" {
		return nil, nil
	}

	date, err := ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	return &date, nil
}
