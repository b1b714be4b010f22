package command

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/sms-gateway/internal/model"
	"github.com/mmeshcher/sms-gateway/internal/validation"
)

func parsePosition(raw string) (model.Position, error) {
	position, err := validation.ParsePosition(raw)
	if err != nil {
		allowed := make([]string, 0, len(model.Positions))
		for _, p := range model.Positions {
			allowed = append(allowed, string(p))
		}
		return "", reject(err, "Invalid position '%s'. Allowed values: %s", raw, strings.Join(allowed, ", "))
	}
	return position, nil
}

func parseNumber(raw, field, example string) (decimal.Decimal, error) {
	n, err := validation.ParseDecimal(raw)
	if err != nil {
		return decimal.Zero, reject(err, "Invalid %s '%s'. Use a number, e.g. %s", field, raw, example)
	}
	return n, nil
}
