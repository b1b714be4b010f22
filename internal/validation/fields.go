package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/sms-gateway/internal/model"
)

var (
	// ErrInvalidPosition возвращается, если позиция не входит в start, mid, end.
	ErrInvalidPosition = errors.New("invalid position")
	// ErrInvalidNumber возвращается, если поле не является десятичным числом.
	ErrInvalidNumber = errors.New("invalid number")
)

// Границы порядка и числа значащих цифр: иначе "1e50000000" раскрывается
// в строку из миллионов цифр при выводе.
const (
	minExponent = -6
	maxExponent = 6
	maxDigits   = 15
)

// ParsePosition проверяет позицию без учёта регистра и возвращает её в нижнем регистре.
func ParsePosition(raw string) (model.Position, error) {
	p := model.Position(strings.ToLower(strings.TrimSpace(raw)))
	if !slices.Contains(model.Positions, p) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPosition, raw)
	}
	return p, nil
}

// ParseDecimal разбирает десятичное число.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidNumber)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	if d.Exponent() < minExponent || d.Exponent() > maxExponent || d.NumDigits() > maxDigits {
		return decimal.Zero, fmt.Errorf("%w: %q out of range", ErrInvalidNumber, raw)
	}
	return d, nil
}
