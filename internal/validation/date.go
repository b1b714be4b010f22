// Package validation содержит функции проверки и нормализации полей SMS-команд.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/mmeshcher/sms-gateway/internal/model"
)

// ErrInvalidDateFormat возвращается, если строка не соответствует ни одному из допустимых форматов даты.
var ErrInvalidDateFormat = errors.New("invalid date format")

// ReferenceZone — часовой пояс, в котором вычисляется today().
const ReferenceZone = "America/New_York"

const todayLiteral = "today()"

// Порядок важен: побеждает первый подошедший формат.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006 1 2",
}

// Зона встроена через time/tzdata, поэтому загрузка не может завершиться ошибкой.
var referenceLocation = mustLoadLocation(ReferenceZone)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load location %s: %v", name, err))
	}
	return loc
}

// Clock возвращает текущий момент времени.
type Clock func() time.Time

// DateNormalizer приводит даты из сообщений к каноническому виду YYYY-MM-DD.
type DateNormalizer struct {
	now Clock
	loc *time.Location
}

// NewDateNormalizer создаёт нормализатор дат. Если now равен nil, используется time.Now.
func NewDateNormalizer(now Clock) *DateNormalizer {
	if now == nil {
		now = time.Now
	}

	return &DateNormalizer{
		now: now,
		loc: referenceLocation,
	}
}

// Today возвращает текущую дату в часовом поясе ReferenceZone.
func (n *DateNormalizer) Today() model.Date {
	return model.DateOf(n.now().In(n.loc))
}

// Normalize разбирает дату в одном из форматов YYYY-MM-DD, YYYY/MM/DD, YYYY MM DD
// или литерал today() без учёта регистра.
func (n *DateNormalizer) Normalize(raw string) (model.Date, error) {
	s := strings.TrimSpace(raw)

	if strings.EqualFold(s, todayLiteral) {
		return n.Today(), nil
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return model.DateOf(t), nil
		}
	}

	return model.Date{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
}
