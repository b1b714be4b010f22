package command

import (
	"strings"

	"github.com/mmeshcher/sms-gateway/internal/model"
)

const (
	mileageFormatHint = "Invalid format. Use: MILEAGE, date, name, start|mid|end, miles"
	hoursFormatHint   = "Invalid format. Use: HOURS, date, hours today, hours this week"
	dateFormatHint    = "Invalid date '%s'. Use YYYY-MM-DD, YYYY/MM/DD, YYYY MM DD or today()"
)

// ParseMileage проверяет запись "MILEAGE, date, name, position, distance".
// Поля проверяются строго по порядку: формат, дата, позиция, расстояние;
// первая ошибка прерывает проверку.
func (p *Parser) ParseMileage(text string) (model.MileageEntry, error) {
	parts := splitFields(text)
	if len(parts) != 5 || !strings.EqualFold(parts[0], keywordMileage) {
		return model.MileageEntry{}, reject(ErrFormat, mileageFormatHint)
	}

	date, err := p.dates.Normalize(parts[1])
	if err != nil {
		return model.MileageEntry{}, reject(err, dateFormatHint, parts[1])
	}

	position, err := parsePosition(parts[3])
	if err != nil {
		return model.MileageEntry{}, err
	}

	distance, err := parseNumber(parts[4], "distance", "12.5")
	if err != nil {
		return model.MileageEntry{}, err
	}

	return model.MileageEntry{
		Date:     date,
		Name:     parts[2],
		Position: position,
		Distance: distance,
	}, nil
}

// ParseHours проверяет запись "HOURS, date, hours_today, hours_week".
func (p *Parser) ParseHours(text string) (model.HoursEntry, error) {
	parts := splitFields(text)
	if len(parts) != 4 || !strings.EqualFold(parts[0], keywordHours) {
		return model.HoursEntry{}, reject(ErrFormat, hoursFormatHint)
	}

	date, err := p.dates.Normalize(parts[1])
	if err != nil {
		return model.HoursEntry{}, reject(err, dateFormatHint, parts[1])
	}

	today, err := parseNumber(parts[2], "hours today", "8 or 7.5")
	if err != nil {
		return model.HoursEntry{}, err
	}

	week, err := parseNumber(parts[3], "hours this week", "32 or 37.5")
	if err != nil {
		return model.HoursEntry{}, err
	}

	return model.HoursEntry{
		Date:       date,
		HoursToday: today,
		HoursWeek:  week,
	}, nil
}
