// Package model содержит доменные сущности SMS-шлюза команд.
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"
)

// CommandType описывает тип команды, передаваемый во внешний сервис в поле type.
type CommandType string

const (
	CommandMileage CommandType = "mileage"
	CommandHours   CommandType = "hours"
	CommandProcess CommandType = "process"
	CommandQuery   CommandType = "query"
)

// Command — нормализованная команда, готовая к отправке во внешний сервис.
type Command interface {
	Type() CommandType
}

// Position описывает точку маршрута в записи о пробеге.
type Position string

const (
	PositionStart Position = "start"
	PositionMid   Position = "mid"
	PositionEnd   Position = "end"
)

// Positions перечисляет допустимые значения Position в порядке вывода пользователю.
var Positions = []Position{PositionStart, PositionMid, PositionEnd}

// Date — календарная дата без времени и часового пояса.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf возвращает календарную дату момента t в его часовом поясе.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String возвращает дату в каноническом виде YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText реализует encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// MileageEntry — запись о пробеге.
type MileageEntry struct {
	Date     Date
	Name     string
	Position Position
	Distance decimal.Decimal
}

// Type реализует Command.
func (MileageEntry) Type() CommandType { return CommandMileage }

// MarshalJSON реализует json.Marshaler.
func (e MileageEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     CommandType `json:"type"`
		Date     Date        `json:"date"`
		Name     string      `json:"name"`
		Position Position    `json:"position"`
		Distance json.Number `json:"distance"`
	}{
		Type:     e.Type(),
		Date:     e.Date,
		Name:     e.Name,
		Position: e.Position,
		Distance: json.Number(e.Distance.String()),
	})
}

// HoursEntry — запись об отработанных часах.
type HoursEntry struct {
	Date       Date
	HoursToday decimal.Decimal
	HoursWeek  decimal.Decimal
}

// Type реализует Command.
func (HoursEntry) Type() CommandType { return CommandHours }

// MarshalJSON реализует json.Marshaler.
func (e HoursEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       CommandType `json:"type"`
		Date       Date        `json:"date"`
		HoursToday json.Number `json:"hours_today"`
		HoursWeek  json.Number `json:"hours_week"`
	}{
		Type:       e.Type(),
		Date:       e.Date,
		HoursToday: json.Number(e.HoursToday.String()),
		HoursWeek:  json.Number(e.HoursWeek.String()),
	})
}

// ProcessRequest — управляющая команда запуска обработки накопленных записей.
type ProcessRequest struct{}

// Type реализует Command.
func (ProcessRequest) Type() CommandType { return CommandProcess }

// MarshalJSON реализует json.Marshaler.
func (r ProcessRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]CommandType{"type": r.Type()})
}

// QueryKind описывает вид запроса к внешнему сервису.
type QueryKind string

const (
	QueryPayStatus      QueryKind = "pay_status"
	QueryPayPeriod      QueryKind = "pay_period"
	QueryPayHistory     QueryKind = "pay_history"
	QueryMileageToday   QueryKind = "mileage_today"
	QueryMileageSummary QueryKind = "mileage_summary"
	QueryHoursWeek      QueryKind = "hours_week"
	QueryHelp           QueryKind = "help"
)

// DefaultLookbackDays — глубина выборки сводки пробега по имени.
const DefaultLookbackDays = 30

// QueryParams содержит необязательные параметры запроса.
type QueryParams struct {
	Date mo.Option[Date]
	Name mo.Option[string]
	Days mo.Option[int]
}

// Query — запрос данных у внешнего сервиса.
type Query struct {
	Kind   QueryKind
	Params QueryParams
}

// Type реализует Command.
func (Query) Type() CommandType { return CommandQuery }

// MarshalJSON реализует json.Marshaler. Отсутствующие параметры в документ не попадают.
func (q Query) MarshalJSON() ([]byte, error) {
	doc := map[string]any{
		"type":  q.Type(),
		"query": q.Kind,
	}
	if d, ok := q.Params.Date.Get(); ok {
		doc["date"] = d.String()
	}
	if name, ok := q.Params.Name.Get(); ok {
		doc["name"] = name
	}
	if days, ok := q.Params.Days.Get(); ok {
		doc["days"] = days
	}
	return json.Marshal(doc)
}
