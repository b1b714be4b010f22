package command

import (
	"strings"

	"github.com/samber/mo"

	"github.com/mmeshcher/sms-gateway/internal/model"
)

const unknownQueryReply = "Unknown command. Text COMMANDS or ? for the list of commands."

var queryTable = map[string]model.QueryKind{
	"PAY":         model.QueryPayStatus,
	"PAY STATUS":  model.QueryPayStatus,
	"STATUS":      model.QueryPayStatus,
	"PERIOD":      model.QueryPayPeriod,
	"PAY PERIOD":  model.QueryPayPeriod,
	"HISTORY":     model.QueryPayHistory,
	"PAY HISTORY": model.QueryPayHistory,
	"TODAY":       model.QueryMileageToday,
	"MILES TODAY": model.QueryMileageToday,
	"MILES":       model.QueryMileageSummary,
	"HOURS":       model.QueryHoursWeek,
	"WEEK":        model.QueryHoursWeek,
	"HOURS WEEK":  model.QueryHoursWeek,
	"COMMANDS":    model.QueryHelp,
	"HELP":        model.QueryHelp,
	"?":           model.QueryHelp,
}

type queryPattern struct {
	prefix  string
	kind    model.QueryKind
	resolve func(p *Parser, param string) (model.QueryParams, error)
}

// Сопоставляются только после промаха по queryTable.
var queryPatterns = []queryPattern{
	{
		prefix:  "MILES ",
		kind:    model.QueryMileageSummary,
		resolve: (*Parser).milesFilter,
	},
}

// ResolveQuery сопоставляет текст с таблицей запросов. Справка возвращается
// готовым ответом без обращения к внешнему сервису.
func (p *Parser) ResolveQuery(text string) (Outcome, error) {
	trimmed := strings.TrimSpace(text)

	if kind, ok := queryTable[strings.ToUpper(trimmed)]; ok {
		if kind == model.QueryHelp {
			return Outcome{Reply: HelpText}, nil
		}
		return Outcome{Command: model.Query{Kind: kind}}, nil
	}

	for _, pattern := range queryPatterns {
		n := len(pattern.prefix)
		if len(trimmed) <= n || !strings.EqualFold(trimmed[:n], pattern.prefix) {
			continue
		}

		params, err := pattern.resolve(p, strings.TrimSpace(trimmed[n:]))
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Command: model.Query{Kind: pattern.kind, Params: params}}, nil
	}

	return Outcome{}, reject(ErrUnknownQuery, unknownQueryReply)
}

// milesFilter различает дату и имя эвристически: параметр с дефисом считается датой.
// Поэтому "MILES 2025-Q1" трактуется как фильтр по дате и отклоняется как неверная дата.
func (p *Parser) milesFilter(param string) (model.QueryParams, error) {
	if strings.Contains(param, "-") {
		date, err := p.dates.Normalize(param)
		if err != nil {
			return model.QueryParams{}, reject(err, dateFormatHint, param)
		}
		return model.QueryParams{Date: mo.Some(date)}, nil
	}

	return model.QueryParams{
		Name: mo.Some(param),
		Days: mo.Some(model.DefaultLookbackDays),
	}, nil
}
