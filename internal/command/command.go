// Package command реализует грамматику SMS-команд: классификацию сообщений,
// проверку записей о пробеге и часах и разбор запросов.
//
// Все функции пакета чистые и безопасны для конкурентного вызова.
package command

import (
	"strings"

	"github.com/mmeshcher/sms-gateway/internal/model"
	"github.com/mmeshcher/sms-gateway/internal/validation"
)

const (
	keywordMileage = "MILEAGE"
	keywordHours   = "HOURS"
	keywordProcess = "PROCESS"
)

// Outcome — результат классификации: либо команда для внешнего сервиса,
// либо готовый ответ отправителю.
type Outcome struct {
	Command model.Command
	Reply   string
}

// Parser классифицирует и проверяет текст входящих сообщений.
type Parser struct {
	dates *validation.DateNormalizer
}

// NewParser создаёт парсер команд. Если dates равен nil, используется нормализатор с системными часами.
func NewParser(dates *validation.DateNormalizer) *Parser {
	if dates == nil {
		dates = validation.NewDateNormalizer(nil)
	}
	return &Parser{dates: dates}
}

type entryParser func(p *Parser, text string) (model.Command, error)

var entryParsers = map[string]entryParser{
	keywordMileage: func(p *Parser, text string) (model.Command, error) {
		e, err := p.ParseMileage(text)
		if err != nil {
			return nil, err
		}
		return e, nil
	},
	keywordHours: func(p *Parser, text string) (model.Command, error) {
		e, err := p.ParseHours(text)
		if err != nil {
			return nil, err
		}
		return e, nil
	},
}

var controlCommands = map[string]model.Command{
	keywordProcess: model.ProcessRequest{},
}

// Classify определяет вид сообщения. Наличие запятой всегда означает запись данных,
// точное совпадение с управляющим словом — управляющую команду, всё остальное — запрос.
func (p *Parser) Classify(text string) (Outcome, error) {
	if strings.Contains(text, ",") {
		first, _, _ := strings.Cut(text, ",")
		first = strings.TrimSpace(first)

		parse, ok := entryParsers[strings.ToUpper(first)]
		if !ok {
			return Outcome{}, reject(ErrUnknownCommand,
				"Unknown command '%s'. Text COMMANDS for the list of commands.", first)
		}

		cmd, err := parse(p, text)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Command: cmd}, nil
	}

	if cmd, ok := controlCommands[strings.ToUpper(strings.TrimSpace(text))]; ok {
		return Outcome{Command: cmd}, nil
	}

	return p.ResolveQuery(text)
}

func splitFields(text string) []string {
	parts := strings.Split(text, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
