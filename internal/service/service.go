// Package service реализует политику обработки входящих SMS: классификацию
// сообщения и передачу команды во внешний сервис.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mmeshcher/sms-gateway/internal/command"
	"github.com/mmeshcher/sms-gateway/internal/downstream"
	"github.com/mmeshcher/sms-gateway/internal/middleware"
	"github.com/mmeshcher/sms-gateway/internal/model"
)

// ApologyReply отправляется, если команда распознана, но внешний сервис недоступен.
const ApologyReply = "Sorry, your message was understood but could not be logged right now. Please resend it later."

const (
	noResultsReply       = "No results."
	processStartedReply  = "Processing started."
	internalFailureReply = "Sorry, something went wrong. Please resend your message."
)

// Forwarder описывает передачу команды внешнему сервису.
type Forwarder interface {
	Forward(ctx context.Context, route downstream.Route, payload any) (*downstream.Response, error)
}

// Classifier описывает разбор текста сообщения в команду или готовый ответ.
type Classifier interface {
	Classify(text string) (command.Outcome, error)
}

// Service содержит логику обработки входящих сообщений.
type Service struct {
	parser    Classifier
	forwarder Forwarder
	logger    *zap.Logger
}

// NewService создаёт сервис с указанным парсером команд и клиентом внешнего сервиса.
// Если parser равен nil, используется command.Parser с системными часами.
func NewService(parser Classifier, forwarder Forwarder, logger *zap.Logger) *Service {
	if parser == nil {
		parser = command.NewParser(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		parser:    parser,
		forwarder: forwarder,
		logger:    logger,
	}
}

// HandleMessage обрабатывает текст сообщения и возвращает ответ отправителю.
// Ошибки проверки и справка не требуют обращения к внешнему сервису.
func (s *Service) HandleMessage(ctx context.Context, text string) string {
	log := s.logger
	if id, ok := middleware.GetMessageIDFromContext(ctx); ok {
		log = log.With(zap.String("message_id", id))
	}

	outcome, err := s.parser.Classify(text)
	if err != nil {
		var rej *command.Rejection
		if errors.As(err, &rej) {
			log.Info("message rejected", zap.Error(rej.Err))
			return rej.Reply
		}
		// command.Parser отвечает только *command.Rejection; прочие ошибки приходят
		// от сторонних реализаций Classifier.
		log.Error("classify message", zap.Error(err))
		return internalFailureReply
	}

	if outcome.Command == nil {
		return outcome.Reply
	}

	route := routeFor(outcome.Command)
	resp, err := s.forwarder.Forward(ctx, route, outcome.Command)
	if err != nil {
		log.Error("forward command",
			zap.Error(err),
			zap.String("route", string(route)),
			zap.String("type", string(outcome.Command.Type())),
		)
		return ApologyReply
	}
	if resp == nil {
		resp = &downstream.Response{}
	}

	return replyFor(outcome.Command, resp)
}

func routeFor(cmd model.Command) downstream.Route {
	switch cmd.Type() {
	case model.CommandProcess:
		return downstream.RouteProcess
	case model.CommandQuery:
		return downstream.RouteQuery
	default:
		return downstream.RouteLog
	}
}

func replyFor(cmd model.Command, resp *downstream.Response) string {
	switch c := cmd.(type) {
	case model.MileageEntry:
		return fmt.Sprintf("Logged mileage: %s, %s, %s, %s miles", c.Date, c.Name, c.Position, c.Distance)
	case model.HoursEntry:
		return fmt.Sprintf("Logged hours for %s: %s today, %s this week", c.Date, c.HoursToday, c.HoursWeek)
	case model.ProcessRequest:
		if resp.Processed == nil {
			return processStartedReply
		}
		p := resp.Processed
		return fmt.Sprintf("Processed %d entries: %d mileage, %d hours.", p.Total, p.Mileage, p.Hours)
	default:
		if resp.Message == "" {
			return noResultsReply
		}
		return resp.Message
	}
}
