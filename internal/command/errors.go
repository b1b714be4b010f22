package command

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat возвращается при неверном числе полей или ключевом слове записи.
	ErrFormat = errors.New("format error")
	// ErrUnknownCommand возвращается для записи с запятой и неизвестным ключевым словом.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUnknownQuery возвращается, если текст не совпал ни с одним запросом.
	ErrUnknownQuery = errors.New("unknown query")
)

// Rejection — отказ в обработке сообщения с текстом ответа для отправителя.
// Через errors.Is доступна причина: ErrFormat, ErrUnknownCommand, ErrUnknownQuery
// или ошибки пакета validation.
type Rejection struct {
	Err   error
	Reply string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("rejected: %v", r.Err)
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

func reject(err error, format string, args ...any) *Rejection {
	return &Rejection{
		Err:   err,
		Reply: fmt.Sprintf(format, args...),
	}
}
