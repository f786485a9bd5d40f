package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Базовые классы ошибок доменного слоя. Сервисы оборачивают их
// пользовательским сообщением через Wrap, хендлеры переводят в HTTP-статус
// через Status. Всё, что не попадает в таксономию, — это 500.
var (
	ErrValidation   = errors.New("ошибка валидации")
	ErrUnauthorized = errors.New("не авторизован")
	ErrForbidden    = errors.New("доступ запрещён")
	ErrNotFound     = errors.New("не найдено")
	ErrConflict     = errors.New("конфликт данных")
)

// Wrap присоединяет пользовательское сообщение к классу ошибки.
func Wrap(class error, msg string) error {
	return fmt.Errorf("%w: %s", class, msg)
}

func Wrapf(class error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", class, fmt.Sprintf(format, args...))
}

// Status переводит ошибку в HTTP-статус. Для неизвестных ошибок — 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message возвращает текст для клиента. Внутренние ошибки наружу не отдаём.
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "внутренняя ошибка сервера"
	}
	return err.Error()
}
