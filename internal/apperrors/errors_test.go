package apperrors

import (
	"errors"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Wrap(ErrValidation, "пусто"), http.StatusBadRequest},
		{Wrap(ErrUnauthorized, "нет входа"), http.StatusUnauthorized},
		{Wrap(ErrForbidden, "нельзя"), http.StatusForbidden},
		{Wrap(ErrNotFound, "не найдено"), http.StatusNotFound},
		{Wrap(ErrConflict, "занято"), http.StatusConflict},
		{errors.New("что-то внутреннее"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := Status(tc.err); got != tc.want {
			t.Errorf("Status(%v) = %d, ожидалось %d", tc.err, got, tc.want)
		}
	}
}

func TestMessage_HidesInternals(t *testing.T) {
	internal := errors.New("pq: connection refused")
	msg := Message(internal)
	if msg == internal.Error() {
		t.Fatal("внутренняя ошибка не должна уходить клиенту дословно")
	}

	wrapped := Wrap(ErrNotFound, "статья не найдена")
	if Message(wrapped) != "статья не найдена" {
		t.Fatalf("доменное сообщение должно сохраняться: %q", Message(wrapped))
	}
}

func TestWrap_PreservesClass(t *testing.T) {
	err := Wrapf(ErrConflict, "slug %q занят", "hello-abc123")
	if !errors.Is(err, ErrConflict) {
		t.Fatal("класс ошибки потерян при обёртке")
	}
}
