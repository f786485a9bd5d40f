package helpers

import (
	"encoding/json"
	"net/http"

	"boringblog/internal/apperrors"
)

type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{Data: data, Error: ""})
	if err != nil {
		return
	}
}

func Error(w http.ResponseWriter, status int, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{Data: nil, Error: errMsg})
	if err != nil {
		return
	}
}

// ErrorFrom переводит доменную ошибку в статус и сообщение по таксономии.
// Скрытые черновики и отсутствующие посты отвечают одинаковым 404.
func ErrorFrom(w http.ResponseWriter, err error) {
	Error(w, apperrors.Status(err), apperrors.Message(err))
}
