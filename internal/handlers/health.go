package handlers

import (
	"net/http"

	helpers "boringblog/internal/utils/helpers"
)

// Health godoc
// @Summary Проверка живости сервиса
// @Tags system
// @Produce json
// @Success 200 {string} string "ok"
// @Router /api/health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, "ok")
}
