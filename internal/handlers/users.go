package handlers

import (
	"encoding/json"
	"net/http"

	"boringblog/internal/models"
	"boringblog/internal/services"
	helpers "boringblog/internal/utils/helpers"
)

type UserHandler struct {
	authService *services.AuthService
}

func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// GetUsers godoc
// @Summary Список пользователей (только admin)
// @Tags admin-users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.UserListItem
// @Failure 403 {string} string "Доступ запрещён"
// @Router /api/users [get]
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, users)
}

// InviteUser godoc
// @Summary Пригласить автора (только admin)
// @Description Создаёт пользователя с ролью AUTHOR и шлёт временный пароль на почту
// @Tags admin-users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.InviteUserRequest true "Имя и почта"
// @Success 201 {object} models.User
// @Failure 400 {string} string "Почта уже занята"
// @Failure 403 {string} string "Доступ запрещён"
// @Router /api/users/invite [post]
func (h *UserHandler) InviteUser(w http.ResponseWriter, r *http.Request) {
	var req models.InviteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	user, err := h.authService.InviteUser(r.Context(), req.Name, req.Email)
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, user)
}
