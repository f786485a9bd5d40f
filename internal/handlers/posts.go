package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"boringblog/internal/logger"
	"boringblog/internal/models"
	"boringblog/internal/reqctx"
	"boringblog/internal/services"
	helpers "boringblog/internal/utils/helpers"
)

type PostHandler struct {
	postService services.PostService
}

func NewPostHandler(postService services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// viewerFromCtx собирает личность запрашивающего из контекста.
// Возвращает nil для анонимного запроса.
func viewerFromCtx(r *http.Request) *models.Viewer {
	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		return nil
	}
	role, _ := reqctx.GetRole(r.Context())
	name, _ := reqctx.GetName(r.Context())
	return &models.Viewer{UserID: userID, Role: role, Name: name}
}

// CreatePost godoc
// @Summary Создать статью
// @Tags posts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.CreatePostRequest true "Данные статьи"
// @Success 201 {object} models.Post
// @Failure 400 {string} string "Ошибка валидации"
// @Failure 409 {string} string "Адрес уже занят"
// @Router /api/posts [post]
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON при создании статьи", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	post, err := h.postService.Create(r.Context(), viewerFromCtx(r), req)
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, post)
}

// GetPost godoc
// @Summary Получить статью по адресу
// @Tags posts
// @Produce json
// @Param slug path string true "Адрес статьи"
// @Success 200 {object} models.Post
// @Failure 404 {string} string "Статья не найдена"
// @Router /api/posts/{slug} [get]
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	post, err := h.postService.Get(r.Context(), viewerFromCtx(r), slug)
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, post)
}

// ListPosts godoc
// @Summary Список статей
// @Description Публичная витрина; ?published=false — черновики (требуется вход)
// @Tags posts
// @Produce json
// @Param page query int false "Страница (с 1)"
// @Param limit query int false "Размер страницы (1..100)"
// @Param tag query string false "Фильтр по адресу тега"
// @Param author query string false "Фильтр по имени автора"
// @Param published query bool false "false — черновики"
// @Success 200 {object} models.PostListResponse
// @Failure 401 {string} string "Требуется вход"
// @Router /api/posts [get]
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	params := services.ListParams{
		Page:       page,
		Limit:      limit,
		Tag:        q.Get("tag"),
		Author:     q.Get("author"),
		DraftsOnly: q.Get("published") == "false",
	}

	resp, err := h.postService.List(r.Context(), viewerFromCtx(r), params)
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, resp)
}

// UpdatePost godoc
// @Summary Обновить статью (частично)
// @Tags posts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param slug path string true "Адрес статьи"
// @Param input body models.UpdatePostRequest true "Изменяемые поля"
// @Success 200 {object} models.Post
// @Failure 403 {string} string "Нет прав"
// @Failure 404 {string} string "Статья не найдена"
// @Router /api/posts/{slug} [put]
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var req models.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON при обновлении статьи", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	post, err := h.postService.Update(r.Context(), viewerFromCtx(r), slug, req)
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, post)
}

// DeletePost godoc
// @Summary Удалить статью
// @Tags posts
// @Security ApiKeyAuth
// @Produce json
// @Param slug path string true "Адрес статьи"
// @Success 200 {object} map[string]bool
// @Failure 403 {string} string "Нет прав"
// @Failure 404 {string} string "Статья не найдена"
// @Router /api/posts/{slug} [delete]
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	if err := h.postService.Delete(r.Context(), viewerFromCtx(r), slug); err != nil {
		helpers.ErrorFrom(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
