package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"boringblog/internal/logger"
	"boringblog/internal/models"
	"boringblog/internal/services"
	helpers "boringblog/internal/utils/helpers"
)

type TagHandler struct {
	tags services.TagLister
}

func NewTagHandler(tags services.TagLister) *TagHandler {
	return &TagHandler{tags: tags}
}

// ListTags godoc
// @Summary Список всех тегов
// @Tags tags
// @Produce json
// @Success 200 {array} models.Tag
// @Router /api/tags [get]
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения тегов", zap.Error(err))
		helpers.ErrorFrom(w, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	helpers.JSON(w, http.StatusOK, tags)
}
