package handlers

import (
	"net/http"

	"boringblog/internal/services"
	helpers "boringblog/internal/utils/helpers"
)

type FeedHandler struct {
	feedService *services.FeedService
}

func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// RSS godoc
// @Summary RSS-лента публикаций
// @Tags feeds
// @Produce xml
// @Success 200 {string} string "RSS 2.0"
// @Router /feed.xml [get]
func (h *FeedHandler) RSS(w http.ResponseWriter, r *http.Request) {
	out, err := h.feedService.RSS(r.Context())
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

// Sitemap godoc
// @Summary Карта сайта
// @Tags feeds
// @Produce xml
// @Success 200 {string} string "sitemap"
// @Router /sitemap.xml [get]
func (h *FeedHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	out, err := h.feedService.Sitemap(r.Context())
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}
