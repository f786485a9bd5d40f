package services

import (
	"boringblog/internal/apperrors"
	"boringblog/internal/models"
	"boringblog/internal/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// верхняя граница для лент, где пагинации нет
	sitemapLimit = 50000
	rssLimit     = 20
)

// ListParams — параметры листинга, как они пришли из запроса.
type ListParams struct {
	Page       int
	Limit      int
	Tag        string
	Author     string
	DraftsOnly bool
}

// BuildListFilter — чистая функция видимости: из личности запрашивающего
// и параметров запроса собирает единый предикат для хранилища.
// Правила пересекаются по AND:
//   - публичная витрина показывает только опубликованное и скрывает
//     посты авторов с ролью ADMIN (намеренное разделение контента);
//   - черновики доступны только автору (ADMIN видит все и может
//     фильтровать по имени автора) и никогда не смешиваются с публичным
//     списком;
//   - закреплённые посты поднимаются наверх только в нефильтрованной
//     публичной ленте; в срезах по тегу/автору порядок чисто хронологический.
//
// Неизвестный тег или автор дают пустой результат, а не ошибку.
func BuildListFilter(viewer *models.Viewer, q ListParams) (repository.PostFilter, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	f := repository.PostFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	if q.DraftsOnly {
		if viewer == nil {
			return f, apperrors.Wrap(apperrors.ErrUnauthorized, "требуется вход")
		}
		published := false
		f.Published = &published
		f.OrderByUpdated = true
		if viewer.IsAdmin() {
			f.AuthorName = q.Author
		} else {
			authorID := viewer.UserID
			f.AuthorID = &authorID
		}
		return f, nil
	}

	published := true
	f.Published = &published
	f.HideAdminAuthors = true
	f.TagSlug = q.Tag
	f.AuthorName = q.Author
	f.PinnedFirst = q.Tag == "" && q.Author == ""
	return f, nil
}

// PublicFeedFilter — предикат публичных лент (RSS): те же правила
// видимости, что и у витрины, без закрепления.
func PublicFeedFilter(limit int) repository.PostFilter {
	published := true
	return repository.PostFilter{
		Published:        &published,
		HideAdminAuthors: true,
		Limit:            limit,
	}
}

// ClampPage возвращает нормализованные страницу и размер страницы —
// ровно те, что легли в предикат.
func ClampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}
