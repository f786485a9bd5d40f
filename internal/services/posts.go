package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"boringblog/internal/apperrors"
	"boringblog/internal/logger"
	"boringblog/internal/models"
	"boringblog/internal/repository"
	"boringblog/internal/utils"
)

// DocumentRenderer — внешний рендерер структурированного документа.
// Ядро не знает схему документа: хранит его как есть и получает HTML отсюда.
type DocumentRenderer interface {
	Render(doc json.RawMessage) (string, error)
}

type PostService interface {
	Create(ctx context.Context, viewer *models.Viewer, req models.CreatePostRequest) (*models.Post, error)
	Update(ctx context.Context, viewer *models.Viewer, slug string, req models.UpdatePostRequest) (*models.Post, error)
	Delete(ctx context.Context, viewer *models.Viewer, slug string) error
	Get(ctx context.Context, viewer *models.Viewer, slug string) (*models.Post, error)
	List(ctx context.Context, viewer *models.Viewer, params ListParams) (*models.PostListResponse, error)
}

type postService struct {
	repo     repository.PostRepo
	renderer DocumentRenderer
}

func NewPostService(repo repository.PostRepo, renderer DocumentRenderer) PostService {
	return &postService{repo: repo, renderer: renderer}
}

const msgPostNotFound = "статья не найдена"

func (s *postService) Create(ctx context.Context, viewer *models.Viewer, req models.CreatePostRequest) (*models.Post, error) {
	log := logger.WithCtx(ctx)

	title := strings.TrimSpace(req.Title)
	if title == "" || len(req.Content) == 0 {
		log.Warn("Валидация не пройдена: пустой заголовок или содержимое")
		return nil, apperrors.Wrap(apperrors.ErrValidation, "заголовок и содержимое не могут быть пустыми")
	}

	slug := utils.GenerateSlug(title)

	// Коллизия слага — ошибка для пользователя, без автоповтора:
	// пусть изменит заголовок.
	exists, err := s.repo.SlugExists(ctx, slug)
	if err != nil {
		log.Error("Ошибка проверки слага (repo)", zap.Error(err))
		return nil, err
	}
	if exists {
		log.Warn("Слаг уже занят", zap.String("slug", slug))
		return nil, apperrors.Wrap(apperrors.ErrConflict, "такой адрес уже существует, измените заголовок")
	}

	html, err := s.renderer.Render(req.Content)
	if err != nil {
		log.Warn("Не удалось отрендерить документ", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrValidation, "некорректный формат документа")
	}

	p := &models.Post{
		Title:       title,
		Slug:        slug,
		Content:     req.Content,
		ContentHTML: html,
		CoverImage:  normalizeCover(req.CoverImage),
		Published:   req.Published,
		Pinned:      req.Pinned,
		AuthorID:    viewer.UserID,
	}

	created, err := s.repo.Create(ctx, p, tagInputs(req.Tags))
	if err != nil {
		if repository.IsUniqueViolation(err) {
			// проигранная гонка за слаг — тот же конфликт
			log.Warn("Гонка за слаг", zap.String("slug", slug))
			return nil, apperrors.Wrap(apperrors.ErrConflict, "такой адрес уже существует, измените заголовок")
		}
		log.Error("Ошибка создания статьи (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Статья создана",
		zap.Int64("id", created.ID),
		zap.String("slug", created.Slug),
		zap.Bool("published", created.Published),
		zap.Int("tags_count", len(created.Tags)),
	)
	return created, nil
}

func (s *postService) Get(ctx context.Context, viewer *models.Viewer, slug string) (*models.Post, error) {
	log := logger.WithCtx(ctx)

	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, msgPostNotFound)
		}
		log.Error("Ошибка получения статьи (repo)", zap.Error(err))
		return nil, err
	}

	if p.Published {
		return p, nil
	}

	// Черновик видят только автор и админ. Для остальных ответ
	// неотличим от отсутствующей статьи — существование не раскрываем.
	if !canEdit(viewer, p) {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, msgPostNotFound)
	}
	return p, nil
}

func (s *postService) Update(ctx context.Context, viewer *models.Viewer, slug string, req models.UpdatePostRequest) (*models.Post, error) {
	log := logger.WithCtx(ctx)

	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, msgPostNotFound)
		}
		log.Error("Ошибка получения статьи для обновления (repo)", zap.Error(err))
		return nil, err
	}

	if !canEdit(viewer, p) {
		log.Warn("Нет прав на редактирование", zap.String("slug", slug))
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "нет прав на редактирование этой статьи")
	}

	// Частичное обновление: трогаем только присланные поля.
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.CoverImage != nil {
		p.CoverImage = normalizeCover(req.CoverImage)
	}
	if req.Pinned != nil {
		p.Pinned = *req.Pinned
	}

	// Содержимое и его HTML меняются только вместе.
	if len(req.Content) > 0 {
		html, err := s.renderer.Render(req.Content)
		if err != nil {
			log.Warn("Не удалось отрендерить документ", zap.Error(err))
			return nil, apperrors.Wrap(apperrors.ErrValidation, "некорректный формат документа")
		}
		p.Content = req.Content
		p.ContentHTML = html
	}

	if req.Published != nil {
		// Дата публикации выставляется в хранилище один раз
		// (COALESCE): повторная публикация её не сдвигает,
		// снятие с публикации — не стирает.
		p.Published = *req.Published
	}

	var tags *[]repository.TagInput
	if req.Tags != nil {
		t := tagInputs(*req.Tags)
		tags = &t
	}

	updated, err := s.repo.Update(ctx, p, tags)
	if err != nil {
		log.Error("Ошибка обновления статьи (repo)", zap.Int64("id", p.ID), zap.Error(err))
		return nil, err
	}

	log.Info("Статья обновлена",
		zap.Int64("id", updated.ID),
		zap.Bool("published", updated.Published),
	)
	return updated, nil
}

func (s *postService) Delete(ctx context.Context, viewer *models.Viewer, slug string) error {
	log := logger.WithCtx(ctx)

	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.Wrap(apperrors.ErrNotFound, msgPostNotFound)
		}
		log.Error("Ошибка получения статьи для удаления (repo)", zap.Error(err))
		return err
	}

	if !canEdit(viewer, p) {
		log.Warn("Нет прав на удаление", zap.String("slug", slug))
		return apperrors.Wrap(apperrors.ErrForbidden, "нет прав на удаление этой статьи")
	}

	// Удаление жёсткое и немедленное; теги остаются, даже если осиротели.
	if err := s.repo.Delete(ctx, p.ID); err != nil {
		log.Error("Ошибка удаления статьи (repo)", zap.Int64("id", p.ID), zap.Error(err))
		return err
	}

	log.Info("Статья удалена", zap.Int64("id", p.ID), zap.String("slug", slug))
	return nil
}

func (s *postService) List(ctx context.Context, viewer *models.Viewer, params ListParams) (*models.PostListResponse, error) {
	log := logger.WithCtx(ctx)

	filter, err := BuildListFilter(viewer, params)
	if err != nil {
		return nil, err
	}

	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error("Ошибка получения списка статей (repo)", zap.Error(err))
		return nil, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	page, limit := ClampPage(params.Page, params.Limit)
	log.Debug("Список статей получен",
		zap.Int("count", len(posts)),
		zap.Int("total", total),
		zap.Int("page", page),
	)
	return &models.PostListResponse{Posts: posts, Total: total, Page: page, Limit: limit}, nil
}

// canEdit: владелец поста или ADMIN.
func canEdit(viewer *models.Viewer, p *models.Post) bool {
	if viewer == nil {
		return false
	}
	return viewer.UserID == p.AuthorID || viewer.IsAdmin()
}

// tagInputs нормализует имена тегов: обрезает пробелы, молча выбрасывает
// пустые, убирает дубли; slug генерируется на случай создания нового тега.
func tagInputs(names []string) []repository.TagInput {
	seen := map[string]struct{}{}
	out := make([]repository.TagInput, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, repository.TagInput{Name: name, Slug: utils.GenerateSlug(name)})
	}
	return out
}

// normalizeCover: пустая строка очищает обложку.
func normalizeCover(cover *string) *string {
	if cover == nil {
		return nil
	}
	if strings.TrimSpace(*cover) == "" {
		return nil
	}
	return cover
}
