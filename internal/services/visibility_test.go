package services

import (
	"errors"
	"testing"

	"boringblog/internal/apperrors"
	"boringblog/internal/models"
)

func TestBuildListFilter_Defaults(t *testing.T) {
	f, err := BuildListFilter(nil, ListParams{})
	if err != nil {
		t.Fatalf("ошибка сборки фильтра: %v", err)
	}
	if f.Limit != DefaultPageSize || f.Offset != 0 {
		t.Fatalf("ожидались дефолты limit=%d offset=0, получено %d/%d", DefaultPageSize, f.Limit, f.Offset)
	}
	if f.Published == nil || !*f.Published {
		t.Fatal("публичная витрина показывает только опубликованное")
	}
	if !f.HideAdminAuthors {
		t.Fatal("посты админов должны скрываться из публичного списка")
	}
	if !f.PinnedFirst {
		t.Fatal("нефильтрованная лента поднимает закреплённые")
	}
}

func TestBuildListFilter_Clamps(t *testing.T) {
	cases := []struct {
		name            string
		page, limit     int
		wantLim, wantOff int
	}{
		{"отрицательная страница", -5, 10, 10, 0},
		{"нулевой limit", 2, 0, DefaultPageSize, DefaultPageSize},
		{"limit выше потолка", 1, 1000, MaxPageSize, 0},
		{"отрицательный limit", 1, -3, 1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := BuildListFilter(nil, ListParams{Page: tc.page, Limit: tc.limit})
			if err != nil {
				t.Fatalf("ошибка: %v", err)
			}
			if f.Limit != tc.wantLim || f.Offset != tc.wantOff {
				t.Fatalf("ожидалось limit=%d offset=%d, получено %d/%d",
					tc.wantLim, tc.wantOff, f.Limit, f.Offset)
			}
		})
	}
}

func TestBuildListFilter_FilteredFeedIsChronological(t *testing.T) {
	f, _ := BuildListFilter(nil, ListParams{Tag: "go"})
	if f.PinnedFirst {
		t.Fatal("в срезе по тегу закреплённые не поднимаются")
	}
	if f.TagSlug != "go" {
		t.Fatalf("фильтр по тегу не применён: %+v", f)
	}

	f, _ = BuildListFilter(nil, ListParams{Author: "Вася"})
	if f.PinnedFirst {
		t.Fatal("в срезе по автору закреплённые не поднимаются")
	}
}

func TestBuildListFilter_DraftsRequireAuth(t *testing.T) {
	_, err := BuildListFilter(nil, ListParams{DraftsOnly: true})
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("черновики без входа должны давать 401, получено %v", err)
	}
}

func TestBuildListFilter_DraftsScopedToOwner(t *testing.T) {
	viewer := &models.Viewer{UserID: 7, Role: models.RoleAuthor}
	f, err := BuildListFilter(viewer, ListParams{DraftsOnly: true, Author: "Кто-то другой"})
	if err != nil {
		t.Fatalf("ошибка: %v", err)
	}
	if f.Published == nil || *f.Published {
		t.Fatal("ожидался фильтр по черновикам")
	}
	if f.AuthorID == nil || *f.AuthorID != 7 {
		t.Fatal("не-админ видит только свои черновики")
	}
	if f.AuthorName != "" {
		t.Fatal("фильтр по имени автора игнорируется для не-админа")
	}
	if !f.OrderByUpdated {
		t.Fatal("черновики сортируются по дате изменения")
	}
	if f.HideAdminAuthors {
		t.Fatal("в списке черновиков правило про админов не применяется")
	}
}

func TestBuildListFilter_AdminSeesAllDrafts(t *testing.T) {
	viewer := &models.Viewer{UserID: 1, Role: models.RoleAdmin}
	f, err := BuildListFilter(viewer, ListParams{DraftsOnly: true, Author: "Вася"})
	if err != nil {
		t.Fatalf("ошибка: %v", err)
	}
	if f.AuthorID != nil {
		t.Fatal("админ не ограничен своими черновиками")
	}
	if f.AuthorName != "Вася" {
		t.Fatal("админ может фильтровать черновики по автору")
	}
}

func TestPublicFeedFilter(t *testing.T) {
	f := PublicFeedFilter(rssLimit)
	if f.Published == nil || !*f.Published {
		t.Fatal("в ленту попадает только опубликованное")
	}
	if !f.HideAdminAuthors {
		t.Fatal("посты админов скрываются и из лент")
	}
	if f.PinnedFirst {
		t.Fatal("ленты строго хронологические, без закрепления")
	}
	if f.Limit != rssLimit {
		t.Fatalf("ожидался лимит %d, получено %d", rssLimit, f.Limit)
	}
}

func TestClampPage(t *testing.T) {
	page, limit := ClampPage(0, 0)
	if page != 1 || limit != DefaultPageSize {
		t.Fatalf("ожидалось 1/%d, получено %d/%d", DefaultPageSize, page, limit)
	}
	page, limit = ClampPage(3, 500)
	if page != 3 || limit != MaxPageSize {
		t.Fatalf("ожидалось 3/%d, получено %d/%d", MaxPageSize, page, limit)
	}
}
