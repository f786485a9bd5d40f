package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"boringblog/internal/models"
)

type stubTagLister struct{ tags []models.Tag }

func (s *stubTagLister) List(_ context.Context) ([]models.Tag, error) { return s.tags, nil }

type stubAuthorLister struct{ names []string }

func (s *stubAuthorLister) ListNames(_ context.Context) ([]string, error) { return s.names, nil }

func seedFeedRepo() *mockPostRepo {
	repo := newMockPostRepo()
	now := time.Now()

	repo.posts["published"] = &models.Post{
		ID: 1, Title: "Опубликованный", Slug: "published",
		ContentHTML: "<p>Первый <strong>пост</strong></p>",
		Published:   true, PublishedAt: &now,
		AuthorID: 1, AuthorRole: models.RoleAuthor,
		UpdatedAt: now,
	}
	repo.posts["draft"] = &models.Post{
		ID: 2, Title: "Черновик", Slug: "draft",
		Published: false,
		AuthorID:  1, AuthorRole: models.RoleAuthor,
		UpdatedAt: now,
	}
	repo.posts["admin-post"] = &models.Post{
		ID: 3, Title: "Админский", Slug: "admin-post",
		Published: true, PublishedAt: &now,
		AuthorID: 9, AuthorRole: models.RoleAdmin,
		UpdatedAt: now,
	}
	return repo
}

func TestRSS_OnlyVisiblePosts(t *testing.T) {
	svc := NewFeedService(seedFeedRepo(), &stubTagLister{}, &stubAuthorLister{}, testConfig())

	out, err := svc.RSS(context.Background())
	if err != nil {
		t.Fatalf("ошибка RSS: %v", err)
	}
	xml := string(out)

	if !strings.Contains(xml, `<rss version="2.0">`) {
		t.Fatalf("нет заголовка RSS: %s", xml)
	}
	if !strings.Contains(xml, "/posts/published") {
		t.Fatalf("опубликованный пост не попал в ленту: %s", xml)
	}
	if strings.Contains(xml, "/posts/draft") {
		t.Fatal("черновик не должен попадать в ленту")
	}
	if strings.Contains(xml, "/posts/admin-post") {
		t.Fatal("пост админа не должен попадать в ленту")
	}
	// описание — чистый текст без разметки
	if strings.Contains(xml, "<strong>") {
		t.Fatal("в description ленты не должно быть HTML-тегов")
	}
}

func TestSitemap_CoversAllSections(t *testing.T) {
	svc := NewFeedService(
		seedFeedRepo(),
		&stubTagLister{tags: []models.Tag{{ID: 1, Name: "go", Slug: "go-abc123"}}},
		&stubAuthorLister{names: []string{"Вася Пупкин"}},
		testConfig(),
	)

	out, err := svc.Sitemap(context.Background())
	if err != nil {
		t.Fatalf("ошибка sitemap: %v", err)
	}
	xml := string(out)

	if !strings.Contains(xml, "<urlset") {
		t.Fatalf("нет корневого urlset: %s", xml)
	}
	if !strings.Contains(xml, "<loc>http://localhost:8080</loc>") {
		t.Fatal("нет главной страницы")
	}
	if !strings.Contains(xml, "/posts/published") {
		t.Fatal("нет страницы поста")
	}
	if strings.Contains(xml, "/posts/draft") || strings.Contains(xml, "/posts/admin-post") {
		t.Fatal("в sitemap попал скрытый пост")
	}
	if !strings.Contains(xml, "/tags/go-abc123") {
		t.Fatal("нет страницы тега")
	}
	// имя автора с пробелом экранируется в пути
	if !strings.Contains(xml, "/authors/%D0%92%D0%B0%D1%81%D1%8F%20%D0%9F%D1%83%D0%BF%D0%BA%D0%B8%D0%BD") {
		t.Fatalf("страница автора не закодирована: %s", xml)
	}
}

func TestExcerpt(t *testing.T) {
	got := Excerpt("<p>Привет, <strong>мир</strong>!</p>", 300)
	if strings.Contains(got, "<") || !strings.Contains(got, "Привет") {
		t.Fatalf("разметка не вычищена: %q", got)
	}

	long := strings.Repeat("а", 400)
	got = Excerpt("<p>"+long+"</p>", 300)
	if len([]rune(got)) != 301 { // 300 рун + многоточие
		t.Fatalf("ожидалось 301 руна, получено %d", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("нет многоточия: %q", got)
	}
}
