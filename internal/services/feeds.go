package services

import (
	"context"
	"encoding/xml"
	"html"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"boringblog/internal/config"
	"boringblog/internal/logger"
	"boringblog/internal/models"
	"boringblog/internal/repository"
)

// TagLister — то, что лентам нужно от хранилища тегов.
type TagLister interface {
	List(ctx context.Context) ([]models.Tag, error)
}

// AuthorLister — имена авторов для страниц sitemap.
type AuthorLister interface {
	ListNames(ctx context.Context) ([]string, error)
}

type FeedService struct {
	posts   repository.PostRepo
	tags    TagLister
	authors AuthorLister
	cfg     *config.Config
}

func NewFeedService(posts repository.PostRepo, tags TagLister, authors AuthorLister, cfg *config.Config) *FeedService {
	return &FeedService{posts: posts, tags: tags, authors: authors, cfg: cfg}
}

// ----- RSS -----

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// RSS отдаёт ленту свежих публикаций. Видимость та же, что у витрины:
// только опубликованное, посты админов скрыты.
func (s *FeedService) RSS(ctx context.Context) ([]byte, error) {
	posts, _, err := s.posts.List(ctx, PublicFeedFilter(rssLimit))
	if err != nil {
		logger.WithCtx(ctx).Error("RSS: ошибка получения постов", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	ch := rssChannel{
		Title:         s.cfg.SiteName,
		Link:          s.cfg.SiteURL,
		Description:   s.cfg.SiteDescription,
		Language:      "ru",
		LastBuildDate: now.Format(time.RFC1123Z),
	}

	for _, p := range posts {
		pub := now
		if p.PublishedAt != nil {
			pub = *p.PublishedAt
		}
		link := s.cfg.SiteURL + "/posts/" + p.Slug
		ch.Items = append(ch.Items, rssItem{
			Title:       p.Title,
			Link:        link,
			Description: Excerpt(p.ContentHTML, 300),
			PubDate:     pub.Format(time.RFC1123Z),
			GUID:        link,
		})
	}

	out, err := xml.MarshalIndent(rssXML{Version: "2.0", Channel: ch}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// ----- Sitemap -----

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Sitemap собирает карту сайта: главная, посты, страницы тегов и авторов.
func (s *FeedService) Sitemap(ctx context.Context) ([]byte, error) {
	log := logger.WithCtx(ctx)

	posts, _, err := s.posts.List(ctx, PublicFeedFilter(sitemapLimit))
	if err != nil {
		log.Error("Sitemap: ошибка получения постов", zap.Error(err))
		return nil, err
	}
	tags, err := s.tags.List(ctx)
	if err != nil {
		log.Error("Sitemap: ошибка получения тегов", zap.Error(err))
		return nil, err
	}
	authors, err := s.authors.ListNames(ctx)
	if err != nil {
		log.Error("Sitemap: ошибка получения авторов", zap.Error(err))
		return nil, err
	}

	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []urlEntry{
			{Loc: s.cfg.SiteURL, ChangeFreq: "daily", Priority: "1.0"},
		},
	}

	for _, p := range posts {
		set.URLs = append(set.URLs, urlEntry{
			Loc:        s.cfg.SiteURL + "/posts/" + p.Slug,
			LastMod:    p.UpdatedAt.Format(time.RFC3339),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	for _, t := range tags {
		set.URLs = append(set.URLs, urlEntry{
			Loc:        s.cfg.SiteURL + "/tags/" + t.Slug,
			ChangeFreq: "weekly",
			Priority:   "0.5",
		})
	}
	for _, name := range authors {
		set.URLs = append(set.URLs, urlEntry{
			Loc:        s.cfg.SiteURL + "/authors/" + url.PathEscape(name),
			ChangeFreq: "weekly",
			Priority:   "0.5",
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

var tagRe = regexp.MustCompile(`<[^>]*>`)
var spaceRe = regexp.MustCompile(`\s+`)

// Excerpt вырезает разметку и обрезает текст до limit рун.
func Excerpt(htmlContent string, limit int) string {
	text := tagRe.ReplaceAllString(htmlContent, " ")
	text = html.UnescapeString(text)
	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}
