package models

import (
	"encoding/json"
	"time"
)

// Post — статья блога. Content — непрозрачный структурированный документ
// редактора (хранится как jsonb и отдаётся как есть), ContentHTML — его
// производный кэшированный рендер. Они меняются только вместе.
type Post struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Content     json.RawMessage `json:"content"`
	ContentHTML string          `json:"contentHtml"`
	CoverImage  *string         `json:"coverImage"`
	Published   bool            `json:"published"`
	Pinned      bool            `json:"pinned"`
	PublishedAt *time.Time      `json:"publishedAt"`
	AuthorID    int64           `json:"authorId"`
	AuthorRole  string          `json:"-"`
	Author      *UserSummary    `json:"author,omitempty"`
	Tags        []Tag           `json:"tags"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// swagger:model CreatePostRequest
type CreatePostRequest struct {
	Title      string          `json:"title"    example:"Как писать middleware в Go"`
	Content    json.RawMessage `json:"content"`
	Tags       []string        `json:"tags"     example:"go,backend"`
	CoverImage *string         `json:"coverImage,omitempty"`
	Published  bool            `json:"published"`
	Pinned     bool            `json:"pinned"`
}

// UpdatePostRequest — частичное обновление: отсутствующее поле не трогаем,
// присутствующее применяем (пустой coverImage очищает обложку).
// swagger:model UpdatePostRequest
type UpdatePostRequest struct {
	Title      *string         `json:"title,omitempty"`
	Content    json.RawMessage `json:"content,omitempty"`
	Tags       *[]string       `json:"tags,omitempty"`
	CoverImage *string         `json:"coverImage,omitempty"`
	Published  *bool           `json:"published,omitempty"`
	Pinned     *bool           `json:"pinned,omitempty"`
}

// PostListResponse — страница списка вместе с общим числом записей
// по тому же предикату.
type PostListResponse struct {
	Posts []*Post `json:"posts"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}
