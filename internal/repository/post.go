package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"boringblog/internal/models"
)

// PostFilter — единый предикат для среза страницы и общего счётчика.
// Поля пересекаются по AND, никаких OR.
type PostFilter struct {
	Published        *bool
	AuthorID         *int64
	AuthorName       string
	TagSlug          string
	HideAdminAuthors bool
	PinnedFirst      bool
	OrderByUpdated   bool
	Limit            int
	Offset           int
}

type PostRepo interface {
	Create(ctx context.Context, p *models.Post, tags []TagInput) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Update(ctx context.Context, p *models.Post, tags *[]TagInput) (*models.Post, error)
	Delete(ctx context.Context, id int64) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, f PostFilter) ([]*models.Post, int, error)
}

// TagInput — имя тега вместе со сгенерированным для него slug
// (slug нужен только если тег ещё не существует).
type TagInput struct {
	Name string
	Slug string
}

type postRepo struct{ db *pgxpool.Pool }

func NewPostRepo(db *pgxpool.Pool) PostRepo { return &postRepo{db: db} }

// IsUniqueViolation — нарушение уникального ограничения (код 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const postColumns = `
	p.id, p.title, p.slug, p.content, p.content_html, p.cover_image,
	p.published, p.pinned, p.published_at, p.author_id, p.created_at, p.updated_at,
	u.name, u.role
`

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	var authorName, authorRole string
	if err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.ContentHTML, &p.CoverImage,
		&p.Published, &p.Pinned, &p.PublishedAt, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
		&authorName, &authorRole,
	); err != nil {
		return nil, err
	}
	p.Author = &models.UserSummary{ID: p.AuthorID, Name: authorName}
	p.AuthorRole = authorRole
	p.Tags = []models.Tag{}
	return &p, nil
}

func (r *postRepo) Create(ctx context.Context, p *models.Post, tags []TagInput) (*models.Post, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
		INSERT INTO posts (title, slug, content, content_html, cover_image, published, pinned, published_at, author_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7, CASE WHEN $6 THEN now() ELSE NULL END, $8)
		RETURNING id, created_at, updated_at, published_at
	`
	err = tx.QueryRow(ctx, q,
		p.Title, p.Slug, p.Content, p.ContentHTML, p.CoverImage,
		p.Published, p.Pinned, p.AuthorID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt)
	if err != nil {
		return nil, err
	}

	if err := r.replaceTags(ctx, tx, p.ID, tags); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.getByID(ctx, p.ID)
}

func (r *postRepo) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts p JOIN users u ON u.id = p.author_id WHERE p.slug = $1`
	p, err := scanPost(r.db.QueryRow(ctx, q, slug))
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, []*models.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postRepo) getByID(ctx context.Context, id int64) (*models.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts p JOIN users u ON u.id = p.author_id WHERE p.id = $1`
	p, err := scanPost(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, []*models.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// Update перезаписывает строку и, если tags != nil, полностью заменяет
// набор тегов — всё в одной транзакции, читатель не увидит половину
// обновления. published_at выставляется один раз и никогда не сбрасывается:
// снятие с публикации — обратимое состояние, а не обнуление истории.
func (r *postRepo) Update(ctx context.Context, p *models.Post, tags *[]TagInput) (*models.Post, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
		UPDATE posts
		SET title=$1,
		    content=$2,
		    content_html=$3,
		    cover_image=$4,
		    published=$5,
		    pinned=$6,
		    published_at = CASE WHEN $5 THEN COALESCE(published_at, now()) ELSE published_at END,
		    updated_at=now()
		WHERE id=$7
	`
	if _, err := tx.Exec(ctx, q,
		p.Title, p.Content, p.ContentHTML, p.CoverImage, p.Published, p.Pinned, p.ID,
	); err != nil {
		return nil, err
	}

	if tags != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id=$1`, p.ID); err != nil {
			return nil, err
		}
		if err := r.replaceTags(ctx, tx, p.ID, *tags); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.getByID(ctx, p.ID)
}

// Delete удаляет пост; связи post_tags уходят каскадом,
// сами теги остаются даже без постов.
func (r *postRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	return err
}

func (r *postRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE slug=$1)`, slug).Scan(&exists)
	return exists, err
}

func (r *postRepo) List(ctx context.Context, f PostFilter) ([]*models.Post, int, error) {
	where := []string{}
	args := []interface{}{}
	i := 1

	if f.Published != nil {
		where = append(where, fmt.Sprintf("p.published = $%d", i))
		args = append(args, *f.Published)
		i++
	}
	if f.HideAdminAuthors {
		where = append(where, fmt.Sprintf("u.role <> $%d", i))
		args = append(args, models.RoleAdmin)
		i++
	}
	if f.AuthorID != nil {
		where = append(where, fmt.Sprintf("p.author_id = $%d", i))
		args = append(args, *f.AuthorID)
		i++
	}
	if f.AuthorName != "" {
		where = append(where, fmt.Sprintf("u.name = $%d", i))
		args = append(args, f.AuthorName)
		i++
	}
	if f.TagSlug != "" {
		where = append(where, fmt.Sprintf(`
			EXISTS (
				SELECT 1 FROM post_tags pt
				JOIN tags t ON t.id = pt.tag_id
				WHERE pt.post_id = p.id AND t.slug = $%d
			)
		`, i))
		args = append(args, f.TagSlug)
		i++
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	// счётчик и срез считаются по одному и тому же предикату
	var total int
	countSQL := `SELECT COUNT(*) FROM posts p JOIN users u ON u.id = p.author_id` + cond
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := " ORDER BY p.published_at DESC NULLS LAST, p.id DESC"
	if f.OrderByUpdated {
		order = " ORDER BY p.updated_at DESC"
	} else if f.PinnedFirst {
		order = " ORDER BY p.pinned DESC, p.published_at DESC NULLS LAST, p.id DESC"
	}

	sql := `SELECT ` + postColumns + ` FROM posts p JOIN users u ON u.id = p.author_id` + cond +
		order + fmt.Sprintf(" LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadTags(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// replaceTags создаёт отсутствующие теги и привязывает весь набор к посту.
// INSERT ... ON CONFLICT DO UPDATE ... RETURNING — атомарный insert-or-fetch:
// проигравший гонку получает строку победителя, а не ошибку уникальности.
func (r *postRepo) replaceTags(ctx context.Context, tx pgx.Tx, postID int64, tags []TagInput) error {
	for _, t := range tags {
		var tagID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO tags (name, slug) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, t.Name, t.Slug).Scan(&tagID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func (r *postRepo) loadTags(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(posts))
	byID := make(map[int64]*models.Post, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	rows, err := r.db.Query(ctx, `
		SELECT pt.post_id, t.id, t.name, t.slug
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY t.name
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		var t models.Tag
		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug); err != nil {
			return err
		}
		if p, ok := byID[postID]; ok {
			p.Tags = append(p.Tags, t)
		}
	}
	return rows.Err()
}
