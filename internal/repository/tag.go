package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"boringblog/internal/models"
)

type TagRepo struct {
	db *pgxpool.Pool
}

func NewTagRepo(db *pgxpool.Pool) *TagRepo { return &TagRepo{db: db} }

// List возвращает все теги, включая осиротевшие (теги без постов
// намеренно не подчищаются — они остаются доступны для навигации).
func (r *TagRepo) List(ctx context.Context) ([]models.Tag, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *TagRepo) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var t models.Tag
	err := r.db.QueryRow(ctx, `SELECT id, name, slug FROM tags WHERE slug=$1`, slug).
		Scan(&t.ID, &t.Name, &t.Slug)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
