package store

import (
	"context"
	"database/sql"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/example/ec-storefront/internal/model"
)

const categorySelect = `SELECT id, name, slug, description, image_url, is_active, created_at FROM categories`

func scanCategory(row rowScanner) (*model.Category, error) {
	var (
		c           model.Category
		description sql.NullString
		imageURL    sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &description, &imageURL, &c.IsActive, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Description = description.String
	c.ImageURL = imageURL.String
	return &c, nil
}

func (s *PostgresStore) ListCategories(ctx context.Context, activeOnly bool) ([]model.Category, error) {
	ctx, span := startSpan(ctx, "ListCategories", attribute.Bool("active_only", activeOnly))
	defer span.End()

	query := categorySelect
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY name, id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, endSpan(span, err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, endSpan(span, err)
		}
		categories = append(categories, *c)
	}
	return categories, endSpan(span, rows.Err())
}

func (s *PostgresStore) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	ctx, span := startSpan(ctx, "GetCategoryBySlug", attribute.String("category.slug", slug))
	defer span.End()

	c, err := scanCategory(s.db.QueryRowContext(ctx, categorySelect+" WHERE slug = $1", slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, endSpan(span, err)
}

func (s *PostgresStore) InsertCategory(ctx context.Context, c *model.Category) error {
	ctx, span := startSpan(ctx, "InsertCategory", attribute.String("category.id", c.ID))
	defer span.End()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, slug, description, image_url, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.Name, c.Slug, nullString(c.Description), nullString(c.ImageURL), c.IsActive, c.CreatedAt)
	return endSpan(span, err)
}
