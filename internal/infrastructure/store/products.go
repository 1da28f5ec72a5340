package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"

	"github.com/example/ec-storefront/internal/model"
)

const productColumns = `p.id, p.name, p.slug, p.description, p.price, p.sale_price, p.brand,
	p.category_id, p.images, p.stock, p.is_active, p.is_featured, p.created_at, p.updated_at`

const productSelect = `SELECT ` + productColumns + `, c.id, c.name, c.slug
	FROM products p LEFT JOIN categories c ON c.id = p.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct reads productColumns, optionally followed by the joined
// category id, name and slug.
func scanProduct(row rowScanner, withCategory bool) (*model.Product, error) {
	var (
		p          model.Product
		salePrice  sql.NullInt64
		brand      sql.NullString
		categoryID sql.NullString
		images     pq.StringArray
	)
	dest := []any{&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &salePrice, &brand,
		&categoryID, &images, &p.Stock, &p.IsActive, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt}

	var catID, catName, catSlug sql.NullString
	if withCategory {
		dest = append(dest, &catID, &catName, &catSlug)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if salePrice.Valid {
		v := salePrice.Int64
		p.SalePrice = &v
	}
	p.Brand = brand.String
	p.CategoryID = categoryID.String
	p.Images = []string(images)
	if p.Images == nil {
		p.Images = []string{}
	}
	if catID.Valid {
		p.Category = &model.Category{ID: catID.String, Name: catName.String, Slug: catSlug.String}
	}
	return &p, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context, f ProductFilter) ([]model.Product, error) {
	ctx, span := startSpan(ctx, "ListProducts",
		attribute.String("filter.category", f.CategorySlug),
		attribute.Int("filter.limit", f.Limit),
		attribute.Int("filter.offset", f.Offset),
	)
	defer span.End()

	var (
		a     args
		where []string
	)
	if !f.IncludeInactive {
		where = append(where, "p.is_active = TRUE")
	}
	if f.FeaturedOnly {
		where = append(where, "p.is_featured = TRUE")
	}
	if f.CategorySlug != "" {
		where = append(where, "c.slug = "+a.add(f.CategorySlug))
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		ph := a.add("%" + escapeLike(term) + "%")
		where = append(where, fmt.Sprintf("(p.name ILIKE %[1]s OR p.brand ILIKE %[1]s OR p.description ILIKE %[1]s)", ph))
	}

	query := productSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.created_at DESC, p.id DESC"
	if f.Limit > 0 {
		query += " LIMIT " + a.add(f.Limit)
	}
	if f.Offset > 0 {
		query += " OFFSET " + a.add(f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, a...)
	if err != nil {
		return nil, endSpan(span, err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows, true)
		if err != nil {
			return nil, endSpan(span, err)
		}
		products = append(products, *p)
	}
	span.SetAttributes(attribute.Int("rows", len(products)))
	return products, endSpan(span, rows.Err())
}

func (s *PostgresStore) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	ctx, span := startSpan(ctx, "GetProduct", attribute.String("product.id", id))
	defer span.End()

	p, err := scanProduct(s.db.QueryRowContext(ctx, productSelect+" WHERE p.id = $1", id), true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, endSpan(span, err)
}

func (s *PostgresStore) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	ctx, span := startSpan(ctx, "GetProductBySlug", attribute.String("product.slug", slug))
	defer span.End()

	p, err := scanProduct(s.db.QueryRowContext(ctx,
		productSelect+" WHERE p.slug = $1 AND p.is_active = TRUE", slug), true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, endSpan(span, err)
}

func (s *PostgresStore) InsertProduct(ctx context.Context, p *model.Product) error {
	ctx, span := startSpan(ctx, "InsertProduct", attribute.String("product.id", p.ID))
	defer span.End()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, slug, description, price, sale_price, brand, category_id,
			images, stock, is_active, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, p.ID, p.Name, p.Slug, p.Description, p.Price, nullInt64(p.SalePrice), nullString(p.Brand),
		nullString(p.CategoryID), pq.Array(p.Images), p.Stock, p.IsActive, p.IsFeatured,
		p.CreatedAt, p.UpdatedAt)
	return endSpan(span, err)
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*model.Product, error) {
	ctx, span := startSpan(ctx, "UpdateProduct", attribute.String("product.id", id))
	defer span.End()

	var (
		a    args
		sets []string
	)
	set := func(col string, v any) {
		sets = append(sets, col+" = "+a.add(v))
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.SalePrice != nil {
		set("sale_price", nullInt64(patch.SalePrice))
	}
	if patch.Brand != nil {
		set("brand", nullString(*patch.Brand))
	}
	if patch.CategoryID != nil {
		set("category_id", nullString(*patch.CategoryID))
	}
	if patch.Images != nil {
		set("images", pq.Array(patch.Images))
	}
	if patch.Stock != nil {
		set("stock", *patch.Stock)
	}
	if patch.IsActive != nil {
		set("is_active", *patch.IsActive)
	}
	if patch.IsFeatured != nil {
		set("is_featured", *patch.IsFeatured)
	}
	set("updated_at", time.Now())

	query := fmt.Sprintf(`WITH p AS (UPDATE products SET %s WHERE id = %s RETURNING *)
		SELECT %s, c.id, c.name, c.slug FROM p LEFT JOIN categories c ON c.id = p.category_id`,
		strings.Join(sets, ", "), a.add(id), productColumns)

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, a...), true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, endSpan(span, err)
}

func (s *PostgresStore) DeactivateProduct(ctx context.Context, id string) error {
	ctx, span := startSpan(ctx, "DeactivateProduct", attribute.String("product.id", id))
	defer span.End()

	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET is_active = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now())
	if err != nil {
		return endSpan(span, err)
	}
	return endSpan(span, expectRow(res))
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullInt64 stores nil and non-positive values as NULL.
func nullInt64(v *int64) sql.NullInt64 {
	if v == nil || *v <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
