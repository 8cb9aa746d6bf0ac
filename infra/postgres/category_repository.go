package postgres

import (
	"context"
	"storefront/app/category"
	"storefront/domain"
)

func (r *PgRepository) GetCategories(ctx context.Context) ([]domain.Category, error) {
	categories := make([]domain.Category, 0)
	query := `SELECT * FROM categories ORDER BY name, id`

	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, translate("get categories", err)
	}

	return categories, nil
}

func (r *PgRepository) GetCategoryBySlug(ctx context.Context, slug string) (domain.Category, error) {
	var c domain.Category
	query := `SELECT * FROM categories WHERE slug = $1`

	err := r.db.GetContext(ctx, &c, query, slug)
	return c, translate("get category by slug", err)
}

func (r *PgRepository) GetCategoryByID(ctx context.Context, id string) (domain.Category, error) {
	var c domain.Category
	query := `SELECT * FROM categories WHERE id = $1`

	err := r.db.GetContext(ctx, &c, query, id)
	return c, translate("get category", err)
}

func (r *PgRepository) CreateCategory(ctx context.Context, req *category.CreateCategoryRequest) (domain.Category, error) {
	var c domain.Category
	query := `
		INSERT INTO categories (name, slug, code)
		VALUES (:name, :slug, :code)
		RETURNING *`

	rows, err := r.db.NamedQueryContext(ctx, query, req)
	if err != nil {
		return c, translate("create category", err)
	}
	defer rows.Close()

	if rows.Next() {
		err = rows.StructScan(&c)
	}
	if err == nil {
		err = rows.Err()
	}
	return c, translate("create category", err)
}

func (r *PgRepository) UpdateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	var updated domain.Category
	query := `
		UPDATE categories SET
			name = :name,
			slug = :slug,
			code = :code,
			updated_at = now()
		WHERE id = :id
		RETURNING *`

	rows, err := r.db.NamedQueryContext(ctx, query, c)
	if err != nil {
		return updated, translate("update category", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return updated, translate("update category", err)
		}
		return updated, translate("update category", domain.ErrNotFound)
	}

	err = rows.StructScan(&updated)
	return updated, translate("update category", err)
}
