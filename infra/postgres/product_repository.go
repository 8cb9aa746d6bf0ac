package postgres

import (
	"context"
	"fmt"
	"storefront/app/product"
	"storefront/domain"
)

// selectProducts joins each product with its category so derived fields are
// read from the current category row.
const selectProducts = `
	SELECT
		p.id, p.name, p.description, p.price, p.category_id, p.image,
		p.is_best_seller, p.stock, p.created_at, p.updated_at,
		c.id AS "category.id",
		c.name AS "category.name",
		c.slug AS "category.slug",
		c.code AS "category.code",
		c.created_at AS "category.created_at",
		c.updated_at AS "category.updated_at"
	FROM products p
	JOIN categories c ON c.id = p.category_id`

func (r *PgRepository) GetProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var where conditions
	if filter.CategoryCode != "" {
		where.add("c.code = ?", filter.CategoryCode)
	}
	if filter.BestSellersOnly {
		where.clauses = append(where.clauses, "p.is_best_seller")
	}

	products := make([]domain.Product, 0)
	query := selectProducts + where.where() + ` ORDER BY p.created_at DESC, p.id`

	if err := r.db.SelectContext(ctx, &products, query, where.args...); err != nil {
		return nil, translate("get products", err)
	}

	return products, nil
}

func (r *PgRepository) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	query := selectProducts + ` WHERE p.id = $1`

	err := r.db.GetContext(ctx, &p, query, id)
	return p, translate("get product", err)
}

func (r *PgRepository) CreateProduct(ctx context.Context, req *product.CreateProductRequest) (domain.Product, error) {
	query := `
		INSERT INTO products (
			name, description, price, category_id, image, is_best_seller, stock
		) VALUES (
			:name, :description, :price, :category_id, :image, :is_best_seller, :stock
		) RETURNING id`

	rows, err := r.db.NamedQueryContext(ctx, query, req)
	if err != nil {
		return domain.Product{}, translate("create product", err)
	}
	defer rows.Close()

	var id string
	if rows.Next() {
		err = rows.Scan(&id)
	}
	if err == nil {
		err = rows.Err()
	}
	if err != nil {
		return domain.Product{}, translate("create product", err)
	}

	return r.GetProduct(ctx, id)
}

func (r *PgRepository) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	query := `
		UPDATE products SET
			name = :name,
			description = :description,
			price = :price,
			category_id = :category_id,
			image = :image,
			is_best_seller = :is_best_seller,
			stock = :stock,
			updated_at = now()
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return domain.Product{}, translate("update product", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.Product{}, translate("update product", domain.ErrNotFound)
	}

	return r.GetProduct(ctx, p.ID)
}

func (r *PgRepository) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("delete product: %w", domain.ErrConflict)
		}
		return translate("delete product", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return translate("delete product", domain.ErrNotFound)
	}
	return nil
}

func (r *PgRepository) SetProductImage(ctx context.Context, id string, image *string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET image = $1, updated_at = now() WHERE id = $2`, image, id)
	if err != nil {
		return translate("set product image", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return translate("set product image", domain.ErrNotFound)
	}
	return nil
}
