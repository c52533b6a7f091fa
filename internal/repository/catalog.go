package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/gymstore/internal/model"
)

const productColumns = `p.id, p.name, p.description, p.price, p.stock, p.images,
	p.category_id, c.name, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Images,
		&p.CategoryID, &p.CategoryName, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// ListProducts возвращает все товары каталога, начиная с самых новых.
func (r *PostgresRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+`
		 FROM products p
		 LEFT JOIN categories c ON c.id = p.category_id
		 ORDER BY p.created_at DESC, p.id DESC`,
	)
	if err != nil {
		return nil, wrapErr("select products", err)
	}
	defer rows.Close()

	var res []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		res = append(res, p)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("rows error", err)
	}

	return res, nil
}

// GetProduct возвращает товар по идентификатору.
func (r *PostgresRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+`
		 FROM products p
		 LEFT JOIN categories c ON c.id = p.category_id
		 WHERE p.id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, wrapErr("get product", err)
	}
	return &p, nil
}

// CreateProduct сохраняет новый товар.
func (r *PostgresRepository) CreateProduct(ctx context.Context, p model.Product) error {
	if p.Images == nil {
		p.Images = []string{}
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO products (id, name, description, price, stock, images, category_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Images, p.CategoryID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("category %v: %w", deref(p.CategoryID), ErrNotFound)
		}
		return wrapErr("insert product", err)
	}
	return nil
}

// UpdateProduct заменяет редактируемые поля товара.
func (r *PostgresRepository) UpdateProduct(ctx context.Context, p model.Product) error {
	if p.Images == nil {
		p.Images = []string{}
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE products
		 SET name = $2, description = $3, price = $4, stock = $5, images = $6,
		     category_id = $7, updated_at = now()
		 WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Images, p.CategoryID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("category %v: %w", deref(p.CategoryID), ErrNotFound)
		}
		return wrapErr("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

// DeleteProduct удаляет товар. Позиции корзин и заказы не затрагиваются.
func (r *PostgresRepository) DeleteProduct(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListCategories возвращает категории в алфавитном порядке.
func (r *PostgresRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, wrapErr("select categories", err)
	}
	defer rows.Close()

	var res []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		res = append(res, c)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("rows error", err)
	}

	return res, nil
}

// CreateCategory сохраняет новую категорию.
func (r *PostgresRepository) CreateCategory(ctx context.Context, c model.Category) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO categories (id, name) VALUES ($1, $2)`, c.ID, c.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %s: %w", c.Name, ErrAlreadyExists)
		}
		return wrapErr("insert category", err)
	}
	return nil
}

// DeleteCategory удаляет категорию и возвращает идентификаторы товаров, которые
// остались без категории.
func (r *PostgresRepository) DeleteCategory(ctx context.Context, id string) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, wrapErr("begin tx", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`UPDATE products SET category_id = NULL, updated_at = now()
		 WHERE category_id = $1
		 RETURNING id`, id)
	if err != nil {
		return nil, wrapErr("detach products", err)
	}
	productIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, wrapErr("detach products", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return nil, wrapErr("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapErr("commit tx", err)
	}
	return productIDs, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
