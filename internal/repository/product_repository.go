package repository

import (
	"context"
	"fmt"
	"strings"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"

	"github.com/jackc/pgx/v5"
)

type ProductRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, description, price, category, stock, image, rating, num_reviews, created_at, updated_at`

// sortColumns maps API sort fields to columns.
var sortColumns = map[string]string{
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"name":       "name",
	"price":      "price",
	"category":   "category",
	"stock":      "stock",
	"rating":     "rating",
	"numReviews": "num_reviews",
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock,
		&p.Image, &p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}

// buildProductFilter renders only the filters that are set; an empty filter
// yields no WHERE clause at all.
func buildProductFilter(f model.ProductFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.Category != nil {
		args = append(args, *f.Category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		clauses = append(clauses, fmt.Sprintf("price >= $%d", len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		clauses = append(clauses, fmt.Sprintf("price <= $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	err := r.db.executor(ctx).QueryRow(ctx,
		`INSERT INTO products (id, name, description, price, category, stock, image)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING rating, num_reviews, created_at, updated_at`,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.Stock, p.Image,
	).Scan(&p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	p, err := scanProduct(r.db.executor(ctx).QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "product not found", "get product")
	}
	return p, nil
}

// GetMany returns the products that exist among ids, keyed by id. Missing ids
// are simply absent from the result.
func (r *ProductRepository) GetMany(ctx context.Context, ids []string) (map[string]*model.Product, error) {
	return r.getMany(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
}

// GetManyForUpdate is GetMany with the rows locked, in id order, until the
// surrounding transaction ends.
func (r *ProductRepository) GetManyForUpdate(ctx context.Context, ids []string) (map[string]*model.Product, error) {
	return r.getMany(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
}

func (r *ProductRepository) getMany(ctx context.Context, query string, ids []string) (map[string]*model.Product, error) {
	out := make(map[string]*model.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.executor(ctx).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}

// Query returns one page of products matching q.
func (r *ProductRepository) Query(ctx context.Context, q model.ProductQuery) ([]model.Product, error) {
	column, ok := sortColumns[q.SortBy]
	if !ok {
		return nil, apperr.Validationf("cannot sort by %q", q.SortBy)
	}
	direction := "DESC"
	if q.Ascending {
		direction = "ASC"
	}

	where, args := buildProductFilter(q.Filter)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)
	sql := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY %s %s, id LIMIT $%d OFFSET $%d`,
		productColumns, where, column, direction, len(args)-1, len(args))

	rows, err := r.db.executor(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return collectProducts(rows)
}

func (r *ProductRepository) Count(ctx context.Context, f model.ProductFilter) (int, error) {
	where, args := buildProductFilter(f)
	var total int
	if err := r.db.executor(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// Search matches names case-insensitively.
func (r *ProductRepository) Search(ctx context.Context, term string) ([]model.Product, error) {
	rows, err := r.db.executor(ctx).Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE name ILIKE '%' || $1 || '%' ORDER BY name`, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return collectProducts(rows)
}

func (r *ProductRepository) TopRated(ctx context.Context, limit int) ([]model.Product, error) {
	rows, err := r.db.executor(ctx).Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY rating DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top products: %w", err)
	}
	return collectProducts(rows)
}

func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	err := r.db.executor(ctx).QueryRow(ctx,
		`UPDATE products
		 SET name = $2, description = $3, price = $4, category = $5, stock = $6, image = $7, updated_at = NOW()
		 WHERE id = $1
		 RETURNING updated_at`,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.Stock, p.Image,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return notFound(err, "product not found", "update product")
	}
	return nil
}

// DecrementStock subtracts quantity from the product's stock. The update is
// guarded so stock can never go negative; a short row is a Conflict.
func (r *ProductRepository) DecrementStock(ctx context.Context, productID string, quantity int) error {
	tag, err := r.db.executor(ctx).Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = NOW() WHERE id = $1 AND stock >= $2`,
		productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update product stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflictf("not enough stock for product %s", productID)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.executor(ctx).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}
