package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/parsfiltration/site-backend/internal/models"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, query models.ListQuery) ([]*models.Product, int64, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
}

// productRepository implements ProductRepository using PostgreSQL
type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, slug, category, name, description, features, applications, image_path, published, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }, p *models.Product) error {
	return row.Scan(
		&p.ID,
		&p.Slug,
		&p.Category,
		&p.Name,
		&p.Description,
		&p.Features,
		&p.Applications,
		&p.ImagePath,
		&p.Published,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// Create inserts a new product
func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (slug, category, name, description, features, applications, image_path, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Slug,
		product.Category,
		product.Name,
		product.Description,
		product.Features,
		product.Applications,
		product.ImagePath,
		product.Published,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrConflictWithMsg(fmt.Sprintf("product with slug %q already exists", product.Slug))
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by ID
func (r *productRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product := &models.Product{}
	err := scanProduct(r.db.QueryRowContext(ctx, query, id), product)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("product with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// List retrieves products with filtering, search and pagination. The status
// filter of the shared query shape selects the product category; search
// matches the slug and both locales of the name.
func (r *productRepository) List(ctx context.Context, query models.ListQuery) ([]*models.Product, int64, error) {
	query.Normalize()

	where := ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if query.Status != "" {
		where += fmt.Sprintf(" AND category = $%d", argPos)
		args = append(args, query.Status)
		argPos++
	}

	if query.Search != "" {
		where += fmt.Sprintf(
			" AND (slug ILIKE $%d OR name->>'en' ILIKE $%d OR name->>'fa' ILIKE $%d)",
			argPos, argPos, argPos,
		)
		args = append(args, "%"+query.Search+"%")
		argPos++
	}

	var totalCount int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	direction := "DESC"
	if query.SortOrder == models.SortAsc {
		direction = "ASC"
	}

	sqlQuery := `SELECT ` + productColumns + ` FROM products` + where +
		fmt.Sprintf(" ORDER BY created_at %s, id %s LIMIT $%d OFFSET $%d", direction, direction, argPos, argPos+1)
	args = append(args, query.Limit, query.Offset())

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		product := &models.Product{}
		if err := scanProduct(rows, product); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, totalCount, nil
}

// Update updates an existing product
func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET slug = $1, category = $2, name = $3, description = $4, features = $5,
		    applications = $6, image_path = $7, published = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Slug,
		product.Category,
		product.Name,
		product.Description,
		product.Features,
		product.Applications,
		product.ImagePath,
		product.Published,
		product.ID,
	).Scan(&product.UpdatedAt)

	if err == sql.ErrNoRows {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("product with ID %d not found", product.ID))
	}
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrConflictWithMsg(fmt.Sprintf("product with slug %q already exists", product.Slug))
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// Delete removes a product
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("product with ID %d not found", id))
	}

	return nil
}
