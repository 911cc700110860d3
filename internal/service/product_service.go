package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parsfiltration/site-backend/internal/models"
	"github.com/parsfiltration/site-backend/internal/repository"
)

// ProductService handles catalog products
type ProductService interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, query models.ListQuery) (*ProductListResult, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, logger *slog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create creates a new product
func (s *productService) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error("failed to create product",
			slog.String("slug", product.Slug),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("product created",
		slog.Int64("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// GetByID retrieves a product by ID
func (s *productService) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// List retrieves products with search, filtering and pagination
func (s *productService) List(ctx context.Context, query models.ListQuery) (*ProductListResult, error) {
	products, totalCount, err := s.productRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	query.Normalize()

	return &ProductListResult{
		Data:       products,
		Pagination: models.NewPagination(query.Page, query.Limit, totalCount),
	}, nil
}

// Update updates an existing product
func (s *productService) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product updated", slog.Int64("product_id", product.ID))

	return product, nil
}

// Delete removes a product
func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("product deleted", slog.Int64("product_id", id))

	return nil
}
