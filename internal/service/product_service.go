package service

import (
	"context"
	"strings"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	topRatedLimit    = 5
	defaultSortField = "createdAt"
)

type ProductService struct {
	products ProductStore
}

func NewProductService(products ProductStore) *ProductService {
	return &ProductService{products: products}
}

// List returns one page of the catalog. The page and the total count are
// fetched concurrently with the same filter.
func (s *ProductService) List(ctx context.Context, q model.ProductQuery) (*model.ProductPage, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = defaultPageLimit
	}
	if q.Page < 1 {
		return nil, apperr.Validation("page must be at least 1")
	}
	if q.Limit < 1 || q.Limit > maxPageLimit {
		return nil, apperr.Validationf("limit must be between 1 and %d", maxPageLimit)
	}
	if q.SortBy == "" {
		q.SortBy = defaultSortField
	}

	var items []model.Product
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.products.Query(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.products.Count(gctx, q.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.ProductPage{
		Items:       items,
		CurrentPage: q.Page,
		TotalPages:  (total + q.Limit - 1) / q.Limit,
		TotalCount:  total,
	}, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *ProductService) Search(ctx context.Context, term string) ([]model.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperr.Validation("search query is required")
	}
	return s.products.Search(ctx, term)
}

func (s *ProductService) TopRated(ctx context.Context) ([]model.Product, error) {
	return s.products.TopRated(ctx, topRatedLimit)
}

type NewProduct struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Stock       int
	Image       *string
}

func (s *ProductService) Create(ctx context.Context, in NewProduct) (*model.Product, error) {
	p := &model.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Category:    strings.TrimSpace(in.Category),
		Stock:       in.Stock,
		Image:       in.Image,
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies the fields set in upd and persists the product.
func (s *ProductService) Update(ctx context.Context, id string, upd model.ProductUpdate) (*model.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		p.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		p.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Category != nil {
		p.Category = strings.TrimSpace(*upd.Category)
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	if upd.Image != nil {
		p.Image = upd.Image
	}

	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

func validateProduct(p *model.Product) error {
	switch {
	case p.Name == "":
		return apperr.Validation("name is required")
	case p.Description == "":
		return apperr.Validation("description is required")
	case p.Category == "":
		return apperr.Validation("category is required")
	case p.Price < 0:
		return apperr.Validation("price must not be negative")
	case p.Stock < 0:
		return apperr.Validation("stock must not be negative")
	}
	return nil
}
