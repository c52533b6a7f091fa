package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/gymstore/internal/cache"
	"github.com/mmeshcher/gymstore/internal/model"
)

// ProductInput описывает редактируемые поля товара.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Images      []string
	CategoryID  *string
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return validationErr("name is required")
	}
	if in.Price.IsNegative() {
		return validationErr("price must not be negative")
	}
	if in.Stock < 0 {
		return validationErr("stock must not be negative")
	}
	return nil
}

// ListProducts возвращает каталог, по возможности из кэша.
func (s *Service) ListProducts(ctx context.Context) ([]model.Product, error) {
	if s.cache != nil {
		products, err := s.cache.Products(ctx)
		if err == nil {
			return products, nil
		}
		s.logCacheErr("read products", err)
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}

	if s.cache != nil {
		if err := s.cache.SetProducts(ctx, products); err != nil {
			s.logCacheErr("write products", err)
		}
	}
	return products, nil
}

// GetProduct возвращает товар, по возможности из кэша.
func (s *Service) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if err := requireID("productId", id); err != nil {
		return nil, err
	}

	if s.cache != nil {
		p, err := s.cache.Product(ctx, id)
		if err == nil {
			return p, nil
		}
		s.logCacheErr("read product", err)
	}

	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, *p); err != nil {
			s.logCacheErr("write product", err)
		}
	}
	return p, nil
}

// CreateProduct добавляет товар в каталог.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := model.Product{
		ID:          s.newID(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Images:      in.Images,
		CategoryID:  in.CategoryID,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)

	return s.repo.GetProduct(ctx, p.ID)
}

// UpdateProduct заменяет редактируемые поля товара. Пустая категория снимает привязку.
func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (*model.Product, error) {
	if err := requireID("productId", id); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := model.Product{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Images:      in.Images,
		CategoryID:  in.CategoryID,
	}
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx, id)

	return s.repo.GetProduct(ctx, id)
}

// DeleteProduct удаляет товар из каталога.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := requireID("productId", id); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidateCatalog(ctx, id)
	return nil
}

// ListCategories возвращает категории каталога.
func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

// CreateCategory добавляет категорию с уникальным именем.
func (s *Service) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr("name is required")
	}

	c := model.Category{ID: s.newID(), Name: name}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteCategory удаляет категорию; товары остаются без категории.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := requireID("categoryId", id); err != nil {
		return err
	}
	productIDs, err := s.repo.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	s.invalidateCatalog(ctx, productIDs...)
	return nil
}

func (s *Service) invalidateCatalog(ctx context.Context, ids ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, ids...); err != nil {
		s.logCacheErr("invalidate", err)
	}
}

func (s *Service) logCacheErr(op string, err error) {
	if errors.Is(err, cache.ErrMiss) {
		return
	}
	s.logger.Warn("catalog cache error", zap.String("op", op), zap.Error(err))
}
