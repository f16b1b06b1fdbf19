package services

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"sneakershop/apperror"
	"sneakershop/models"
	"sneakershop/repositories"
)

type CatalogService struct {
	products repositories.ProductStore
	images   ImageStore
	now      func() time.Time
}

func NewCatalogService(products repositories.ProductStore, images ImageStore) *CatalogService {
	return &CatalogService{products: products, images: images, now: time.Now}
}

func (s *CatalogService) List(ctx context.Context, q models.ProductQuery) (*models.ProductsListResp, error) {
	items, total, err := s.products.Find(ctx, q)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch products", err)
	}
	if items == nil {
		items = []models.Product{}
	}
	return &models.ProductsListResp{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Product not found")
		}
		return nil, apperror.Internal("Failed to fetch product", err)
	}
	return p, nil
}

// Create stores a new product. When image is non-nil it is saved first
// and its path attached to the record.
func (s *CatalogService) Create(ctx context.Context, in models.ProductInput, image *multipart.FileHeader, requester *models.Identity) (*models.Product, error) {
	if err := requireAdmin(requester); err != nil {
		return nil, err
	}

	var p models.Product
	in.Apply(&p)
	p.Sizes = nonNilStrings(p.Sizes)
	p.Colors = nonNilStrings(p.Colors)
	if err := validateStruct(p, "Invalid product data"); err != nil {
		return nil, err
	}

	if image != nil {
		imagePath, err := s.images.Save(ctx, image)
		if err != nil {
			return nil, err
		}
		p.Image = &imagePath
	}

	now := s.now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	if err := s.products.Create(ctx, &p); err != nil {
		return nil, apperror.Internal("Failed to create product", err)
	}

	log.Infow("Product created", "product_id", p.ID, "by", requester.UserID)
	return &p, nil
}

// Update merges the provided fields over the stored product. The image is
// replaced only when a new file is supplied.
func (s *CatalogService) Update(ctx context.Context, id string, in models.ProductInput, image *multipart.FileHeader, requester *models.Identity) (*models.Product, error) {
	if err := requireAdmin(requester); err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Apply(p)
	if err := validateStruct(p, "Invalid product data"); err != nil {
		return nil, err
	}

	if image != nil {
		imagePath, err := s.images.Save(ctx, image)
		if err != nil {
			return nil, err
		}
		p.Image = &imagePath
	}

	p.UpdatedAt = s.now().UTC()
	if err := s.products.Update(ctx, p); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Product not found")
		}
		return nil, apperror.Internal("Failed to update product", err)
	}

	log.Infow("Product updated", "product_id", p.ID, "by", requester.UserID)
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string, requester *models.Identity) error {
	if err := requireAdmin(requester); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound("Product not found")
		}
		return apperror.Internal("Failed to delete product", err)
	}

	log.Infow("Product deleted", "product_id", id, "by", requester.UserID)
	return nil
}

// Upload stores an image on its own and returns its public path.
func (s *CatalogService) Upload(ctx context.Context, image *multipart.FileHeader, requester *models.Identity) (string, error) {
	if err := requireAdmin(requester); err != nil {
		return "", err
	}
	if image == nil {
		return "", apperror.Validation("Image is required", apperror.FieldError{Field: "image", Message: "image is required"})
	}
	return s.images.Save(ctx, image)
}

func requireAdmin(requester *models.Identity) error {
	if requester == nil {
		return apperror.Auth("Access denied")
	}
	if !requester.IsAdmin {
		return apperror.Forbidden("Not authorized as an admin")
	}
	return nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
