package repositories

import (
	"context"
	"errors"

	"sneakershop/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserStore holds user credentials. Create assigns the user's ID.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ProductStore holds catalog records. Create assigns the product's ID;
// timestamps are set by the caller.
type ProductStore interface {
	Find(ctx context.Context, q models.ProductQuery) ([]models.Product, int, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
