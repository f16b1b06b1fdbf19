package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"sneakershop/models"
)

type InMemoryUserStore struct {
	mu      sync.RWMutex
	users   map[string]models.User
	byEmail map[string]string
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (s *InMemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[user.Email]; exists {
		return ErrDuplicateEmail
	}
	user.ID = uuid.NewString()
	s.users[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, exists := s.byEmail[email]
	if !exists {
		return nil, ErrNotFound
	}
	user := s.users[id]
	return &user, nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, exists := s.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &user, nil
}

type InMemoryProductStore struct {
	mu       sync.RWMutex
	products map[string]models.Product
}

func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{products: make(map[string]models.Product)}
}

func (s *InMemoryProductStore) Find(_ context.Context, q models.ProductQuery) ([]models.Product, int, error) {
	s.mu.RLock()
	matched := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if q.Brand != "" && p.Brand != q.Brand {
			continue
		}
		if q.MinPrice != nil && p.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && p.Price > *q.MaxPrice {
			continue
		}
		matched = append(matched, clone(p))
	}
	s.mu.RUnlock()

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = models.SortByCreatedAt
	}
	sort.Slice(matched, func(i, j int) bool {
		c := compareProducts(matched[i], matched[j], sortBy)
		if c == 0 {
			return matched[i].ID < matched[j].ID
		}
		if q.SortOrder == models.SortDesc {
			return c > 0
		}
		return c < 0
	})

	total := len(matched)
	start := q.Skip()
	if start > total {
		start = total
	}
	end := start + q.Limit
	if q.Limit <= 0 || end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *InMemoryProductStore) FindByID(_ context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, exists := s.products[id]
	if !exists {
		return nil, ErrNotFound
	}
	p = clone(p)
	return &p, nil
}

func (s *InMemoryProductStore) Create(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	product.ID = uuid.NewString()
	s.products[product.ID] = clone(*product)
	return nil
}

func (s *InMemoryProductStore) Update(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products[product.ID]; !exists {
		return ErrNotFound
	}
	s.products[product.ID] = clone(*product)
	return nil
}

func (s *InMemoryProductStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products[id]; !exists {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// clone detaches a product from slices shared with the caller.
func clone(p models.Product) models.Product {
	p.Sizes = append([]string{}, p.Sizes...)
	p.Colors = append([]string{}, p.Colors...)
	if p.Image != nil {
		img := *p.Image
		p.Image = &img
	}
	return p
}

func compareProducts(a, b models.Product, field string) int {
	switch field {
	case models.SortByName:
		return strings.Compare(a.Name, b.Name)
	case models.SortByBrand:
		return strings.Compare(a.Brand, b.Brand)
	case models.SortByPrice:
		return compareFloat(a.Price, b.Price)
	case models.SortByRating:
		return compareFloat(a.Rating, b.Rating)
	case models.SortByCountInStock:
		return a.CountInStock - b.CountInStock
	case models.SortByNumReviews:
		return a.NumReviews - b.NumReviews
	case models.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
