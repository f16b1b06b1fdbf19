package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"sneakershop/models"
)

func seedProducts(t *testing.T, s *InMemoryProductStore, prices ...float64) {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, price := range prices {
		p := &models.Product{
			Name:      fmt.Sprintf("Sneaker %d", i),
			Brand:     "Nike",
			Price:     price,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if i%2 == 1 {
			p.Brand = "Adidas"
		}
		if err := s.Create(context.Background(), p); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
}

func TestInMemoryUserStoreDuplicateEmail(t *testing.T) {
	s := NewInMemoryUserStore()
	ctx := context.Background()

	first := &models.User{Email: "a@example.com", PasswordHash: "x"}
	if err := s.Create(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID == "" {
		t.Error("Create should assign an ID")
	}

	err := s.Create(ctx, &models.User{Email: "a@example.com", PasswordHash: "y"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("Expected ErrDuplicateEmail, got %v", err)
	}

	got, err := s.FindByID(ctx, first.ID)
	if err != nil || got.Email != "a@example.com" {
		t.Errorf("FindByID returned %v, %v", got, err)
	}

	if _, err := s.FindByEmail(ctx, "missing@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestInMemoryProductStoreFilterSortPage(t *testing.T) {
	s := NewInMemoryProductStore()
	seedProducts(t, s, 40, 60, 80, 100, 120, 140, 160)

	min, max := 50.0, 150.0
	q := models.ProductQuery{
		MinPrice:  &min,
		MaxPrice:  &max,
		SortBy:    models.SortByPrice,
		SortOrder: models.SortDesc,
		Page:      1,
		Limit:     2,
	}
	items, total, err := s.Find(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 {
		t.Errorf("Expected 5 matches, got %d", total)
	}
	if len(items) != 2 || items[0].Price != 140 || items[1].Price != 120 {
		t.Errorf("Expected [140 120], got %+v", items)
	}
}

func TestInMemoryProductStoreBrandFilter(t *testing.T) {
	s := NewInMemoryProductStore()
	seedProducts(t, s, 10, 20, 30, 40)

	items, total, err := s.Find(context.Background(), models.ProductQuery{Brand: "Adidas", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("Expected 2 Adidas products, got %d", total)
	}
	for _, p := range items {
		if p.Brand != "Adidas" {
			t.Errorf("unexpected brand %s", p.Brand)
		}
	}
}

func TestInMemoryProductStorePagesPartition(t *testing.T) {
	s := NewInMemoryProductStore()
	seedProducts(t, s, 5, 5, 5, 10, 10, 20, 30)

	for _, limit := range []int{1, 2, 3, 4, 10} {
		seen := map[string]bool{}
		for page := 1; ; page++ {
			items, total, err := s.Find(context.Background(), models.ProductQuery{
				SortBy: models.SortByPrice, Page: page, Limit: limit,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) > limit {
				t.Fatalf("limit %d: page %d returned %d items", limit, page, len(items))
			}
			if len(items) == 0 {
				if len(seen) != total {
					t.Errorf("limit %d: pages covered %d of %d records", limit, len(seen), total)
				}
				break
			}
			for _, p := range items {
				if seen[p.ID] {
					t.Errorf("limit %d: product %s appeared on two pages", limit, p.ID)
				}
				seen[p.ID] = true
			}
		}
	}
}

func TestInMemoryProductStoreUpdateDelete(t *testing.T) {
	s := NewInMemoryProductStore()
	ctx := context.Background()

	p := &models.Product{Name: "Air Max", Brand: "Nike", Price: 120, Sizes: []string{"10"}}
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// mutating the caller's slice must not leak into the store
	p.Sizes[0] = "11"
	stored, _ := s.FindByID(ctx, p.ID)
	if stored.Sizes[0] != "10" {
		t.Errorf("store shares slices with caller: %v", stored.Sizes)
	}

	p.Price = 99
	if err := s.Update(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ = s.FindByID(ctx, p.ID)
	if stored.Price != 99 {
		t.Errorf("Expected price 99, got %v", stored.Price)
	}

	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Delete(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
	if err := s.Update(ctx, p); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on update of deleted product, got %v", err)
	}
}
