// Package cart keeps a shopping cart in client storage. The API is only
// consulted for product details when a new line is added.
package cart

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"sneakershop/apperror"
	"sneakershop/models"
)

// MaxQuantity caps a single line regardless of stock.
const MaxQuantity = 10

type State string

const (
	StateEmpty     State = "empty"
	StatePopulated State = "populated"
)

// LineItem is one (product, size, color) entry with a snapshot of the
// product taken when it was first added.
type LineItem struct {
	Product      string          `json:"product"`
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	Price        decimal.Decimal `json:"price"`
	CountInStock int             `json:"countInStock"`
	Size         string          `json:"size"`
	Color        string          `json:"color"`
	Qty          int             `json:"qty"`
}

func (l LineItem) matches(product, size, color string) bool {
	return l.Product == product && l.Size == size && l.Color == color
}

// ProductLookup fetches product details for new lines.
type ProductLookup interface {
	Product(ctx context.Context, id string) (*models.Product, error)
}

type Cart struct {
	mu      sync.Mutex
	storage Storage
	lookup  ProductLookup
	items   []LineItem
}

// Open loads the cart persisted in storage.
func Open(storage Storage, lookup ProductLookup) (*Cart, error) {
	c := &Cart{storage: storage, lookup: lookup}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload replaces the in-memory lines with what storage currently holds.
func (c *Cart) Reload() error {
	var items []LineItem
	if _, err := c.storage.Get(KeyCartItems, &items); err != nil {
		return err
	}
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

// AddItem adds qty units of a line. An identical line has its quantity
// increased; otherwise the product is looked up and a new line appended.
func (c *Cart) AddItem(ctx context.Context, productID string, qty int, size, color string) error {
	if qty < 1 {
		return apperror.Validation("Quantity must be at least 1", apperror.FieldError{Field: "qty", Message: "qty must be at least 1"})
	}
	if productID == "" {
		return apperror.Validation("Product is required", apperror.FieldError{Field: "product", Message: "product is required"})
	}

	if c.increment(productID, qty, size, color) {
		return c.persist()
	}

	p, err := c.lookup.Product(ctx, productID)
	if err != nil {
		return err
	}
	line := LineItem{
		Product:      productID,
		Name:         p.Name,
		Price:        decimal.NewFromFloat(p.Price),
		CountInStock: p.CountInStock,
		Size:         size,
		Color:        color,
		Qty:          qty,
	}
	if p.Image != nil {
		line.Image = *p.Image
	}

	c.mu.Lock()
	if i := c.index(productID, size, color); i >= 0 {
		// added concurrently while the product was being fetched
		c.items[i].Qty += qty
	} else {
		c.items = append(c.items, line)
	}
	c.mu.Unlock()
	return c.persist()
}

func (c *Cart) increment(productID string, qty int, size, color string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(productID, size, color)
	if i < 0 {
		return false
	}
	c.items[i].Qty += qty
	return true
}

// AddFromURL handles an add-to-cart link of the form
// /cart/{id}?qty=&size=&color=. qty defaults to 1.
func (c *Cart) AddFromURL(ctx context.Context, rawURL string) error {
	productID, qty, size, color, err := ParseAddURL(rawURL)
	if err != nil {
		return err
	}
	return c.AddItem(ctx, productID, qty, size, color)
}

// ParseAddURL extracts the line parameters from an add-to-cart link.
func ParseAddURL(rawURL string) (productID string, qty int, size, color string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", 0, "", "", apperror.Validation("Invalid cart link")
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) != 2 || segments[0] != "cart" || segments[1] == "" {
		return "", 0, "", "", apperror.Validation("Invalid cart link")
	}
	productID = segments[1]

	q := u.Query()
	qty = 1
	if v := q.Get("qty"); v != "" {
		if qty, err = strconv.Atoi(v); err != nil {
			return "", 0, "", "", apperror.Validation("Invalid quantity", apperror.FieldError{Field: "qty", Message: "qty must be an integer"})
		}
	}
	return productID, qty, q.Get("size"), q.Get("color"), nil
}

// RemoveItem drops a line. Removing an absent line is a no-op.
func (c *Cart) RemoveItem(productID, size, color string) error {
	c.mu.Lock()
	kept := c.items[:0]
	for _, it := range c.items {
		if !it.matches(productID, size, color) {
			kept = append(kept, it)
		}
	}
	c.items = kept
	c.mu.Unlock()
	return c.persist()
}

// SetQuantity overwrites a line's quantity, clamped to 1..min(10, stock).
// It returns the quantity actually stored.
func (c *Cart) SetQuantity(productID, size, color string, qty int) (int, error) {
	c.mu.Lock()
	i := c.index(productID, size, color)
	if i < 0 {
		c.mu.Unlock()
		return 0, apperror.NotFound("Item not in cart")
	}
	qty = clamp(qty, c.items[i].CountInStock)
	c.items[i].Qty = qty
	c.mu.Unlock()
	return qty, c.persist()
}

func clamp(qty, stock int) int {
	upper := min(MaxQuantity, stock)
	if qty > upper {
		qty = upper
	}
	if qty < 1 {
		qty = 1
	}
	return qty
}

// Clear empties the cart and removes it from storage.
func (c *Cart) Clear() error {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
	return c.storage.Remove(KeyCartItems)
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return StateEmpty
	}
	return StatePopulated
}

func (c *Cart) index(productID, size, color string) int {
	for i, it := range c.items {
		if it.matches(productID, size, color) {
			return i
		}
	}
	return -1
}

func (c *Cart) persist() error {
	items := c.Items()
	if len(items) == 0 {
		return c.storage.Remove(KeyCartItems)
	}
	return c.storage.Set(KeyCartItems, items)
}
