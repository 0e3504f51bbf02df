package cart

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"WoodLoft/internal/catalog"
	"WoodLoft/internal/session"
)

var ErrItemNotFound = errors.New("cart item not found")

// LineItem is the wire shape of one cart entry. Totals use the price
// snapshotted at add time, not the live catalog price.
type LineItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
	ImageURL  string  `json:"image_url"`
}

// Service applies the cart rules to a request's session state. Every
// mutating call re-assigns the cart entry and saves the whole state back
// through the session manager.
type Service struct {
	Catalog  catalog.Store
	Sessions *session.Manager
}

// Add merges quantity into an existing line or inserts a product snapshot.
// It returns the distinct-item count of the cart. Quantities below one are
// treated as one.
func (s *Service) Add(ctx context.Context, st *session.State, productID string, quantity int) (int, error) {
	if quantity < 1 {
		quantity = 1
	}

	id, err := strconv.Atoi(productID)
	if err != nil {
		return 0, catalog.ErrNotFound
	}

	p, ok, err := s.Catalog.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, catalog.ErrNotFound
	}

	if item, ok := st.Cart[productID]; ok {
		item.Quantity += quantity
		st.Cart[productID] = item
	} else {
		st.Seq++
		st.Cart[productID] = session.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			Name:      p.Name,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
			Added:     st.Seq,
		}
	}

	if err := s.Sessions.Save(ctx, st); err != nil {
		return 0, err
	}
	return len(st.Cart), nil
}

// Items lists the cart in first-add order with line and grand totals.
func Items(st *session.State) ([]LineItem, float64, int) {
	items := make([]LineItem, 0, len(st.Cart))
	total := 0.0

	for id, item := range st.Cart {
		lineTotal := float64(item.Quantity) * item.Price
		total += lineTotal
		items = append(items, LineItem{
			ID:        id,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Total:     lineTotal,
			ImageURL:  item.ImageURL,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return st.Cart[items[i].ID].Added < st.Cart[items[j].ID].Added
	})

	return items, total, len(items)
}

// Update overwrites a line's quantity; zero or less removes the line.
func (s *Service) Update(ctx context.Context, st *session.State, itemID string, quantity int) error {
	item, ok := st.Cart[itemID]
	if !ok {
		return ErrItemNotFound
	}

	if quantity <= 0 {
		delete(st.Cart, itemID)
	} else {
		item.Quantity = quantity
		st.Cart[itemID] = item
	}

	return s.Sessions.Save(ctx, st)
}

func (s *Service) Remove(ctx context.Context, st *session.State, itemID string) error {
	if _, ok := st.Cart[itemID]; !ok {
		return ErrItemNotFound
	}

	delete(st.Cart, itemID)
	return s.Sessions.Save(ctx, st)
}

// Clear empties the cart unconditionally.
func (s *Service) Clear(ctx context.Context, st *session.State) error {
	st.Cart = map[string]session.CartItem{}
	return s.Sessions.Save(ctx, st)
}
