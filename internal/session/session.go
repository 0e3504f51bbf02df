package session

import "context"

// CartItem is a denormalized snapshot of a product at first-add time.
// Later catalog edits do not touch items already in a cart.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
	Added     int64   `json:"added"`
}

// State is everything the server remembers about one visitor. Handlers get
// a private copy per request and must call Manager.Save to publish changes.
type State struct {
	ID       string              `json:"id"`
	Cart     map[string]CartItem `json:"cart"`
	UserID   int                 `json:"user_id,omitempty"`
	Username string              `json:"username,omitempty"`
	Role     string              `json:"role,omitempty"`
	Seq      int64               `json:"seq"`
}

func (st *State) clone() *State {
	cp := *st
	cp.Cart = make(map[string]CartItem, len(st.Cart))
	for k, v := range st.Cart {
		cp.Cart[k] = v
	}
	return &cp
}

type Store interface {
	Get(ctx context.Context, id string) (*State, bool, error)
	Put(ctx context.Context, st *State) error
	Ping(ctx context.Context) error
}
