package catalog

import (
	"context"
	"errors"
)

type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
}

// Fields is the mutable part of a Product; the id is assigned by the store.
type Fields struct {
	Name     string
	Price    float64
	ImageURL string
}

var ErrNotFound = errors.New("product not found")

type Store interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int) (Product, bool, error)
	Add(ctx context.Context, f Fields) (Product, error)
	Update(ctx context.Context, id int, f Fields) error
	Delete(ctx context.Context, id int) error
	Ping(ctx context.Context) error
}
