// internal/domain/catalog/store.go
package catalog

import "errors"

var ErrProductNotFound = errors.New("product not found")

// Store is a read-only, in-memory product table. It is safe for concurrent use.
type Store struct {
	products   []Product
	byID       map[string]int
	categories []CategoryInfo
}

func NewStore(products []Product, categories []CategoryInfo) *Store {
	s := &Store{
		products:   make([]Product, len(products)),
		byID:       make(map[string]int, len(products)),
		categories: append([]CategoryInfo(nil), categories...),
	}
	copy(s.products, products)
	for i, p := range s.products {
		s.byID[p.ID] = i
	}
	return s
}

// Default returns the store's built-in product catalog.
func Default() *Store {
	return NewStore(defaultProducts, defaultCategories)
}

func (s *Store) GetProduct(id string) (Product, error) {
	i, ok := s.byID[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return clone(s.products[i]), nil
}

// ListProducts returns products in catalog order, filtered by category when one is given.
func (s *Store) ListProducts(category Category) []Product {
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, clone(p))
	}
	return out
}

func (s *Store) Categories() []CategoryInfo {
	return append([]CategoryInfo(nil), s.categories...)
}

func (s *Store) HasCategory(c Category) bool {
	for _, info := range s.categories {
		if info.ID == c {
			return true
		}
	}
	return false
}

func clone(p Product) Product {
	p.Features = append([]string(nil), p.Features...)
	return p
}
