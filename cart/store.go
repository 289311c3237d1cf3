package cart

import (
	"sync"

	"storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store owns one user's cart lines, kept in insertion order. Every
// mutation writes the full list to the backing Storage slot and
// notifies subscribers so dependent views (badge counters) re-render.
type Store struct {
	mu        sync.Mutex
	items     []models.CartItem
	storage   Storage
	listeners []func([]models.CartItem)
}

// NewStore loads any previously persisted lines from storage. A nil
// storage gives a purely in-memory store.
func NewStore(storage Storage) (*Store, error) {
	s := &Store{storage: storage}
	if storage != nil {
		items, err := storage.Load()
		if err != nil {
			return nil, err
		}
		s.items = items
	}
	return s, nil
}

// Subscribe registers a change listener. Listeners receive a copy of
// the full line-item list after every mutation.
func (s *Store) Subscribe(fn func(items []models.CartItem)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Add merges by product: an existing line for the same product gets its
// quantity incremented, otherwise a new line is inserted with the
// product's current name, price and image copied onto it.
func (s *Store) Add(product models.Product, qty int) {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].ProductID == product.ID {
			s.items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, models.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Quantity:  qty,
		})
	}
	s.commit()
}

// Remove deletes the line for the product. Absent lines are a no-op,
// but the list is still persisted and subscribers still notified.
func (s *Store) Remove(productID primitive.ObjectID) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.commit()
}

// SetQuantity overwrites the line's quantity, clamped to a minimum of 1.
// Live stock is not consulted.
func (s *Store) SetQuantity(productID primitive.ObjectID, qty int) {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = qty
			break
		}
	}
	s.commit()
}

// ReplaceAll overwrites the whole cart, used when pulling the
// server-mirrored cart after login. Last writer wins.
func (s *Store) ReplaceAll(items []models.CartItem) {
	s.mu.Lock()
	s.items = append([]models.CartItem(nil), items...)
	s.commit()
}

// Clear empties the cart, the post-condition of a successful checkout.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.commit()
}

// Items returns a copy of the current line-item list.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartItem(nil), s.items...)
}

// Totals computes the subtotal over current lines and the savings from
// lines that carry a pre-discount original price.
func (s *Store) Totals() (subtotal, savings float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		subtotal += item.Price * float64(item.Quantity)
		if item.OriginalPrice > 0 {
			savings += (item.OriginalPrice - item.Price) * float64(item.Quantity)
		}
	}
	return subtotal, savings
}

// commit persists the current list and notifies subscribers. Called
// with the mutex held; it releases it. Persistence is best-effort, the
// durable slot is advisory state.
func (s *Store) commit() {
	snapshot := append([]models.CartItem(nil), s.items...)
	listeners := s.listeners
	s.mu.Unlock()

	if s.storage != nil {
		_ = s.storage.Save(snapshot)
	}
	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Normalize collapses duplicate product lines (summing quantities,
// first occurrence wins for the snapshot fields) and clamps quantities
// to a minimum of 1. Used when accepting a pushed cart wholesale.
func Normalize(items []models.CartItem) []models.CartItem {
	normalized := make([]models.CartItem, 0, len(items))
	index := make(map[primitive.ObjectID]int, len(items))

	for _, item := range items {
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if i, ok := index[item.ProductID]; ok {
			normalized[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(normalized)
		normalized = append(normalized, item)
	}
	return normalized
}
