package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// SnapshotKey is the fixed key the cart record is stored under.
const SnapshotKey = "storefront:cart"

var ErrSnapshotNotFound = errors.New("cart snapshot not found")

// Store persists the serialized ledger under one fixed key.
// Load returns ErrSnapshotNotFound when nothing is stored and an error
// wrapping domain.ErrCorruptSnapshot when the record cannot be decoded.
type Store interface {
	Load(ctx context.Context) ([]domain.CartItem, error)
	Save(ctx context.Context, items []domain.CartItem) error
	Clear(ctx context.Context) error
}

// Encode and Decode are the record format shared by all stores:
// a JSON array of {product, quantity}.
func Encode(items []domain.CartItem) ([]byte, error) {
	if items == nil {
		items = []domain.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal cart failed: %w", err)
	}
	return data, nil
}

func Decode(data []byte) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w: %v", domain.ErrCorruptSnapshot, err)
	}
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("product %d has quantity %d: %w", it.Product.ID, it.Quantity, domain.ErrCorruptSnapshot)
		}
		if _, dup := seen[it.Product.ID]; dup {
			return nil, fmt.Errorf("product %d listed twice: %w", it.Product.ID, domain.ErrCorruptSnapshot)
		}
		seen[it.Product.ID] = struct{}{}
	}
	return items, nil
}

// MemoryStore keeps the encoded record in process memory.
type MemoryStore struct {
	m    sync.RWMutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(context.Context) ([]domain.CartItem, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	if s.data == nil {
		return nil, ErrSnapshotNotFound
	}
	return Decode(s.data)
}

func (s *MemoryStore) Save(_ context.Context, items []domain.CartItem) error {
	data, err := Encode(items)
	if err != nil {
		return err
	}
	s.m.Lock()
	defer s.m.Unlock()
	s.data = data
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.data = nil
	return nil
}

// SetRaw stores data verbatim. Used to simulate damaged records.
func (s *MemoryStore) SetRaw(data []byte) {
	s.m.Lock()
	defer s.m.Unlock()
	s.data = data
}
