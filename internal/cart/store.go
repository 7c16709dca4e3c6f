package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/domain"
	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const persistTimeout = 2 * time.Second

// State is a consistent read of the cart: totals are derived from the same
// items that are returned.
type State struct {
	Items      []domain.CartLineItem
	TotalItems int
	TotalPrice decimal.Decimal
	IsOpen     bool
	Persisted  bool
}

// Store holds the shopper's line items in insertion order and mirrors them
// to storage after every mutation. Storage problems never reach callers:
// the store logs them and keeps working in memory.
type Store struct {
	mu      sync.RWMutex
	storage storage.Storage
	key     string
	logger  *zap.Logger

	items map[domain.ProductID]*domain.CartLineItem
	order []domain.ProductID
	open  bool

	// set after the first storage failure; no more writes are attempted
	degraded bool
}

// NewStore hydrates a store from the snapshot saved under key. A nil
// storage gives a memory-only cart.
func NewStore(ctx context.Context, st storage.Storage, key string, logger *zap.Logger) *Store {
	s := &Store{
		storage: st,
		key:     key,
		logger:  logger,
		items:   make(map[domain.ProductID]*domain.CartLineItem),
	}
	if st == nil {
		s.degraded = true
		return s
	}
	s.hydrate(ctx)
	return s
}

func (s *Store) hydrate(ctx context.Context) {
	data, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.degrade("cart storage unavailable on load, continuing in memory", err)
		return
	}

	items, err := decodeSnapshot(data)
	if err != nil {
		s.logger.Warn("discarding unreadable cart snapshot",
			zap.String("key", s.key),
			zap.Error(err),
		)
		return
	}

	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		if existing, ok := s.items[item.ProductID]; ok {
			existing.Quantity += item.Quantity
			continue
		}
		it := item
		s.items[it.ProductID] = &it
		s.order = append(s.order, it.ProductID)
	}
}

// AddItem adds quantity units of p and opens the cart panel. An existing
// row keeps its snapshot and accumulates quantity. Quantities below one are
// ignored.
func (s *Store) AddItem(ctx context.Context, p domain.Product, quantity int) {
	if quantity < 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.items[p.ID]; ok {
		existing.Quantity += quantity
	} else {
		item := domain.NewCartLineItem(p, quantity)
		s.items[p.ID] = &item
		s.order = append(s.order, p.ID)
	}
	s.open = true
	s.persist(ctx)
}

// UpdateQuantity sets the quantity of an existing row; zero or less removes
// it. Unknown products are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, id domain.ProductID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return
	}
	if quantity <= 0 {
		s.remove(id)
	} else {
		item.Quantity = quantity
	}
	s.persist(ctx)
}

// RemoveItem is idempotent.
func (s *Store) RemoveItem(ctx context.Context, id domain.ProductID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return
	}
	s.remove(id)
	s.persist(ctx)
}

func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[domain.ProductID]*domain.CartLineItem)
	s.order = nil
	s.persist(ctx)
}

// RemoveOrdered takes the ordered quantities out of the cart. Rows added or
// raised after the order snapshot was taken keep the difference.
func (s *Store) RemoveOrdered(ctx context.Context, ordered []domain.CartLineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, o := range ordered {
		item, ok := s.items[o.ProductID]
		if !ok {
			continue
		}
		if item.Quantity -= o.Quantity; item.Quantity <= 0 {
			s.remove(o.ProductID)
		}
		changed = true
	}
	if changed {
		s.persist(ctx)
	}
}

func (s *Store) OpenCart() {
	s.mu.Lock()
	s.open = true
	s.mu.Unlock()
}

func (s *Store) CloseCart() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
}

func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// Items returns a copy of the rows in insertion order.
func (s *Store) Items() []domain.CartLineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ordered()
}

func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total, _ := s.totals()
	return total
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, price := s.totals()
	return price
}

// Degraded reports whether the store has fallen back to memory only.
func (s *Store) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totalItems, totalPrice := s.totals()
	return State{
		Items:      s.ordered(),
		TotalItems: totalItems,
		TotalPrice: totalPrice,
		IsOpen:     s.open,
		Persisted:  !s.degraded,
	}
}

func (s *Store) remove(id domain.ProductID) {
	delete(s.items, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) ordered() []domain.CartLineItem {
	out := make([]domain.CartLineItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.items[id])
	}
	return out
}

func (s *Store) totals() (int, decimal.Decimal) {
	count := 0
	price := decimal.Zero
	for _, item := range s.items {
		count += item.Quantity
		price = price.Add(item.LineTotal())
	}
	return count, price
}

// persist writes the whole cart. Callers hold the write lock so snapshots
// land in mutation order.
func (s *Store) persist(ctx context.Context) {
	if s.degraded {
		return
	}

	data, err := encodeSnapshot(s.ordered())
	if err != nil {
		s.degrade("cart snapshot encoding failed, continuing in memory", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := s.storage.Set(ctx, s.key, data); err != nil {
		s.degrade("cart storage write failed, continuing in memory", err)
	}
}

func (s *Store) degrade(msg string, err error) {
	s.degraded = true
	s.logger.Warn(msg,
		zap.String("key", s.key),
		zap.Error(err),
	)
}
