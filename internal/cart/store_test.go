package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/domain"
	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testKey = "http://localhost:5173|cart-storage"

// failingStorage wraps MemoryStorage and fails on demand
type failingStorage struct {
	*storage.MemoryStorage
	mu      sync.Mutex
	getErr  error
	setErr  error
	setCall int
}

func newFailingStorage() *failingStorage {
	return &failingStorage{MemoryStorage: storage.NewMemoryStorage()}
}

func (f *failingStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemoryStorage.Get(ctx, key)
}

func (f *failingStorage) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	f.setCall++
	f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryStorage.Set(ctx, key, value)
}

func product(id, name string, price int64) domain.Product {
	return domain.Product{ID: domain.ProductID(id), Name: name, Image: "/img/" + id + ".png", Price: decimal.NewFromInt(price)}
}

func newTestStore(t *testing.T, st storage.Storage) *Store {
	t.Helper()
	return NewStore(context.Background(), st, testKey, zap.NewNop())
}

func TestAddItem_NewRow(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStorage())

	s.AddItem(context.Background(), product("1", "Pallet A", 120), 1)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, domain.ProductID("1"), items[0].ProductID)
	assert.Equal(t, "Pallet A", items[0].Name)
	assert.Equal(t, "/img/1.png", items[0].Image)
	assert.True(t, decimal.NewFromInt(120).Equal(items[0].UnitPrice))
	assert.Equal(t, 1, items[0].Quantity)
}

func TestAddItem_Accumulates(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStorage())
	ctx := context.Background()

	s.AddItem(ctx, product("1", "Pallet A", 120), 2)
	s.AddItem(ctx, product("1", "Pallet A", 120), 3)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItem_KeepsFirstSnapshot(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStorage())
	ctx := context.Background()

	s.AddItem(ctx, product("1", "Pallet A", 120), 1)
	s.AddItem(ctx, product("1", "Pallet A (renamed)", 150), 1)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Pallet A", items[0].Name)
	assert.True(t, decimal.NewFromInt(120).Equal(items[0].UnitPrice))
}

func TestAddItem_IgnoresNonPositiveQuantity(t *testing.T) {
	st := newFailingStorage()
	s := newTestStore(t, st)

	s.AddItem(context.Background(), product("1", "Pallet A", 120), 0)
	s.AddItem(context.Background(), product("1", "Pallet A", 120), -4)

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, st.setCall)
}

func TestItems_InsertionOrder(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStorage())
	ctx := context.Background()

	s.AddItem(ctx, product("3", "Crate", 40), 1)
	s.AddItem(ctx, product("1", "Pallet A", 120), 1)
	s.AddItem(ctx, product("2", "Pallet B", 80), 1)
	s.AddItem(ctx, product("3", "Crate", 40), 1)

	var ids []domain.ProductID
	for _, item := range s.Items() {
		ids = append(ids, item.ProductID)
	}
	assert.Equal(t, []domain.ProductID{"3", "1", "2"}, ids)
}

func TestItems_ReturnsCopy(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStorage())
	s.AddItem(context.Background(), product("1", "Pallet A", 120), 1)

	items := s.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, s.Items()[0].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStorage())
	ctx := context.Background()
	s.AddItem(ctx, product("1", "Pallet A", 120), 1)

	s.UpdateQuantity(ctx, "1", 7)

	assert.Equal(t, 7, s.Items()[0].Quantity)
}

func TestUpdateQuantity_FloorRemoves(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		s := newTestStore(t, storage.NewMemoryStorage())
		ctx := context.Background()
		s.AddItem(ctx, product("1", "Pallet A", 120), 3)

		s.UpdateQuantity(ctx, "1", n)

		assert.Empty(t, s.Items(), "quantity %d", n)
		assert.Equal(t, 0, s.TotalItems())
	}
}

func TestUpdateQuantity_UnknownProduct(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStorage())

	s.UpdateQuantity(context.Background(), "missing", 4)

	assert.Empty(t, s.Items())
}

func TestRemoveItem_Idempotent(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStorage())
	ctx := context.Background()
	s.AddItem(ctx, product("1", "Pallet A", 120), 1)
	s.AddItem(ctx, product("2", "Pallet B", 80), 1)

	s.RemoveItem(ctx, "1")
	once := s.State()
	s.RemoveItem(ctx, "1")
	twice := s.State()

	assert.Equal(t, once.Items, twice.Items)
	assert.Equal(t, once.TotalItems, twice.TotalItems)
	assert.True(t, once.TotalPrice.Equal(twice.TotalPrice))
	require.Len(t, twice.Items, 1)
	assert.Equal(t, domain.ProductID("2"), twice.Items[0].ProductID)
}

func TestClearCart(t *testing.T) {
	st := storage.NewMemoryStorage()
	s := newTestStore(t, st)
	ctx := context.Background()
	s.AddItem(ctx, product("1", "Pallet A", 120), 2)

	s.ClearCart(ctx)

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalItems())
	assert.True(t, s.TotalPrice().IsZero())

	reloaded := newTestStore(t, st)
	assert.Empty(t, reloaded.Items())
}

func TestOpenCloseCart(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStorage())
	assert.False(t, s.IsOpen())

	s.OpenCart()
	assert.True(t, s.IsOpen())
	assert.True(t, s.State().IsOpen)

	s.CloseCart()
	assert.False(t, s.IsOpen())
}

func TestAddItem_OpensCart(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStorage())
	ctx := context.Background()

	s.AddItem(ctx, product("1", "Pallet A", 120), 2)
	assert.True(t, s.IsOpen())

	s.CloseCart()
	s.AddItem(ctx, product("1", "Pallet A", 120), 1)
	assert.True(t, s.IsOpen())

	s.CloseCart()
	s.AddItem(ctx, product("2", "Pallet B", 80), 0)
	assert.False(t, s.IsOpen())
}

func TestRemoveOrdered(t *testing.T) {
	st := storage.NewMemoryStorage()
	s := newTestStore(t, st)
	ctx := context.Background()

	s.AddItem(ctx, product("1", "Pallet A", 120), 2)
	s.AddItem(ctx, product("2", "Pallet B", 80), 1)
	ordered := s.Items()

	// changes made while the order was being placed
	s.AddItem(ctx, product("2", "Pallet B", 80), 3)
	s.AddItem(ctx, product("3", "Crate", 40), 1)

	s.RemoveOrdered(ctx, ordered)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, domain.ProductID("2"), items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, domain.ProductID("3"), items[1].ProductID)
	assert.Equal(t, 4, s.TotalItems())

	reloaded := newTestStore(t, st)
	assert.Equal(t, items, reloaded.Items())
}

func TestRemoveOrdered_RowsAlreadyGone(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStorage())
	ctx := context.Background()

	s.AddItem(ctx, product("1", "Pallet A", 120), 2)
	ordered := s.Items()
	s.UpdateQuantity(ctx, "1", 1)

	s.RemoveOrdered(ctx, ordered)
	s.RemoveOrdered(ctx, ordered)

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalItems())
}

func TestOpenFlag_NotPersisted(t *testing.T) {
	st := storage.NewMemoryStorage()
	s := newTestStore(t, st)
	s.OpenCart()
	s.AddItem(context.Background(), product("1", "Pallet A", 120), 1)

	reloaded := newTestStore(t, st)
	assert.False(t, reloaded.IsOpen())
	assert.Len(t, reloaded.Items(), 1)
}

func TestTotals_ConsistentWithItems(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStorage())
	ctx := context.Background()

	s.AddItem(ctx, product("1", "Pallet A", 120), 2)
	s.AddItem(ctx, product("2", "Pallet B", 80), 3)
	s.UpdateQuantity(ctx, "1", 4)
	s.AddItem(ctx, domain.Product{ID: "3", Name: "Strap", Price: decimal.RequireFromString("2.35")}, 3)
	s.RemoveItem(ctx, "2")

	state := s.State()
	wantCount := 0
	wantPrice := decimal.Zero
	for _, item := range state.Items {
		wantCount += item.Quantity
		wantPrice = wantPrice.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	assert.Equal(t, wantCount, state.TotalItems)
	assert.Equal(t, 7, state.TotalItems)
	assert.True(t, wantPrice.Equal(state.TotalPrice))
	assert.Equal(t, "487.05", state.TotalPrice.StringFixed(2))
	assert.Equal(t, state.TotalItems, s.TotalItems())
	assert.True(t, state.TotalPrice.Equal(s.TotalPrice()))
}

func TestScenario_AddUpdateToZero(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStorage())
	ctx := context.Background()

	s.AddItem(ctx, product("1", "Pallet A", 120), 1)
	s.AddItem(ctx, product("1", "Pallet A", 120), 1)
	s.AddItem(ctx, product("2", "Pallet B", 80), 1)

	assert.Equal(t, 3, s.TotalItems())
	assert.Len(t, s.Items(), 2)

	s.UpdateQuantity(ctx, "1", 0)

	assert.Equal(t, 1, s.TotalItems())
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, domain.ProductID("2"), items[0].ProductID)
}

func TestPersistence_RoundTrip(t *testing.T) {
	st := storage.NewMemoryStorage()
	s := newTestStore(t, st)
	ctx := context.Background()

	s.AddItem(ctx, product("2", "Pallet B", 80), 3)
	s.AddItem(ctx, domain.Product{ID: "1", Name: "Strap", Price: decimal.RequireFromString("2.35")}, 2)

	reloaded := newTestStore(t, st)

	assert.Equal(t, s.Items(), reloaded.Items())
	assert.Equal(t, s.TotalItems(), reloaded.TotalItems())
	assert.True(t, s.TotalPrice().Equal(reloaded.TotalPrice()))
	assert.False(t, reloaded.Degraded())
}

func TestPersistence_SQLiteRoundTrip(t *testing.T) {
	st, err := storage.NewSQLiteStorage(t.TempDir() + "/cart.db")
	require.NoError(t, err)
	defer st.Close()

	s := newTestStore(t, st)
	ctx := context.Background()
	s.AddItem(ctx, product("1", "Pallet A", 120), 2)
	s.AddItem(ctx, product("2", "Pallet B", 80), 1)
	s.UpdateQuantity(ctx, "2", 5)

	reloaded := newTestStore(t, st)
	assert.Equal(t, s.Items(), reloaded.Items())
}

func TestHydrate_MissingSnapshot(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStorage())

	assert.Empty(t, s.Items())
	assert.False(t, s.Degraded())
}

func TestHydrate_CorruptSnapshot(t *testing.T) {
	for name, payload := range map[string]string{
		"not json":       `{{{`,
		"wrong shape":    `{"items": {"1": {"quantity": 2}}}`,
		"missing id":     `{"items": [{"name": "x", "quantity": 1}]}`,
		"bad price type": `{"items": [{"productId": "1", "unitPrice": true, "quantity": 1}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			st := storage.NewMemoryStorage()
			require.NoError(t, st.Set(context.Background(), testKey, []byte(payload)))

			core, logs := observer.New(zap.WarnLevel)
			s := NewStore(context.Background(), st, testKey, zap.New(core))

			assert.Empty(t, s.Items())
			assert.False(t, s.Degraded())
			assert.Equal(t, 1, logs.FilterMessage("discarding unreadable cart snapshot").Len())

			// next mutation overwrites the bad record
			s.AddItem(context.Background(), product("1", "Pallet A", 120), 1)
			reloaded := newTestStore(t, st)
			assert.Len(t, reloaded.Items(), 1)
		})
	}
}

func TestHydrate_SkipsNonPositiveRows(t *testing.T) {
	st := storage.NewMemoryStorage()
	payload := `{"items":[{"productId":"1","name":"A","unitPrice":"1","quantity":0},{"productId":"2","name":"B","unitPrice":"2","quantity":2}]}`
	require.NoError(t, st.Set(context.Background(), testKey, []byte(payload)))

	s := newTestStore(t, st)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, domain.ProductID("2"), items[0].ProductID)
}

func TestHydrate_StorageUnavailable(t *testing.T) {
	st := newFailingStorage()
	st.getErr = errors.New("disk gone")

	core, logs := observer.New(zap.WarnLevel)
	s := NewStore(context.Background(), st, testKey, zap.New(core))

	assert.Empty(t, s.Items())
	assert.True(t, s.Degraded())
	assert.Equal(t, 1, logs.Len())

	s.AddItem(context.Background(), product("1", "Pallet A", 120), 1)
	assert.Len(t, s.Items(), 1)
	assert.Equal(t, 0, st.setCall)
}

func TestPersist_WriteFailureDegrades(t *testing.T) {
	st := newFailingStorage()
	st.setErr = errors.New("quota exceeded")

	core, logs := observer.New(zap.WarnLevel)
	s := NewStore(context.Background(), st, testKey, zap.New(core))
	ctx := context.Background()

	s.AddItem(ctx, product("1", "Pallet A", 120), 1)
	s.AddItem(ctx, product("2", "Pallet B", 80), 1)
	s.UpdateQuantity(ctx, "1", 3)

	assert.True(t, s.Degraded())
	assert.False(t, s.State().Persisted)
	assert.Equal(t, 4, s.TotalItems())
	assert.Equal(t, 1, st.setCall)
	assert.Equal(t, 1, logs.Len())
}

func TestPersist_CanceledContextStillWrites(t *testing.T) {
	st := storage.NewMemoryStorage()
	s := newTestStore(t, st)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.AddItem(ctx, product("1", "Pallet A", 120), 1)

	assert.False(t, s.Degraded())
	reloaded := newTestStore(t, st)
	assert.Len(t, reloaded.Items(), 1)
}

func TestNilStorage_MemoryOnly(t *testing.T) {
	s := NewStore(context.Background(), nil, testKey, zap.NewNop())

	s.AddItem(context.Background(), product("1", "Pallet A", 120), 2)

	assert.True(t, s.Degraded())
	assert.Equal(t, 2, s.TotalItems())
}

func TestConcurrentMutations(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStorage())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddItem(ctx, product("1", "Pallet A", 120), 1)
			_ = s.State()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.TotalItems())
	assert.Equal(t, "6000.00", s.TotalPrice().StringFixed(2))
}
