package pantry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"snap-pantry/internal/core/queue"
	"snap-pantry/internal/infrastructure/storage"
	"snap-pantry/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

type fakePredictor struct {
	mu    sync.Mutex
	calls int
}

func (f *fakePredictor) Predict(_ context.Context, foodName, purchaseDate string, storageType common.StorageType) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return "03/08/2025"
}

type failingStore struct {
	storage.Store
}

func (failingStore) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func newTestService(t *testing.T, predictor ExpirationPredictor) (*Service, storage.Store) {
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	q := queue.NewManager(100)
	t.Cleanup(q.Close)

	s := NewService(store, q, predictor)
	s.now = func() time.Time { return fixedNow }
	return s, store
}

func TestAddPrependsAndFillsDefaults(t *testing.T) {
	predictor := &fakePredictor{}
	s, _ := newTestService(t, predictor)
	ctx := context.Background()

	first, err := s.Add(ctx, AddRequest{
		FoodItem: common.FoodItem{Name: "Milk", Confidence: 0.95, Source: common.SourceLabel},
		ImageURI: "file:///tmp/milk.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "1740821400000", first.ID)
	assert.Equal(t, "file:///tmp/milk.jpg", first.ImageURI)
	require.Len(t, first.FoodItems, 1)

	food := first.FoodItems[0]
	assert.NotEmpty(t, food.ID)
	assert.Equal(t, fixedNow, food.Date)
	assert.Equal(t, DefaultPurchaseDate, food.PurchaseDate)
	assert.Equal(t, DefaultQuantity, food.Quantity)
	assert.Equal(t, common.StorageRefrigerated, food.StorageType)
	assert.Equal(t, "03/08/2025", food.ExpirationDate)

	second, err := s.Add(ctx, AddRequest{
		FoodItem: common.FoodItem{Name: "Peas", StorageType: common.StorageFrozen, ExpirationDate: "06/01/2025"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1740821400001", second.ID)
	assert.Equal(t, 1, predictor.calls)

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
}

func TestAddRequiresName(t *testing.T) {
	s, _ := newTestService(t, nil)
	_, err := s.Add(context.Background(), AddRequest{})
	assert.ErrorIs(t, err, common.ErrInvalidRequest)
}

func TestListEmpty(t *testing.T) {
	s, _ := newTestService(t, nil)
	items, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestListReadsExistingDocument(t *testing.T) {
	s, store := newTestService(t, nil)
	ctx := context.Background()

	doc := `[{"id":"1700000000000","timestamp":"2023-11-14T22:13:20Z","imageUri":"file:///photo.jpg",
		"foodItems":[{"id":"abc1234","name":"Banana","confidence":0.9,"source":"best_guess",
		"date":"2023-11-14T22:13:20Z","purchaseDate":"Today","quantity":"2",
		"expirationDate":"11/21/2023","storageType":"pantry"}]}]`
	require.NoError(t, store.Set(ctx, storage.KeyPantryItems, []byte(doc)))

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "file:///photo.jpg", items[0].ImageURI)
	assert.Equal(t, "Banana", items[0].FoodItems[0].Name)
	assert.Equal(t, common.StoragePantry, items[0].FoodItems[0].StorageType)
}

func TestDelete(t *testing.T) {
	s, _ := newTestService(t, nil)
	ctx := context.Background()

	a, err := s.Add(ctx, AddRequest{FoodItem: common.FoodItem{Name: "Apple", ExpirationDate: "x"}})
	require.NoError(t, err)
	b, err := s.Add(ctx, AddRequest{FoodItem: common.FoodItem{Name: "Bread", ExpirationDate: "x"}})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, a.ID))
	assert.ErrorIs(t, s.Delete(ctx, a.ID), common.ErrPantryItemNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "missing"), common.ErrPantryItemNotFound)

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)
}

func TestConcurrentDeletesDoNotLoseUpdates(t *testing.T) {
	s, _ := newTestService(t, nil)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 20; i++ {
		item, err := s.Add(ctx, AddRequest{FoodItem: common.FoodItem{Name: "Egg", ExpirationDate: "x"}})
		require.NoError(t, err)
		ids = append(ids, item.ID)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(ids))
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			errs <- s.Delete(ctx, id)
		}(id)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestIngredientsUniqueInOrder(t *testing.T) {
	s, _ := newTestService(t, nil)
	ctx := context.Background()

	for _, name := range []string{"Milk", "Eggs", "Milk", "Tomato"} {
		_, err := s.Add(ctx, AddRequest{FoodItem: common.FoodItem{Name: name, ExpirationDate: "x"}})
		require.NoError(t, err)
	}

	names, err := s.Ingredients(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tomato", "Milk", "Eggs"}, names)
}

func TestAddStorageFailureLeavesCollectionUnchanged(t *testing.T) {
	s, store := newTestService(t, nil)
	ctx := context.Background()

	_, err := s.Add(ctx, AddRequest{FoodItem: common.FoodItem{Name: "Rice", ExpirationDate: "x"}})
	require.NoError(t, err)

	s.store = failingStore{Store: store}
	_, err = s.Add(ctx, AddRequest{FoodItem: common.FoodItem{Name: "Beans", ExpirationDate: "x"}})
	assert.ErrorIs(t, err, common.ErrStorage)

	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
