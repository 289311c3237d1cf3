package cart

import (
	"sync"
	"testing"

	"storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memStorage struct {
	mu    sync.Mutex
	saved []models.CartItem
	loads []models.CartItem
}

func (m *memStorage) Load() ([]models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CartItem(nil), m.loads...), nil
}

func (m *memStorage) Save(items []models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append([]models.CartItem(nil), items...)
	return nil
}

func testProduct(name string, price float64) models.Product {
	return models.Product{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Price:    price,
		ImageURL: "/images/" + name + ".jpg",
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(nil)
	require.NoError(t, err)
	return s
}

func subtotalOf(items []models.CartItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

func TestStore_AddMergesSameProduct(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	p := testProduct("keyboard", 250)

	s.Add(p, 2)
	s.Add(p, 3)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, p.Name, items[0].Name)
	assert.Equal(t, p.Price, items[0].Price)
	assert.Equal(t, p.ImageURL, items[0].ImageURL)
}

func TestStore_SubtotalMatchesLineSum(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	p1 := testProduct("mouse", 100)
	p2 := testProduct("monitor", 799.5)
	p3 := testProduct("cable", 15)

	s.Add(p1, 2)
	s.Add(p2, 1)
	s.Add(p3, 4)
	s.SetQuantity(p2.ID, 3)
	s.Remove(p3.ID)
	s.Add(p1, 1)

	subtotal, _ := s.Totals()
	assert.Equal(t, subtotalOf(s.Items()), subtotal)
	assert.Equal(t, 100*3+799.5*3, subtotal)
}

func TestStore_SetQuantityClampsToOne(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	p := testProduct("mug", 12)
	s.Add(p, 5)

	s.SetQuantity(p.ID, 0)
	assert.Equal(t, 1, s.Items()[0].Quantity)

	s.SetQuantity(p.ID, -3)
	assert.Equal(t, 1, s.Items()[0].Quantity)
}

func TestStore_RemoveAbsentIsNoop(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	p := testProduct("lamp", 40)
	s.Add(p, 1)

	s.Remove(primitive.NewObjectID())

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, p.ID, items[0].ProductID)
}

func TestStore_SavingsFromOriginalPrice(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.ReplaceAll([]models.CartItem{
		{ProductID: primitive.NewObjectID(), Name: "jacket", Price: 80, OriginalPrice: 100, Quantity: 2},
		{ProductID: primitive.NewObjectID(), Name: "socks", Price: 10, Quantity: 3},
	})

	subtotal, savings := s.Totals()
	assert.Equal(t, 80.0*2+10*3, subtotal)
	assert.Equal(t, 20.0*2, savings)
}

func TestStore_MutationsPersistAndNotify(t *testing.T) {
	t.Parallel()

	storage := &memStorage{}
	s, err := NewStore(storage)
	require.NoError(t, err)

	var notified int
	var lastSeen []models.CartItem
	s.Subscribe(func(items []models.CartItem) {
		notified++
		lastSeen = items
	})

	p := testProduct("pen", 3)
	s.Add(p, 2)
	s.SetQuantity(p.ID, 4)
	s.Remove(p.ID)

	assert.Equal(t, 3, notified)
	assert.Empty(t, lastSeen)
	assert.Empty(t, storage.saved)
}

func TestStore_RoundTripThroughStorage(t *testing.T) {
	t.Parallel()

	storage := &memStorage{}
	s, err := NewStore(storage)
	require.NoError(t, err)

	p1 := testProduct("desk", 300)
	p2 := testProduct("chair", 150)
	s.Add(p1, 1)
	s.Add(p2, 2)
	pushed := s.Items()

	// A fresh store over the same slot sees the identical list.
	storage.loads = storage.saved
	reopened, err := NewStore(storage)
	require.NoError(t, err)

	assert.Equal(t, pushed, reopened.Items())
}

func TestStore_FileStorageRoundTrip(t *testing.T) {
	t.Parallel()

	storage := FileStorage{Path: t.TempDir() + "/cart.json"}

	empty, err := storage.Load()
	require.NoError(t, err)
	assert.Empty(t, empty)

	items := []models.CartItem{
		{ProductID: primitive.NewObjectID(), Name: "desk", Price: 300, Quantity: 1},
		{ProductID: primitive.NewObjectID(), Name: "chair", Price: 150, Quantity: 2},
	}
	require.NoError(t, storage.Save(items))

	loaded, err := storage.Load()
	require.NoError(t, err)
	assert.Equal(t, items, loaded)
}

func TestStore_ClearEmptiesCart(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.Add(testProduct("book", 20), 2)

	var notified bool
	s.Subscribe(func(items []models.CartItem) { notified = true })

	s.Clear()

	assert.Empty(t, s.Items())
	assert.True(t, notified)

	subtotal, savings := s.Totals()
	assert.Zero(t, subtotal)
	assert.Zero(t, savings)
}

func TestStore_ReplaceAllOverwrites(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.Add(testProduct("old", 10), 5)

	replacement := []models.CartItem{
		{ProductID: primitive.NewObjectID(), Name: "new", Price: 25, Quantity: 1},
	}
	s.ReplaceAll(replacement)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "new", items[0].Name)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	dup := primitive.NewObjectID()
	other := primitive.NewObjectID()

	items := []models.CartItem{
		{ProductID: dup, Name: "shirt", Price: 30, Quantity: 2},
		{ProductID: other, Name: "hat", Price: 15, Quantity: 0},
		{ProductID: dup, Name: "shirt", Price: 30, Quantity: 3},
	}

	normalized := Normalize(items)
	require.Len(t, normalized, 2)
	assert.Equal(t, dup, normalized[0].ProductID)
	assert.Equal(t, 5, normalized[0].Quantity)
	assert.Equal(t, 1, normalized[1].Quantity)
}
