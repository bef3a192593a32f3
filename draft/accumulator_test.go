package draft

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniformsource/backend/models"
)

type memoryKV struct {
	data map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: map[string]string{}}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryKV) Set(_ context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memoryKV) Remove(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestAddItemMergesDuplicateProduct(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()

	acc, err := New(ctx, kv, "sess-1")
	require.NoError(t, err)

	require.NoError(t, acc.AddItem(ctx, models.QuoteDraftItem{
		ProductID:          "polo-classic",
		Quantity:           100,
		Sizes:              []string{"M", "L"},
		CustomizationNotes: "embroidered logo",
	}))
	require.NoError(t, acc.AddItem(ctx, models.QuoteDraftItem{
		ProductID:          "polo-classic",
		Quantity:           50,
		Sizes:              []string{"XL"},
		CustomizationNotes: "different notes",
	}))

	items := acc.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 150, items[0].Quantity)
	// the first entry's customization wins on a merge
	assert.Equal(t, []string{"M", "L"}, items[0].Sizes)
	assert.Equal(t, "embroidered logo", items[0].CustomizationNotes)
}

func TestAddItemKeepsDistinctProductsInOrder(t *testing.T) {
	ctx := context.Background()
	acc, err := New(ctx, newMemoryKV(), "sess-1")
	require.NoError(t, err)

	require.NoError(t, acc.AddItem(ctx, models.QuoteDraftItem{ProductID: "a", Quantity: 1}))
	require.NoError(t, acc.AddItem(ctx, models.QuoteDraftItem{ProductID: "b", Quantity: 2}))
	require.NoError(t, acc.AddItem(ctx, models.QuoteDraftItem{ProductID: "c", Quantity: 3}))

	items := acc.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].ProductID)
	assert.Equal(t, "b", items[1].ProductID)
	assert.Equal(t, "c", items[2].ProductID)
}

func TestAddItemRejectsInvalidQuantity(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()
	acc, err := New(ctx, kv, "sess-1")
	require.NoError(t, err)

	require.NoError(t, acc.AddItem(ctx, models.QuoteDraftItem{ProductID: "a", Quantity: 10}))

	err = acc.AddItem(ctx, models.QuoteDraftItem{ProductID: "a", Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	err = acc.AddItem(ctx, models.QuoteDraftItem{ProductID: "b", Quantity: -5})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// state untouched by the rejected calls
	items := acc.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].Quantity)
}

func TestRemoveThenAddStartsFresh(t *testing.T) {
	ctx := context.Background()
	acc, err := New(ctx, newMemoryKV(), "sess-1")
	require.NoError(t, err)

	require.NoError(t, acc.AddItem(ctx, models.QuoteDraftItem{ProductID: "a", Quantity: 100, CustomizationNotes: "old"}))
	require.NoError(t, acc.RemoveItem(ctx, "a"))
	require.NoError(t, acc.AddItem(ctx, models.QuoteDraftItem{ProductID: "a", Quantity: 5, CustomizationNotes: "new"}))

	items := acc.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "new", items[0].CustomizationNotes)
}

func TestRemoveAbsentProductIsNoOp(t *testing.T) {
	ctx := context.Background()
	acc, err := New(ctx, newMemoryKV(), "sess-1")
	require.NoError(t, err)

	require.NoError(t, acc.AddItem(ctx, models.QuoteDraftItem{ProductID: "a", Quantity: 1}))
	require.NoError(t, acc.RemoveItem(ctx, "missing"))
	assert.Equal(t, 1, acc.Count())
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	acc, err := New(ctx, newMemoryKV(), "sess-1")
	require.NoError(t, err)

	require.NoError(t, acc.AddItem(ctx, models.QuoteDraftItem{ProductID: "a", Quantity: 10}))

	require.NoError(t, acc.UpdateQuantity(ctx, "a", 25))
	assert.Equal(t, 25, acc.Items()[0].Quantity)

	assert.ErrorIs(t, acc.UpdateQuantity(ctx, "a", 0), ErrInvalidQuantity)
	assert.Equal(t, 25, acc.Items()[0].Quantity)

	// absent product, silently ignored
	require.NoError(t, acc.UpdateQuantity(ctx, "missing", 5))
	assert.Equal(t, 1, acc.Count())
}

func TestDraftSurvivesReload(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()

	acc, err := New(ctx, kv, "sess-1")
	require.NoError(t, err)
	require.NoError(t, acc.AddItem(ctx, models.QuoteDraftItem{
		ProductID:          "hoodie",
		Quantity:           40,
		Sizes:              []string{"S", "M"},
		CustomizationNotes: "screen print",
	}))
	require.NoError(t, acc.AddItem(ctx, models.QuoteDraftItem{ProductID: "cap", Quantity: 200}))

	reloaded, err := New(ctx, kv, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, acc.Items(), reloaded.Items())
}

func TestClearRemovesPersistedDraft(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()

	acc, err := New(ctx, kv, "sess-1")
	require.NoError(t, err)
	require.NoError(t, acc.AddItem(ctx, models.QuoteDraftItem{ProductID: "a", Quantity: 1}))
	require.NoError(t, acc.Clear(ctx))

	assert.Equal(t, 0, acc.Count())
	_, ok := kv.data[Key("sess-1")]
	assert.False(t, ok)

	reloaded, err := New(ctx, kv, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, reloaded.Items())
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()

	a, err := New(ctx, kv, "sess-a")
	require.NoError(t, err)
	b, err := New(ctx, kv, "sess-b")
	require.NoError(t, err)

	require.NoError(t, a.AddItem(ctx, models.QuoteDraftItem{ProductID: "x", Quantity: 1}))
	assert.Equal(t, 0, b.Count())

	reloadedB, err := New(ctx, kv, "sess-b")
	require.NoError(t, err)
	assert.Empty(t, reloadedB.Items())
}
