package cart

import (
	"context"
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_NilIsEmptyArray(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestEncode_RecordShape(t *testing.T) {
	data, err := Encode([]domain.CartItem{{Product: mug(), Quantity: 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"product":{"id":1,"name":"Blue Mug","price":"12.5","category_id":1},"quantity":2}]`, string(data))
}

func TestDecode_AcceptsNumericPrice(t *testing.T) {
	items, err := Decode([]byte(`[{"product":{"id":3,"name":"Teapot","price":30,"category_id":2},"quantity":1}]`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "30", items[0].Product.Price.String())
}

func TestDecode_RejectsBrokenRecords(t *testing.T) {
	tests := map[string]string{
		"truncated":     `[{"product":`,
		"not an array":  `{"product":{"id":1}}`,
		"zero quantity": `[{"product":{"id":1,"name":"a","price":"1"},"quantity":0}]`,
		"duplicate": `[{"product":{"id":1,"name":"a","price":"1"},"quantity":1},
			{"product":{"id":1,"name":"a","price":"1"},"quantity":2}]`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(raw))
			assert.ErrorIs(t, err, domain.ErrCorruptSnapshot)
		})
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	require.NoError(t, s.Save(ctx, []domain.CartItem{{Product: kettle(), Quantity: 3}}))
	items, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}
