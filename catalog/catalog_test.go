package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDataset(t *testing.T, products []Product) {
	t.Helper()
	prev := imported
	imported = products
	t.Cleanup(func() { imported = prev })
}

func TestProductByID(t *testing.T) {
	withDataset(t, []Product{
		{ID: 10001, Slug: "coat-10001", Name: "Coat"},
		{ID: 10002, Slug: "belt-10002", Name: "Belt"},
	})

	p, ok := ProductByID(10002)
	require.True(t, ok)
	assert.Equal(t, "Belt", p.Name)

	_, ok = ProductByID(99999)
	assert.False(t, ok)
}

func TestProductsReturnsCopy(t *testing.T) {
	withDataset(t, []Product{{ID: 10001, Name: "Coat"}})

	all := Products()
	require.Len(t, all, 1)
	all[0].Name = "Mutated"

	again := Products()
	assert.Equal(t, "Coat", again[0].Name)
}

func TestProductsEmptyDataset(t *testing.T) {
	withDataset(t, nil)
	assert.Empty(t, Products())
}
