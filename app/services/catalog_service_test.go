package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/campuseats/app/services"
)

func TestCatalogCRUD(t *testing.T) {
	setupDB(t)
	svc := services.NewCatalogService()

	item, err := svc.Create(services.FoodItemInput{
		Name:     "Masala Dosa",
		Price:    60,
		Category: "breakfast",
	})
	require.NoError(t, err)
	assert.True(t, item.Available)

	items, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, items, 1)

	available := false
	updated, err := svc.Update(item.ID, services.FoodItemInput{
		Name:      "Masala Dosa",
		Price:     65,
		Category:  "breakfast",
		Available: &available,
	})
	require.NoError(t, err)
	assert.Equal(t, 65.0, updated.Price)
	assert.False(t, updated.Available)

	require.NoError(t, svc.Delete(item.ID))
	_, err = svc.Get(item.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCatalogGetUnknown(t *testing.T) {
	setupDB(t)
	svc := services.NewCatalogService()

	_, err := svc.Get(9999)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
