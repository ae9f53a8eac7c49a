package database

import (
	"context"
	"testing"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner")

	item := createTestItem(t, db, owner, "Drill", true)
	assert.NotZero(t, item.ID)

	got, err := db.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drill", got.Name)
	assert.True(t, got.Available)
	assert.Equal(t, owner.ID, got.Owner.ID)
	assert.Equal(t, owner.Name, got.Owner.Name)
	assert.Nil(t, got.RequestID)

	got.Available = false
	got.Description = "broken"
	require.NoError(t, db.UpdateItem(ctx, got))

	got, err = db.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.Equal(t, "broken", got.Description)

	exists, err := db.ItemExists(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, db.DeleteItem(ctx, item.ID))
	_, err = db.GetItemByID(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, db.DeleteItem(ctx, item.ID), domain.ErrNotFound)
	assert.ErrorIs(t, db.UpdateItem(ctx, item), domain.ErrNotFound)
}

func TestGetItemsByOwner(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")

	createTestItem(t, db, owner, "A", true)
	createTestItem(t, db, other, "B", true)
	createTestItem(t, db, owner, "C", false)

	items, err := db.GetItemsByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "C", items[1].Name)

	count, err := db.CountItemsByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = db.CountItemsByOwner(ctx, 999)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSearchAvailableItems(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner")

	drill := createTestItem(t, db, owner, "Power Drill", true)
	createTestItem(t, db, owner, "Old drill", false)
	saw := &models.Item{Name: "Saw", Description: "cuts like a DRILL never could", Available: true, Owner: *owner}
	require.NoError(t, db.CreateItem(ctx, saw))
	createTestItem(t, db, owner, "Tent", true)

	items, err := db.SearchAvailableItems(ctx, "dRiLl", models.Page{Size: 10})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, drill.ID, items[0].ID)
	assert.Equal(t, saw.ID, items[1].ID)

	items, err = db.SearchAvailableItems(ctx, "drill", models.Page{From: 1, Size: 1})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, saw.ID, items[0].ID)

	items, err = db.SearchAvailableItems(ctx, "%", models.Unpaged)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetItemsByRequestIDs(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	requester := createTestUser(t, db, "requester")
	owner := createTestUser(t, db, "owner")

	req := &models.ItemRequest{Description: "need a ladder", Requester: *requester}
	require.NoError(t, db.CreateRequest(ctx, req))

	ladder := &models.Item{Name: "Ladder", Description: "3m", Available: true, Owner: *owner, RequestID: &req.ID}
	require.NoError(t, db.CreateItem(ctx, ladder))
	createTestItem(t, db, owner, "Unrelated", true)

	items, err := db.GetItemsByRequestIDs(ctx, []int64{req.ID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].RequestID)
	assert.Equal(t, req.ID, *items[0].RequestID)

	items, err = db.GetItemsByRequestIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}
