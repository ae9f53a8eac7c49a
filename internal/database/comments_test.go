package database

import (
	"context"
	"testing"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner")
	author := createTestUser(t, db, "author")
	item := createTestItem(t, db, owner, "Drill", true)
	other := createTestItem(t, db, owner, "Saw", true)

	c1 := &models.Comment{Text: "works well", ItemID: item.ID, Author: *author}
	require.NoError(t, db.CreateComment(ctx, c1))
	assert.NotZero(t, c1.ID)
	assert.False(t, c1.Created.IsZero())
	require.NoError(t, db.CreateComment(ctx, &models.Comment{Text: "loud", ItemID: item.ID, Author: *author}))

	comments, err := db.GetCommentsByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "works well", comments[0].Text)
	assert.Equal(t, "author", comments[0].Author.Name)

	comments, err = db.GetCommentsByItem(ctx, other.ID)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)

	err = db.CreateComment(ctx, &models.Comment{Text: "ghost", ItemID: 999, Author: *author})
	assert.Error(t, err)
}
