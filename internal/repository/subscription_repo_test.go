package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSubscriptionRepository(db)
	reader := seedUser(t, db, "reader")
	zoe := seedUser(t, db, "zoe")
	adam := seedUser(t, db, "adam")

	require.NoError(t, repo.Add(ctx, reader.ID, zoe.ID))
	require.NoError(t, repo.Add(ctx, reader.ID, adam.ID))
	assert.ErrorIs(t, repo.Add(ctx, reader.ID, zoe.ID), ErrDuplicate)

	authors, total, err := repo.ListAuthors(ctx, reader.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, authors, 2)
	assert.Equal(t, "adam", authors[0].Username)
	assert.Equal(t, "zoe", authors[1].Username)

	followers, err := repo.FollowerIDs(ctx, zoe.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{reader.ID}, followers)

	subscribed, err := repo.Subscribed(ctx, reader.ID, []int64{zoe.ID, reader.ID})
	require.NoError(t, err)
	assert.True(t, subscribed[zoe.ID])
	assert.False(t, subscribed[reader.ID])

	require.NoError(t, repo.Remove(ctx, reader.ID, zoe.ID))
	assert.ErrorIs(t, repo.Remove(ctx, reader.ID, zoe.ID), ErrNotFound)

	ok, err := repo.Exists(ctx, reader.ID, zoe.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
