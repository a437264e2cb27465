package services

import (
	"context"
	"testing"

	"fiestas-server/dao/redis"
	"fiestas-server/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFavoritesService() *FavoritesService {
	return NewFavoritesService(redis.NewRedisFavoritesDAO(db.NewMockRedisClient(context.Background())))
}

func TestFavoritesService_EmptyForNewClient(t *testing.T) {
	fs := newFavoritesService()

	favs, err := fs.Favorites("client-1")
	require.NoError(t, err)
	assert.NotNil(t, favs)
	assert.Empty(t, favs)
}

func TestFavoritesService_ToggleTwiceRestoresSet(t *testing.T) {
	fs := newFavoritesService()
	_, err := fs.Replace("client-1", []string{"fp001", "fp002"})
	require.NoError(t, err)

	added, favs, err := fs.Toggle("client-1", "fp003")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []string{"fp001", "fp002", "fp003"}, favs)

	added, favs, err = fs.Toggle("client-1", "fp003")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []string{"fp001", "fp002"}, favs)

	stored, err := fs.Favorites("client-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"fp001", "fp002"}, stored)
}

func TestFavoritesService_ReplaceDedupes(t *testing.T) {
	fs := newFavoritesService()

	favs, err := fs.Replace("client-1", []string{"b", "a", "b", "", "c", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, favs)
}

func TestFavoritesService_ClientsAreIsolated(t *testing.T) {
	fs := newFavoritesService()
	_, _, err := fs.Toggle("client-1", "fp001")
	require.NoError(t, err)

	other, err := fs.Favorites("client-2")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, fs.Clear("client-1"))
	favs, err := fs.Favorites("client-1")
	require.NoError(t, err)
	assert.Empty(t, favs)
}
