package database_test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recetario/backend/config"
	"github.com/pageza/recetario/backend/internal/database"
	"github.com/pageza/recetario/backend/internal/logging"
)

func TestNewRedisClientDisabled(t *testing.T) {
	client, err := database.NewRedisClient(&config.Config{}, logging.Discard())
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	t.Run("host and port", func(t *testing.T) {
		client, err := database.NewRedisClient(&config.Config{RedisHost: mr.Host(), RedisPort: mr.Port()}, logging.Discard())
		require.NoError(t, err)
		require.NotNil(t, client)
		defer client.Close()
	})

	t.Run("url", func(t *testing.T) {
		client, err := database.NewRedisClient(&config.Config{RedisURL: "redis://" + mr.Addr() + "/0"}, logging.Discard())
		require.NoError(t, err)
		require.NotNil(t, client)
		defer client.Close()
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := database.NewRedisClient(&config.Config{RedisURL: "::not a url"}, logging.Discard())
		assert.Error(t, err)
	})
}
