package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer c.Close()

	assert.NoError(t, c.Health(context.Background()))

	mr.Close()
	assert.Error(t, c.Health(context.Background()))
}
