package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilClientIsMiss(t *testing.T) {
	c := New("", "", 0)
	assert.Nil(t, c)

	ctx := context.Background()
	c.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}

func TestUnreachableRedisFailsSafe(t *testing.T) {
	bt := NewBookedTimes(New("127.0.0.1:1", "", 0), time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	bt.Set(ctx, "b1", "2025-06-01", 0, []string{"14:00"})
	_, gen, ok := bt.Get(ctx, "b1", "2025-06-01")
	assert.False(t, ok)
	assert.Negative(t, gen)
	bt.Invalidate(ctx, "b1", "2025-06-01")
}

func TestBookedTimesKey(t *testing.T) {
	assert.Equal(t, "booked:b1:2025-06-01:0", BookedTimesKey("b1", "2025-06-01", 0))
	assert.Equal(t, "booked:b1:2025-06-01:7", BookedTimesKey("b1", "2025-06-01", 7))
	assert.Equal(t, "booked:gen:b1:2025-06-01", bookedGenerationKey("b1", "2025-06-01"))
}
