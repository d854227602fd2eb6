package evolve

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverflowPolicy(t *testing.T) {
	p, err := ParseOverflowPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DropOldest, p)

	p, err = ParseOverflowPolicy("drop_newest")
	require.NoError(t, err)
	assert.Equal(t, DropNewest, p)

	_, err = ParseOverflowPolicy("block")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFeedDropNewest(t *testing.T) {
	feed := NewFeed[int](2, DropNewest)
	for g := 1; g <= 4; g++ {
		feed.Publish(Snapshot[int]{Generation: g})
	}
	feed.Close()

	var got []int
	for s := range feed.Snapshots() {
		got = append(got, s.Generation)
	}
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, uint64(2), feed.Dropped())
	assert.Equal(t, DropNewest, feed.Policy())
}

func TestFeedClose(t *testing.T) {
	feed := NewFeed[int](0, "")
	assert.Equal(t, DropOldest, feed.Policy())
	assert.True(t, feed.Publish(Snapshot[int]{Generation: 1}))

	feed.Close()
	feed.Close()
	assert.False(t, feed.Publish(Snapshot[int]{Generation: 2}))

	s, ok := <-feed.Snapshots()
	require.True(t, ok)
	assert.Equal(t, 1, s.Generation)
	_, ok = <-feed.Snapshots()
	assert.False(t, ok)
}

func TestFeedConcurrentConsumer(t *testing.T) {
	feed := NewFeed[int](4, DropOldest)

	var wg sync.WaitGroup
	received := 0
	last := 0
	wg.Add(1)
	go func() {
		defer wg.Done()
		for s := range feed.Snapshots() {
			received++
			last = s.Generation
		}
	}()

	for g := 1; g <= 1000; g++ {
		feed.Publish(Snapshot[int]{Generation: g})
	}
	feed.Close()
	wg.Wait()

	// Oldest entries may be dropped, the newest one always arrives.
	assert.Equal(t, 1000, last)
	assert.Equal(t, uint64(1000), uint64(received)+feed.Dropped())
}
