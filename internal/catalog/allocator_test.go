package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocatorNextIsStrictlyIncreasing(t *testing.T) {
	a := NewAllocator()

	var prev int64
	for i := 0; i < 100; i++ {
		id := a.Next(KindComic)
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestAllocatorKindsAreIndependent(t *testing.T) {
	a := NewAllocator()

	assert.Equal(t, int64(1), a.Next(KindComic))
	assert.Equal(t, int64(2), a.Next(KindComic))
	assert.Equal(t, int64(1), a.Next(KindSeries))
	assert.Equal(t, int64(1), a.Next(KindEvent))
}

func TestAllocatorSeed(t *testing.T) {
	t.Run("continues past seeded maximum", func(t *testing.T) {
		a := NewAllocator()
		a.Seed(KindComic, 42)
		assert.Equal(t, int64(43), a.Next(KindComic))
	})

	t.Run("ignores backwards seed", func(t *testing.T) {
		a := NewAllocator()
		a.Seed(KindComic, 42)
		a.Seed(KindComic, 10)
		assert.Equal(t, int64(43), a.Next(KindComic))
	})
}

func TestAllocatorReset(t *testing.T) {
	a := NewAllocator()
	a.Seed(KindSeries, 100)
	a.Reset(KindSeries, 3)
	assert.Equal(t, int64(4), a.Next(KindSeries))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "comic", KindComic.String())
	assert.Equal(t, "series", KindSeries.String())
	assert.Equal(t, "event", KindEvent.String())
}
