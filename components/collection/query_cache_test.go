package collection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeCacheMemoizes(t *testing.T) {
	cache := NewComposeCache(time.Minute)
	composed := 0
	compose := func() []Record {
		composed++
		return []Record{{ID: "a"}}
	}

	first := cache.GetOrCompose("1:abc", compose)
	second := cache.GetOrCompose("1:abc", compose)

	require.Equal(t, 1, composed)
	assert.Equal(t, first, second)
}

func TestComposeCacheKeyedByGenerationAndCriteria(t *testing.T) {
	cache := NewComposeCache(time.Minute)
	composed := 0
	compose := func() []Record {
		composed++
		return nil
	}

	crit := Criteria{Category: "landing"}
	cache.GetOrCompose(CriteriaKey(1, crit), compose)
	cache.GetOrCompose(CriteriaKey(2, crit), compose)
	cache.GetOrCompose(CriteriaKey(2, Criteria{Category: "portfolio"}), compose)

	assert.Equal(t, 3, composed)
}

func TestComposeCacheExpires(t *testing.T) {
	cache := NewComposeCache(10 * time.Millisecond)
	composed := 0
	compose := func() []Record {
		composed++
		return nil
	}

	cache.GetOrCompose("k", compose)
	time.Sleep(20 * time.Millisecond)
	cache.GetOrCompose("k", compose)

	assert.Equal(t, 2, composed)
}

func TestComposeCacheInvalidate(t *testing.T) {
	cache := NewComposeCache(time.Minute)
	composed := 0
	compose := func() []Record {
		composed++
		return nil
	}

	cache.GetOrCompose("k", compose)
	cache.Invalidate()
	cache.GetOrCompose("k", compose)

	assert.Equal(t, 2, composed)
}

func TestComposeCacheReturnsCopies(t *testing.T) {
	cache := NewComposeCache(time.Minute)
	cache.GetOrCompose("k", func() []Record { return []Record{{ID: "a"}} })

	view := cache.GetOrCompose("k", func() []Record {
		t.Fatal("compose must not run on a hit")
		return nil
	})
	view[0] = Record{ID: "hijacked"}

	fresh := cache.GetOrCompose("k", func() []Record {
		t.Fatal("compose must not run on a hit")
		return nil
	})
	require.Equal(t, "a", fresh[0].ID)
}

func TestCriteriaHashStable(t *testing.T) {
	a := Criteria{Category: "landing", Sort: SortPopular}
	b := Criteria{Category: "landing", Sort: SortPopular}
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), Criteria{Category: "portfolio"}.Hash())
}
