package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestCache(ttl time.Duration) (*ResolutionCache, *time.Time) {
	c := NewResolutionCache(ttl)
	now := time.Now()
	c.now = func() time.Time { return now }
	return c, &now
}

func TestResolutionCache_GetOrComputeMemoizes(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	userId := uuid.New()

	computes := 0
	compute := func() ([]string, []string, error) {
		computes++
		return []string{"kit.vip"}, []string{"base", "vip"}, nil
	}

	permissions, err := c.GetOrCompute(userId, compute)
	assert.NoError(t, err)
	assert.Equal(t, []string{"kit.vip"}, permissions)
	assert.Equal(t, 1, computes)

	permissions, err = c.GetOrCompute(userId, compute)
	assert.NoError(t, err)
	assert.Equal(t, []string{"kit.vip"}, permissions)
	assert.Equal(t, 1, computes)
}

func TestResolutionCache_EntryExpires(t *testing.T) {
	c, now := newTestCache(time.Minute)
	userId := uuid.New()

	computes := 0
	compute := func() ([]string, []string, error) {
		computes++
		return []string{"kit.vip"}, []string{"base"}, nil
	}

	_, err := c.GetOrCompute(userId, compute)
	assert.NoError(t, err)

	*now = now.Add(2 * time.Minute)

	_, err = c.GetOrCompute(userId, compute)
	assert.NoError(t, err)
	assert.Equal(t, 2, computes)
}

func TestResolutionCache_ComputeErrorNotCached(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	userId := uuid.New()

	boom := errors.New("storage down")
	_, err := c.GetOrCompute(userId, func() ([]string, []string, error) {
		return nil, nil, boom
	})
	assert.ErrorIs(t, err, boom)

	// The failure was not memoized; the next read computes again.
	permissions, err := c.GetOrCompute(userId, func() ([]string, []string, error) {
		return []string{"kit.vip"}, []string{"base"}, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"kit.vip"}, permissions)
}

func TestResolutionCache_InvalidateUser(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	userId := uuid.New()

	computes := 0
	compute := func() ([]string, []string, error) {
		computes++
		return []string{"kit.vip"}, []string{"base", "vip"}, nil
	}

	_, _ = c.GetOrCompute(userId, compute)
	c.InvalidateUser(userId)
	_, _ = c.GetOrCompute(userId, compute)
	assert.Equal(t, 2, computes)
}

func TestResolutionCache_InvalidateGroupDropsDependentUsers(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	inVip := uuid.New()
	baseOnly := uuid.New()

	vipComputes := 0
	_, _ = c.GetOrCompute(inVip, func() ([]string, []string, error) {
		vipComputes++
		return []string{"kit.vip"}, []string{"base", "vip"}, nil
	})

	baseComputes := 0
	_, _ = c.GetOrCompute(baseOnly, func() ([]string, []string, error) {
		baseComputes++
		return nil, []string{"base"}, nil
	})

	c.InvalidateGroup("vip")

	_, _ = c.GetOrCompute(inVip, func() ([]string, []string, error) {
		vipComputes++
		return []string{"kit.vip"}, []string{"base", "vip"}, nil
	})
	_, _ = c.GetOrCompute(baseOnly, func() ([]string, []string, error) {
		baseComputes++
		return nil, []string{"base"}, nil
	})

	// Only the user resolved through vip recomputed.
	assert.Equal(t, 2, vipComputes)
	assert.Equal(t, 1, baseComputes)
}

func TestResolutionCache_GroupExpansion(t *testing.T) {
	c, now := newTestCache(time.Minute)

	computes := 0
	compute := func() ([]string, error) {
		computes++
		return []string{"essentials.fly", "essentials.god"}, nil
	}

	expansion, err := c.GroupExpansion("vip", compute)
	assert.NoError(t, err)
	assert.Equal(t, []string{"essentials.fly", "essentials.god"}, expansion)

	// No TTL: still cached long after user entries would have expired.
	*now = now.Add(24 * time.Hour)
	_, _ = c.GroupExpansion("vip", compute)
	assert.Equal(t, 1, computes)

	c.InvalidateGroup("vip")
	_, _ = c.GroupExpansion("vip", compute)
	assert.Equal(t, 2, computes)
}

// An invalidation that lands while a compute is in flight must win: the
// compute's result is served to its caller but never memoized, so the next
// read resolves against post-mutation state instead of a stale entry.
func TestResolutionCache_InvalidateDuringComputeNotCached(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	userId := uuid.New()

	// The group mutation fires InvalidateUser after this compute read its
	// inputs but before it stored its result.
	permissions, err := c.GetOrCompute(userId, func() ([]string, []string, error) {
		c.InvalidateUser(userId)
		return []string{}, []string{"base", "vip"}, nil
	})
	assert.NoError(t, err)
	assert.Empty(t, permissions)

	permissions, err = c.GetOrCompute(userId, func() ([]string, []string, error) {
		return []string{"kit.vip"}, []string{"base", "vip"}, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"kit.vip"}, permissions)
}

func TestResolutionCache_InvalidateGroupDuringComputeNotCached(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	userId := uuid.New()

	_, err := c.GetOrCompute(userId, func() ([]string, []string, error) {
		c.InvalidateGroup("vip")
		return []string{}, []string{"base", "vip"}, nil
	})
	assert.NoError(t, err)

	computes := 0
	_, err = c.GetOrCompute(userId, func() ([]string, []string, error) {
		computes++
		return []string{"kit.vip"}, []string{"base", "vip"}, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, computes)
}

func TestResolutionCache_InvalidateDuringExpansionComputeNotCached(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	_, err := c.GroupExpansion("vip", func() ([]string, error) {
		c.InvalidateExpansions()
		return []string{"essentials.fly"}, nil
	})
	assert.NoError(t, err)

	computes := 0
	expansion, err := c.GroupExpansion("vip", func() ([]string, error) {
		computes++
		return []string{"essentials.fly", "essentials.god"}, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, computes)
	assert.Equal(t, []string{"essentials.fly", "essentials.god"}, expansion)
}

func TestResolutionCache_InvalidateExpansionsKeepsUserEntries(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	userId := uuid.New()

	userComputes := 0
	_, _ = c.GetOrCompute(userId, func() ([]string, []string, error) {
		userComputes++
		return []string{"kit.vip"}, []string{"base"}, nil
	})
	_, _ = c.GroupExpansion("vip", func() ([]string, error) {
		return []string{"essentials.fly"}, nil
	})

	c.InvalidateExpansions()

	expansionComputes := 0
	_, _ = c.GroupExpansion("vip", func() ([]string, error) {
		expansionComputes++
		return []string{"essentials.fly"}, nil
	})
	_, _ = c.GetOrCompute(userId, func() ([]string, []string, error) {
		userComputes++
		return []string{"kit.vip"}, []string{"base"}, nil
	})

	assert.Equal(t, 1, expansionComputes)
	assert.Equal(t, 1, userComputes)
}

func TestResolutionCache_SweepExpired(t *testing.T) {
	c, now := newTestCache(time.Minute)

	fresh := uuid.New()
	stale := uuid.New()

	_, _ = c.GetOrCompute(stale, func() ([]string, []string, error) {
		return nil, []string{"base"}, nil
	})

	*now = now.Add(2 * time.Minute)

	_, _ = c.GetOrCompute(fresh, func() ([]string, []string, error) {
		return nil, []string{"base"}, nil
	})

	assert.Equal(t, 1, c.SweepExpired())
	assert.Equal(t, 0, c.SweepExpired())
}

func TestResolutionCache_InvalidateAll(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	userId := uuid.New()

	computes := 0
	compute := func() ([]string, []string, error) {
		computes++
		return nil, []string{"base"}, nil
	}

	_, _ = c.GetOrCompute(userId, compute)
	_, _ = c.GroupExpansion("base", func() ([]string, error) { return nil, nil })

	c.InvalidateAll()

	_, _ = c.GetOrCompute(userId, compute)
	assert.Equal(t, 2, computes)
}
