// Package cache memoizes effective-permission resolutions. User entries are
// time-boxed; group expansion entries live until explicitly invalidated,
// since groups change far less often than user temporary state.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultUserTTL = 5 * time.Minute

type userEntry struct {
	permissions []string
	groups      []string
	expiresAt   time.Time
}

type ResolutionCache struct {
	ttl time.Duration
	now func() time.Time

	mu sync.RWMutex

	// gen counts invalidations. A compute snapshots it before running and
	// only inserts its result if no invalidation landed in between, so an
	// in-flight compute can never re-cache pre-invalidation data.
	gen    uint64
	users  map[uuid.UUID]userEntry
	groups map[string][]string

	// members is the reverse index: group name -> users whose cached entry
	// depends on that group.
	members map[string]map[uuid.UUID]struct{}
}

func NewResolutionCache(ttl time.Duration) *ResolutionCache {
	if ttl <= 0 {
		ttl = DefaultUserTTL
	}
	return &ResolutionCache{
		ttl:     ttl,
		now:     time.Now,
		users:   make(map[uuid.UUID]userEntry),
		groups:  make(map[string][]string),
		members: make(map[string]map[uuid.UUID]struct{}),
	}
}

// GetOrCompute returns the cached effective permission set for a user, or
// runs compute and memoizes its result. compute also reports which groups
// the resolution depended on, feeding the reverse index. A compute error is
// returned uncached so the next read retries.
func (c *ResolutionCache) GetOrCompute(userId uuid.UUID, compute func() (permissions []string, groups []string, err error)) ([]string, error) {
	c.mu.RLock()
	if entry, ok := c.users[userId]; ok && c.now().Before(entry.expiresAt) {
		c.mu.RUnlock()
		return entry.permissions, nil
	}
	gen := c.gen
	c.mu.RUnlock()

	permissions, groups, err := compute()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gen != gen {
		// An invalidation raced the compute; serve the result but leave it
		// uncached so the next read resolves against post-mutation state.
		c.mu.Unlock()
		return permissions, nil
	}
	c.dropUserLocked(userId)
	c.users[userId] = userEntry{
		permissions: permissions,
		groups:      groups,
		expiresAt:   c.now().Add(c.ttl),
	}
	for _, group := range groups {
		set, ok := c.members[group]
		if !ok {
			set = make(map[uuid.UUID]struct{})
			c.members[group] = set
		}
		set[userId] = struct{}{}
	}
	c.mu.Unlock()

	return permissions, nil
}

// GroupExpansion returns the cached display expansion for a group, or runs
// compute and memoizes it with no TTL.
func (c *ResolutionCache) GroupExpansion(name string, compute func() ([]string, error)) ([]string, error) {
	c.mu.RLock()
	if expansion, ok := c.groups[name]; ok {
		c.mu.RUnlock()
		return expansion, nil
	}
	gen := c.gen
	c.mu.RUnlock()

	expansion, err := compute()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.groups[name] = expansion
	}
	c.mu.Unlock()

	return expansion, nil
}

func (c *ResolutionCache) InvalidateUser(userId uuid.UUID) {
	c.mu.Lock()
	c.gen++
	c.dropUserLocked(userId)
	c.mu.Unlock()
}

// InvalidateGroup drops the group's expansion entry and every user entry
// that was resolved through the group. Users without a live cache entry
// recompute on their next read anyway.
func (c *ResolutionCache) InvalidateGroup(name string) {
	c.mu.Lock()
	c.gen++
	delete(c.groups, name)
	for userId := range c.members[name] {
		c.dropUserLocked(userId)
	}
	delete(c.members, name)
	c.mu.Unlock()
}

// InvalidateExpansions drops every memoized group expansion, e.g. after the
// permission catalog's node set changes. User entries are untouched.
func (c *ResolutionCache) InvalidateExpansions() {
	c.mu.Lock()
	c.gen++
	c.groups = make(map[string][]string)
	c.mu.Unlock()
}

func (c *ResolutionCache) InvalidateAll() {
	c.mu.Lock()
	c.gen++
	c.users = make(map[uuid.UUID]userEntry)
	c.groups = make(map[string][]string)
	c.members = make(map[string]map[uuid.UUID]struct{})
	c.mu.Unlock()
}

// SweepExpired removes stale user entries to bound memory. Expired entries
// are also detected lazily on read, so sweeping is maintenance, not
// correctness.
func (c *ResolutionCache) SweepExpired() int {
	now := c.now()

	c.mu.Lock()
	removed := 0
	for userId, entry := range c.users {
		if !now.Before(entry.expiresAt) {
			c.dropUserLocked(userId)
			removed++
		}
	}
	c.mu.Unlock()

	return removed
}

// RunSweeper periodically sweeps expired user entries until ctx is done.
func (c *ResolutionCache) RunSweeper(ctx context.Context, wg *sync.WaitGroup, logger *zap.SugaredLogger, interval time.Duration) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := c.SweepExpired(); removed > 0 {
					logger.Debugw("swept expired cache entries", "removed", removed)
				}
			}
		}
	}()
}

func (c *ResolutionCache) dropUserLocked(userId uuid.UUID) {
	entry, ok := c.users[userId]
	if !ok {
		return
	}
	for _, group := range entry.groups {
		if set, ok := c.members[group]; ok {
			delete(set, userId)
			if len(set) == 0 {
				delete(c.members, group)
			}
		}
	}
	delete(c.users, userId)
}
