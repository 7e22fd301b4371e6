// Package resolver computes effective permission sets: weight-ordered group
// merging, single-level negation, prefix wildcards and temporary-grant
// expiry, answered through the resolution cache.
package resolver

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"permission-engine/internal/cache"
	"permission-engine/internal/perms"
	"permission-engine/internal/repository"
	"permission-engine/internal/repository/model"
)

type Resolver struct {
	logger *zap.SugaredLogger
	repo   repository.Repository
	cache  *cache.ResolutionCache

	ready atomic.Bool
	now   func() time.Time
}

func NewResolver(logger *zap.SugaredLogger, repo repository.Repository, resCache *cache.ResolutionCache) *Resolver {
	return &Resolver{
		logger: logger,
		repo:   repo,
		cache:  resCache,
		now:    time.Now,
	}
}

// MarkReady flips the resolver live. Checks before this point are a
// programming error in the host's startup ordering.
func (r *Resolver) MarkReady() {
	r.ready.Store(true)
}

func (r *Resolver) mustBeReady() {
	if !r.ready.Load() {
		panic("permission resolver used before initialization completed")
	}
}

// HasPermission answers the allow/deny check against the user's effective
// set. An explicit denial short-circuits before wildcard matching, and the
// caller never learns whether a false was a denial or a missing grant.
func (r *Resolver) HasPermission(ctx context.Context, userId uuid.UUID, permission string) bool {
	r.mustBeReady()

	effective := r.GetEffectivePermissions(ctx, userId)

	for _, entry := range effective {
		if entry == permission {
			return true
		}
	}
	for _, entry := range effective {
		if entry == "-"+permission {
			return false
		}
	}
	for _, entry := range effective {
		if perms.IsDenial(entry) || !strings.HasSuffix(entry, "*") {
			continue
		}
		if strings.HasPrefix(permission, strings.TrimSuffix(entry, "*")) {
			return true
		}
	}

	return false
}

// GetEffectivePermissions returns the user's merged grant/deny/wildcard
// entries. Storage failures degrade to an empty set: denying access is the
// safe default for an authorization check.
func (r *Resolver) GetEffectivePermissions(ctx context.Context, userId uuid.UUID) []string {
	r.mustBeReady()

	effective, err := r.cache.GetOrCompute(userId, func() ([]string, []string, error) {
		return r.compute(ctx, userId)
	})
	if err != nil {
		r.logger.Errorw("failed to resolve permissions, denying", "userId", userId, "error", err)
		return []string{}
	}

	return effective
}

// GetPrimaryGroup returns the user's highest-weight active group, used for
// display attributes only. Ties break by name so selection is deterministic.
func (r *Resolver) GetPrimaryGroup(ctx context.Context, userId uuid.UUID) (string, bool) {
	r.mustBeReady()

	groups, err := r.activeGroupsByWeightDesc(ctx, userId)
	if err != nil || len(groups) == 0 {
		r.logFailSoft("primary group", userId, err)
		return "", false
	}

	return groups[0].Name, true
}

func (r *Resolver) GetPrefix(ctx context.Context, userId uuid.UUID) *string {
	return r.displayAttribute(ctx, userId, func(group *model.Group) *string { return group.Prefix })
}

func (r *Resolver) GetSuffix(ctx context.Context, userId uuid.UUID) *string {
	return r.displayAttribute(ctx, userId, func(group *model.Group) *string { return group.Suffix })
}

func (r *Resolver) GetChatFormat(ctx context.Context, userId uuid.UUID) *string {
	return r.displayAttribute(ctx, userId, func(group *model.Group) *string { return group.ChatFormat })
}

func (r *Resolver) GetTablistFormat(ctx context.Context, userId uuid.UUID) *string {
	return r.displayAttribute(ctx, userId, func(group *model.Group) *string { return group.TablistFormat })
}

func (r *Resolver) GetNametagFormat(ctx context.Context, userId uuid.UUID) *string {
	return r.displayAttribute(ctx, userId, func(group *model.Group) *string { return group.NametagFormat })
}

// compute merges the user's active groups ascending by weight into a map
// keyed by bare node name, then applies the user's own entries. Within the
// group layer a denial sticks once written, whichever group contributed it:
// a denial anywhere beats a plain grant of the same string, independent of
// weight. The user layer overwrites unconditionally and is the final
// authority for any literal collision.
func (r *Resolver) compute(ctx context.Context, userId uuid.UUID) ([]string, []string, error) {
	user, err := r.repo.GetUser(ctx, userId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []string{}, []string{}, nil
		}
		return nil, nil, err
	}

	now := r.now()
	groupNames, _ := user.ActiveGroups(now)

	groups, err := r.loadGroups(ctx, groupNames)
	if err != nil {
		return nil, nil, err
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Weight != groups[j].Weight {
			return groups[i].Weight < groups[j].Weight
		}
		return groups[i].Name < groups[j].Name
	})

	merged := make(map[string]string)
	for _, group := range groups {
		for _, entry := range group.Permissions {
			bare := perms.BareName(entry)
			if existing, ok := merged[bare]; ok && perms.IsDenial(existing) && !perms.IsDenial(entry) {
				continue
			}
			merged[bare] = entry
		}
	}

	userPermissions, _ := user.ActivePermissions(now)
	for _, entry := range userPermissions {
		merged[perms.BareName(entry)] = entry
	}

	effective := make([]string, 0, len(merged))
	for _, entry := range merged {
		effective = append(effective, entry)
	}
	sort.Strings(effective)

	return effective, groupNames, nil
}

// loadGroups resolves group names against the full group list. Names with no
// backing group (deleted while still referenced) are skipped.
func (r *Resolver) loadGroups(ctx context.Context, groupNames []string) ([]*model.Group, error) {
	allGroups, err := r.repo.GetAllGroups(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*model.Group, len(allGroups))
	for _, group := range allGroups {
		byName[group.Name] = group
	}

	groups := make([]*model.Group, 0, len(groupNames))
	for _, name := range groupNames {
		if group, ok := byName[name]; ok {
			groups = append(groups, group)
		}
	}

	return groups, nil
}

func (r *Resolver) activeGroupsByWeightDesc(ctx context.Context, userId uuid.UUID) ([]*model.Group, error) {
	user, err := r.repo.GetUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	groupNames, _ := user.ActiveGroups(r.now())
	groups, err := r.loadGroups(ctx, groupNames)
	if err != nil {
		return nil, err
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Weight != groups[j].Weight {
			return groups[i].Weight > groups[j].Weight
		}
		return groups[i].Name < groups[j].Name
	})

	return groups, nil
}

// displayAttribute walks the user's active groups descending by weight and
// returns the first group's value for the attribute. Fail-soft: storage
// errors yield an absent attribute, not a propagated failure.
func (r *Resolver) displayAttribute(ctx context.Context, userId uuid.UUID, attribute func(group *model.Group) *string) *string {
	r.mustBeReady()

	groups, err := r.activeGroupsByWeightDesc(ctx, userId)
	if err != nil {
		r.logFailSoft("display attribute", userId, err)
		return nil
	}

	for _, group := range groups {
		if value := attribute(group); value != nil {
			return value
		}
	}

	return nil
}

func (r *Resolver) logFailSoft(what string, userId uuid.UUID, err error) {
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		r.logger.Errorw("failed to load "+what, "userId", userId, "error", err)
	}
}
