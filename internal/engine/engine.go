// Package engine wires the permission-resolution core together: repository,
// catalog, group and user stores, resolution cache and resolver. Nothing is
// globally reachable; hosts construct an Engine and hand it to their admin
// surfaces and check sites.
package engine

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"permission-engine/internal/cache"
	"permission-engine/internal/catalog"
	"permission-engine/internal/groups"
	"permission-engine/internal/messaging/notifier"
	"permission-engine/internal/perms"
	"permission-engine/internal/repository"
	"permission-engine/internal/resolver"
	"permission-engine/internal/users"
)

type Engine struct {
	logger *zap.SugaredLogger

	Groups   *groups.Service
	Users    *users.Service
	Catalog  *catalog.Catalog
	Resolver *resolver.Resolver

	resCache *cache.ResolutionCache
}

// New builds the engine, ensures the base group exists and loads the
// permission catalog. The resolver is marked ready last; checks before New
// returns are a startup-ordering bug.
func New(ctx context.Context, logger *zap.SugaredLogger, repo repository.Repository, notif notifier.Notifier, resCache *cache.ResolutionCache) (*Engine, error) {
	groupService := groups.NewService(logger, repo, notif, resCache)
	userService := users.NewService(logger, repo, notif, resCache)
	permCatalog := catalog.NewCatalog(logger, repo)
	permResolver := resolver.NewResolver(logger, repo, resCache)

	// Catalog changes redefine what wildcards expand to, so memoized
	// expansions must not outlive them.
	permCatalog.OnChange(resCache.InvalidateExpansions)

	if err := groupService.EnsureBaseGroup(ctx); err != nil {
		return nil, err
	}
	if err := permCatalog.Load(ctx); err != nil {
		return nil, err
	}

	permResolver.MarkReady()

	return &Engine{
		logger:   logger,
		Groups:   groupService,
		Users:    userService,
		Catalog:  permCatalog,
		Resolver: permResolver,
		resCache: resCache,
	}, nil
}

func (e *Engine) HasPermission(ctx context.Context, userId uuid.UUID, permission string) bool {
	return e.Resolver.HasPermission(ctx, userId, permission)
}

func (e *Engine) GetEffectivePermissions(ctx context.Context, userId uuid.UUID) []string {
	return e.Resolver.GetEffectivePermissions(ctx, userId)
}

func (e *Engine) GetPrimaryGroup(ctx context.Context, userId uuid.UUID) (string, bool) {
	return e.Resolver.GetPrimaryGroup(ctx, userId)
}

func (e *Engine) GetPrefix(ctx context.Context, userId uuid.UUID) *string {
	return e.Resolver.GetPrefix(ctx, userId)
}

func (e *Engine) GetSuffix(ctx context.Context, userId uuid.UUID) *string {
	return e.Resolver.GetSuffix(ctx, userId)
}

func (e *Engine) GetChatFormat(ctx context.Context, userId uuid.UUID) *string {
	return e.Resolver.GetChatFormat(ctx, userId)
}

func (e *Engine) GetTablistFormat(ctx context.Context, userId uuid.UUID) *string {
	return e.Resolver.GetTablistFormat(ctx, userId)
}

func (e *Engine) GetNametagFormat(ctx context.Context, userId uuid.UUID) *string {
	return e.Resolver.GetNametagFormat(ctx, userId)
}

// ExpandGroupPermissions resolves a group's entries against the catalog for
// display and enumeration, memoized until the group next changes.
func (e *Engine) ExpandGroupPermissions(ctx context.Context, groupName string) ([]string, error) {
	groupName, err := perms.NormalizeGroupName(groupName)
	if err != nil {
		return nil, err
	}

	return e.resCache.GroupExpansion(groupName, func() ([]string, error) {
		group, err := e.Groups.Get(ctx, groupName)
		if err != nil {
			return nil, err
		}

		expanded := make([]string, 0, len(group.Permissions))
		seen := make(map[string]struct{})
		for _, entry := range group.Permissions {
			for _, node := range e.Catalog.Expand(entry) {
				if _, ok := seen[node]; ok {
					continue
				}
				seen[node] = struct{}{}
				expanded = append(expanded, node)
			}
		}
		return expanded, nil
	})
}

// OnGroupChanged is the invalidation hook for external editors that mutate
// the persisted stores directly (e.g. a bulk importer).
func (e *Engine) OnGroupChanged(name string) {
	e.resCache.InvalidateGroup(name)
}

// OnUserChanged is the per-user counterpart of OnGroupChanged.
func (e *Engine) OnUserChanged(userId uuid.UUID) {
	e.resCache.InvalidateUser(userId)
}

// InvalidateAll drops every cached resolution, e.g. after a bulk import of
// unknown scope.
func (e *Engine) InvalidateAll() {
	e.resCache.InvalidateAll()
}
