// Package groups is the admin-facing store for weighted permission groups.
// All mutations validate their input, serialize per group name, persist
// through the repository, then invalidate the resolution cache and notify
// other instances.
package groups

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"permission-engine/internal/cache"
	"permission-engine/internal/messaging/notifier"
	"permission-engine/internal/perms"
	"permission-engine/internal/repository"
	"permission-engine/internal/repository/model"
	"permission-engine/internal/utils/keylock"
)

type Service struct {
	logger *zap.SugaredLogger
	repo   repository.Repository
	notif  notifier.Notifier
	cache  *cache.ResolutionCache
	locks  keylock.KeyedMutex
}

func NewService(logger *zap.SugaredLogger, repo repository.Repository, notif notifier.Notifier, resCache *cache.ResolutionCache) *Service {
	return &Service{
		logger: logger,
		repo:   repo,
		notif:  notif,
		cache:  resCache,
	}
}

// EnsureBaseGroup creates the base group at first boot. Losing a creation
// race to another instance is fine; the group exists either way.
func (s *Service) EnsureBaseGroup(ctx context.Context) error {
	exists, err := s.repo.GroupExists(ctx, model.BaseGroupName)
	if err != nil {
		return perms.WrapStorage("check base group", err)
	}
	if exists {
		return nil
	}

	group := &model.Group{
		Name:        model.BaseGroupName,
		Weight:      model.BaseGroupWeight,
		Permissions: []string{},
	}
	if err := s.repo.CreateGroup(ctx, group); err != nil && !mongo.IsDuplicateKeyError(err) {
		return perms.WrapStorage("create base group", err)
	}

	return nil
}

func (s *Service) Create(ctx context.Context, name string, weight int32, prefix *string, suffix *string) (*model.Group, error) {
	name, err := perms.NormalizeGroupName(name)
	if err != nil {
		return nil, err
	}
	if weight < 1 {
		return nil, perms.ErrInvalidWeight
	}

	unlock := s.locks.Lock(name)
	defer unlock()

	group := &model.Group{
		Name:        name,
		Weight:      weight,
		Permissions: []string{},
		Prefix:      prefix,
		Suffix:      suffix,
	}

	if err := s.repo.CreateGroup(ctx, group); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, perms.ErrAlreadyExists
		}
		return nil, perms.WrapStorage("create group", err)
	}

	s.afterChange(ctx, group, notifier.ChangeTypeCreate)
	return group, nil
}

func (s *Service) Delete(ctx context.Context, name string) error {
	name, err := perms.NormalizeGroupName(name)
	if err != nil {
		return err
	}
	if name == model.BaseGroupName {
		return perms.ErrProtectedGroup
	}

	unlock := s.locks.Lock(name)
	defer unlock()

	if err := s.repo.DeleteGroup(ctx, name); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return perms.ErrNotFound
		}
		return perms.WrapStorage("delete group", err)
	}

	s.afterChange(ctx, &model.Group{Name: name}, notifier.ChangeTypeDelete)
	return nil
}

func (s *Service) Get(ctx context.Context, name string) (*model.Group, error) {
	name, err := perms.NormalizeGroupName(name)
	if err != nil {
		return nil, err
	}

	group, err := s.repo.GetGroup(ctx, name)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, perms.ErrNotFound
		}
		return nil, perms.WrapStorage("get group", err)
	}

	return group, nil
}

func (s *Service) All(ctx context.Context) ([]*model.Group, error) {
	allGroups, err := s.repo.GetAllGroups(ctx)
	if err != nil {
		return nil, perms.WrapStorage("get all groups", err)
	}
	return allGroups, nil
}

func (s *Service) SetWeight(ctx context.Context, name string, weight int32) error {
	if weight < 1 {
		return perms.ErrInvalidWeight
	}
	return s.mutate(ctx, name, func(group *model.Group) (bool, error) {
		if group.Name == model.BaseGroupName {
			return false, perms.ErrProtectedGroup
		}
		if group.Weight == weight {
			return false, nil
		}
		group.Weight = weight
		return true, nil
	})
}

func (s *Service) SetPrefix(ctx context.Context, name string, prefix *string) error {
	return s.mutate(ctx, name, func(group *model.Group) (bool, error) {
		group.Prefix = prefix
		return true, nil
	})
}

func (s *Service) SetSuffix(ctx context.Context, name string, suffix *string) error {
	return s.mutate(ctx, name, func(group *model.Group) (bool, error) {
		group.Suffix = suffix
		return true, nil
	})
}

func (s *Service) SetChatFormat(ctx context.Context, name string, format *string) error {
	return s.mutate(ctx, name, func(group *model.Group) (bool, error) {
		group.ChatFormat = format
		return true, nil
	})
}

func (s *Service) SetTablistFormat(ctx context.Context, name string, format *string) error {
	return s.mutate(ctx, name, func(group *model.Group) (bool, error) {
		group.TablistFormat = format
		return true, nil
	})
}

func (s *Service) SetNametagFormat(ctx context.Context, name string, format *string) error {
	return s.mutate(ctx, name, func(group *model.Group) (bool, error) {
		group.NametagFormat = format
		return true, nil
	})
}

func (s *Service) AddPermission(ctx context.Context, name string, permission string) error {
	if err := perms.ValidatePermission(permission); err != nil {
		return err
	}
	return s.mutate(ctx, name, func(group *model.Group) (bool, error) {
		if group.HasPermissionEntry(permission) {
			return false, perms.ErrAlreadyExists
		}
		group.Permissions = append(group.Permissions, permission)
		return true, nil
	})
}

func (s *Service) RemovePermission(ctx context.Context, name string, permission string) error {
	if err := perms.ValidatePermission(permission); err != nil {
		return err
	}
	return s.mutate(ctx, name, func(group *model.Group) (bool, error) {
		for i, p := range group.Permissions {
			if p == permission {
				group.Permissions = append(group.Permissions[:i], group.Permissions[i+1:]...)
				return true, nil
			}
		}
		return false, perms.ErrNotFound
	})
}

// mutate performs a read-modify-write on a group under its key lock. fn
// reports whether the group changed; unchanged groups are not persisted and
// fire no invalidation.
func (s *Service) mutate(ctx context.Context, name string, fn func(group *model.Group) (bool, error)) error {
	name, err := perms.NormalizeGroupName(name)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(name)
	defer unlock()

	group, err := s.repo.GetGroup(ctx, name)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return perms.ErrNotFound
		}
		return perms.WrapStorage("get group", err)
	}

	changed, err := fn(group)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := s.repo.SaveGroup(ctx, group); err != nil {
		return perms.WrapStorage("save group", err)
	}

	s.afterChange(ctx, group, notifier.ChangeTypeModify)
	return nil
}

// afterChange runs once a mutation has persisted: the cache invalidation
// must take effect before the mutating caller's next read, the notification
// is best-effort.
func (s *Service) afterChange(ctx context.Context, group *model.Group, changeType notifier.ChangeType) {
	s.cache.InvalidateGroup(group.Name)

	if err := s.notif.GroupUpdate(ctx, group, changeType); err != nil {
		s.logger.Errorw("error sending group update notification", "group", group.Name, "error", err)
	}
}
