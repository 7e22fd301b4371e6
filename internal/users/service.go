// Package users is the admin-facing store for per-principal permission
// records: permanent and temporary group memberships, permanent and
// temporary individual permissions.
package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
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

	now func() time.Time
}

func NewService(logger *zap.SugaredLogger, repo repository.Repository, notif notifier.Notifier, resCache *cache.ResolutionCache) *Service {
	return &Service{
		logger: logger,
		repo:   repo,
		notif:  notif,
		cache:  resCache,
		now:    time.Now,
	}
}

// EnsureExists creates the user's record on first login with base
// membership. On later calls it refreshes the username and guarantees base
// membership; it is idempotent.
func (s *Service) EnsureExists(ctx context.Context, userId uuid.UUID, username string) (*model.User, error) {
	unlock := s.locks.Lock(userId.String())
	defer unlock()

	user, err := s.repo.GetUser(ctx, userId)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, perms.WrapStorage("get user", err)
		}

		user = model.NewUser(userId, username)
		if err := s.repo.SaveUser(ctx, user); err != nil {
			return nil, perms.WrapStorage("save user", err)
		}
		return user, nil
	}

	changed := false
	if user.Username != username {
		user.Username = username
		changed = true
	}
	if !hasGroup(user.PermanentGroups, model.BaseGroupName) {
		user.PermanentGroups = append(user.PermanentGroups, model.BaseGroupName)
		changed = true
	}

	if changed {
		if err := s.repo.SaveUser(ctx, user); err != nil {
			return nil, perms.WrapStorage("save user", err)
		}
		s.cache.InvalidateUser(userId)
	}

	return user, nil
}

func (s *Service) AddGroup(ctx context.Context, userId uuid.UUID, groupName string) error {
	groupName, err := s.groupMustExist(ctx, groupName)
	if err != nil {
		return err
	}

	return s.mutate(ctx, userId, groupName, func(user *model.User) (bool, error) {
		if hasGroup(user.PermanentGroups, groupName) {
			return false, perms.ErrAlreadyExists
		}
		user.PermanentGroups = append(user.PermanentGroups, groupName)
		return true, nil
	})
}

// AddTemporaryGroup grants a group membership that expires after the given
// duration string (e.g. "1h30m", "2d"). Granting again overwrites the
// expiry.
func (s *Service) AddTemporaryGroup(ctx context.Context, userId uuid.UUID, groupName string, duration string) error {
	d, err := perms.ParseDuration(duration)
	if err != nil {
		return err
	}

	groupName, err = s.groupMustExist(ctx, groupName)
	if err != nil {
		return err
	}

	return s.mutate(ctx, userId, groupName, func(user *model.User) (bool, error) {
		if user.TemporaryGroups == nil {
			user.TemporaryGroups = make(map[string]time.Time)
		}
		user.TemporaryGroups[groupName] = s.now().Add(d)
		return true, nil
	})
}

func (s *Service) RemoveGroup(ctx context.Context, userId uuid.UUID, groupName string) error {
	groupName, err := perms.NormalizeGroupName(groupName)
	if err != nil {
		return err
	}
	if groupName == model.BaseGroupName {
		return perms.ErrProtectedGroup
	}

	return s.mutate(ctx, userId, groupName, func(user *model.User) (bool, error) {
		removed := false
		for i, name := range user.PermanentGroups {
			if name == groupName {
				user.PermanentGroups = append(user.PermanentGroups[:i], user.PermanentGroups[i+1:]...)
				removed = true
				break
			}
		}
		if _, ok := user.TemporaryGroups[groupName]; ok {
			delete(user.TemporaryGroups, groupName)
			removed = true
		}
		if !removed {
			return false, perms.ErrNotFound
		}
		return true, nil
	})
}

func (s *Service) AddPermission(ctx context.Context, userId uuid.UUID, permission string) error {
	if err := perms.ValidatePermission(permission); err != nil {
		return err
	}

	return s.mutate(ctx, userId, permission, func(user *model.User) (bool, error) {
		for _, entry := range user.PermanentPermissions {
			if entry == permission {
				return false, perms.ErrAlreadyExists
			}
		}
		user.PermanentPermissions = append(user.PermanentPermissions, permission)
		return true, nil
	})
}

func (s *Service) AddTemporaryPermission(ctx context.Context, userId uuid.UUID, permission string, duration string) error {
	if err := perms.ValidatePermission(permission); err != nil {
		return err
	}
	d, err := perms.ParseDuration(duration)
	if err != nil {
		return err
	}

	return s.mutate(ctx, userId, permission, func(user *model.User) (bool, error) {
		if user.TemporaryPermissions == nil {
			user.TemporaryPermissions = make(map[string]time.Time)
		}
		user.TemporaryPermissions[permission] = s.now().Add(d)
		return true, nil
	})
}

func (s *Service) RemovePermission(ctx context.Context, userId uuid.UUID, permission string) error {
	if err := perms.ValidatePermission(permission); err != nil {
		return err
	}

	return s.mutate(ctx, userId, permission, func(user *model.User) (bool, error) {
		removed := false
		for i, entry := range user.PermanentPermissions {
			if entry == permission {
				user.PermanentPermissions = append(user.PermanentPermissions[:i], user.PermanentPermissions[i+1:]...)
				removed = true
				break
			}
		}
		if _, ok := user.TemporaryPermissions[permission]; ok {
			delete(user.TemporaryPermissions, permission)
			removed = true
		}
		if !removed {
			return false, perms.ErrNotFound
		}
		return true, nil
	})
}

// GetActiveGroups returns the user's non-expired group names. Expired
// temporary memberships are purged from the persisted record as a read-time
// side effect.
func (s *Service) GetActiveGroups(ctx context.Context, userId uuid.UUID) ([]string, error) {
	var groups []string
	err := s.readWithPurge(ctx, userId, func(user *model.User) int {
		var purged int
		groups, purged = user.ActiveGroups(s.now())
		return purged
	})
	return groups, err
}

// GetActivePermissions returns the user's own non-expired permission
// entries, purging expired temporaries like GetActiveGroups.
func (s *Service) GetActivePermissions(ctx context.Context, userId uuid.UUID) ([]string, error) {
	var permissions []string
	err := s.readWithPurge(ctx, userId, func(user *model.User) int {
		var purged int
		permissions, purged = user.ActivePermissions(s.now())
		return purged
	})
	return permissions, err
}

// CleanupExpired purges every expired temporary entry from the user's record
// and returns how many were removed.
func (s *Service) CleanupExpired(ctx context.Context, userId uuid.UUID) (int, error) {
	var count int
	err := s.readWithPurge(ctx, userId, func(user *model.User) int {
		count = user.CleanupExpired(s.now())
		return count
	})
	return count, err
}

func (s *Service) groupMustExist(ctx context.Context, groupName string) (string, error) {
	groupName, err := perms.NormalizeGroupName(groupName)
	if err != nil {
		return "", err
	}

	exists, err := s.repo.GroupExists(ctx, groupName)
	if err != nil {
		return "", perms.WrapStorage("check group", err)
	}
	if !exists {
		return "", perms.ErrNotFound
	}

	return groupName, nil
}

func (s *Service) mutate(ctx context.Context, userId uuid.UUID, subject string, fn func(user *model.User) (bool, error)) error {
	unlock := s.locks.Lock(userId.String())
	defer unlock()

	user, err := s.repo.GetUser(ctx, userId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return perms.ErrNotFound
		}
		return perms.WrapStorage("get user", err)
	}

	changed, err := fn(user)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := s.repo.SaveUser(ctx, user); err != nil {
		return perms.WrapStorage("save user", err)
	}

	s.cache.InvalidateUser(userId)
	if err := s.notif.UserUpdate(ctx, userId, subject, notifier.ChangeTypeModify); err != nil {
		s.logger.Errorw("error sending user update notification", "userId", userId, "error", err)
	}

	return nil
}

// readWithPurge loads a user, lets fn read it (purging expired entries in
// the process), and persists the purge best-effort. A failed purge write is
// logged and retried on a later read; the returned view is already correct.
func (s *Service) readWithPurge(ctx context.Context, userId uuid.UUID, fn func(user *model.User) int) error {
	unlock := s.locks.Lock(userId.String())
	defer unlock()

	user, err := s.repo.GetUser(ctx, userId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return perms.ErrNotFound
		}
		return perms.WrapStorage("get user", err)
	}

	if purged := fn(user); purged > 0 {
		s.logger.Debugw("purged expired temporary entries", "userId", userId, "purged", purged)
		if err := s.repo.SaveUser(ctx, user); err != nil {
			s.logger.Errorw("failed to persist expiry purge", "userId", userId, "error", err)
		}
		s.cache.InvalidateUser(userId)
	}

	return nil
}

func hasGroup(groupNames []string, name string) bool {
	for _, groupName := range groupNames {
		if groupName == name {
			return true
		}
	}
	return false
}
