package repository

import (
	"context"

	"github.com/google/uuid"

	"permission-engine/internal/repository/model"
)

// Repository is the persistence contract the engine consumes. Implementations
// provide synchronous key-value semantics with per-key atomicity only; no
// cross-key transactional guarantees are assumed.
type Repository interface {
	GetGroup(ctx context.Context, name string) (*model.Group, error)
	GetAllGroups(ctx context.Context) ([]*model.Group, error)
	GroupExists(ctx context.Context, name string) (bool, error)
	CreateGroup(ctx context.Context, group *model.Group) error
	SaveGroup(ctx context.Context, group *model.Group) error
	DeleteGroup(ctx context.Context, name string) error

	GetUser(ctx context.Context, userId uuid.UUID) (*model.User, error)
	UserExists(ctx context.Context, userId uuid.UUID) (bool, error)
	SaveUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, userId uuid.UUID) error
	GetUsersInGroup(ctx context.Context, groupName string) ([]uuid.UUID, error)

	GetAllPermissionNodes(ctx context.Context) ([]*model.PermissionNode, error)
	SavePermissionNodes(ctx context.Context, extension string, nodes []*model.PermissionNode) error
	RemoveExtensionNodes(ctx context.Context, extension string) error
}
