package notifier

import (
	"context"

	"github.com/google/uuid"

	"permission-engine/internal/repository/model"
)

type ChangeType string

const (
	ChangeTypeCreate ChangeType = "create"
	ChangeTypeModify ChangeType = "modify"
	ChangeTypeDelete ChangeType = "delete"
)

// GroupUpdateMessage is published whenever a group is created, mutated or
// deleted so that other server instances can drop their cached resolutions.
type GroupUpdateMessage struct {
	Group      *model.Group `json:"group,omitempty"`
	GroupName  string       `json:"groupName"`
	ChangeType ChangeType   `json:"changeType"`
}

// UserUpdateMessage is published whenever a user's groups or individual
// permissions change. Subject names what changed (a group name or a
// permission string).
type UserUpdateMessage struct {
	UserId     string     `json:"userId"`
	Subject    string     `json:"subject"`
	ChangeType ChangeType `json:"changeType"`
}

type Notifier interface {
	GroupUpdate(ctx context.Context, group *model.Group, changeType ChangeType) error
	UserUpdate(ctx context.Context, userId uuid.UUID, subject string, changeType ChangeType) error
}
