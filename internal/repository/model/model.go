package model

import (
	"time"

	"github.com/google/uuid"
)

// BaseGroupName is the distinguished group every user belongs to. It is
// auto-created at boot with weight 1 and can never be deleted or reweighted.
const BaseGroupName = "base"

const BaseGroupWeight = 1

type Group struct {
	Name        string   `bson:"_id" json:"name"`
	Weight      int32    `bson:"weight" json:"weight"`
	Permissions []string `bson:"permissions" json:"permissions"`

	Prefix        *string `bson:"prefix,omitempty" json:"prefix,omitempty"`
	Suffix        *string `bson:"suffix,omitempty" json:"suffix,omitempty"`
	ChatFormat    *string `bson:"chatFormat,omitempty" json:"chatFormat,omitempty"`
	TablistFormat *string `bson:"tablistFormat,omitempty" json:"tablistFormat,omitempty"`
	NametagFormat *string `bson:"nametagFormat,omitempty" json:"nametagFormat,omitempty"`
}

// HasPermissionEntry reports whether the group carries the exact entry string
// (including any "-" or "*" markers).
func (g *Group) HasPermissionEntry(entry string) bool {
	for _, p := range g.Permissions {
		if p == entry {
			return true
		}
	}
	return false
}

type User struct {
	Id       uuid.UUID `bson:"_id" json:"id"`
	Username string    `bson:"username" json:"username"`

	PermanentGroups []string             `bson:"permanentGroups" json:"permanentGroups"`
	TemporaryGroups map[string]time.Time `bson:"temporaryGroups,omitempty" json:"temporaryGroups,omitempty"`

	PermanentPermissions []string             `bson:"permanentPermissions,omitempty" json:"permanentPermissions,omitempty"`
	TemporaryPermissions map[string]time.Time `bson:"temporaryPermissions,omitempty" json:"temporaryPermissions,omitempty"`
}

func NewUser(id uuid.UUID, username string) *User {
	return &User{
		Id:              id,
		Username:        username,
		PermanentGroups: []string{BaseGroupName},
	}
}

// ActiveGroups returns the user's group names with expired temporary
// memberships purged from the record, and the number of entries purged.
// The base group is reinserted whenever absent from the active set.
func (u *User) ActiveGroups(now time.Time) ([]string, int) {
	purged := purgeExpired(u.TemporaryGroups, now)

	if !contains(u.PermanentGroups, BaseGroupName) {
		u.PermanentGroups = append(u.PermanentGroups, BaseGroupName)
	}

	groups := make([]string, 0, len(u.PermanentGroups)+len(u.TemporaryGroups))
	groups = append(groups, u.PermanentGroups...)
	for name := range u.TemporaryGroups {
		if !contains(groups, name) {
			groups = append(groups, name)
		}
	}
	return groups, purged
}

// ActivePermissions returns the user's own permission entries (permanent plus
// non-expired temporary) and the number of expired entries purged.
func (u *User) ActivePermissions(now time.Time) ([]string, int) {
	purged := purgeExpired(u.TemporaryPermissions, now)

	permissions := make([]string, 0, len(u.PermanentPermissions)+len(u.TemporaryPermissions))
	permissions = append(permissions, u.PermanentPermissions...)
	for entry := range u.TemporaryPermissions {
		if !contains(permissions, entry) {
			permissions = append(permissions, entry)
		}
	}
	return permissions, purged
}

// CleanupExpired purges every expired temporary entry and returns how many
// were removed.
func (u *User) CleanupExpired(now time.Time) int {
	return purgeExpired(u.TemporaryGroups, now) + purgeExpired(u.TemporaryPermissions, now)
}

func purgeExpired(entries map[string]time.Time, now time.Time) int {
	purged := 0
	for key, expiry := range entries {
		if !expiry.After(now) {
			delete(entries, key)
			purged++
		}
	}
	return purged
}

func contains(slice []string, value string) bool {
	for _, s := range slice {
		if s == value {
			return true
		}
	}
	return false
}

// PermissionNode is a catalog entry describing a known permission
// identifier. The catalog is used to expand wildcard entries for display and
// enumeration only, never for the allow/deny fast path.
type PermissionNode struct {
	Node        string `bson:"_id" json:"node"`
	Description string `bson:"description" json:"description"`
	Extension   string `bson:"extension" json:"extension"`
	IsWildcard  bool   `bson:"isWildcard" json:"isWildcard"`
	Category    string `bson:"category" json:"category"`
}
