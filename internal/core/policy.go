package core

import "github.com/plura/dashboard/internal/model"

type Resource string

const (
	ResourceAgency       Resource = "agency"
	ResourceSubAccount   Resource = "subaccount"
	ResourceTeam         Resource = "team"
	ResourcePermission   Resource = "permission"
	ResourceInvitation   Resource = "invitation"
	ResourceNotification Resource = "notification"
	ResourceMedia        Resource = "media"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

type grant map[Resource][]Action

var (
	rw  = []Action{ActionRead, ActionWrite}
	rwd = []Action{ActionRead, ActionWrite, ActionDelete}
	ro  = []Action{ActionRead}
)

var policy = map[model.Role]grant{
	model.RoleAgencyOwner: {
		ResourceAgency:       rwd,
		ResourceSubAccount:   rwd,
		ResourceTeam:         rwd,
		ResourcePermission:   rw,
		ResourceInvitation:   rw,
		ResourceNotification: rw,
		ResourceMedia:        rw,
	},
	model.RoleAgencyAdmin: {
		ResourceAgency:       rw,
		ResourceSubAccount:   rwd,
		ResourceTeam:         rwd,
		ResourcePermission:   rw,
		ResourceInvitation:   rw,
		ResourceNotification: rw,
		ResourceMedia:        rw,
	},
	model.RoleSubAccountUser: {
		ResourceAgency:       ro,
		ResourceSubAccount:   rw,
		ResourceNotification: rw,
		ResourceMedia:        rw,
	},
	model.RoleSubAccountGuest: {
		ResourceAgency:       ro,
		ResourceSubAccount:   ro,
		ResourceNotification: ro,
	},
}

// Allowed reports whether role may perform act on res.
func Allowed(role model.Role, res Resource, act Action) bool {
	for _, a := range policy[role][res] {
		if a == act {
			return true
		}
	}
	return false
}

// NeedsSubAccountGrant reports whether role reaches a sub-account only
// through an explicit permission with access.
func NeedsSubAccountGrant(role model.Role) bool {
	return role == model.RoleSubAccountUser || role == model.RoleSubAccountGuest
}
