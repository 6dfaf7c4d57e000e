package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/plura/dashboard/internal/api/response"
	"github.com/plura/dashboard/internal/core"
	"github.com/plura/dashboard/internal/identity"
	"github.com/plura/dashboard/internal/model"
)

// Access resolves the caller's user record and applies the role policy to
// agency and sub-account scoped requests. Every check writes the error
// response itself and reports false when the request must stop.
type Access struct {
	users         *core.UserService
	subAccounts   *core.SubAccountService
	permissions   *core.PermissionService
	notifications *core.NotificationService
}

func NewAccess(svcs *core.Services) *Access {
	return &Access{
		users:         svcs.User,
		subAccounts:   svcs.SubAccount,
		permissions:   svcs.Permission,
		notifications: svcs.Notification,
	}
}

func session(w http.ResponseWriter, r *http.Request) (*identity.Identity, bool) {
	sess := identity.FromContext(r.Context())
	if sess == nil {
		response.WriteError(w, http.StatusUnauthorized, "missing session")
		return nil, false
	}
	return sess, true
}

// caller returns the signed-in user's record.
func (a *Access) caller(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	sess, ok := session(w, r)
	if !ok {
		return nil, false
	}
	u, err := a.users.GetByEmail(r.Context(), sess.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			response.WriteError(w, http.StatusForbidden, "user is not registered")
			return nil, false
		}
		response.WriteServiceError(w, err)
		return nil, false
	}
	return u, true
}

// agency checks that the caller belongs to agencyID and that their role
// allows act on res.
func (a *Access) agency(w http.ResponseWriter, r *http.Request, agencyID string, res core.Resource, act core.Action) (*model.User, bool) {
	u, ok := a.caller(w, r)
	if !ok {
		return nil, false
	}
	if u.AgencyID == nil || *u.AgencyID != agencyID {
		response.WriteError(w, http.StatusForbidden, "no access to this agency")
		return nil, false
	}
	if !core.Allowed(u.Role, res, act) {
		response.WriteError(w, http.StatusForbidden, "role "+string(u.Role)+" may not "+string(act)+" "+string(res))
		return nil, false
	}
	return u, true
}

// subAccount loads the sub-account, applies the agency check to its owning
// agency and, for sub-account roles, requires an access grant.
func (a *Access) subAccount(w http.ResponseWriter, r *http.Request, subAccountID string, res core.Resource, act core.Action) (*model.User, *model.SubAccount, bool) {
	if _, ok := session(w, r); !ok {
		return nil, nil, false
	}
	sa, err := a.subAccounts.GetByID(r.Context(), subAccountID)
	if err != nil {
		response.WriteServiceError(w, err)
		return nil, nil, false
	}
	u, ok := a.agency(w, r, sa.AgencyID, res, act)
	if !ok {
		return nil, nil, false
	}
	if !a.granted(w, r, u, sa.ID) {
		return nil, nil, false
	}
	return u, sa, true
}

func (a *Access) granted(w http.ResponseWriter, r *http.Request, u *model.User, subAccountID string) bool {
	if !core.NeedsSubAccountGrant(u.Role) {
		return true
	}
	ok, err := a.permissions.HasAccess(r.Context(), u.Email, subAccountID)
	if err != nil {
		response.WriteServiceError(w, err)
		return false
	}
	if !ok {
		response.WriteError(w, http.StatusForbidden, "no access to this sub-account")
		return false
	}
	return true
}

// record writes an activity notification. Failures are only logged.
func (a *Access) record(r *http.Request, entry model.ActivityLog) {
	ctx := r.Context()
	if _, err := a.notifications.SaveActivityLog(ctx, identity.FromContext(ctx), entry); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("description", entry.Description).Msg("failed to record activity")
	}
}
