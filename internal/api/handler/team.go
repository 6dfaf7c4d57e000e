package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plura/dashboard/internal/api/request"
	"github.com/plura/dashboard/internal/api/response"
	"github.com/plura/dashboard/internal/core"
	"github.com/plura/dashboard/internal/model"
)

// Team serves agency members.
type Team struct {
	users  *core.UserService
	access *Access
}

func NewTeam(users *core.UserService, access *Access) *Team {
	return &Team{users: users, access: access}
}

// ListByAgency godoc
//
//	@Summary		List an agency's team, owner first
//	@Tags			Team
//	@Security		SessionAuth
//	@Param			id path string true "Agency ID"
//	@Success		200 {array} model.User
//	@Failure		403 {object} response.ErrorResponse
//	@Router			/agencies/{id}/team [get]
func (h *Team) ListByAgency(w http.ResponseWriter, r *http.Request) {
	agencyID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := h.access.agency(w, r, agencyID, core.ResourceTeam, core.ActionRead); !ok {
		return
	}

	users, err := h.users.ListByAgency(r.Context(), agencyID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}

	response.WriteJSON(w, http.StatusOK, users)
}

// membership guards role and agency changes. They need team write in the
// user's current agency, self edits included, and members stay in that agency.
func (h *Team) membership(w http.ResponseWriter, r *http.Request, u *model.User, agencyID *string) bool {
	if u.AgencyID == nil {
		response.WriteError(w, http.StatusForbidden, "no access to this user")
		return false
	}
	if _, ok := h.access.agency(w, r, *u.AgencyID, core.ResourceTeam, core.ActionWrite); !ok {
		return false
	}
	if agencyID != nil && *agencyID != *u.AgencyID {
		response.WriteError(w, http.StatusForbidden, "members cannot be moved to another agency")
		return false
	}
	return true
}

// target loads the user a team request acts on. Callers may always act on
// themselves; acting on anyone else needs act on the team of the user's agency.
func (h *Team) target(w http.ResponseWriter, r *http.Request, u *model.User, act core.Action) bool {
	caller, ok := h.access.caller(w, r)
	if !ok {
		return false
	}
	if caller.ID == u.ID {
		return true
	}
	if u.AgencyID == nil {
		response.WriteError(w, http.StatusForbidden, "no access to this user")
		return false
	}
	_, ok = h.access.agency(w, r, *u.AgencyID, core.ResourceTeam, act)
	return ok
}

// Get godoc
//
//	@Summary		Get a user
//	@Tags			Team
//	@Security		SessionAuth
//	@Param			id path string true "User ID"
//	@Success		200 {object} model.User
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/users/{id} [get]
func (h *Team) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := session(w, r); !ok {
		return
	}

	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if !h.target(w, r, u, core.ActionRead) {
		return
	}

	response.WriteJSON(w, http.StatusOK, u)
}

// Update godoc
//
//	@Summary		Update the user identified by email
//	@Description	Users may change their own name and avatar. Role and agency changes need team write access in the user's agency.
//	@Description	The stored role is mirrored into the identity provider.
//	@Tags			Team
//	@Security		SessionAuth
//	@Param			body body request.UpdateUser true "Fields to change"
//	@Success		200 {object} model.User
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/users [patch]
func (h *Team) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateUser
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := session(w, r); !ok {
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if req.ChangesMembership() {
		if !h.membership(w, r, u, req.AgencyID) {
			return
		}
	} else if !h.target(w, r, u, core.ActionWrite) {
		return
	}

	updated, err := h.users.Update(r.Context(), req.Patch())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	if updated.AgencyID != nil {
		h.access.record(r, model.ActivityLog{
			AgencyID:    *updated.AgencyID,
			Description: "Updated " + updated.Name + " information",
		})
	}
	response.WriteJSON(w, http.StatusOK, updated)
}

// Delete godoc
//
//	@Summary		Remove a user
//	@Description	Clears the user's role in the identity provider first.
//	@Tags			Team
//	@Security		SessionAuth
//	@Param			id path string true "User ID"
//	@Success		200 {object} model.User
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/users/{id} [delete]
func (h *Team) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := session(w, r); !ok {
		return
	}

	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if !h.target(w, r, u, core.ActionDelete) {
		return
	}

	deleted, err := h.users.Delete(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, deleted)
}

// Permissions godoc
//
//	@Summary		List a user's sub-account permissions
//	@Tags			Team
//	@Security		SessionAuth
//	@Param			id path string true "User ID"
//	@Success		200 {array} model.PermissionWithSubAccount
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/users/{id}/permissions [get]
func (h *Team) Permissions(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := session(w, r); !ok {
		return
	}

	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if !h.target(w, r, u, core.ActionRead) {
		return
	}

	perms, err := h.users.GetPermissions(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if perms == nil {
		perms = []model.PermissionWithSubAccount{}
	}

	response.WriteJSON(w, http.StatusOK, perms)
}
