package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plura/dashboard/internal/api/request"
	"github.com/plura/dashboard/internal/api/response"
	"github.com/plura/dashboard/internal/core"
	"github.com/plura/dashboard/internal/model"
)

type SubAccount struct {
	svc         *core.SubAccountService
	permissions *core.PermissionService
	access      *Access
}

func NewSubAccount(svc *core.SubAccountService, permissions *core.PermissionService, access *Access) *SubAccount {
	return &SubAccount{svc: svc, permissions: permissions, access: access}
}

// ListByAgency godoc
//
//	@Summary		List an agency's sub-accounts
//	@Description	Sub-account roles only see sub-accounts they hold an access grant for.
//	@Tags			Sub-accounts
//	@Security		SessionAuth
//	@Param			id path string true "Agency ID"
//	@Success		200 {array} model.SubAccount
//	@Failure		403 {object} response.ErrorResponse
//	@Router			/agencies/{id}/subaccounts [get]
func (h *SubAccount) ListByAgency(w http.ResponseWriter, r *http.Request) {
	agencyID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, ok := h.access.agency(w, r, agencyID, core.ResourceSubAccount, core.ActionRead)
	if !ok {
		return
	}

	subs, err := h.svc.ListByAgency(r.Context(), agencyID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	if core.NeedsSubAccountGrant(u.Role) {
		perms, err := h.permissions.ListByEmail(r.Context(), u.Email)
		if err != nil {
			response.WriteServiceError(w, err)
			return
		}
		subs = filterGranted(subs, perms)
	}
	if subs == nil {
		subs = []model.SubAccount{}
	}

	response.WriteJSON(w, http.StatusOK, subs)
}

func filterGranted(subs []model.SubAccount, perms []model.Permission) []model.SubAccount {
	granted := make(map[string]bool, len(perms))
	for _, p := range perms {
		if p.Access {
			granted[p.SubAccountID] = true
		}
	}
	out := []model.SubAccount{}
	for _, sa := range subs {
		if granted[sa.ID] {
			out = append(out, sa)
		}
	}
	return out
}

// Upsert godoc
//
//	@Summary		Create a sub-account or replace its details
//	@Description	Creating seeds the owner's permission, a default pipeline and the sidebar.
//	@Description	Without a company email or an agency owner nothing is stored and 204 is returned.
//	@Tags			Sub-accounts
//	@Security		SessionAuth
//	@Param			id path string true "Agency ID"
//	@Param			body body request.UpsertSubAccount true "Sub-account details"
//	@Success		200 {object} model.SubAccount
//	@Success		204
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/agencies/{id}/subaccounts [post]
func (h *SubAccount) Upsert(w http.ResponseWriter, r *http.Request) {
	agencyID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.UpsertSubAccount
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, ok := h.access.agency(w, r, agencyID, core.ResourceSubAccount, core.ActionWrite)
	if !ok {
		return
	}
	if core.NeedsSubAccountGrant(u.Role) {
		if req.ID == "" {
			response.WriteError(w, http.StatusForbidden, "role "+string(u.Role)+" may not create sub-accounts")
			return
		}
		if !h.access.granted(w, r, u, req.ID) {
			return
		}
	}

	sa, err := h.svc.Upsert(r.Context(), req.Model(agencyID))
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if sa == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.access.record(r, model.ActivityLog{
		AgencyID:     agencyID,
		SubAccountID: sa.ID,
		Description:  "Updated sub account | " + sa.Name,
	})
	response.WriteJSON(w, http.StatusOK, sa)
}

// Get godoc
//
//	@Summary		Get a sub-account
//	@Tags			Sub-accounts
//	@Security		SessionAuth
//	@Param			id path string true "Sub-account ID"
//	@Success		200 {object} model.SubAccount
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/subaccounts/{id} [get]
func (h *SubAccount) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, sa, ok := h.access.subAccount(w, r, id, core.ResourceSubAccount, core.ActionRead)
	if !ok {
		return
	}

	response.WriteJSON(w, http.StatusOK, sa)
}

// Delete godoc
//
//	@Summary		Delete a sub-account
//	@Tags			Sub-accounts
//	@Security		SessionAuth
//	@Param			id path string true "Sub-account ID"
//	@Success		200 {object} model.SubAccount
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/subaccounts/{id} [delete]
func (h *SubAccount) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, sa, ok := h.access.subAccount(w, r, id, core.ResourceSubAccount, core.ActionDelete)
	if !ok {
		return
	}

	deleted, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	h.access.record(r, model.ActivityLog{
		AgencyID:    sa.AgencyID,
		Description: "Deleted a subaccount | " + sa.Name,
	})
	response.WriteJSON(w, http.StatusOK, deleted)
}
