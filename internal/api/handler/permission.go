package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/plura/dashboard/internal/api/request"
	"github.com/plura/dashboard/internal/api/response"
	"github.com/plura/dashboard/internal/core"
	"github.com/plura/dashboard/internal/model"
)

type Permission struct {
	svc         *core.PermissionService
	subAccounts *core.SubAccountService
	access      *Access
}

func NewPermission(svc *core.PermissionService, subAccounts *core.SubAccountService, access *Access) *Permission {
	return &Permission{svc: svc, subAccounts: subAccounts, access: access}
}

// Change godoc
//
//	@Summary		Grant or revoke a user's access to a sub-account
//	@Description	Repeating the call with the returned ID updates the same permission.
//	@Description	The email must belong to a member of the sub-account's agency.
//	@Tags			Permissions
//	@Security		SessionAuth
//	@Param			body body request.ChangePermission true "Permission"
//	@Success		200 {object} model.Permission
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		409 {object} response.ErrorResponse
//	@Router			/permissions [put]
func (h *Permission) Change(w http.ResponseWriter, r *http.Request) {
	var req request.ChangePermission
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := session(w, r); !ok {
		return
	}

	sa, err := h.subAccounts.GetByID(r.Context(), req.SubAccountID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if _, ok := h.access.agency(w, r, sa.AgencyID, core.ResourcePermission, core.ActionWrite); !ok {
		return
	}
	if !h.memberOf(w, r, req.Email, sa.AgencyID) {
		return
	}

	p, err := h.svc.Change(r.Context(), req.ID, req.Email, req.SubAccountID, req.Access)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	verb := "Removed"
	if p.Access {
		verb = "Gave"
	}
	h.access.record(r, model.ActivityLog{
		AgencyID:     sa.AgencyID,
		SubAccountID: sa.ID,
		Description:  fmt.Sprintf("%s %s access to | %s", verb, p.Email, sa.Name),
	})
	response.WriteJSON(w, http.StatusOK, p)
}

// memberOf requires email to belong to a member of agencyID.
func (h *Permission) memberOf(w http.ResponseWriter, r *http.Request, email, agencyID string) bool {
	u, err := h.access.users.GetByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		response.WriteServiceError(w, err)
		return false
	}
	if err != nil || u.AgencyID == nil || *u.AgencyID != agencyID {
		response.WriteError(w, http.StatusBadRequest, email+" is not a member of this agency")
		return false
	}
	return true
}
