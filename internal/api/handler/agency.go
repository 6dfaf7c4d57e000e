package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/plura/dashboard/internal/api/request"
	"github.com/plura/dashboard/internal/api/response"
	"github.com/plura/dashboard/internal/core"
	"github.com/plura/dashboard/internal/model"
)

type Agency struct {
	svc    *core.AgencyService
	access *Access
}

func NewAgency(svc *core.AgencyService, access *Access) *Agency {
	return &Agency{svc: svc, access: access}
}

// Upsert godoc
//
//	@Summary		Create an agency or replace its details
//	@Description	A user without an agency creates one and becomes linked to it. Members may only target their own agency.
//	@Description	Without a company email nothing is stored and 204 is returned.
//	@Tags			Agencies
//	@Security		SessionAuth
//	@Param			body body request.UpsertAgency true "Agency details"
//	@Success		200 {object} model.Agency
//	@Success		204
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		403 {object} response.ErrorResponse
//	@Router			/agencies [post]
func (h *Agency) Upsert(w http.ResponseWriter, r *http.Request) {
	var req request.UpsertAgency
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, ok := h.access.caller(w, r)
	if !ok {
		return
	}
	if u.AgencyID != nil {
		if req.ID != "" && req.ID != *u.AgencyID {
			response.WriteError(w, http.StatusForbidden, "no access to this agency")
			return
		}
		if !core.Allowed(u.Role, core.ResourceAgency, core.ActionWrite) {
			response.WriteError(w, http.StatusForbidden, "role "+string(u.Role)+" may not write agency")
			return
		}
		req.ID = *u.AgencyID
	} else if !h.creatable(w, r, u, &req) {
		return
	}

	agency, err := h.svc.Upsert(r.Context(), req.Model())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if agency == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	response.WriteJSON(w, http.StatusOK, agency)
}

// creatable checks a user outside any agency creating one. The company email
// decides who is attached to the new agency, so it must be the caller's, and
// an existing agency id cannot be claimed.
func (h *Agency) creatable(w http.ResponseWriter, r *http.Request, u *model.User, req *request.UpsertAgency) bool {
	if req.CompanyEmail != "" {
		if !strings.EqualFold(req.CompanyEmail, u.Email) {
			response.WriteError(w, http.StatusForbidden, "company email must be your own when creating an agency")
			return false
		}
		req.CompanyEmail = u.Email
	}
	if req.ID == "" {
		return true
	}
	if _, err := h.svc.GetByID(r.Context(), req.ID); err == nil {
		response.WriteError(w, http.StatusForbidden, "no access to this agency")
		return false
	} else if !errors.Is(err, core.ErrNotFound) {
		response.WriteServiceError(w, err)
		return false
	}
	return true
}

// Get godoc
//
//	@Summary		Get an agency
//	@Tags			Agencies
//	@Security		SessionAuth
//	@Param			id path string true "Agency ID"
//	@Success		200 {object} model.Agency
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/agencies/{id} [get]
func (h *Agency) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := h.access.agency(w, r, id, core.ResourceAgency, core.ActionRead); !ok {
		return
	}

	agency, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, agency)
}

// Update godoc
//
//	@Summary		Update agency details
//	@Tags			Agencies
//	@Security		SessionAuth
//	@Param			id path string true "Agency ID"
//	@Param			body body request.UpdateAgency true "Fields to change"
//	@Success		200 {object} model.Agency
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/agencies/{id} [patch]
func (h *Agency) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.UpdateAgency
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, ok := h.access.agency(w, r, id, core.ResourceAgency, core.ActionWrite); !ok {
		return
	}

	agency, err := h.svc.UpdateDetails(r.Context(), id, req.Patch())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	h.access.record(r, model.ActivityLog{AgencyID: id, Description: "Updated agency details"})
	response.WriteJSON(w, http.StatusOK, agency)
}

// Delete godoc
//
//	@Summary		Delete an agency with its sub-accounts, invitations and notifications
//	@Tags			Agencies
//	@Security		SessionAuth
//	@Param			id path string true "Agency ID"
//	@Success		200 {object} model.Agency
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/agencies/{id} [delete]
func (h *Agency) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := h.access.agency(w, r, id, core.ResourceAgency, core.ActionDelete); !ok {
		return
	}

	agency, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, agency)
}
