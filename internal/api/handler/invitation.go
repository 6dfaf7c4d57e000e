package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plura/dashboard/internal/api/request"
	"github.com/plura/dashboard/internal/api/response"
	"github.com/plura/dashboard/internal/core"
	"github.com/plura/dashboard/internal/identity"
	"github.com/plura/dashboard/internal/model"
)

type Invitation struct {
	svc       *core.InvitationService
	access    *Access
	signInURL string
}

func NewInvitation(svc *core.InvitationService, access *Access, signInURL string) *Invitation {
	return &Invitation{svc: svc, access: access, signInURL: signInURL}
}

// AcceptResponse names the agency the caller belongs to after accepting.
// AgencyID is empty when the caller has no agency yet.
type AcceptResponse struct {
	AgencyID string `json:"agency_id"`
}

// Accept godoc
//
//	@Summary		Accept the pending invitation for the signed-in email
//	@Description	Without an invitation the caller's existing agency is returned. Unauthenticated callers get 401 with a Location header pointing at the sign-in page.
//	@Tags			Invitations
//	@Security		SessionAuth
//	@Success		200 {object} handler.AcceptResponse
//	@Failure		401 {object} response.ErrorResponse
//	@Router			/invitations/accept [post]
func (h *Invitation) Accept(w http.ResponseWriter, r *http.Request) {
	sess := identity.FromContext(r.Context())
	if sess == nil {
		w.Header().Set("Location", h.signInURL)
		response.WriteError(w, http.StatusUnauthorized, "sign in to accept the invitation")
		return
	}

	agencyID, err := h.svc.VerifyAndAccept(r.Context(), sess)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, AcceptResponse{AgencyID: agencyID})
}

// Send godoc
//
//	@Summary		Invite someone to the agency
//	@Description	Records a pending invitation and asks the identity provider to email it.
//	@Tags			Invitations
//	@Security		SessionAuth
//	@Param			id path string true "Agency ID"
//	@Param			body body request.SendInvitation true "Invitee"
//	@Success		201 {object} model.Invitation
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		409 {object} response.ErrorResponse
//	@Router			/agencies/{id}/invitations [post]
func (h *Invitation) Send(w http.ResponseWriter, r *http.Request) {
	agencyID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.SendInvitation
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, ok := h.access.agency(w, r, agencyID, core.ResourceInvitation, core.ActionWrite); !ok {
		return
	}

	inv, err := h.svc.Send(r.Context(), model.Role(req.Role), req.Email, agencyID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	h.access.record(r, model.ActivityLog{AgencyID: agencyID, Description: "Invited " + req.Email})
	response.WriteJSON(w, http.StatusCreated, inv)
}

// ListPending godoc
//
//	@Summary		List an agency's pending invitations
//	@Tags			Invitations
//	@Security		SessionAuth
//	@Param			id path string true "Agency ID"
//	@Success		200 {array} model.Invitation
//	@Failure		403 {object} response.ErrorResponse
//	@Router			/agencies/{id}/invitations [get]
func (h *Invitation) ListPending(w http.ResponseWriter, r *http.Request) {
	agencyID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := h.access.agency(w, r, agencyID, core.ResourceTeam, core.ActionRead); !ok {
		return
	}

	invs, err := h.svc.ListPending(r.Context(), agencyID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if invs == nil {
		invs = []model.Invitation{}
	}

	response.WriteJSON(w, http.StatusOK, invs)
}
