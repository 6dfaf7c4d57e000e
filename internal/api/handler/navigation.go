package handler

import (
	"net/http"

	"github.com/plura/dashboard/internal/api/response"
	"github.com/plura/dashboard/internal/core"
	"github.com/plura/dashboard/internal/model"
)

type Navigation struct {
	auth *core.AuthService
	nav  *core.NavigationService
}

func NewNavigation(auth *core.AuthService, nav *core.NavigationService) *Navigation {
	return &Navigation{auth: auth, nav: nav}
}

// Get godoc
//
//	@Summary		Compose the sidebar for an agency or sub-account
//	@Description	Returns the logo, sidebar options and the sub-accounts the caller holds access grants for.
//	@Tags			Navigation
//	@Security		SessionAuth
//	@Param			type query string true "agency or subaccount"
//	@Param			id query string true "Agency or sub-account ID"
//	@Success		200 {object} model.Navigation
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/navigation [get]
func (h *Navigation) Get(w http.ResponseWriter, r *http.Request) {
	kind := model.NavKind(r.URL.Query().Get("type"))
	id := r.URL.Query().Get("id")
	if kind != model.NavAgency && kind != model.NavSubAccount {
		response.WriteError(w, http.StatusBadRequest, "type must be agency or subaccount")
		return
	}
	if id == "" {
		response.WriteError(w, http.StatusBadRequest, "missing required ID")
		return
	}

	sess, ok := session(w, r)
	if !ok {
		return
	}

	details, err := h.auth.GetAuthUserDetails(r.Context(), sess)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	nav, err := h.nav.Compose(details, kind, id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, nav)
}
