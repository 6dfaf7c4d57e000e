package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plura/dashboard/internal/api/request"
	"github.com/plura/dashboard/internal/api/response"
	"github.com/plura/dashboard/internal/core"
)

type Dashboard struct {
	svc    *core.DashboardService
	access *Access
}

func NewDashboard(svc *core.DashboardService, access *Access) *Dashboard {
	return &Dashboard{svc: svc, access: access}
}

// Stats godoc
//
//	@Summary		Get agency dashboard statistics
//	@Description	Counts of sub-accounts, team members, pending invitations and the last seven days of activity, plus launchpad status.
//	@Tags			Dashboard
//	@Security		SessionAuth
//	@Param			id path string true "Agency ID"
//	@Success		200 {object} core.DashboardStats
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/agencies/{id}/dashboard [get]
func (h *Dashboard) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := h.access.agency(w, r, id, core.ResourceTeam, core.ActionRead); !ok {
		return
	}

	stats, err := h.svc.AgencyStats(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, stats)
}
