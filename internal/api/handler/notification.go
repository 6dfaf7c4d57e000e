package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/plura/dashboard/internal/api/request"
	"github.com/plura/dashboard/internal/api/response"
	"github.com/plura/dashboard/internal/core"
	"github.com/plura/dashboard/internal/model"
)

type Notification struct {
	svc            *core.NotificationService
	access         *Access
	pollInterval   time.Duration
	originPatterns []string
}

func NewNotification(svc *core.NotificationService, access *Access, pollInterval time.Duration, originPatterns []string) *Notification {
	return &Notification{
		svc:            svc,
		access:         access,
		pollInterval:   pollInterval,
		originPatterns: originPatterns,
	}
}

// ListByAgency godoc
//
//	@Summary		List an agency's notifications with their users, newest first
//	@Tags			Notifications
//	@Security		SessionAuth
//	@Param			id path string true "Agency ID"
//	@Success		200 {array} model.NotificationWithUser
//	@Failure		403 {object} response.ErrorResponse
//	@Router			/agencies/{id}/notifications [get]
func (h *Notification) ListByAgency(w http.ResponseWriter, r *http.Request) {
	agencyID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := h.access.agency(w, r, agencyID, core.ResourceNotification, core.ActionRead); !ok {
		return
	}

	list, err := h.svc.ListByAgency(r.Context(), agencyID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if list == nil {
		list = []model.NotificationWithUser{}
	}

	response.WriteJSON(w, http.StatusOK, list)
}

// Create godoc
//
//	@Summary		Record an activity notification
//	@Description	The text is prefixed with the acting user's name. When no user can be resolved nothing is stored and 204 is returned.
//	@Tags			Notifications
//	@Security		SessionAuth
//	@Param			body body request.ActivityLog true "Activity"
//	@Success		201 {object} model.Notification
//	@Success		204
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		403 {object} response.ErrorResponse
//	@Router			/notifications [post]
func (h *Notification) Create(w http.ResponseWriter, r *http.Request) {
	var req request.ActivityLog
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, ok := session(w, r)
	if !ok {
		return
	}
	if req.SubAccountID != "" {
		_, sa, ok := h.access.subAccount(w, r, req.SubAccountID, core.ResourceNotification, core.ActionWrite)
		if !ok {
			return
		}
		if req.AgencyID != "" && req.AgencyID != sa.AgencyID {
			response.WriteError(w, http.StatusBadRequest, "sub-account does not belong to the agency")
			return
		}
	} else if _, ok := h.access.agency(w, r, req.AgencyID, core.ResourceNotification, core.ActionWrite); !ok {
		return
	}

	n, err := h.svc.SaveActivityLog(r.Context(), sess, req.Model())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if n == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	response.WriteJSON(w, http.StatusCreated, n)
}

// Stream godoc
//
//	@Summary		Stream new notifications over a WebSocket
//	@Description	Each message is a model.NotificationWithUser newer than the agency's latest notification at connect time, in (created_at, id) order. Browsers pass the session token as the token query parameter.
//	@Tags			Notifications
//	@Security		SessionAuth
//	@Param			id path string true "Agency ID"
//	@Param			token query string false "Session token"
//	@Success		101
//	@Failure		403 {object} response.ErrorResponse
//	@Router			/agencies/{id}/notifications/stream [get]
func (h *Notification) Stream(w http.ResponseWriter, r *http.Request) {
	agencyID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := h.access.agency(w, r, agencyID, core.ResourceNotification, core.ActionRead); !ok {
		return
	}
	cursor, err := h.svc.LatestCursor(r.Context(), agencyID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		return // Accept already wrote the HTTP error
	}
	defer conn.CloseNow()

	// The feed is one-way; CloseRead cancels ctx when the client goes away.
	ctx := conn.CloseRead(r.Context())

	if err := h.feed(ctx, conn, agencyID, cursor); err != nil && ctx.Err() == nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("agency_id", agencyID).Msg("notification stream ended")
		conn.Close(websocket.StatusInternalError, "notification feed failed")
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

func (h *Notification) feed(ctx context.Context, conn *websocket.Conn, agencyID string, cursor core.NotificationCursor) error {
	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		list, err := h.svc.ListAfter(ctx, agencyID, cursor)
		if err != nil {
			return err
		}
		for _, n := range list {
			if err := wsjson.Write(ctx, conn, n); err != nil {
				return err
			}
			cursor.Advance(n.Notification)
		}
	}
}
