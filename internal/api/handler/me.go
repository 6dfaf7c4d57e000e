package handler

import (
	"errors"
	"net/http"

	"github.com/plura/dashboard/internal/api/request"
	"github.com/plura/dashboard/internal/api/response"
	"github.com/plura/dashboard/internal/core"
	"github.com/plura/dashboard/internal/identity"
	"github.com/plura/dashboard/internal/model"
)

type Me struct {
	auth  *core.AuthService
	users *core.UserService
}

func NewMe(auth *core.AuthService, users *core.UserService) *Me {
	return &Me{auth: auth, users: users}
}

// Get godoc
//
//	@Summary		Get the signed-in user with agency, sub-accounts, sidebar and permissions
//	@Tags			Me
//	@Security		SessionAuth
//	@Success		200 {object} model.AuthUserDetails
//	@Failure		401 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/me [get]
func (h *Me) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}

	details, err := h.auth.GetAuthUserDetails(r.Context(), sess)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, details)
}

// Init godoc
//
//	@Summary		Create or update the signed-in user's record
//	@Description	Identity fields default to the session's. The resulting role is mirrored into the identity provider.
//	@Description	The only role that can be claimed is AGENCY_OWNER, and only by a user who has not joined an agency.
//	@Tags			Me
//	@Security		SessionAuth
//	@Param			body body request.InitUser true "User fields"
//	@Success		200 {object} model.User
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		401 {object} response.ErrorResponse
//	@Failure		403 {object} response.ErrorResponse
//	@Router			/me [post]
func (h *Me) Init(w http.ResponseWriter, r *http.Request) {
	var req request.InitUser
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, ok := session(w, r)
	if !ok {
		return
	}

	if req.Role != nil && !h.mayClaim(w, r, sess, model.Role(*req.Role)) {
		return
	}

	u, err := h.users.Init(r.Context(), sess, req.Patch())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, u)
}

// mayClaim allows a user outside any agency to become AGENCY_OWNER before
// creating one. Every other role comes from an invitation or an admin.
func (h *Me) mayClaim(w http.ResponseWriter, r *http.Request, sess *identity.Identity, role model.Role) bool {
	if role != model.RoleAgencyOwner {
		response.WriteError(w, http.StatusForbidden, "role "+string(role)+" is assigned by an agency admin")
		return false
	}

	existing, err := h.users.GetByEmail(r.Context(), sess.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return true
		}
		response.WriteServiceError(w, err)
		return false
	}
	if existing.AgencyID != nil && existing.Role != model.RoleAgencyOwner {
		response.WriteError(w, http.StatusForbidden, "members of an agency cannot claim ownership")
		return false
	}
	return true
}
