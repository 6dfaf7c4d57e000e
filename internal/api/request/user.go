package request

import "github.com/plura/dashboard/internal/model"

// InitUser completes the signed-in user's record. Every field is optional;
// identity fields default to the session's. Role may only claim
// AGENCY_OWNER, ahead of creating an agency.
type InitUser struct {
	Name      *string `json:"name" validate:"omitempty,max=255"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
	Role      *string `json:"role" validate:"omitempty,role"`
}

func (u InitUser) Patch() model.UserPatch {
	return model.UserPatch{
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Role:      rolePtr(u.Role),
	}
}

// UpdateUser changes the user identified by Email.
type UpdateUser struct {
	Email     string  `json:"email" validate:"required,email"`
	Name      *string `json:"name" validate:"omitempty,max=255"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
	Role      *string `json:"role" validate:"omitempty,role"`
	AgencyID  *string `json:"agency_id"`
}

// ChangesMembership reports whether the update touches role or agency.
func (u UpdateUser) ChangesMembership() bool {
	return u.Role != nil || u.AgencyID != nil
}

func (u UpdateUser) Patch() model.UserPatch {
	return model.UserPatch{
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Role:      rolePtr(u.Role),
		AgencyID:  u.AgencyID,
	}
}

func rolePtr(s *string) *model.Role {
	if s == nil {
		return nil
	}
	r := model.Role(*s)
	return &r
}
