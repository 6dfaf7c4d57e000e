package model

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	AgencyID  *string   `json:"agency_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserPatch identifies a user by email and carries the fields to change.
type UserPatch struct {
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
	Role      *Role   `json:"role"`
	AgencyID  *string `json:"agency_id"`
}

// AuthUserDetails is the signed-in user with the agency tree and permissions
// needed to render the dashboard.
type AuthUserDetails struct {
	User
	Agency      *Agency      `json:"agency"`
	Permissions []Permission `json:"permissions"`
}
