package model

import "time"

type Invitation struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	AgencyID  string    `json:"agency_id"`
	Status    string    `json:"status"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
