package model

import "time"

type Permission struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	SubAccountID string    `json:"sub_account_id"`
	Access       bool      `json:"access"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PermissionWithSubAccount is a permission joined with the sub-account it grants.
type PermissionWithSubAccount struct {
	Permission
	SubAccount SubAccount `json:"sub_account"`
}
