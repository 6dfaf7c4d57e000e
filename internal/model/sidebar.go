package model

import "time"

type SidebarOption struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Link         string    `json:"link"`
	Icon         string    `json:"icon"`
	Position     int       `json:"position"`
	AgencyID     *string   `json:"agency_id,omitempty"`
	SubAccountID *string   `json:"sub_account_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NavKind selects whether navigation is composed for an agency or a sub-account.
type NavKind string

const (
	NavAgency     NavKind = "agency"
	NavSubAccount NavKind = "subaccount"
)

// Navigation is the composed sidebar for one agency or sub-account context.
type Navigation struct {
	Kind        NavKind         `json:"kind"`
	Logo        string          `json:"logo"`
	Options     []SidebarOption `json:"options"`
	SubAccounts []SubAccount    `json:"sub_accounts"`
	Agency      *Agency         `json:"agency"`
	SubAccount  *SubAccount     `json:"sub_account,omitempty"`
}
