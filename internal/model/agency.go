package model

import "time"

type Agency struct {
	ID               string          `json:"id"`
	ConnectAccountID *string         `json:"connect_account_id"`
	CustomerID       *string         `json:"customer_id"`
	Name             string          `json:"name"`
	AgencyLogo       string          `json:"agency_logo"`
	CompanyEmail     string          `json:"company_email"`
	CompanyPhone     string          `json:"company_phone"`
	WhiteLabel       bool            `json:"white_label"`
	Address          string          `json:"address"`
	City             string          `json:"city"`
	ZipCode          string          `json:"zip_code"`
	State            string          `json:"state"`
	Country          string          `json:"country"`
	Goal             int             `json:"goal"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	SubAccounts      []SubAccount    `json:"sub_accounts,omitempty"`
	SidebarOptions   []SidebarOption `json:"sidebar_options,omitempty"`
}

// AgencyPatch carries a partial update of agency details. Nil fields are left unchanged.
type AgencyPatch struct {
	Name             *string `json:"name"`
	AgencyLogo       *string `json:"agency_logo"`
	CompanyEmail     *string `json:"company_email"`
	CompanyPhone     *string `json:"company_phone"`
	WhiteLabel       *bool   `json:"white_label"`
	Address          *string `json:"address"`
	City             *string `json:"city"`
	ZipCode          *string `json:"zip_code"`
	State            *string `json:"state"`
	Country          *string `json:"country"`
	Goal             *int    `json:"goal"`
	ConnectAccountID *string `json:"connect_account_id"`
	CustomerID       *string `json:"customer_id"`
}
