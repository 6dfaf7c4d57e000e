package model

import "time"

type SubAccount struct {
	ID               string          `json:"id"`
	AgencyID         string          `json:"agency_id"`
	ConnectAccountID *string         `json:"connect_account_id"`
	Name             string          `json:"name"`
	SubAccountLogo   string          `json:"sub_account_logo"`
	CompanyEmail     string          `json:"company_email"`
	CompanyPhone     string          `json:"company_phone"`
	Goal             int             `json:"goal"`
	Address          string          `json:"address"`
	City             string          `json:"city"`
	ZipCode          string          `json:"zip_code"`
	State            string          `json:"state"`
	Country          string          `json:"country"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	SidebarOptions   []SidebarOption `json:"sidebar_options,omitempty"`
}

type Pipeline struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SubAccountID string    `json:"sub_account_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
