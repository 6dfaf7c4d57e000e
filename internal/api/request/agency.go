package request

import "github.com/plura/dashboard/internal/model"

// UpsertAgency creates an agency, or replaces its details when ID names an
// existing one. An empty company email makes the upsert a no-op.
type UpsertAgency struct {
	ID               string  `json:"id"`
	ConnectAccountID *string `json:"connect_account_id"`
	CustomerID       *string `json:"customer_id"`
	Name             string  `json:"name" validate:"required,max=255"`
	AgencyLogo       string  `json:"agency_logo" validate:"omitempty,url"`
	CompanyEmail     string  `json:"company_email" validate:"omitempty,email"`
	CompanyPhone     string  `json:"company_phone" validate:"required"`
	WhiteLabel       bool    `json:"white_label"`
	Address          string  `json:"address" validate:"required"`
	City             string  `json:"city" validate:"required"`
	ZipCode          string  `json:"zip_code" validate:"required"`
	State            string  `json:"state" validate:"required"`
	Country          string  `json:"country" validate:"required"`
	Goal             int     `json:"goal" validate:"gte=0"`
}

func (u UpsertAgency) Model() *model.Agency {
	return &model.Agency{
		ID:               u.ID,
		ConnectAccountID: u.ConnectAccountID,
		CustomerID:       u.CustomerID,
		Name:             u.Name,
		AgencyLogo:       u.AgencyLogo,
		CompanyEmail:     u.CompanyEmail,
		CompanyPhone:     u.CompanyPhone,
		WhiteLabel:       u.WhiteLabel,
		Address:          u.Address,
		City:             u.City,
		ZipCode:          u.ZipCode,
		State:            u.State,
		Country:          u.Country,
		Goal:             u.Goal,
	}
}

type UpdateAgency struct {
	Name         *string `json:"name" validate:"omitempty,max=255"`
	AgencyLogo   *string `json:"agency_logo" validate:"omitempty,url"`
	CompanyEmail *string `json:"company_email" validate:"omitempty,email"`
	CompanyPhone *string `json:"company_phone"`
	WhiteLabel   *bool   `json:"white_label"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	ZipCode      *string `json:"zip_code"`
	State        *string `json:"state"`
	Country      *string `json:"country"`
	Goal         *int    `json:"goal" validate:"omitempty,gte=0"`

	ConnectAccountID *string `json:"connect_account_id"`
	CustomerID       *string `json:"customer_id"`
}

func (u UpdateAgency) Patch() model.AgencyPatch {
	return model.AgencyPatch{
		Name:         u.Name,
		AgencyLogo:   u.AgencyLogo,
		CompanyEmail: u.CompanyEmail,
		CompanyPhone: u.CompanyPhone,
		WhiteLabel:   u.WhiteLabel,
		Address:      u.Address,
		City:         u.City,
		ZipCode:      u.ZipCode,
		State:        u.State,
		Country:      u.Country,
		Goal:         u.Goal,

		ConnectAccountID: u.ConnectAccountID,
		CustomerID:       u.CustomerID,
	}
}
