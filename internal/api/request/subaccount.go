package request

import "github.com/plura/dashboard/internal/model"

// UpsertSubAccount creates a sub-account under the agency in the URL, or
// replaces its details when ID names an existing one.
type UpsertSubAccount struct {
	ID               string  `json:"id"`
	ConnectAccountID *string `json:"connect_account_id"`
	Name             string  `json:"name" validate:"required,max=255"`
	SubAccountLogo   string  `json:"sub_account_logo" validate:"omitempty,url"`
	CompanyEmail     string  `json:"company_email" validate:"omitempty,email"`
	CompanyPhone     string  `json:"company_phone" validate:"required"`
	Address          string  `json:"address" validate:"required"`
	City             string  `json:"city" validate:"required"`
	ZipCode          string  `json:"zip_code" validate:"required"`
	State            string  `json:"state" validate:"required"`
	Country          string  `json:"country" validate:"required"`
	Goal             int     `json:"goal" validate:"gte=0"`
}

func (u UpsertSubAccount) Model(agencyID string) *model.SubAccount {
	return &model.SubAccount{
		ID:               u.ID,
		AgencyID:         agencyID,
		ConnectAccountID: u.ConnectAccountID,
		Name:             u.Name,
		SubAccountLogo:   u.SubAccountLogo,
		CompanyEmail:     u.CompanyEmail,
		CompanyPhone:     u.CompanyPhone,
		Address:          u.Address,
		City:             u.City,
		ZipCode:          u.ZipCode,
		State:            u.State,
		Country:          u.Country,
		Goal:             u.Goal,
	}
}
