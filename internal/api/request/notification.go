package request

import "github.com/plura/dashboard/internal/model"

// ActivityLog records an activity entry. At least one of AgencyID and
// SubAccountID is required.
type ActivityLog struct {
	AgencyID     string `json:"agency_id" validate:"required_without=SubAccountID"`
	SubAccountID string `json:"sub_account_id" validate:"required_without=AgencyID"`
	Description  string `json:"description" validate:"required,max=1000"`
}

func (a ActivityLog) Model() model.ActivityLog {
	return model.ActivityLog{
		AgencyID:     a.AgencyID,
		SubAccountID: a.SubAccountID,
		Description:  a.Description,
	}
}
