package request

// ChangePermission grants or revokes access to a sub-account. Sending the ID
// returned by a previous call updates that permission in place.
type ChangePermission struct {
	ID           string `json:"id"`
	Email        string `json:"email" validate:"required,email"`
	SubAccountID string `json:"sub_account_id" validate:"required"`
	Access       bool   `json:"access"`
}
