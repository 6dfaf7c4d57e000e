package model

import "time"

type Notification struct {
	ID           string    `json:"id"`
	Notification string    `json:"notification"`
	AgencyID     string    `json:"agency_id"`
	SubAccountID *string   `json:"sub_account_id"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// NotificationWithUser is a notification with the user that caused it.
type NotificationWithUser struct {
	Notification
	User User `json:"user"`
}

// ActivityLog is a request to record a human readable activity entry.
// At least one of AgencyID and SubAccountID must be set.
type ActivityLog struct {
	AgencyID     string
	SubAccountID string
	Description  string
}
