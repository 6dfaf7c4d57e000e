package core

type Services struct {
	Agency       *AgencyService
	SubAccount   *SubAccountService
	User         *UserService
	Permission   *PermissionService
	Notification *NotificationService
	Invitation   *InvitationService
	Auth         *AuthService
	Navigation   *NavigationService
	Dashboard    *DashboardService
}

// NewServices wires the services over one database and identity provider.
// redirectURL is where invitation emails send the recipient.
func NewServices(db DB, idp IdentityProvider, redirectURL string) *Services {
	agencies := NewAgencyService(db)
	subAccounts := NewSubAccountService(db)
	users := NewUserService(db, idp)
	permissions := NewPermissionService(db)
	notifications := NewNotificationService(db)

	return &Services{
		Agency:       agencies,
		SubAccount:   subAccounts,
		User:         users,
		Permission:   permissions,
		Notification: notifications,
		Invitation:   NewInvitationService(db, users, notifications, idp, redirectURL),
		Auth:         NewAuthService(db, agencies, subAccounts, permissions),
		Navigation:   NewNavigationService(),
		Dashboard:    NewDashboardService(db),
	}
}
