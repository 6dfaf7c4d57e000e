package core

import (
	"strings"

	"github.com/plura/dashboard/internal/model"
)

const agencyColumns = `id, connect_account_id, customer_id, name, agency_logo, company_email, company_phone,
	white_label, address, city, zip_code, state, country, goal, created_at, updated_at`

func agencyDest(a *model.Agency) []any {
	return []any{&a.ID, &a.ConnectAccountID, &a.CustomerID, &a.Name, &a.AgencyLogo, &a.CompanyEmail,
		&a.CompanyPhone, &a.WhiteLabel, &a.Address, &a.City, &a.ZipCode, &a.State, &a.Country,
		&a.Goal, &a.CreatedAt, &a.UpdatedAt}
}

const subAccountColumns = `id, agency_id, connect_account_id, name, sub_account_logo, company_email, company_phone,
	goal, address, city, zip_code, state, country, created_at, updated_at`

func subAccountDest(s *model.SubAccount) []any {
	return []any{&s.ID, &s.AgencyID, &s.ConnectAccountID, &s.Name, &s.SubAccountLogo, &s.CompanyEmail,
		&s.CompanyPhone, &s.Goal, &s.Address, &s.City, &s.ZipCode, &s.State, &s.Country,
		&s.CreatedAt, &s.UpdatedAt}
}

const userColumns = `id, name, avatar_url, email, role, agency_id, created_at, updated_at`

func userDest(u *model.User) []any {
	return []any{&u.ID, &u.Name, &u.AvatarURL, &u.Email, &u.Role, &u.AgencyID, &u.CreatedAt, &u.UpdatedAt}
}

const permissionColumns = `id, email, sub_account_id, access, created_at, updated_at`

func permissionDest(p *model.Permission) []any {
	return []any{&p.ID, &p.Email, &p.SubAccountID, &p.Access, &p.CreatedAt, &p.UpdatedAt}
}

const invitationColumns = `id, email, agency_id, status, role, created_at, updated_at`

func invitationDest(i *model.Invitation) []any {
	return []any{&i.ID, &i.Email, &i.AgencyID, &i.Status, &i.Role, &i.CreatedAt, &i.UpdatedAt}
}

const notificationColumns = `id, notification, agency_id, sub_account_id, user_id, created_at`

func notificationDest(n *model.Notification) []any {
	return []any{&n.ID, &n.Notification, &n.AgencyID, &n.SubAccountID, &n.UserID, &n.CreatedAt}
}

const sidebarOptionColumns = `id, name, link, icon, position, agency_id, sub_account_id, created_at, updated_at`

func sidebarOptionDest(o *model.SidebarOption) []any {
	return []any{&o.ID, &o.Name, &o.Link, &o.Icon, &o.Position, &o.AgencyID, &o.SubAccountID, &o.CreatedAt, &o.UpdatedAt}
}

// prefixed qualifies every column in a column list with alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
