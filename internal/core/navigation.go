package core

import (
	"fmt"

	"github.com/plura/dashboard/internal/model"
)

const defaultLogo = "/assets/logo.png"

type NavigationService struct{}

func NewNavigationService() *NavigationService {
	return &NavigationService{}
}

// Compose builds the sidebar for the agency or sub-account identified by id,
// as seen by the user in details.
func (s *NavigationService) Compose(details *model.AuthUserDetails, kind model.NavKind, id string) (*model.Navigation, error) {
	if details == nil {
		return nil, ErrUnauthenticated
	}
	agency := details.Agency
	if agency == nil {
		return nil, fmt.Errorf("user %s has no agency: %w", details.ID, ErrNotFound)
	}

	nav := &model.Navigation{
		Kind:        kind,
		Logo:        defaultLogo,
		Agency:      agency,
		SubAccounts: accessibleSubAccounts(agency.SubAccounts, details.Permissions),
	}
	if agency.AgencyLogo != "" {
		nav.Logo = agency.AgencyLogo
	}

	switch kind {
	case model.NavAgency:
		if id != "" && id != agency.ID {
			return nil, fmt.Errorf("agency %s: %w", id, ErrNotFound)
		}
		nav.Options = agency.SidebarOptions

	case model.NavSubAccount:
		var sub *model.SubAccount
		for i := range agency.SubAccounts {
			if agency.SubAccounts[i].ID == id {
				sub = &agency.SubAccounts[i]
				break
			}
		}
		if sub == nil {
			return nil, fmt.Errorf("sub-account %s: %w", id, ErrNotFound)
		}
		if NeedsSubAccountGrant(details.Role) && !hasGrant(details.Permissions, sub.ID) {
			return nil, fmt.Errorf("sub-account %s: %w", id, ErrForbidden)
		}
		if !agency.WhiteLabel && sub.SubAccountLogo != "" {
			nav.Logo = sub.SubAccountLogo
		}
		nav.SubAccount = sub
		nav.Options = sub.SidebarOptions

	default:
		return nil, fmt.Errorf("navigation kind %q: %w", kind, ErrInvalid)
	}

	if nav.Options == nil {
		nav.Options = []model.SidebarOption{}
	}
	return nav, nil
}

func accessibleSubAccounts(subs []model.SubAccount, perms []model.Permission) []model.SubAccount {
	out := []model.SubAccount{}
	for _, sa := range subs {
		if hasGrant(perms, sa.ID) {
			out = append(out, sa)
		}
	}
	return out
}

func hasGrant(perms []model.Permission, subAccountID string) bool {
	for _, p := range perms {
		if p.SubAccountID == subAccountID && p.Access {
			return true
		}
	}
	return false
}
