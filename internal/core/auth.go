package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/plura/dashboard/internal/identity"
	"github.com/plura/dashboard/internal/model"
)

type AuthService struct {
	db          DB
	agencies    *AgencyService
	subAccounts *SubAccountService
	permissions *PermissionService
}

func NewAuthService(db DB, agencies *AgencyService, subAccounts *SubAccountService, permissions *PermissionService) *AuthService {
	return &AuthService{
		db:          db,
		agencies:    agencies,
		subAccounts: subAccounts,
		permissions: permissions,
	}
}

// GetAuthUserDetails loads the signed-in user with their agency, its
// sub-accounts, every sidebar option and the user's permissions. It returns
// nil without a session.
func (s *AuthService) GetAuthUserDetails(ctx context.Context, sess *identity.Identity) (*model.AuthUserDetails, error) {
	if sess == nil {
		return nil, nil
	}

	var d model.AuthUserDetails
	err := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, sess.Email).Scan(userDest(&d.User)...)
	if err != nil {
		return nil, fmt.Errorf("get auth user %s: %w", sess.Email, mapDBError(err))
	}

	var (
		agency      *model.Agency
		agencyOpts  []model.SidebarOption
		subs        []model.SubAccount
		subOpts     []model.SidebarOption
		permissions []model.Permission
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		permissions, err = s.permissions.ListByEmail(gctx, d.Email)
		return err
	})
	if d.AgencyID != nil {
		agencyID := *d.AgencyID
		g.Go(func() error {
			var err error
			agency, err = s.agencies.GetByID(gctx, agencyID)
			return err
		})
		g.Go(func() error {
			var err error
			agencyOpts, err = listSidebarOptions(gctx, s.db, "agency_id", agencyID)
			return err
		})
		g.Go(func() error {
			var err error
			subs, err = s.subAccounts.ListByAgency(gctx, agencyID)
			return err
		})
		g.Go(func() error {
			var err error
			subOpts, err = s.subAccountSidebarOptions(gctx, agencyID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load details for %s: %w", sess.Email, err)
	}

	d.Permissions = permissions
	if agency != nil {
		byOwner := make(map[string][]model.SidebarOption)
		for _, o := range subOpts {
			if o.SubAccountID != nil {
				byOwner[*o.SubAccountID] = append(byOwner[*o.SubAccountID], o)
			}
		}
		for i := range subs {
			subs[i].SidebarOptions = byOwner[subs[i].ID]
		}
		agency.SidebarOptions = agencyOpts
		agency.SubAccounts = subs
		d.Agency = agency
	}
	return &d, nil
}

func (s *AuthService) subAccountSidebarOptions(ctx context.Context, agencyID string) ([]model.SidebarOption, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+prefixed("so", sidebarOptionColumns)+`
		 FROM sidebar_options so JOIN sub_accounts sa ON sa.id = so.sub_account_id
		 WHERE sa.agency_id = $1
		 ORDER BY so.sub_account_id, so.position`, agencyID)
	if err != nil {
		return nil, fmt.Errorf("list sub-account sidebar options: %w", err)
	}
	defer rows.Close()

	var opts []model.SidebarOption
	for rows.Next() {
		var o model.SidebarOption
		if err := rows.Scan(sidebarOptionDest(&o)...); err != nil {
			return nil, fmt.Errorf("scan sidebar option: %w", err)
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}
