package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/plura/dashboard/internal/model"
	"github.com/plura/dashboard/internal/platform"
)

type sidebarSeed struct {
	name, icon, link string
}

func agencySidebar(agencyID string) []sidebarSeed {
	base := "/agency/" + agencyID
	return []sidebarSeed{
		{"Dashboard", "category", base},
		{"Launchpad", "launchpad", base + "/launchpad"},
		{"Billing", "payment", base + "/billing"},
		{"Settings", "settings", base + "/settings"},
		{"Sub Accounts", "person", base + "/all-subaccounts"},
		{"Team", "shield", base + "/team"},
	}
}

func subAccountSidebar(subAccountID string) []sidebarSeed {
	base := "/subaccount/" + subAccountID
	return []sidebarSeed{
		{"Launchpad", "clipboardIcon", base + "/launchpad"},
		{"Settings", "settings", base + "/settings"},
		{"Funnels", "pipelines", base + "/funnels"},
		{"Media", "database", base + "/media"},
		{"Automations", "chip", base + "/automations"},
		{"Pipelines", "flag", base + "/pipelines"},
		{"Contacts", "person", base + "/contacts"},
		{"Dashboard", "category", base},
	}
}

// insertSidebarOptions writes seeds in one statement, owned by either an
// agency or a sub-account depending on ownerColumn.
func insertSidebarOptions(ctx context.Context, db DB, ownerColumn, ownerID string, seeds []sidebarSeed) ([]model.SidebarOption, error) {
	if ownerColumn != "agency_id" && ownerColumn != "sub_account_id" {
		return nil, fmt.Errorf("sidebar owner column %q: %w", ownerColumn, ErrInvalid)
	}

	now := time.Now()
	opts := make([]model.SidebarOption, 0, len(seeds))
	values := make([]string, 0, len(seeds))
	args := make([]any, 0, len(seeds)*6)

	for i, s := range seeds {
		opt := model.SidebarOption{
			ID:        platform.NewID(),
			Name:      s.name,
			Link:      s.link,
			Icon:      s.icon,
			Position:  i,
			CreatedAt: now,
			UpdatedAt: now,
		}
		owner := ownerID
		if ownerColumn == "agency_id" {
			opt.AgencyID = &owner
		} else {
			opt.SubAccountID = &owner
		}
		opts = append(opts, opt)

		n := len(args)
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6))
		args = append(args, opt.ID, opt.Name, opt.Link, opt.Icon, opt.Position, ownerID)
	}

	query := `INSERT INTO sidebar_options (id, name, link, icon, position, ` + ownerColumn + `)
		VALUES ` + strings.Join(values, ", ")
	if _, err := db.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("seed sidebar options: %w", mapDBError(err))
	}
	return opts, nil
}

// listSidebarOptions returns the options owned by ownerID, in seeding order.
func listSidebarOptions(ctx context.Context, db DB, ownerColumn, ownerID string) ([]model.SidebarOption, error) {
	if ownerColumn != "agency_id" && ownerColumn != "sub_account_id" {
		return nil, fmt.Errorf("sidebar owner column %q: %w", ownerColumn, ErrInvalid)
	}
	rows, err := db.Query(ctx,
		`SELECT `+sidebarOptionColumns+` FROM sidebar_options WHERE `+ownerColumn+` = $1 ORDER BY position, name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list sidebar options: %w", err)
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
