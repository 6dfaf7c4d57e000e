package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/plura/dashboard/internal/model"
	"github.com/plura/dashboard/internal/platform"
)

const (
	defaultSubAccountGoal = 5000
	defaultPipelineName   = "Lead Cycle"
)

type SubAccountService struct {
	db DB
}

func NewSubAccountService(db DB) *SubAccountService {
	return &SubAccountService{db: db}
}

func (s *SubAccountService) GetByID(ctx context.Context, id string) (*model.SubAccount, error) {
	var sa model.SubAccount
	err := s.db.QueryRow(ctx, `SELECT `+subAccountColumns+` FROM sub_accounts WHERE id = $1`, id).Scan(subAccountDest(&sa)...)
	if err != nil {
		return nil, fmt.Errorf("get sub-account %s: %w", id, mapDBError(err))
	}
	return &sa, nil
}

func (s *SubAccountService) ListByAgency(ctx context.Context, agencyID string) ([]model.SubAccount, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+subAccountColumns+` FROM sub_accounts WHERE agency_id = $1 ORDER BY name`, agencyID)
	if err != nil {
		return nil, fmt.Errorf("list sub-accounts for agency %s: %w", agencyID, err)
	}
	defer rows.Close()

	var subs []model.SubAccount
	for rows.Next() {
		var sa model.SubAccount
		if err := rows.Scan(subAccountDest(&sa)...); err != nil {
			return nil, fmt.Errorf("scan sub-account: %w", err)
		}
		subs = append(subs, sa)
	}
	return subs, rows.Err()
}

// Upsert creates the sub-account or overwrites its profile. On first creation
// the agency owner is granted access, the default pipeline is created and the
// sidebar is seeded. Nil is returned when the sub-account has no company email
// or its agency has no owner.
func (s *SubAccountService) Upsert(ctx context.Context, sa *model.SubAccount) (*model.SubAccount, error) {
	logger := zerolog.Ctx(ctx)
	if sa.CompanyEmail == "" {
		logger.Warn().Str("sub_account_id", sa.ID).Msg("upsert sub-account without company email, skipping")
		return nil, nil
	}

	var ownerEmail string
	err := s.db.QueryRow(ctx,
		`SELECT email FROM users WHERE agency_id = $1 AND role = $2`, sa.AgencyID, model.RoleAgencyOwner,
	).Scan(&ownerEmail)
	if err != nil {
		if err = mapDBError(err); errors.Is(err, ErrNotFound) {
			logger.Warn().Str("agency_id", sa.AgencyID).Msg("agency owner not found, sub-account not saved")
			return nil, nil
		}
		return nil, fmt.Errorf("find owner of agency %s: %w", sa.AgencyID, err)
	}

	if sa.ID == "" {
		sa.ID = platform.NewID()
	}
	if sa.Goal == 0 {
		sa.Goal = defaultSubAccountGoal
	}

	var out model.SubAccount
	var inserted bool
	err = s.db.QueryRow(ctx,
		`INSERT INTO sub_accounts (id, agency_id, connect_account_id, name, sub_account_logo, company_email,
			company_phone, goal, address, city, zip_code, state, country)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (id) DO UPDATE SET
			connect_account_id = COALESCE(EXCLUDED.connect_account_id, sub_accounts.connect_account_id),
			name = EXCLUDED.name,
			sub_account_logo = EXCLUDED.sub_account_logo,
			company_email = EXCLUDED.company_email,
			company_phone = EXCLUDED.company_phone,
			goal = EXCLUDED.goal,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			zip_code = EXCLUDED.zip_code,
			state = EXCLUDED.state,
			country = EXCLUDED.country,
			updated_at = now()
		 WHERE sub_accounts.agency_id = EXCLUDED.agency_id
		 RETURNING `+subAccountColumns+`, (xmax = 0) AS inserted`,
		sa.ID, sa.AgencyID, sa.ConnectAccountID, sa.Name, sa.SubAccountLogo, sa.CompanyEmail,
		sa.CompanyPhone, sa.Goal, sa.Address, sa.City, sa.ZipCode, sa.State, sa.Country,
	).Scan(append(subAccountDest(&out), &inserted)...)
	if err != nil {
		return nil, fmt.Errorf("upsert sub-account %s: %w", sa.ID, mapDBError(err))
	}

	if !inserted {
		return &out, nil
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO permissions (id, email, sub_account_id, access) VALUES ($1, $2, $3, true)
		 ON CONFLICT (email, sub_account_id) DO NOTHING`,
		platform.NewID(), ownerEmail, out.ID)
	if err != nil {
		return nil, fmt.Errorf("grant owner access to sub-account %s: %w", out.ID, mapDBError(err))
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO pipelines (id, name, sub_account_id) VALUES ($1, $2, $3)`,
		platform.NewID(), defaultPipelineName, out.ID)
	if err != nil {
		return nil, fmt.Errorf("create default pipeline for sub-account %s: %w", out.ID, mapDBError(err))
	}

	opts, err := insertSidebarOptions(ctx, s.db, "sub_account_id", out.ID, subAccountSidebar(out.ID))
	if err != nil {
		return nil, fmt.Errorf("create sub-account %s: %w", out.ID, err)
	}
	out.SidebarOptions = opts
	return &out, nil
}

func (s *SubAccountService) Delete(ctx context.Context, id string) (*model.SubAccount, error) {
	var sa model.SubAccount
	err := s.db.QueryRow(ctx, `DELETE FROM sub_accounts WHERE id = $1 RETURNING `+subAccountColumns, id).Scan(subAccountDest(&sa)...)
	if err != nil {
		return nil, fmt.Errorf("delete sub-account %s: %w", id, mapDBError(err))
	}
	return &sa, nil
}
