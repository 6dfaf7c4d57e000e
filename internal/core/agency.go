package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/plura/dashboard/internal/model"
	"github.com/plura/dashboard/internal/platform"
)

const defaultAgencyGoal = 5

type AgencyService struct {
	db DB
}

func NewAgencyService(db DB) *AgencyService {
	return &AgencyService{db: db}
}

func (s *AgencyService) GetByID(ctx context.Context, id string) (*model.Agency, error) {
	var a model.Agency
	err := s.db.QueryRow(ctx, `SELECT `+agencyColumns+` FROM agencies WHERE id = $1`, id).Scan(agencyDest(&a)...)
	if err != nil {
		return nil, fmt.Errorf("get agency %s: %w", id, mapDBError(err))
	}
	return &a, nil
}

// Upsert creates the agency or overwrites its profile. On first creation the
// user owning the company email joins the agency, unless they already belong
// to one, and the default sidebar is seeded. An agency without a company email is ignored and nil is returned.
func (s *AgencyService) Upsert(ctx context.Context, a *model.Agency) (*model.Agency, error) {
	if a.CompanyEmail == "" {
		zerolog.Ctx(ctx).Warn().Str("agency_id", a.ID).Msg("upsert agency without company email, skipping")
		return nil, nil
	}
	if a.ID == "" {
		a.ID = platform.NewID()
	}
	if a.Goal == 0 {
		a.Goal = defaultAgencyGoal
	}

	var out model.Agency
	var inserted bool
	err := s.db.QueryRow(ctx,
		`INSERT INTO agencies (id, connect_account_id, customer_id, name, agency_logo, company_email, company_phone,
			white_label, address, city, zip_code, state, country, goal)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (id) DO UPDATE SET
			connect_account_id = COALESCE(EXCLUDED.connect_account_id, agencies.connect_account_id),
			customer_id = COALESCE(EXCLUDED.customer_id, agencies.customer_id),
			name = EXCLUDED.name,
			agency_logo = EXCLUDED.agency_logo,
			company_email = EXCLUDED.company_email,
			company_phone = EXCLUDED.company_phone,
			white_label = EXCLUDED.white_label,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			zip_code = EXCLUDED.zip_code,
			state = EXCLUDED.state,
			country = EXCLUDED.country,
			goal = EXCLUDED.goal,
			updated_at = now()
		 RETURNING `+agencyColumns+`, (xmax = 0) AS inserted`,
		a.ID, a.ConnectAccountID, a.CustomerID, a.Name, a.AgencyLogo, a.CompanyEmail, a.CompanyPhone,
		a.WhiteLabel, a.Address, a.City, a.ZipCode, a.State, a.Country, a.Goal,
	).Scan(append(agencyDest(&out), &inserted)...)
	if err != nil {
		return nil, fmt.Errorf("upsert agency %s: %w", a.ID, mapDBError(err))
	}

	if !inserted {
		return &out, nil
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE users SET agency_id = $1, updated_at = now() WHERE email = $2 AND agency_id IS NULL`,
		out.ID, out.CompanyEmail)
	if err != nil {
		return nil, fmt.Errorf("attach agency %s owner: %w", out.ID, mapDBError(err))
	}
	if tag.RowsAffected() == 0 {
		zerolog.Ctx(ctx).Warn().Str("agency_id", out.ID).Str("email", out.CompanyEmail).
			Msg("no unattached user with the agency company email")
	}

	opts, err := insertSidebarOptions(ctx, s.db, "agency_id", out.ID, agencySidebar(out.ID))
	if err != nil {
		return nil, fmt.Errorf("create agency %s: %w", out.ID, err)
	}
	out.SidebarOptions = opts
	return &out, nil
}

// UpdateDetails applies the non-nil fields of patch.
func (s *AgencyService) UpdateDetails(ctx context.Context, id string, patch model.AgencyPatch) (*model.Agency, error) {
	var set updateSet
	setIfPresent(&set, "name", patch.Name)
	setIfPresent(&set, "agency_logo", patch.AgencyLogo)
	setIfPresent(&set, "company_email", patch.CompanyEmail)
	setIfPresent(&set, "company_phone", patch.CompanyPhone)
	setIfPresent(&set, "white_label", patch.WhiteLabel)
	setIfPresent(&set, "address", patch.Address)
	setIfPresent(&set, "city", patch.City)
	setIfPresent(&set, "zip_code", patch.ZipCode)
	setIfPresent(&set, "state", patch.State)
	setIfPresent(&set, "country", patch.Country)
	setIfPresent(&set, "goal", patch.Goal)
	setIfPresent(&set, "connect_account_id", patch.ConnectAccountID)
	setIfPresent(&set, "customer_id", patch.CustomerID)

	if set.empty() {
		return s.GetByID(ctx, id)
	}

	clause, idx := set.build()
	var a model.Agency
	err := s.db.QueryRow(ctx,
		fmt.Sprintf(`UPDATE agencies SET %s WHERE id = $%d RETURNING `+agencyColumns, clause, idx),
		append(set.args, id)...,
	).Scan(agencyDest(&a)...)
	if err != nil {
		return nil, fmt.Errorf("update agency %s: %w", id, mapDBError(err))
	}
	return &a, nil
}

// Delete removes the agency. Sub-accounts, users, invitations and
// notifications go with it.
func (s *AgencyService) Delete(ctx context.Context, id string) (*model.Agency, error) {
	var a model.Agency
	err := s.db.QueryRow(ctx, `DELETE FROM agencies WHERE id = $1 RETURNING `+agencyColumns, id).Scan(agencyDest(&a)...)
	if err != nil {
		return nil, fmt.Errorf("delete agency %s: %w", id, mapDBError(err))
	}
	return &a, nil
}
