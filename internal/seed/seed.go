package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/plura/dashboard/internal/core"
	"github.com/plura/dashboard/internal/identity"
	"github.com/plura/dashboard/internal/model"
)

// Load reads and validates a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) Validate() error {
	var problems []string
	for i, a := range f.Agencies {
		where := fmt.Sprintf("agencies[%d]", i)
		if a.ID == "" || a.Name == "" || a.CompanyEmail == "" {
			problems = append(problems, where+": id, name and company_email are required")
		}
		if a.Owner.ID == "" || a.Owner.Email == "" {
			problems = append(problems, where+".owner: id and email are required")
		}
		members := map[string]bool{}
		for j, u := range a.Team {
			if u.ID == "" || u.Email == "" {
				problems = append(problems, fmt.Sprintf("%s.team[%d]: id and email are required", where, j))
			}
			role := model.Role(u.Role)
			if !role.Valid() || role == model.RoleAgencyOwner {
				problems = append(problems, fmt.Sprintf("%s.team[%d]: invalid role %q", where, j, u.Role))
			}
			members[u.Email] = true
		}
		for j, sa := range a.SubAccounts {
			if sa.ID == "" || sa.Name == "" || sa.CompanyEmail == "" {
				problems = append(problems, fmt.Sprintf("%s.subaccounts[%d]: id, name and company_email are required", where, j))
			}
			for _, email := range sa.Access {
				if email == a.Owner.Email {
					problems = append(problems, fmt.Sprintf("%s.subaccounts[%d]: the owner is granted access automatically", where, j))
				} else if !members[email] {
					problems = append(problems, fmt.Sprintf("%s.subaccounts[%d]: access for unknown member %s", where, j, email))
				}
			}
		}
		for j, inv := range a.Invitations {
			if inv.Email == "" || !model.Role(inv.Role).Valid() {
				problems = append(problems, fmt.Sprintf("%s.invitations[%d]: email and a valid role are required", where, j))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid seed file:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

// Offline satisfies core.IdentityProvider without calling out. Seeded
// users exist only in the database.
type Offline struct{}

func (Offline) SetUserRole(context.Context, string, string) error { return nil }

func (Offline) CreateInvitation(_ context.Context, req identity.InvitationRequest) (*identity.Invitation, error) {
	return &identity.Invitation{EmailAddress: req.EmailAddress, Status: "pending"}, nil
}

// Apply writes f through the services. Re-applying the same file updates
// rows in place.
func Apply(ctx context.Context, svcs *core.Services, f *File) error {
	logger := zerolog.Ctx(ctx)
	for _, a := range f.Agencies {
		agency, err := svcs.Agency.Upsert(ctx, &model.Agency{
			ID:           a.ID,
			Name:         a.Name,
			AgencyLogo:   a.Logo,
			CompanyEmail: a.CompanyEmail,
			CompanyPhone: a.CompanyPhone,
			WhiteLabel:   a.WhiteLabel,
			Address:      a.Address.Street,
			City:         a.Address.City,
			ZipCode:      a.Address.ZipCode,
			State:        a.Address.State,
			Country:      a.Address.Country,
		})
		if err != nil {
			return fmt.Errorf("seed agency %s: %w", a.Name, err)
		}

		if err := joinAgency(ctx, svcs, agency.ID, a.Owner, model.RoleAgencyOwner); err != nil {
			return err
		}
		for _, u := range a.Team {
			if err := joinAgency(ctx, svcs, agency.ID, u, model.Role(u.Role)); err != nil {
				return err
			}
		}

		for _, def := range a.SubAccounts {
			sa, err := svcs.SubAccount.Upsert(ctx, &model.SubAccount{
				ID:             def.ID,
				AgencyID:       agency.ID,
				Name:           def.Name,
				SubAccountLogo: def.Logo,
				CompanyEmail:   def.CompanyEmail,
				CompanyPhone:   def.CompanyPhone,
				Address:        def.Address.Street,
				City:           def.Address.City,
				ZipCode:        def.Address.ZipCode,
				State:          def.Address.State,
				Country:        def.Address.Country,
			})
			if err != nil {
				return fmt.Errorf("seed sub-account %s: %w", def.Name, err)
			}
			if sa == nil {
				return fmt.Errorf("seed sub-account %s: agency %s has no owner", def.Name, agency.ID)
			}
			for _, email := range def.Access {
				// Stable ids keep re-seeding from duplicating grants.
				if _, err := svcs.Permission.Change(ctx, "seed-"+sa.ID+"-"+email, email, sa.ID, true); err != nil {
					return fmt.Errorf("seed access for %s to %s: %w", email, def.Name, err)
				}
			}
		}

		for _, inv := range a.Invitations {
			_, err := svcs.Invitation.Send(ctx, model.Role(inv.Role), inv.Email, agency.ID)
			if errors.Is(err, core.ErrConflict) {
				logger.Debug().Str("email", inv.Email).Msg("invitation already seeded")
				continue
			}
			if err != nil {
				return fmt.Errorf("seed invitation for %s: %w", inv.Email, err)
			}
		}

		logger.Info().Str("agency_id", agency.ID).Str("name", agency.Name).
			Int("team", len(a.Team)+1).Int("subaccounts", len(a.SubAccounts)).
			Msg("seeded agency")
	}
	return nil
}

func joinAgency(ctx context.Context, svcs *core.Services, agencyID string, u UserDef, role model.Role) error {
	sess := &identity.Identity{Subject: u.ID, Email: u.Email, Name: u.Name, ImageURL: u.Avatar}
	if _, err := svcs.User.Init(ctx, sess, model.UserPatch{Role: &role, AgencyID: &agencyID}); err != nil {
		return fmt.Errorf("seed user %s: %w", u.Email, err)
	}
	return nil
}
