package core

import (
	"context"
	"fmt"

	"github.com/plura/dashboard/internal/identity"
	"github.com/plura/dashboard/internal/model"
	"github.com/plura/dashboard/internal/platform"
)

type UserService struct {
	db  DB
	idp IdentityProvider
}

func NewUserService(db DB, idp IdentityProvider) *UserService {
	return &UserService{db: db, idp: idp}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).Scan(userDest(&u)...)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, mapDBError(err))
	}
	return &u, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email).Scan(userDest(&u)...)
	if err != nil {
		return nil, fmt.Errorf("get user by email %s: %w", email, mapDBError(err))
	}
	return &u, nil
}

// ListByAgency returns the agency's team, owner first.
func (s *UserService) ListByAgency(ctx context.Context, agencyID string) ([]model.User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE agency_id = $1
		 ORDER BY role = 'AGENCY_OWNER' DESC, name`, agencyID)
	if err != nil {
		return nil, fmt.Errorf("list users for agency %s: %w", agencyID, err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(userDest(&u)...); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateTeamUser adds u to the agency. Owners are never created this way:
// nil is returned for the AGENCY_OWNER role.
func (s *UserService) CreateTeamUser(ctx context.Context, agencyID string, u *model.User) (*model.User, error) {
	if u.Role == model.RoleAgencyOwner {
		return nil, nil
	}
	if u.ID == "" {
		u.ID = platform.NewID()
	}

	var out model.User
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (id, name, avatar_url, email, role, agency_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		u.ID, u.Name, u.AvatarURL, u.Email, u.Role, agencyID,
	).Scan(userDest(&out)...)
	if err != nil {
		return nil, fmt.Errorf("create team user %s: %w", u.Email, mapDBError(err))
	}
	return &out, nil
}

// Init creates or updates the signed-in user's record and mirrors the
// resulting role into the identity provider.
func (s *UserService) Init(ctx context.Context, sess *identity.Identity, patch model.UserPatch) (*model.User, error) {
	if sess == nil {
		return nil, ErrUnauthenticated
	}

	role := model.RoleSubAccountUser
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, fmt.Errorf("init user: role %q: %w", *patch.Role, ErrInvalid)
		}
		role = *patch.Role
	}
	name := sess.Name
	if patch.Name != nil {
		name = *patch.Name
	}
	avatar := sess.ImageURL
	if patch.AvatarURL != nil {
		avatar = *patch.AvatarURL
	}

	var out model.User
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (id, name, avatar_url, email, role, agency_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (email) DO UPDATE SET
			name = COALESCE($7, users.name),
			avatar_url = COALESCE($8, users.avatar_url),
			role = COALESCE($9, users.role),
			agency_id = COALESCE($10, users.agency_id),
			updated_at = now()
		 RETURNING `+userColumns,
		sess.Subject, name, avatar, sess.Email, role, patch.AgencyID,
		patch.Name, patch.AvatarURL, patch.Role, patch.AgencyID,
	).Scan(userDest(&out)...)
	if err != nil {
		return nil, fmt.Errorf("init user %s: %w", sess.Email, mapDBError(err))
	}

	if err := s.idp.SetUserRole(ctx, sess.Subject, string(out.Role)); err != nil {
		return nil, fmt.Errorf("sync role for %s: %w", sess.Email, err)
	}
	return &out, nil
}

// Update changes the user identified by patch.Email and mirrors the stored
// role into the identity provider.
func (s *UserService) Update(ctx context.Context, patch model.UserPatch) (*model.User, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, fmt.Errorf("update user: role %q: %w", *patch.Role, ErrInvalid)
	}

	var set updateSet
	setIfPresent(&set, "name", patch.Name)
	setIfPresent(&set, "avatar_url", patch.AvatarURL)
	setIfPresent(&set, "role", patch.Role)
	setIfPresent(&set, "agency_id", patch.AgencyID)

	var out model.User
	if set.empty() {
		u, err := s.GetByEmail(ctx, patch.Email)
		if err != nil {
			return nil, err
		}
		out = *u
	} else {
		clause, idx := set.build()
		err := s.db.QueryRow(ctx,
			fmt.Sprintf(`UPDATE users SET %s WHERE email = $%d RETURNING `+userColumns, clause, idx),
			append(set.args, patch.Email)...,
		).Scan(userDest(&out)...)
		if err != nil {
			return nil, fmt.Errorf("update user %s: %w", patch.Email, mapDBError(err))
		}
	}

	if err := s.idp.SetUserRole(ctx, out.ID, string(out.Role)); err != nil {
		return nil, fmt.Errorf("sync role for %s: %w", out.Email, err)
	}
	return &out, nil
}

// Delete clears the user's role in the identity provider, then removes the record.
func (s *UserService) Delete(ctx context.Context, id string) (*model.User, error) {
	if err := s.idp.SetUserRole(ctx, id, ""); err != nil {
		return nil, fmt.Errorf("clear role for user %s: %w", id, err)
	}

	var u model.User
	err := s.db.QueryRow(ctx, `DELETE FROM users WHERE id = $1 RETURNING `+userColumns, id).Scan(userDest(&u)...)
	if err != nil {
		return nil, fmt.Errorf("delete user %s: %w", id, mapDBError(err))
	}
	return &u, nil
}

// GetPermissions returns the user's permissions with their sub-accounts.
func (s *UserService) GetPermissions(ctx context.Context, userID string) ([]model.PermissionWithSubAccount, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+prefixed("p", permissionColumns)+`, `+prefixed("sa", subAccountColumns)+`
		 FROM permissions p
		 JOIN users u ON u.email = p.email
		 JOIN sub_accounts sa ON sa.id = p.sub_account_id
		 WHERE u.id = $1
		 ORDER BY sa.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list permissions for user %s: %w", userID, err)
	}
	defer rows.Close()

	var perms []model.PermissionWithSubAccount
	for rows.Next() {
		var p model.PermissionWithSubAccount
		dest := append(permissionDest(&p.Permission), subAccountDest(&p.SubAccount)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}
