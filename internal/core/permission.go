package core

import (
	"context"
	"fmt"

	"github.com/plura/dashboard/internal/model"
	"github.com/plura/dashboard/internal/platform"
)

type PermissionService struct {
	db DB
}

func NewPermissionService(db DB) *PermissionService {
	return &PermissionService{db: db}
}

// Change upserts the permission keyed by id. Repeated calls with the same id
// leave one row holding the latest access value. An empty id creates a new row.
// An id naming another user's or sub-account's permission is ErrNotFound.
func (s *PermissionService) Change(ctx context.Context, id, email, subAccountID string, access bool) (*model.Permission, error) {
	if id == "" {
		id = platform.NewID()
	}

	var p model.Permission
	err := s.db.QueryRow(ctx,
		`INSERT INTO permissions (id, email, sub_account_id, access)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET access = EXCLUDED.access, updated_at = now()
		 WHERE permissions.sub_account_id = EXCLUDED.sub_account_id AND permissions.email = EXCLUDED.email
		 RETURNING `+permissionColumns,
		id, email, subAccountID, access,
	).Scan(permissionDest(&p)...)
	if err != nil {
		return nil, fmt.Errorf("change permission %s: %w", id, mapDBError(err))
	}
	return &p, nil
}

// HasAccess reports whether email holds an access grant for the sub-account.
func (s *PermissionService) HasAccess(ctx context.Context, email, subAccountID string) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM permissions WHERE email = $1 AND sub_account_id = $2 AND access)`,
		email, subAccountID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check sub-account access: %w", err)
	}
	return ok, nil
}

func (s *PermissionService) ListByEmail(ctx context.Context, email string) ([]model.Permission, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+permissionColumns+` FROM permissions WHERE email = $1`, email)
	if err != nil {
		return nil, fmt.Errorf("list permissions for %s: %w", email, err)
	}
	defer rows.Close()

	var perms []model.Permission
	for rows.Next() {
		var p model.Permission
		if err := rows.Scan(permissionDest(&p)...); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}
