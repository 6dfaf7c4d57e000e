package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/plura/dashboard/internal/identity"
	"github.com/plura/dashboard/internal/metrics"
	"github.com/plura/dashboard/internal/model"
	"github.com/plura/dashboard/internal/platform"
)

type InvitationService struct {
	db            DB
	users         *UserService
	notifications *NotificationService
	idp           IdentityProvider
	redirectURL   string
}

func NewInvitationService(db DB, users *UserService, notifications *NotificationService, idp IdentityProvider, redirectURL string) *InvitationService {
	return &InvitationService{
		db:            db,
		users:         users,
		notifications: notifications,
		idp:           idp,
		redirectURL:   redirectURL,
	}
}

// VerifyAndAccept consumes a pending invitation for the signed-in email and
// returns the agency the user belongs to afterwards. Without an invitation it
// returns the existing user's agency id, or "" when there is none. An
// invitation for the AGENCY_OWNER role is left untouched.
func (s *InvitationService) VerifyAndAccept(ctx context.Context, sess *identity.Identity) (string, error) {
	if sess == nil {
		return "", ErrUnauthenticated
	}

	var inv model.Invitation
	err := s.db.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE email = $1 AND status = $2`,
		sess.Email, model.InvitationPending,
	).Scan(invitationDest(&inv)...)
	if err != nil {
		if err = mapDBError(err); !errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("find invitation for %s: %w", sess.Email, err)
		}
		return s.existingAgencyID(ctx, sess.Email)
	}

	user, err := s.users.CreateTeamUser(ctx, inv.AgencyID, &model.User{
		ID:        sess.Subject,
		Name:      sess.Name,
		AvatarURL: sess.ImageURL,
		Email:     inv.Email,
		Role:      inv.Role,
	})
	if err != nil {
		return "", fmt.Errorf("accept invitation %s: %w", inv.ID, err)
	}
	if user == nil {
		zerolog.Ctx(ctx).Warn().Str("invitation_id", inv.ID).Msg("invitation for agency owner role ignored")
		return "", nil
	}

	if _, err := s.notifications.SaveActivityLog(ctx, sess, model.ActivityLog{
		AgencyID:    inv.AgencyID,
		Description: "Joined",
	}); err != nil {
		return "", fmt.Errorf("accept invitation %s: %w", inv.ID, err)
	}

	if err := s.idp.SetUserRole(ctx, sess.Subject, string(user.Role)); err != nil {
		return "", fmt.Errorf("accept invitation %s: sync role: %w", inv.ID, err)
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM invitations WHERE email = $1`, user.Email); err != nil {
		return "", fmt.Errorf("delete invitation %s: %w", inv.ID, mapDBError(err))
	}

	metrics.InvitationsAccepted.Inc()
	return inv.AgencyID, nil
}

func (s *InvitationService) existingAgencyID(ctx context.Context, email string) (string, error) {
	var agencyID *string
	err := s.db.QueryRow(ctx, `SELECT agency_id FROM users WHERE email = $1`, email).Scan(&agencyID)
	if err != nil {
		if err = mapDBError(err); errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("find agency for %s: %w", email, err)
	}
	if agencyID == nil {
		return "", nil
	}
	return *agencyID, nil
}

// Send records a pending invitation and asks the identity provider to email
// it. If the provider rejects the request the invitation row is removed again
// and the provider error is returned.
func (s *InvitationService) Send(ctx context.Context, role model.Role, email, agencyID string) (*model.Invitation, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("send invitation: role %q: %w", role, ErrInvalid)
	}

	var inv model.Invitation
	err := s.db.QueryRow(ctx,
		`INSERT INTO invitations (id, email, agency_id, status, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+invitationColumns,
		platform.NewID(), email, agencyID, model.InvitationPending, role,
	).Scan(invitationDest(&inv)...)
	if err != nil {
		return nil, fmt.Errorf("create invitation for %s: %w", email, mapDBError(err))
	}

	_, err = s.idp.CreateInvitation(ctx, identity.InvitationRequest{
		EmailAddress: email,
		RedirectURL:  s.redirectURL,
		PublicMetadata: map[string]any{
			"throughInvitation": true,
			"role":              string(role),
		},
	})
	if err != nil {
		metrics.InvitationsSent.WithLabelValues("failed").Inc()
		if _, delErr := s.db.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, inv.ID); delErr != nil {
			zerolog.Ctx(ctx).Error().Err(delErr).Str("invitation_id", inv.ID).
				Msg("failed to remove invitation after provider error")
		}
		return nil, fmt.Errorf("send invitation to %s: %w", email, err)
	}

	metrics.InvitationsSent.WithLabelValues("sent").Inc()
	return &inv, nil
}

// ListPending returns the agency's outstanding invitations.
func (s *InvitationService) ListPending(ctx context.Context, agencyID string) ([]model.Invitation, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE agency_id = $1 AND status = $2 ORDER BY created_at`,
		agencyID, model.InvitationPending)
	if err != nil {
		return nil, fmt.Errorf("list invitations for agency %s: %w", agencyID, err)
	}
	defer rows.Close()

	var out []model.Invitation
	for rows.Next() {
		var inv model.Invitation
		if err := rows.Scan(invitationDest(&inv)...); err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
