package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/plura/dashboard/internal/identity"
	"github.com/plura/dashboard/internal/metrics"
	"github.com/plura/dashboard/internal/model"
	"github.com/plura/dashboard/internal/platform"
)

type NotificationService struct {
	db DB
}

func NewNotificationService(db DB) *NotificationService {
	return &NotificationService{db: db}
}

// SaveActivityLog records "<user name> | <description>" against an agency and,
// optionally, a sub-account. The acting user is the session user; without a
// session it is any member of the agency owning the sub-account. When no user
// can be resolved nothing is written and nil is returned.
func (s *NotificationService) SaveActivityLog(ctx context.Context, sess *identity.Identity, entry model.ActivityLog) (*model.Notification, error) {
	if entry.AgencyID == "" && entry.SubAccountID == "" {
		return nil, ErrMissingScope
	}

	user, err := s.actingUser(ctx, sess, entry.SubAccountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			zerolog.Ctx(ctx).Warn().
				Str("agency_id", entry.AgencyID).
				Str("sub_account_id", entry.SubAccountID).
				Msg("no user for activity log, skipping notification")
			return nil, nil
		}
		return nil, err
	}

	agencyID := entry.AgencyID
	if agencyID == "" {
		err := s.db.QueryRow(ctx,
			`SELECT agency_id FROM sub_accounts WHERE id = $1`, entry.SubAccountID).Scan(&agencyID)
		if err != nil {
			return nil, fmt.Errorf("resolve agency for sub-account %s: %w", entry.SubAccountID, mapDBError(err))
		}
	}

	var subAccountID *string
	if entry.SubAccountID != "" {
		subAccountID = &entry.SubAccountID
	}

	var n model.Notification
	err = s.db.QueryRow(ctx,
		`INSERT INTO notifications (id, notification, agency_id, sub_account_id, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+notificationColumns,
		platform.NewID(), user.Name+" | "+entry.Description, agencyID, subAccountID, user.ID,
	).Scan(notificationDest(&n)...)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", mapDBError(err))
	}

	metrics.NotificationsWritten.Inc()
	return &n, nil
}

func (s *NotificationService) actingUser(ctx context.Context, sess *identity.Identity, subAccountID string) (*model.User, error) {
	var u model.User
	var err error
	if sess != nil {
		err = s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, sess.Email).Scan(userDest(&u)...)
	} else {
		err = s.db.QueryRow(ctx,
			`SELECT `+prefixed("u", userColumns)+`
			 FROM users u JOIN sub_accounts sa ON sa.agency_id = u.agency_id
			 WHERE sa.id = $1
			 ORDER BY u.created_at
			 LIMIT 1`, subAccountID).Scan(userDest(&u)...)
	}
	if err != nil {
		return nil, fmt.Errorf("find acting user: %w", mapDBError(err))
	}
	return &u, nil
}

// ListByAgency returns the agency's notifications with their users, newest first.
func (s *NotificationService) ListByAgency(ctx context.Context, agencyID string) ([]model.NotificationWithUser, error) {
	return s.list(ctx,
		`SELECT `+prefixed("n", notificationColumns)+`, `+prefixed("u", userColumns)+`
		 FROM notifications n JOIN users u ON u.id = n.user_id
		 WHERE n.agency_id = $1
		 ORDER BY n.created_at DESC`, agencyID)
}

// NotificationCursor is the position of the last notification a reader saw.
// The zero value sorts before every notification.
type NotificationCursor struct {
	CreatedAt time.Time
	ID        string
}

// Advance moves the cursor to n.
func (c *NotificationCursor) Advance(n model.Notification) {
	c.CreatedAt, c.ID = n.CreatedAt, n.ID
}

// LatestCursor returns the position of the agency's newest notification, or
// the zero cursor when it has none.
func (s *NotificationService) LatestCursor(ctx context.Context, agencyID string) (NotificationCursor, error) {
	var c NotificationCursor
	err := s.db.QueryRow(ctx,
		`SELECT created_at, id FROM notifications
		 WHERE agency_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`, agencyID).Scan(&c.CreatedAt, &c.ID)
	if err != nil {
		if err = mapDBError(err); errors.Is(err, ErrNotFound) {
			return NotificationCursor{}, nil
		}
		return NotificationCursor{}, fmt.Errorf("latest notification for agency %s: %w", agencyID, err)
	}
	return c, nil
}

// ListAfter returns notifications positioned after the cursor, oldest first.
// Rows sharing a created_at are ordered by id.
func (s *NotificationService) ListAfter(ctx context.Context, agencyID string, after NotificationCursor) ([]model.NotificationWithUser, error) {
	return s.list(ctx,
		`SELECT `+prefixed("n", notificationColumns)+`, `+prefixed("u", userColumns)+`
		 FROM notifications n JOIN users u ON u.id = n.user_id
		 WHERE n.agency_id = $1 AND (n.created_at, n.id) > ($2, $3)
		 ORDER BY n.created_at, n.id`, agencyID, after.CreatedAt, after.ID)
}

func (s *NotificationService) list(ctx context.Context, query string, args ...any) ([]model.NotificationWithUser, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []model.NotificationWithUser
	for rows.Next() {
		var n model.NotificationWithUser
		dest := append(notificationDest(&n.Notification), userDest(&n.User)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
