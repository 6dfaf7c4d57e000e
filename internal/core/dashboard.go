package core

import (
	"context"
	"fmt"
)

// DashboardStats holds the launchpad and overview figures for one agency.
type DashboardStats struct {
	AgencyID            string      `json:"agency_id"`
	Goal                int         `json:"goal"`
	SubAccounts         int         `json:"sub_accounts"`
	GoalProgress        float64     `json:"goal_progress"`
	TeamMembers         int         `json:"team_members"`
	PendingInvitations  int         `json:"pending_invitations"`
	RecentNotifications int         `json:"recent_notifications"`
	DetailsComplete     bool        `json:"details_complete"`
	PaymentsConnected   bool        `json:"payments_connected"`
	TeamByRole          []RoleCount `json:"team_by_role"`
}

// RoleCount holds a team member count grouped by role.
type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

// DashboardService queries aggregate stats for an agency.
type DashboardService struct {
	db DB
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(db DB) *DashboardService {
	return &DashboardService{db: db}
}

// AgencyStats returns the counts shown on an agency's dashboard. The
// recent window covers the last seven days of activity.
func (s *DashboardService) AgencyStats(ctx context.Context, agencyID string) (*DashboardStats, error) {
	const countsQuery = `
		WITH sub_account_count AS (
			SELECT count(*) AS c FROM sub_accounts WHERE agency_id = $1
		), team_count AS (
			SELECT count(*) AS c FROM users WHERE agency_id = $1
		), pending_count AS (
			SELECT count(*) AS c FROM invitations WHERE agency_id = $1 AND status = 'PENDING'
		), recent_count AS (
			SELECT count(*) AS c FROM notifications
			WHERE agency_id = $1 AND created_at > now() - interval '7 days'
		)
		SELECT
			a.id,
			a.goal,
			(SELECT c FROM sub_account_count),
			(SELECT c FROM team_count),
			(SELECT c FROM pending_count),
			(SELECT c FROM recent_count),
			(a.address <> '' AND a.agency_logo <> '' AND a.company_email <> ''
				AND a.company_phone <> '' AND a.name <> '' AND a.city <> ''
				AND a.zip_code <> '' AND a.state <> '' AND a.country <> ''),
			a.connect_account_id IS NOT NULL AND a.connect_account_id <> ''
		FROM agencies a
		WHERE a.id = $1`

	stats := &DashboardStats{}
	err := s.db.QueryRow(ctx, countsQuery, agencyID).Scan(
		&stats.AgencyID,
		&stats.Goal,
		&stats.SubAccounts,
		&stats.TeamMembers,
		&stats.PendingInvitations,
		&stats.RecentNotifications,
		&stats.DetailsComplete,
		&stats.PaymentsConnected,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard counts for agency %s: %w", agencyID, mapDBError(err))
	}
	if stats.Goal > 0 {
		stats.GoalProgress = float64(stats.SubAccounts) / float64(stats.Goal)
	}

	rows, err := s.db.Query(ctx,
		`SELECT role, count(*) FROM users WHERE agency_id = $1
		 GROUP BY role ORDER BY count(*) DESC, role`, agencyID)
	if err != nil {
		return nil, fmt.Errorf("dashboard team by role for agency %s: %w", agencyID, err)
	}
	defer rows.Close()

	stats.TeamByRole = []RoleCount{}
	for rows.Next() {
		var rc RoleCount
		if err := rows.Scan(&rc.Role, &rc.Count); err != nil {
			return nil, fmt.Errorf("scan role count: %w", err)
		}
		stats.TeamByRole = append(stats.TeamByRole, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role counts: %w", err)
	}

	return stats, nil
}
