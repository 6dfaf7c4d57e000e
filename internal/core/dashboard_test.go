package core

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewDashboardService(t *testing.T) {
	db := &mockDB{}
	svc := NewDashboardService(db)
	require.NotNil(t, svc)
}

func dashboardCounts(id string, goal, subAccounts, team, pending, recent int, complete, connected bool) *mockRow {
	return &mockRow{
		scanFunc: func(dest ...any) error {
			*(dest[0].(*string)) = id
			*(dest[1].(*int)) = goal
			*(dest[2].(*int)) = subAccounts
			*(dest[3].(*int)) = team
			*(dest[4].(*int)) = pending
			*(dest[5].(*int)) = recent
			*(dest[6].(*bool)) = complete
			*(dest[7].(*bool)) = connected
			return nil
		},
	}
}

func TestDashboardService_AgencyStats_Success(t *testing.T) {
	db := &mockDB{}
	svc := NewDashboardService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContaining("FROM agencies a"), []any{"agency_1"}).
		Return(dashboardCounts("agency_1", 4, 3, 5, 2, 17, true, false)).Once()

	roleRows := newMockRows(
		func(dest ...any) error {
			*(dest[0].(*string)) = "SUBACCOUNT_USER"
			*(dest[1].(*int)) = 3
			return nil
		},
		func(dest ...any) error {
			*(dest[0].(*string)) = "AGENCY_OWNER"
			*(dest[1].(*int)) = 1
			return nil
		},
	)
	db.On("Query", ctx, sqlContaining("GROUP BY role"), []any{"agency_1"}).Return(roleRows, nil).Once()

	stats, err := svc.AgencyStats(ctx, "agency_1")
	require.NoError(t, err)
	assert.Equal(t, "agency_1", stats.AgencyID)
	assert.Equal(t, 4, stats.Goal)
	assert.Equal(t, 3, stats.SubAccounts)
	assert.InDelta(t, 0.75, stats.GoalProgress, 0.001)
	assert.Equal(t, 5, stats.TeamMembers)
	assert.Equal(t, 2, stats.PendingInvitations)
	assert.Equal(t, 17, stats.RecentNotifications)
	assert.True(t, stats.DetailsComplete)
	assert.False(t, stats.PaymentsConnected)

	require.Len(t, stats.TeamByRole, 2)
	assert.Equal(t, "SUBACCOUNT_USER", stats.TeamByRole[0].Role)
	assert.Equal(t, 3, stats.TeamByRole[0].Count)
	assert.Equal(t, "AGENCY_OWNER", stats.TeamByRole[1].Role)

	db.AssertExpectations(t)
}

func TestDashboardService_AgencyStats_ZeroGoal(t *testing.T) {
	db := &mockDB{}
	svc := NewDashboardService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(dashboardCounts("agency_1", 0, 2, 1, 0, 0, false, true))
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(newEmptyMockRows(), nil)

	stats, err := svc.AgencyStats(ctx, "agency_1")
	require.NoError(t, err)
	assert.Zero(t, stats.GoalProgress)
	assert.True(t, stats.PaymentsConnected)
	assert.NotNil(t, stats.TeamByRole)
	assert.Empty(t, stats.TeamByRole)
}

func TestDashboardService_AgencyStats_NotFound(t *testing.T) {
	db := &mockDB{}
	svc := NewDashboardService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, mock.AnythingOfType("string"), []any{"missing"}).Return(errRow(pgx.ErrNoRows))

	stats, err := svc.AgencyStats(ctx, "missing")
	assert.Nil(t, stats)
	assert.ErrorIs(t, err, ErrNotFound)
	db.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboardService_AgencyStats_CountsQueryError(t *testing.T) {
	db := &mockDB{}
	svc := NewDashboardService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).Return(errRow(errors.New("connection lost")))

	stats, err := svc.AgencyStats(ctx, "agency_1")
	require.Error(t, err)
	assert.Nil(t, stats)
	assert.Contains(t, err.Error(), "dashboard counts")
}

func TestDashboardService_AgencyStats_RoleQueryError(t *testing.T) {
	db := &mockDB{}
	svc := NewDashboardService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(dashboardCounts("agency_1", 1, 0, 1, 0, 0, false, false))
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil, errors.New("query failed"))

	stats, err := svc.AgencyStats(ctx, "agency_1")
	require.Error(t, err)
	assert.Nil(t, stats)
	assert.Contains(t, err.Error(), "dashboard team by role")
}
