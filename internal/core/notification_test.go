package core

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/plura/dashboard/internal/model"
)

func TestNotificationService_SaveActivityLog_MissingScope(t *testing.T) {
	db := &mockDB{}
	svc := NewNotificationService(db)

	_, err := svc.SaveActivityLog(context.Background(), testSession(), model.ActivityLog{Description: "Updated"})
	assert.ErrorIs(t, err, ErrMissingScope)
	db.AssertNotCalled(t, "QueryRow", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationService_SaveActivityLog_SessionUser(t *testing.T) {
	db := &mockDB{}
	svc := NewNotificationService(db)
	ctx := context.Background()

	u := testUser(model.RoleAgencyOwner)
	db.On("QueryRow", ctx, sqlContaining("FROM users WHERE email = $1"), []any{"jane@acme.test"}).
		Return(rowFrom(userDest(&u)...))

	n := model.Notification{ID: "n-1", Notification: "Jane Doe | Updated agency information", AgencyID: "agency-1", UserID: "user-1"}
	var gotArgs []any
	db.On("QueryRow", ctx, sqlContaining("INSERT INTO notifications"), mock.Anything).
		Run(func(args mock.Arguments) { gotArgs = args.Get(2).([]any) }).
		Return(rowFrom(notificationDest(&n)...))

	out, err := svc.SaveActivityLog(ctx, testSession(), model.ActivityLog{
		AgencyID:    "agency-1",
		Description: "Updated agency information",
	})
	require.NoError(t, err)
	assert.Equal(t, "n-1", out.ID)

	assert.Equal(t, "Jane Doe | Updated agency information", gotArgs[1])
	assert.Equal(t, "agency-1", gotArgs[2])
	assert.Nil(t, gotArgs[3])
	assert.Equal(t, "user-1", gotArgs[4])
}

func TestNotificationService_SaveActivityLog_ResolvesAgencyFromSubAccount(t *testing.T) {
	db := &mockDB{}
	svc := NewNotificationService(db)
	ctx := context.Background()

	u := testUser(model.RoleSubAccountUser)
	agencyID := "agency-1"
	db.On("QueryRow", ctx, sqlContaining("FROM users WHERE email = $1"), mock.Anything).Return(rowFrom(userDest(&u)...))
	db.On("QueryRow", ctx, sqlContaining("SELECT agency_id FROM sub_accounts"), []any{"sub-1"}).Return(rowFrom(&agencyID))

	n := model.Notification{ID: "n-2", AgencyID: "agency-1", SubAccountID: strPtr("sub-1"), UserID: "user-1"}
	var gotArgs []any
	db.On("QueryRow", ctx, sqlContaining("INSERT INTO notifications"), mock.Anything).
		Run(func(args mock.Arguments) { gotArgs = args.Get(2).([]any) }).
		Return(rowFrom(notificationDest(&n)...))

	_, err := svc.SaveActivityLog(ctx, testSession(), model.ActivityLog{SubAccountID: "sub-1", Description: "Updated"})
	require.NoError(t, err)
	assert.Equal(t, "agency-1", gotArgs[2])
	require.NotNil(t, gotArgs[3])
	assert.Equal(t, "sub-1", *gotArgs[3].(*string))
}

func TestNotificationService_SaveActivityLog_UnknownSubAccount(t *testing.T) {
	db := &mockDB{}
	svc := NewNotificationService(db)
	ctx := context.Background()

	u := testUser(model.RoleSubAccountUser)
	db.On("QueryRow", ctx, sqlContaining("FROM users WHERE email = $1"), mock.Anything).Return(rowFrom(userDest(&u)...))
	db.On("QueryRow", ctx, sqlContaining("SELECT agency_id FROM sub_accounts"), mock.Anything).Return(errRow(pgx.ErrNoRows))

	_, err := svc.SaveActivityLog(ctx, testSession(), model.ActivityLog{SubAccountID: "missing", Description: "Updated"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationService_SaveActivityLog_NoSessionUsesAgencyMember(t *testing.T) {
	db := &mockDB{}
	svc := NewNotificationService(db)
	ctx := context.Background()

	u := testUser(model.RoleAgencyOwner)
	agencyID := "agency-1"
	db.On("QueryRow", ctx, sqlContaining("JOIN sub_accounts sa ON sa.agency_id = u.agency_id"), []any{"sub-1"}).
		Return(rowFrom(userDest(&u)...))
	db.On("QueryRow", ctx, sqlContaining("SELECT agency_id FROM sub_accounts"), mock.Anything).Return(rowFrom(&agencyID))
	n := model.Notification{ID: "n-3"}
	db.On("QueryRow", ctx, sqlContaining("INSERT INTO notifications"), mock.Anything).Return(rowFrom(notificationDest(&n)...))

	out, err := svc.SaveActivityLog(ctx, nil, model.ActivityLog{SubAccountID: "sub-1", Description: "Joined"})
	require.NoError(t, err)
	assert.Equal(t, "n-3", out.ID)
}

func TestNotificationService_SaveActivityLog_NoUserSkips(t *testing.T) {
	db := &mockDB{}
	svc := NewNotificationService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContaining("FROM users"), mock.Anything).Return(errRow(pgx.ErrNoRows))

	out, err := svc.SaveActivityLog(ctx, nil, model.ActivityLog{SubAccountID: "sub-1", Description: "Joined"})
	require.NoError(t, err)
	assert.Nil(t, out)
	db.AssertNotCalled(t, "QueryRow", ctx, sqlContaining("INSERT INTO notifications"), mock.Anything)
}

func TestNotificationService_ListByAgency(t *testing.T) {
	db := &mockDB{}
	svc := NewNotificationService(db)
	ctx := context.Background()

	n := model.Notification{ID: "n-1", Notification: "Jane Doe | Joined", AgencyID: "agency-1", UserID: "user-1"}
	u := testUser(model.RoleAgencyAdmin)
	db.On("Query", ctx, sqlContaining("ORDER BY n.created_at DESC"), []any{"agency-1"}).
		Return(newMockRows(scanFrom(append(notificationDest(&n), userDest(&u)...)...)), nil)

	list, err := svc.ListByAgency(ctx, "agency-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Jane Doe", list[0].User.Name)
	assert.Equal(t, "Jane Doe | Joined", list[0].Notification.Notification)
}

func TestNotificationService_ListAfter(t *testing.T) {
	db := &mockDB{}
	svc := NewNotificationService(db)
	ctx := context.Background()

	after := NotificationCursor{CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), ID: "n-1"}
	db.On("Query", ctx, sqlContaining("(n.created_at, n.id) > ($2, $3)"), []any{"agency-1", after.CreatedAt, "n-1"}).
		Return(newEmptyMockRows(), nil)

	list, err := svc.ListAfter(ctx, "agency-1", after)
	require.NoError(t, err)
	assert.Empty(t, list)
	db.AssertExpectations(t)
}

func TestNotificationService_LatestCursor(t *testing.T) {
	db := &mockDB{}
	svc := NewNotificationService(db)
	ctx := context.Background()

	at := time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC)
	db.On("QueryRow", ctx, sqlContaining("ORDER BY created_at DESC, id DESC"), []any{"agency-1"}).
		Return(&mockRow{scanFunc: func(dest ...any) error {
			*(dest[0].(*time.Time)) = at
			*(dest[1].(*string)) = "n-9"
			return nil
		}})

	c, err := svc.LatestCursor(ctx, "agency-1")
	require.NoError(t, err)
	assert.Equal(t, NotificationCursor{CreatedAt: at, ID: "n-9"}, c)
}

func TestNotificationService_LatestCursor_Empty(t *testing.T) {
	db := &mockDB{}
	svc := NewNotificationService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, mock.AnythingOfType("string"), []any{"agency-1"}).Return(errRow(pgx.ErrNoRows))

	c, err := svc.LatestCursor(ctx, "agency-1")
	require.NoError(t, err)
	assert.Zero(t, c)
}

func TestNotificationCursor_Advance(t *testing.T) {
	var c NotificationCursor
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	c.Advance(model.Notification{ID: "n-2", CreatedAt: at})
	assert.Equal(t, at, c.CreatedAt)
	assert.Equal(t, "n-2", c.ID)
}
