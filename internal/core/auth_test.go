package core

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/plura/dashboard/internal/model"
)

func newTestAuthService(db *mockDB) *AuthService {
	return NewAuthService(db, NewAgencyService(db), NewSubAccountService(db), NewPermissionService(db))
}

func TestAuthService_GetAuthUserDetails_NoSession(t *testing.T) {
	db := &mockDB{}
	svc := newTestAuthService(db)

	d, err := svc.GetAuthUserDetails(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, d)
	db.AssertNotCalled(t, "QueryRow", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_GetAuthUserDetails_UnknownUser(t *testing.T) {
	db := &mockDB{}
	svc := newTestAuthService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContaining("FROM users WHERE email = $1"), mock.Anything).Return(errRow(pgx.ErrNoRows))

	_, err := svc.GetAuthUserDetails(ctx, testSession())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthService_GetAuthUserDetails_WithoutAgency(t *testing.T) {
	db := &mockDB{}
	svc := newTestAuthService(db)
	ctx := context.Background()

	u := testUser(model.RoleSubAccountUser)
	u.AgencyID = nil
	db.On("QueryRow", ctx, sqlContaining("FROM users WHERE email = $1"), mock.Anything).Return(rowFrom(userDest(&u)...))
	db.On("Query", mock.Anything, sqlContaining("FROM permissions WHERE email = $1"), []any{"jane@acme.test"}).
		Return(newEmptyMockRows(), nil)

	d, err := svc.GetAuthUserDetails(ctx, testSession())
	require.NoError(t, err)
	assert.Nil(t, d.Agency)
	assert.Empty(t, d.Permissions)
	db.AssertNotCalled(t, "QueryRow", mock.Anything, sqlContaining("FROM agencies"), mock.Anything)
}

func TestAuthService_GetAuthUserDetails_Full(t *testing.T) {
	db := &mockDB{}
	svc := newTestAuthService(db)
	ctx := context.Background()

	u := testUser(model.RoleAgencyAdmin)
	a := testAgency()
	s1 := testSubAccount()
	s2 := testSubAccount()
	s2.ID, s2.Name = "sub-2", "Uptown Store"
	perm := model.Permission{ID: "perm-1", Email: "jane@acme.test", SubAccountID: "sub-1", Access: true}
	agencyOpt := model.SidebarOption{ID: "so-a", Name: "Dashboard", AgencyID: strPtr("agency-1")}
	subOpt1 := model.SidebarOption{ID: "so-1", Name: "Launchpad", SubAccountID: strPtr("sub-1")}
	subOpt2 := model.SidebarOption{ID: "so-2", Name: "Launchpad", SubAccountID: strPtr("sub-2")}

	db.On("QueryRow", ctx, sqlContaining("FROM users WHERE email = $1"), mock.Anything).Return(rowFrom(userDest(&u)...))
	db.On("Query", mock.Anything, sqlContaining("FROM permissions WHERE email = $1"), mock.Anything).
		Return(newMockRows(scanFrom(permissionDest(&perm)...)), nil)
	db.On("QueryRow", mock.Anything, sqlContaining("FROM agencies WHERE id = $1"), []any{"agency-1"}).
		Return(rowFrom(agencyDest(&a)...))
	db.On("Query", mock.Anything, sqlContaining("FROM sidebar_options WHERE agency_id = $1"), []any{"agency-1"}).
		Return(newMockRows(scanFrom(sidebarOptionDest(&agencyOpt)...)), nil)
	db.On("Query", mock.Anything, sqlContaining("FROM sub_accounts WHERE agency_id = $1"), []any{"agency-1"}).
		Return(newMockRows(scanFrom(subAccountDest(&s1)...), scanFrom(subAccountDest(&s2)...)), nil)
	db.On("Query", mock.Anything, sqlContaining("JOIN sub_accounts sa ON sa.id = so.sub_account_id"), []any{"agency-1"}).
		Return(newMockRows(scanFrom(sidebarOptionDest(&subOpt1)...), scanFrom(sidebarOptionDest(&subOpt2)...)), nil)

	d, err := svc.GetAuthUserDetails(ctx, testSession())
	require.NoError(t, err)
	require.NotNil(t, d.Agency)

	assert.Equal(t, "Acme", d.Agency.Name)
	require.Len(t, d.Agency.SidebarOptions, 1)
	assert.Equal(t, "so-a", d.Agency.SidebarOptions[0].ID)
	require.Len(t, d.Agency.SubAccounts, 2)
	require.Len(t, d.Agency.SubAccounts[0].SidebarOptions, 1)
	assert.Equal(t, "so-1", d.Agency.SubAccounts[0].SidebarOptions[0].ID)
	assert.Equal(t, "so-2", d.Agency.SubAccounts[1].SidebarOptions[0].ID)
	require.Len(t, d.Permissions, 1)
	assert.True(t, d.Permissions[0].Access)
}

func TestAuthService_GetAuthUserDetails_FanOutError(t *testing.T) {
	db := &mockDB{}
	svc := newTestAuthService(db)
	ctx := context.Background()

	u := testUser(model.RoleAgencyOwner)
	db.On("QueryRow", ctx, sqlContaining("FROM users WHERE email = $1"), mock.Anything).Return(rowFrom(userDest(&u)...))
	db.On("Query", mock.Anything, sqlContaining("FROM permissions"), mock.Anything).Return(newEmptyMockRows(), nil)
	db.On("QueryRow", mock.Anything, sqlContaining("FROM agencies"), mock.Anything).Return(errRow(pgx.ErrNoRows))
	db.On("Query", mock.Anything, sqlContaining("FROM sidebar_options WHERE agency_id"), mock.Anything).Return(newEmptyMockRows(), nil)
	db.On("Query", mock.Anything, sqlContaining("FROM sub_accounts WHERE agency_id"), mock.Anything).Return(nil, errors.New("pool closed"))
	db.On("Query", mock.Anything, sqlContaining("JOIN sub_accounts sa"), mock.Anything).Return(newEmptyMockRows(), nil)

	_, err := svc.GetAuthUserDetails(ctx, testSession())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load details for jane@acme.test")
}
