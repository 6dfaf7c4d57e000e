package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/plura/dashboard/internal/model"
)

func TestPermissionChange_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing email", map[string]any{"sub_account_id": "sa_1", "access": true}},
		{"invalid email", map[string]any{"email": "nope", "sub_account_id": "sa_1", "access": true}},
		{"missing sub-account", map[string]any{"email": "grace@example.com", "access": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPermission(nil, nil, &Access{})
			rec := httptest.NewRecorder()

			h.Change(rec, newRequest(http.MethodPut, "/permissions", tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPermissionChange_NoSession(t *testing.T) {
	h := NewPermission(nil, nil, &Access{})
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPut, "/permissions", map[string]any{
		"email": "grace@example.com", "sub_account_id": "sa_1", "access": true,
	})

	h.Change(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPermissionChange_SubAccountRoleForbidden(t *testing.T) {
	db := &handlerMockDB{}
	svcs := newTestServices(db)
	h := NewPermission(svcs.Permission, svcs.SubAccount, NewAccess(svcs))
	u := member(model.RoleSubAccountUser, validID)
	sa := testSubAccount(validID)
	expectCaller(db, u)
	db.On("QueryRow", mock.Anything, statement("SELECT", "FROM sub_accounts WHERE id = $1"), []any{sa.ID}).
		Return(subAccountRow(sa))

	rec := httptest.NewRecorder()
	r := withSession(newRequest(http.MethodPut, "/permissions", map[string]any{
		"email": "grace@example.com", "sub_account_id": sa.ID, "access": true,
	}), u.Email)

	h.Change(rec, r)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	db.AssertNotCalled(t, "QueryRow", mock.Anything, sqlContaining("INSERT INTO permissions"), mock.Anything)
}

func TestPermissionChange_UnknownSubAccount(t *testing.T) {
	db := &handlerMockDB{}
	svcs := newTestServices(db)
	h := NewPermission(svcs.Permission, svcs.SubAccount, NewAccess(svcs))
	db.On("QueryRow", mock.Anything, statement("SELECT", "FROM sub_accounts WHERE id = $1"), []any{"missing"}).
		Return(noRow())

	rec := httptest.NewRecorder()
	r := withSession(newRequest(http.MethodPut, "/permissions", map[string]any{
		"email": "grace@example.com", "sub_account_id": "missing", "access": false,
	}), "ada@example.com")

	h.Change(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func grace(agencyID string) model.User {
	g := member(model.RoleSubAccountUser, agencyID)
	g.ID, g.Name, g.Email = "user_2", "Grace Hopper", "grace@example.com"
	return g
}

func TestPermissionChange_EmailOutsideAgency(t *testing.T) {
	db := &handlerMockDB{}
	svcs := newTestServices(db)
	h := NewPermission(svcs.Permission, svcs.SubAccount, NewAccess(svcs))
	u := member(model.RoleAgencyAdmin, validID)
	sa := testSubAccount(validID)
	expectCaller(db, u)
	expectCaller(db, grace(validID2))
	db.On("QueryRow", mock.Anything, statement("SELECT", "FROM sub_accounts WHERE id = $1"), []any{sa.ID}).
		Return(subAccountRow(sa))

	rec := httptest.NewRecorder()
	r := withSession(newRequest(http.MethodPut, "/permissions", map[string]any{
		"email": "grace@example.com", "sub_account_id": sa.ID, "access": true,
	}), u.Email)

	h.Change(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	db.AssertNotCalled(t, "QueryRow", mock.Anything, sqlContaining("INSERT INTO permissions"), mock.Anything)
}

func TestPermissionChange_UnregisteredEmail(t *testing.T) {
	db := &handlerMockDB{}
	svcs := newTestServices(db)
	h := NewPermission(svcs.Permission, svcs.SubAccount, NewAccess(svcs))
	u := member(model.RoleAgencyOwner, validID)
	sa := testSubAccount(validID)
	expectCaller(db, u)
	db.On("QueryRow", mock.Anything, sqlContaining("FROM users WHERE email = $1"), []any{"nobody@example.com"}).
		Return(noRow())
	db.On("QueryRow", mock.Anything, statement("SELECT", "FROM sub_accounts WHERE id = $1"), []any{sa.ID}).
		Return(subAccountRow(sa))

	rec := httptest.NewRecorder()
	r := withSession(newRequest(http.MethodPut, "/permissions", map[string]any{
		"email": "nobody@example.com", "sub_account_id": sa.ID, "access": true,
	}), u.Email)

	h.Change(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPermissionChange_IDOfAnotherGrant(t *testing.T) {
	db := &handlerMockDB{}
	svcs := newTestServices(db)
	h := NewPermission(svcs.Permission, svcs.SubAccount, NewAccess(svcs))
	u := member(model.RoleAgencyAdmin, validID)
	sa := testSubAccount(validID)
	expectCaller(db, u)
	expectCaller(db, grace(validID))
	db.On("QueryRow", mock.Anything, statement("SELECT", "FROM sub_accounts WHERE id = $1"), []any{sa.ID}).
		Return(subAccountRow(sa))
	// The guarded conflict update yields no row when perm_other belongs to another grant.
	db.On("QueryRow", mock.Anything, sqlContaining("INSERT INTO permissions"),
		[]any{"perm_other", "grace@example.com", sa.ID, true}).Return(noRow())

	rec := httptest.NewRecorder()
	r := withSession(newRequest(http.MethodPut, "/permissions", map[string]any{
		"id": "perm_other", "email": "grace@example.com", "sub_account_id": sa.ID, "access": true,
	}), u.Email)

	h.Change(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	db.AssertNotCalled(t, "QueryRow", mock.Anything, sqlContaining("INSERT INTO notifications"), mock.Anything)
}
