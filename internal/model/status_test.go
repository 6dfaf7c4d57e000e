package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleConstants(t *testing.T) {
	assert.Equal(t, Role("AGENCY_OWNER"), RoleAgencyOwner)
	assert.Equal(t, Role("AGENCY_ADMIN"), RoleAgencyAdmin)
	assert.Equal(t, Role("SUBACCOUNT_USER"), RoleSubAccountUser)
	assert.Equal(t, Role("SUBACCOUNT_GUEST"), RoleSubAccountGuest)
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAgencyOwner.Valid())
	assert.True(t, RoleSubAccountGuest.Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("agency_owner").Valid())
}

func TestInvitationStatusConstants(t *testing.T) {
	assert.Equal(t, "PENDING", InvitationPending)
	assert.Equal(t, "ACCEPTED", InvitationAccepted)
	assert.Equal(t, "REVOKED", InvitationRevoked)
}
