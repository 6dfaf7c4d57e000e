package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plura/dashboard/internal/identity"
)

const validSeed = `
agencies:
  - id: agency-northwind
    name: Northwind Studio
    company_email: studio@northwind.test
    company_phone: "555-0100"
    address: {street: 1 Main St, city: Portland, zip_code: "97201", state: OR, country: US}
    owner: {id: user_owner, name: Olive Owner, email: olive@northwind.test}
    team:
      - {id: user_admin, name: Adam Admin, email: adam@northwind.test, role: AGENCY_ADMIN}
      - {id: user_guest, name: Gus Guest, email: gus@northwind.test, role: SUBACCOUNT_GUEST}
    subaccounts:
      - id: sa-harbor
        name: Harbor Coffee
        company_email: hello@harbor.test
        access: [gus@northwind.test]
    invitations:
      - {email: new@northwind.test, role: SUBACCOUNT_USER}
`

func TestParse_Valid(t *testing.T) {
	f, err := Parse([]byte(validSeed))
	require.NoError(t, err)

	require.Len(t, f.Agencies, 1)
	a := f.Agencies[0]
	assert.Equal(t, "Northwind Studio", a.Name)
	assert.Equal(t, "Portland", a.Address.City)
	assert.Equal(t, "olive@northwind.test", a.Owner.Email)
	require.Len(t, a.Team, 2)
	assert.Equal(t, "AGENCY_ADMIN", a.Team[0].Role)
	require.Len(t, a.SubAccounts, 1)
	assert.Equal(t, []string{"gus@northwind.test"}, a.SubAccounts[0].Access)
	require.Len(t, a.Invitations, 1)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("agencies: ["))
	assert.ErrorContains(t, err, "parse seed file")
}

func TestValidate(t *testing.T) {
	base := func() *File {
		f, err := Parse([]byte(validSeed))
		require.NoError(t, err)
		return f
	}

	tests := []struct {
		name   string
		mutate func(f *File)
		want   string
	}{
		{"missing agency email", func(f *File) { f.Agencies[0].CompanyEmail = "" }, "company_email are required"},
		{"missing owner", func(f *File) { f.Agencies[0].Owner = UserDef{} }, "owner: id and email are required"},
		{"owner role in team", func(f *File) { f.Agencies[0].Team[0].Role = "AGENCY_OWNER" }, `invalid role "AGENCY_OWNER"`},
		{"unknown team role", func(f *File) { f.Agencies[0].Team[1].Role = "VIEWER" }, `invalid role "VIEWER"`},
		{"access for stranger", func(f *File) { f.Agencies[0].SubAccounts[0].Access = []string{"x@y.test"} }, "unknown member x@y.test"},
		{"access for owner", func(f *File) { f.Agencies[0].SubAccounts[0].Access = []string{"olive@northwind.test"} }, "granted access automatically"},
		{"invitation without role", func(f *File) { f.Agencies[0].Invitations[0].Role = "" }, "valid role are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base()
			tt.mutate(f)
			assert.ErrorContains(t, f.Validate(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validSeed), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Agencies, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read seed file")
}

func TestOffline(t *testing.T) {
	var p Offline
	require.NoError(t, p.SetUserRole(context.Background(), "user_1", "AGENCY_ADMIN"))

	inv, err := p.CreateInvitation(context.Background(), identity.InvitationRequest{EmailAddress: "a@b.test"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.test", inv.EmailAddress)
}
