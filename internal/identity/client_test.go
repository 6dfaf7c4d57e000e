package identity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SetUserRole(t *testing.T) {
	var gotPath, gotMethod, gotAuth string
	var gotBody map[string]map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod, gotAuth = r.URL.Path, r.Method, r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test")
	require.NoError(t, c.SetUserRole(t.Context(), "user_1", "AGENCY_ADMIN"))

	assert.Equal(t, "/v1/users/user_1/metadata", gotPath)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "Bearer sk_test", gotAuth)
	assert.Equal(t, "AGENCY_ADMIN", gotBody["private_metadata"]["role"])
}

func TestClient_SetUserRole_ClearSendsNull(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL, "sk").SetUserRole(t.Context(), "user_1", ""))
	assert.JSONEq(t, `{"role":null}`, string(raw["private_metadata"]))
}

func TestClient_CreateInvitation(t *testing.T) {
	var got InvitationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/invitations", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"inv_1","email_address":"a@b.com","status":"pending"}`))
	}))
	defer srv.Close()

	inv, err := NewClient(srv.URL, "sk").CreateInvitation(t.Context(), InvitationRequest{
		EmailAddress:   "a@b.com",
		RedirectURL:    "https://app.example.com",
		PublicMetadata: map[string]any{"throughInvitation": true, "role": "SUBACCOUNT_USER"},
	})
	require.NoError(t, err)
	assert.Equal(t, "inv_1", inv.ID)
	assert.Equal(t, "a@b.com", got.EmailAddress)
	assert.Equal(t, "https://app.example.com", got.RedirectURL)
	assert.Equal(t, true, got.PublicMetadata["throughInvitation"])
	assert.Equal(t, "SUBACCOUNT_USER", got.PublicMetadata["role"])
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "sk").CreateInvitation(t.Context(), InvitationRequest{EmailAddress: "a@b.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identity API POST /v1/invitations: status 422")
}
