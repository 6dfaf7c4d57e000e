package core

import (
	"context"

	"github.com/plura/dashboard/internal/identity"
)

// IdentityProvider is the part of the hosted identity provider the services
// write to. *identity.Client satisfies this interface.
type IdentityProvider interface {
	SetUserRole(ctx context.Context, userID, role string) error
	CreateInvitation(ctx context.Context, req identity.InvitationRequest) (*identity.Invitation, error)
}
