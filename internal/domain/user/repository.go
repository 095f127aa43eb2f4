package user

import (
	"context"
)

// IdentityRepository resolves a user id to the worker and role it acts as
type IdentityRepository interface {
	GetIdentity(ctx context.Context, userID string) (Identity, error)
}
