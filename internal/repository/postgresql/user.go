package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewIdentityRepository(db *database.DB) user.IdentityRepository {
	return &userRepositoryImpl{db: db}
}

// GetIdentity implements user.IdentityRepository.
func (r *userRepositoryImpl) GetIdentity(ctx context.Context, userID string) (user.Identity, error) {
	if !isUUID(userID) {
		return user.Identity{}, user.ErrUserNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, e.id, u.role
		FROM users u
		LEFT JOIN employees e ON e.user_id = u.id AND e.deleted_at IS NULL
		WHERE u.id = $1
	`

	var identity user.Identity
	err := q.QueryRow(ctx, query, userID).Scan(&identity.UserID, &identity.WorkerID, &identity.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Identity{}, user.ErrUserNotFound
		}
		return user.Identity{}, fmt.Errorf("failed to get identity for user %s: %w", userID, err)
	}
	if !identity.Role.IsValid() {
		return user.Identity{}, user.ErrInvalidRole
	}
	return identity, nil
}
