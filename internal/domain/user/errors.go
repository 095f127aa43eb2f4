package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrWorkerNotLinked         = errors.New("user is not linked to a worker")
	ErrInvalidRole             = errors.New("invalid role")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
)
