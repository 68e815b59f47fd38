package repo

import (
	"errors"

	"stockroom/internal/models"
)

type UserRepository interface {
	GetByUsername(username string) (models.User, error)
	CreateUser(u models.User) (models.User, error)
}

var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateUsername is returned on a unique-constraint violation for the username column.
var ErrDuplicateUsername = errors.New("username already exists")
