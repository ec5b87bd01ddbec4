package store

import "github.com/immpres/immpres-server/pkg/model"

// UsersStore abstracts user account storage operations
type UsersStore interface {
	// FindByLogin retrieves a user by username or email
	FindByLogin(login string) (*model.User, error)

	// FindByID retrieves a user by ID
	FindByID(id string) (*model.User, error)

	// FindByIDAndToken retrieves the user holding the given session token
	FindByIDAndToken(id, token string) (*model.User, error)

	// FindByActivationToken retrieves a pending user by activation token
	FindByActivationToken(token string) (*model.User, error)

	// Create persists a new user
	Create(user *model.User) error

	// Save updates an existing user
	Save(user *model.User) error
}
