package gorm

import (
	"strings"

	"gorm.io/gorm"

	"github.com/immpres/immpres-server/pkg/model"
	"github.com/immpres/immpres-server/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

// FindByLogin retrieves a user by username or email. The login string is
// matched against the email column when it contains "@", the username column
// otherwise.
func (s *UsersStore) FindByLogin(login string) (*model.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))

	var user model.User
	tx := s.db.Where(model.LoginField(login)+" = ?", login).First(&user)
	if tx.Error != nil {
		return nil, translateErr(tx.Error)
	}
	return &user, nil
}

// FindByID retrieves a user by ID
func (s *UsersStore) FindByID(id string) (*model.User, error) {
	var user model.User
	tx := s.db.Where("id = ?", id).First(&user)
	if tx.Error != nil {
		return nil, translateErr(tx.Error)
	}
	return &user, nil
}

// FindByIDAndToken retrieves the user holding the given session token.
// Both the id and the token must match; a stale token from a previous
// session never resolves.
func (s *UsersStore) FindByIDAndToken(id, token string) (*model.User, error) {
	var user model.User
	tx := s.db.Where("id = ? AND access_token = ?", id, token).First(&user)
	if tx.Error != nil {
		return nil, translateErr(tx.Error)
	}
	return &user, nil
}

// FindByActivationToken retrieves a pending user by activation token
func (s *UsersStore) FindByActivationToken(token string) (*model.User, error) {
	var user model.User
	tx := s.db.Where("activation_token = ?", token).First(&user)
	if tx.Error != nil {
		return nil, translateErr(tx.Error)
	}
	return &user, nil
}

// Create persists a new user
func (s *UsersStore) Create(user *model.User) error {
	return s.db.Create(user).Error
}

// Save updates an existing user
func (s *UsersStore) Save(user *model.User) error {
	return s.db.Save(user).Error
}
