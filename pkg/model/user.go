package model

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost mirrors the low-cost setting the original service used.
// Raise via config for production deployments.
const DefaultBcryptCost = 10

var (
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidPassword = errors.New("password must be at least 6 characters")
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{3,32}$`)
	emailRegex    = regexp.MustCompile(`^.+@.+\..+$`)
)

// illegalUsernames are reserved words that collide with routes or invite abuse.
var illegalUsernames = map[string]bool{
	"admin": true, "administrator": true, "anonymous": true, "unknown": true,
	"user": true, "username": true, "password": true, "demo": true, "test": true,
	"re": true, "re:": true, "fwd": true, "fwd:": true, "reply": true,
	"home": true, "signup": true, "signin": true, "edit": true, "settings": true,
}

// User represents an account principal.
type User struct {
	ID           string `gorm:"column:id;primaryKey"`
	Username     string `gorm:"column:username;uniqueIndex;not null"`
	Email        string `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;not null"`
	Role         string `gorm:"column:role;default:user"`
	Activated    bool   `gorm:"column:activated;default:false"`

	ActivationToken    string     `gorm:"column:activation_token"`
	AccessToken        string     `gorm:"column:access_token"`
	AccessTokenExpires *time.Time `gorm:"column:access_token_expires"`

	FirstName   string `gorm:"column:first_name"`
	LastName    string `gorm:"column:last_name"`
	DisplayName string `gorm:"column:display_name"`
	Photo       string `gorm:"column:photo"`
	Newsletter  bool   `gorm:"column:newsletter;default:true"`

	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	VisitedAt *time.Time `gorm:"column:visited_at"`
}

func (User) TableName() string {
	return "users"
}

// NewUser builds a pending (not yet activated) user with a hashed password.
// Username and email are lowercased before validation so case variants cannot
// create duplicates.
func NewUser(username, email, password string, bcryptCost int) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         "user",
	}, nil
}

// ComparePassword reports whether the candidate matches the stored hash.
func (u *User) ComparePassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

// SetPassword validates and re-hashes the password.
func (u *User) SetPassword(password string, bcryptCost int) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// ValidateUsername enforces the username rules:
//   - 3 to 32 characters of a-z, A-Z, 0-9, ".", "-", "_"
//   - not a reserved word
//   - no consecutive dots ("a.b" is fine, "a..b" is not)
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	if illegalUsernames[strings.ToLower(username)] {
		return ErrInvalidUsername
	}
	if strings.Contains(username, "..") {
		return ErrInvalidUsername
	}
	return nil
}

// ValidateEmail checks the email shape.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrInvalidPassword
	}
	return nil
}

// LoginField returns the column a login string should be matched against.
// Strings containing "@" are treated as emails, everything else as usernames.
func LoginField(login string) string {
	if strings.Contains(login, "@") {
		return "email"
	}
	return "username"
}
