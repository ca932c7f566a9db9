package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/gymdesk/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// CredentialStore resolves the admin account behind a login email. Handlers
// only see AuthService, so the backing store can change freely.
type CredentialStore interface {
	FindAdmin(email string) (models.Admin, error)
}

type StaticCredentialStore struct {
	admin models.Admin
}

func NewStaticCredentialStore(email string, passwordHash string) (*StaticCredentialStore, error) {
	normalizedEmail := NormalizeEmail(email)
	if normalizedEmail == "" {
		return nil, errors.New("admin email is required")
	}
	passwordHash = strings.TrimSpace(passwordHash)
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, errors.New("admin password hash is not a bcrypt hash")
	}
	return &StaticCredentialStore{
		admin: models.Admin{Email: normalizedEmail, PasswordHash: passwordHash},
	}, nil
}

func (store *StaticCredentialStore) FindAdmin(email string) (models.Admin, error) {
	if NormalizeEmail(email) != store.admin.Email {
		return models.Admin{}, ErrAdminNotFound
	}
	return store.admin, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
