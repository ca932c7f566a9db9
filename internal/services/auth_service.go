package services

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/gymdesk/internal/models"
	"github.com/terraincognita07/gymdesk/internal/security"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultSessionTTL    = 12 * time.Hour
	sessionTokenPurpose  = "admin_session"
	sessionTokenIDLength = 24
)

type sessionClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

type AuthService struct {
	credentials CredentialStore
	secretKey   []byte
	sessionTTL  time.Duration
}

func NewAuthService(credentials CredentialStore, secretKey []byte, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthService{
		credentials: credentials,
		secretKey:   secretKey,
		sessionTTL:  sessionTTL,
	}
}

func (service *AuthService) SessionTTL() time.Duration {
	return service.sessionTTL
}

func (service *AuthService) Authenticate(email string, password string) (models.Admin, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return models.Admin{}, ErrInvalidCredentials
	}

	admin, err := service.credentials.FindAdmin(email)
	if err != nil {
		return models.Admin{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return models.Admin{}, ErrInvalidCredentials
	}
	return admin, nil
}

func (service *AuthService) BuildSessionToken(admin models.Admin, now time.Time) (string, error) {
	tokenID, err := security.RandomString(sessionTokenIDLength, security.AlphanumericAlphabet)
	if err != nil {
		return "", err
	}

	claims := sessionClaims{
		Purpose: sessionTokenPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   admin.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(service.sessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(service.secretKey)
}

// ParseSessionToken verifies signature, purpose and expiry, then confirms the
// subject is still a known admin.
func (service *AuthService) ParseSessionToken(rawToken string, now time.Time) (models.Admin, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return models.Admin{}, ErrInvalidSession
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		return service.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !token.Valid {
		return models.Admin{}, ErrInvalidSession
	}
	if claims.Purpose != sessionTokenPurpose {
		return models.Admin{}, ErrInvalidSession
	}

	admin, err := service.credentials.FindAdmin(claims.Subject)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return models.Admin{}, ErrInvalidSession
		}
		return models.Admin{}, err
	}
	return admin, nil
}
