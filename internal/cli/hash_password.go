package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/gymdesk/internal/security"
	"github.com/terraincognita07/gymdesk/internal/services"
)

const (
	minAdminPasswordLength = 8
	secretAlphabet         = security.ReadableAlphabet
)

// RunHashPasswordCommand prompts twice for a password without echo and prints
// a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func RunHashPasswordCommand(stdin *os.File, stdout io.Writer) error {
	fmt.Fprint(stdout, "Admin password: ")
	password, err := readPasswordNoEcho(stdin)
	fmt.Fprintln(stdout)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(stdout, "Repeat password: ")
	confirmation, err := readPasswordNoEcho(stdin)
	fmt.Fprintln(stdout)
	if err != nil {
		return fmt.Errorf("read password confirmation: %w", err)
	}

	hash, err := hashConfirmedPassword(string(password), string(confirmation))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "ADMIN_PASSWORD_HASH=%s\n", hash)
	return nil
}

func hashConfirmedPassword(password string, confirmation string) (string, error) {
	if len(password) < minAdminPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minAdminPasswordLength)
	}
	if password != confirmation {
		return "", errors.New("passwords do not match")
	}
	hash, err := services.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func RunGenerateSecretCommand(stdout io.Writer) error {
	secret, err := generateSecret(48)
	if err != nil {
		return fmt.Errorf("generate secret: %w", err)
	}
	fmt.Fprintf(stdout, "SECRET_KEY=%s\n", secret)
	return nil
}

func generateSecret(length int) (string, error) {
	if length < 32 {
		length = 32
	}
	return security.RandomString(length, secretAlphabet)
}
