package security

import (
	"crypto/rand"
	"errors"
)

const (
	// AlphanumericAlphabet is used for opaque identifiers such as session ids.
	AlphanumericAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// ReadableAlphabet drops look-alike characters for values people copy by hand.
	ReadableAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errBadAlphabet    = errors.New("alphabet must have between 1 and 256 characters")
)

// RandomString draws length characters from alphabet using crypto/rand.
// Bytes above the largest multiple of len(alphabet) are discarded so every
// character is equally likely.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 || len(alphabet) > 256 {
		return "", errBadAlphabet
	}

	size := len(alphabet)
	ceiling := 256 - 256%size
	value := make([]byte, 0, length)
	buffer := make([]byte, length+length/2+1)
	for len(value) < length {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}
		for _, b := range buffer {
			if int(b) >= ceiling {
				continue
			}
			value = append(value, alphabet[int(b)%size])
			if len(value) == length {
				break
			}
		}
	}
	return string(value), nil
}
