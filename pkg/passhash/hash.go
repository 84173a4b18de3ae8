// Package passhash stores secrets as salted PBKDF2-HMAC-SHA256 hashes encoded as
// pbkdf2_sha256$<iterations>$<saltB64>$<keyB64>.
package passhash

import (
	"crypto/pbkdf2"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultIterations = 210_000
	SaltLen           = 16
	KeyLen            = 32

	prefix = "pbkdf2_sha256$"
)

var ErrMalformedHash = errors.New("malformed hash")

// Hash derives an encoded hash of secret with the default work factor.
func Hash(secret string) (string, error) {
	return HashWithIters(secret, DefaultIterations)
}

func HashWithIters(secret string, iterations int) (string, error) {
	if iterations <= 0 {
		return "", errors.New("iterations must be > 0")
	}
	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("rand.Read: %w", err)
	}
	dk, err := pbkdf2.Key(sha256.New, secret, salt, iterations, KeyLen)
	if err != nil {
		return "", fmt.Errorf("pbkdf2: %w", err)
	}

	return fmt.Sprintf("%s%d$%s$%s",
		prefix,
		iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(dk),
	), nil
}

// Verify reports whether secret matches the encoded hash. The comparison is constant-time.
func Verify(secret, encoded string) (bool, error) {
	iters, salt, want, err := decode(encoded)
	if err != nil {
		return false, err
	}

	got, err := pbkdf2.Key(sha256.New, secret, salt, iters, len(want))
	if err != nil {
		return false, fmt.Errorf("pbkdf2: %w", err)
	}
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func decode(encoded string) (int, []byte, []byte, error) {
	rest, ok := strings.CutPrefix(encoded, prefix)
	if !ok {
		return 0, nil, nil, fmt.Errorf("%w: unsupported prefix", ErrMalformedHash)
	}
	parts := strings.Split(rest, "$")
	if len(parts) != 3 {
		return 0, nil, nil, ErrMalformedHash
	}

	iters, err := strconv.Atoi(parts[0])
	if err != nil || iters <= 0 {
		return 0, nil, nil, fmt.Errorf("%w: invalid iterations", ErrMalformedHash)
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil || len(salt) == 0 {
		return 0, nil, nil, fmt.Errorf("%w: invalid salt", ErrMalformedHash)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil || len(key) == 0 {
		return 0, nil, nil, fmt.Errorf("%w: invalid derived key", ErrMalformedHash)
	}
	return iters, salt, key, nil
}
