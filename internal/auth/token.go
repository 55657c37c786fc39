package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"

	"github.com/shelfline/bookmarket/internal/user"
)

var ErrTokenNotFound = errors.New("token not found or expired")

// Identity is the verified (user, role) pair attached to a bearer token.
type Identity struct {
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
	Role   user.Role `json:"role"`
}

// TokenStore maps opaque bearer tokens to identities with an expiry. It is
// injected into the service so handlers never touch process-wide state.
type TokenStore interface {
	Save(ctx context.Context, token string, id Identity, ttl time.Duration) error
	Get(ctx context.Context, token string) (Identity, error)
	Delete(ctx context.Context, token string) error
}

// newToken returns a 64-character hex token from 32 random bytes.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
