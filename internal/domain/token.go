package domain

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"time"
)

const UserActivationScope = "user_activation"

// tokenEntropyBytes of randomness encode to a 43-character plaintext.
const tokenEntropyBytes = 32

// Token is a single-purpose credential handed to a user out of band. Only
// the SHA-256 hash is stored; the plaintext exists just long enough to be
// emailed.
type Token struct {
	Plaintext string
	Hash      []byte
	UserId    int64
	Expiry    time.Time
	Scope     string
}

func GenerateToken(userId int64, ttl time.Duration, scope string) (*Token, error) {
	randomBytes := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, err
	}

	plaintext := base64.RawURLEncoding.EncodeToString(randomBytes)
	hash := sha256.Sum256([]byte(plaintext))

	return &Token{
		Plaintext: plaintext,
		Hash:      hash[:],
		UserId:    userId,
		Expiry:    time.Now().Add(ttl),
		Scope:     scope,
	}, nil
}

type TokenRepository interface {
	Create(context.Context, *Token) error
	DeleteAllForUser(ctx context.Context, tokenScope string, userID int) error
}
