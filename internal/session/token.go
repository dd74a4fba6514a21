package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tokens mints and verifies the bearer tokens that identify sessions.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens builds a token signer. With an empty secret an ephemeral random
// one is generated; tokens then stop verifying across restarts, which is
// acceptable for in-memory sessions.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	key := []byte(secret)
	if len(key) == 0 {
		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate fallback secret: %w", err)
		}
		key = []byte(base64.RawURLEncoding.EncodeToString(buf))
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: key, ttl: ttl}, nil
}

// Mint signs a token carrying the session id as subject.
func (t *Tokens) Mint(sessionID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"sub": sessionID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse verifies a token and extracts the session id.
func (t *Tokens) Parse(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, errors.New("invalid token subject")
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errors.New("invalid session id in token")
	}

	return id, nil
}
