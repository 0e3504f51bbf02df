package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenMaker wraps the random session id in a signed cookie value. The
// cookie stays opaque to the client; a bad signature means no session.
type TokenMaker struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenMaker(secret string, ttl time.Duration) *TokenMaker {
	return &TokenMaker{
		secret: []byte(secret),
		issuer: "woodloft",
		ttl:    ttl,
	}
}

type tokenClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func (t *TokenMaker) Mint(sessionID string) (string, error) {
	now := time.Now()

	claims := tokenClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *TokenMaker) Verify(tokenStr string) (string, error) {
	var c tokenClaims

	token, err := jwt.ParseWithClaims(tokenStr, &c, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || token == nil || !token.Valid || c.SessionID == "" {
		return "", errors.New("invalid session token")
	}
	if c.Issuer != "" && c.Issuer != t.issuer {
		return "", errors.New("invalid issuer")
	}

	return c.SessionID, nil
}
