// Package auth verifies bearer credentials and issues tokens for the API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Authentication failures. All of them map to a 401; the distinction matters
// for logs and for the client's retry behavior (an expired token calls for a
// re-login, a missing one for a login).
var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// Identity is the authenticated caller.
type Identity struct {
	UserID   int
	Username string
}

// Authenticator validates a bearer credential and yields the caller's
// identity. Implementations must be side-effect free: authentication happens
// before any mutation is attempted.
type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (Identity, error)
}

// JWTAuthenticator verifies HS256-signed tokens issued by this service.
type JWTAuthenticator struct {
	Secret []byte
}

func NewJWTAuthenticator(secret []byte) *JWTAuthenticator {
	return &JWTAuthenticator{Secret: secret}
}

// Authenticate parses and verifies the token, returning the identity from
// its claims. An empty token is ErrMissingToken; a bad signature or claim
// shape is ErrInvalidToken; a past exp is ErrExpiredToken.
func (a *JWTAuthenticator) Authenticate(_ context.Context, bearerToken string) (Identity, error) {
	if bearerToken == "" {
		return Identity{}, ErrMissingToken
	}

	token, err := jwt.Parse(bearerToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrExpiredToken
		}
		return Identity{}, ErrInvalidToken
	}
	if !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	username, _ := claims["username"].(string)

	return Identity{UserID: int(userID), Username: username}, nil
}

// IssueToken signs a token for the given user, valid for ttl.
func IssueToken(secret []byte, userID int, username string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
