package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/inamate/clipcontrol/internal/typeid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

const tokenTTL = 24 * time.Hour

// Service issues session tokens to hosts presenting the shared host key.
// Only the bcrypt hash of the key is kept in memory.
type Service struct {
	jwtSecret   []byte
	hostKeyHash []byte
	now         func() time.Time
}

// NewService hashes hostKey with the given bcrypt cost.
func NewService(jwtSecret, hostKey string, cost int) (*Service, error) {
	if hostKey == "" {
		return nil, errors.New("host key must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hostKey), cost)
	if err != nil {
		return nil, fmt.Errorf("hash host key: %w", err)
	}
	return &Service{
		jwtSecret:   []byte(jwtSecret),
		hostKeyHash: hash,
		now:         time.Now,
	}, nil
}

type TokenResult struct {
	Token     string    `json:"token"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IssueToken checks hostKey and returns a token for a fresh session id.
func (s *Service) IssueToken(hostKey string) (*TokenResult, error) {
	if err := bcrypt.CompareHashAndPassword(s.hostKeyHash, []byte(hostKey)); err != nil {
		return nil, ErrInvalidCredentials
	}

	sessionID := typeid.NewSessionID()
	now := s.now()
	exp := now.Add(tokenTTL)
	claims := jwt.MapClaims{
		"sub": sessionID,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &TokenResult{Token: signed, SessionID: sessionID, ExpiresAt: exp.UTC().Truncate(time.Second)}, nil
}

// ValidateToken returns the session id carried by tokenString.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	sessionID, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("missing subject: %w", ErrInvalidToken)
	}
	if err := typeid.Validate(sessionID, typeid.PrefixSession); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return sessionID, nil
}
