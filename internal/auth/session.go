package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"travelblog/internal/model"
)

// DefaultSessionTTL is used when no lifetime is configured.
const DefaultSessionTTL = 24 * time.Hour

// Identity is the minimal authenticated-user payload carried in a session.
type Identity struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  model.Role `json:"role"`
}

// IsAdmin reports whether the identity holds the ADMIN role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == model.RoleAdmin
}

// Claims represents JWT claims.
type Claims struct {
	UserID string     `json:"id"`
	Email  string     `json:"email"`
	Name   string     `json:"name,omitempty"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionService issues and reads signed, stateless session tokens.
type SessionService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionService creates a session service with the given secret and lifetime.
func NewSessionService(secret string, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued tokens.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a new token for the identity.
func (s *SessionService) Issue(identity Identity) (token string, expiresAt time.Time, err error) {
	if identity.ID == "" {
		return "", time.Time{}, errors.New("identity has no id")
	}
	if identity.Role == "" {
		identity.Role = model.RoleUser
	}

	now := s.now()
	expiresAt = now.Add(s.ttl)
	claims := &Claims{
		UserID: identity.ID,
		Email:  identity.Email,
		Name:   identity.Name,
		Role:   identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Parse validates a token and returns its claims.
func (s *SessionService) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user id")
	}
	return claims, nil
}

// Read returns the identity in the token, or false when the token is
// missing, malformed, expired or signed with another key.
func (s *SessionService) Read(tokenString string) (*Identity, bool) {
	if tokenString == "" {
		return nil, false
	}
	claims, err := s.Parse(tokenString)
	if err != nil {
		return nil, false
	}
	role := claims.Role
	if role == "" {
		role = model.RoleUser
	}
	return &Identity{
		ID:    claims.UserID,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  role,
	}, true
}
