package token

import (
	"errors"
	"fmt"
	"time"

	"hr-portal/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "hr-portal"

var (
	ErrInvalid = errors.New("invalid token")
	ErrExpired = errors.New("token expired")
)

// Claims is the identity carried by an access token.
type Claims struct {
	TokenID   string
	UserID    string
	Role      domain.Role
	Name      string
	ExpiresAt time.Time
}

// Manager issues and verifies HS256 access tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *Manager) Issue(userID string, role domain.Role, name string) (string, Claims, error) {
	now := m.now()
	c := Claims{
		TokenID:   uuid.NewString(),
		UserID:    userID,
		Role:      role,
		Name:      name,
		ExpiresAt: now.Add(m.ttl),
	}

	claims := jwt.MapClaims{
		"iss":         issuer,
		"jti":         c.TokenID,
		"user_id":     userID,
		"employee_id": userID,
		"role":        string(role),
		"name":        name,
		"iat":         now.Unix(),
		"exp":         c.ExpiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, c, nil
}

func (m *Manager) Parse(raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return Claims{}, ErrInvalid
	}

	userID, _ := mc["user_id"].(string)
	jti, _ := mc["jti"].(string)
	rawRole, _ := mc["role"].(string)
	name, _ := mc["name"].(string)
	role, err := domain.ParseRole(rawRole)
	if userID == "" || jti == "" || err != nil {
		return Claims{}, ErrInvalid
	}

	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, ErrInvalid
	}

	return Claims{
		TokenID:   jti,
		UserID:    userID,
		Role:      role,
		Name:      name,
		ExpiresAt: exp.Time,
	}, nil
}
