package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	JTI   string `json:"jti"`
	jwt.RegisteredClaims
}

// UserID decodes the subject claim back into the store-assigned id.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

type Manager struct {
	secret        []byte
	issuer        string
	audience      string
	ttl           time.Duration
	enforceExpiry bool
}

// NewManager builds a token manager. enforceExpiry=false keeps accepting
// expired tokens after the validity window, matching the legacy deployment;
// signature, issuer and audience are always checked.
func NewManager(secret, issuer, audience string, ttl time.Duration, enforceExpiry bool) *Manager {
	return &Manager{
		secret:        []byte(secret),
		issuer:        issuer,
		audience:      audience,
		ttl:           ttl,
		enforceExpiry: enforceExpiry,
	}
}

func (m *Manager) GenerateToken(userID int64, email, role string) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		Email: email,
		Role:  role,
		JTI:   uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) VerifyToken(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}

	if m.enforceExpiry {
		opts = append(opts,
			jwt.WithIssuer(m.issuer),
			jwt.WithAudience(m.audience),
		)
	} else {
		// skip the built-in claim checks entirely, then re-apply the ones
		// that must still hold
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if !m.enforceExpiry {
		if claims.Issuer != m.issuer {
			return nil, errors.New("invalid issuer")
		}
		if !hasAudience(claims.Audience, m.audience) {
			return nil, errors.New("invalid audience")
		}
	}

	return claims, nil
}

func hasAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
