package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the fixed, versioned payload of a session token: the
// user's identity plus the profile flags cached for the request's duration.
type SessionClaims struct {
	UserID            string `json:"uid"`
	Username          string `json:"username"`
	Verified          bool   `json:"verified"`
	AcceptingMessages bool   `json:"accepting_messages"`
	jwt.RegisteredClaims
}

// JWTAuthenticator mints and validates stateless HS256 session tokens.
type JWTAuthenticator struct {
	secret    string
	audience  string
	issuer    string
	expiresIn time.Duration
}

// NewJWTAuthenticator creates a new JWTAuthenticator instance.
func NewJWTAuthenticator(secret, audience, issuer string, expiresIn time.Duration) JWTAuthenticator {
	return JWTAuthenticator{
		secret:    secret,
		audience:  audience,
		issuer:    issuer,
		expiresIn: expiresIn,
	}
}

// GenerateSessionToken issues a signed token carrying the given session claims.
// Registered claims (issuer, audience, expiry) are filled in here so callers
// only supply the identity fields.
func (a *JWTAuthenticator) GenerateSessionToken(claims SessionClaims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.expiresIn)),
		Issuer:    a.issuer,
		Audience:  jwt.ClaimStrings{a.audience},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString([]byte(a.secret))
	if err != nil {
		return "", err
	}

	return tokenStr, nil
}

// ValidateSessionToken validates a token and returns its session claims.
// Tokens are re-validated on every request; there is no server-side session
// store to consult.
func (a *JWTAuthenticator) ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(a.secret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithAudience(a.audience),
		jwt.WithIssuer(a.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
