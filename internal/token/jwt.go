package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "authgate/pkg/domain-errors"
)

// Claims are the access-token claims minted at code exchange.
type Claims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	ClientID  string `json:"client_id"`
	Realm     string `json:"realm"`
	Scope     string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// Minter signs and validates HS256 access tokens.
type Minter struct {
	signingKey []byte
	issuer     string
}

func NewMinter(signingKey string, issuer string) *Minter {
	return &Minter{signingKey: []byte(signingKey), issuer: issuer}
}

func (m *Minter) MintAccessToken(userID, sessionID uuid.UUID, realm, clientID, scope string, expiresIn time.Duration) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    userID.String(),
		SessionID: sessionID.String(),
		ClientID:  clientID,
		Realm:     realm,
		Scope:     scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    m.issuer,
			Audience:  []string{realm},
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(m.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

func (m *Minter) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return m.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return claims, nil
}
