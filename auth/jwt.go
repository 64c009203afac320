package auth

import (
	"errors"
	"fmt"
	"time"

	"orion-os/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMissingSubject = errors.New("token has no subject")

// IdentityClaims mirrors the session claims issued by the identity provider
type IdentityClaims struct {
	Name      string `json:"name,omitempty"`
	FirstName string `json:"given_name,omitempty"`
	LastName  string `json:"family_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Picture   string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier checks HS256 identity tokens
type TokenVerifier struct {
	secret []byte
	issuer string
}

func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}
}

func (v *TokenVerifier) Verify(tokenString string) (domain.Identity, error) {
	// parse token
	claims := &IdentityClaims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return domain.Identity{}, err
	}

	// isValid
	if !token.Valid {
		return domain.Identity{}, errors.New("token invalid")
	}
	if claims.Subject == "" {
		return domain.Identity{}, ErrMissingSubject
	}

	return domain.Identity{
		Subject:   claims.Subject,
		Name:      claims.Name,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Email:     claims.Email,
		ImageURL:  claims.Picture,
	}, nil
}

// Issue signs a token for identity, used by the dev `token` command and tests
func (v *TokenVerifier) Issue(identity domain.Identity, ttl time.Duration) (string, error) {
	if identity.Subject == "" {
		return "", ErrMissingSubject
	}
	now := time.Now()
	claims := IdentityClaims{
		Name:      identity.Name,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Email:     identity.Email,
		Picture:   identity.ImageURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
