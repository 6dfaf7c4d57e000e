package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

type sessionClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// Verifier validates HS256 session tokens minted by the identity provider.
type Verifier struct {
	key    []byte
	issuer string
}

func NewVerifier(signingKey, issuer string) *Verifier {
	return &Verifier{key: []byte(signingKey), issuer: issuer}
}

// Verify parses token and returns the identity it asserts.
func (v *Verifier) Verify(token string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("%w: missing subject or email", ErrInvalidToken)
	}

	return &Identity{
		Subject:  claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		ImageURL: claims.ImageURL,
	}, nil
}

// Sign mints a session token for id that Verify accepts. The admin CLI uses it
// to issue development tokens.
func (v *Verifier) Sign(id *Identity, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = id.Subject
	if claims.Issuer == "" {
		claims.Issuer = v.issuer
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: claims,
		Email:            id.Email,
		Name:             id.Name,
		ImageURL:         id.ImageURL,
	})
	return token.SignedString(v.key)
}
