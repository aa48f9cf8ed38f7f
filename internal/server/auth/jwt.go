package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/common"
)

// Claims is the claim set carried by an access token.
type Claims struct {
	Subject   string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// tokenClaims is the wire form: registered claims plus the account id.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// Codec signs and validates HS256 access tokens with a single process-wide
// secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

func NewCodec(secret []byte, opts ...CodecOption) *Codec {
	c := &Codec{secret: secret, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Encode signs claims into a compact JWS.
func (c *Codec) Encode(claims Claims) (string, error) {
	tc := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
		UserID: claims.UserID,
	}
	if !claims.IssuedAt.IsZero() {
		tc.IssuedAt = jwt.NewNumericDate(claims.IssuedAt)
	}

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Decode validates token and returns its claims. The error wraps exactly one
// of common.ErrTokenMalformed, common.ErrTokenSignatureInvalid or
// common.ErrTokenExpired. The signature is checked before the expiry.
func (c *Codec) Decode(token string) (Claims, error) {
	tc := &tokenClaims{}

	_, err := jwt.ParseWithClaims(token, tc, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, mapTokenError(err)
	}

	claims := Claims{
		Subject:   tc.Subject,
		UserID:    tc.UserID,
		ExpiresAt: tc.ExpiresAt.Time.UTC(),
	}
	if tc.IssuedAt != nil {
		claims.IssuedAt = tc.IssuedAt.Time.UTC()
	}
	return claims, nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", common.ErrTokenSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", common.ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
	}
}
