package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/casekeeper/casekeeper/pkg/models"
)

// DefaultTokenTTL is the session token validity window. There is no
// server-side revocation for session tokens; they are self-expiring only, so
// the window is kept short.
const DefaultTokenTTL = 24 * time.Hour

var (
	// ErrTokenExpired means the signature verified but the expiry instant
	// has passed (or is exactly now).
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed covers every other validation failure: bad
	// signature, unparsable payload, wrong algorithm.
	ErrTokenMalformed = errors.New("invalid token")
)

// Claims is the JWT payload: the standard registered claims plus the user
// identity the token asserts.
type Claims struct {
	jwt.RegisteredClaims
	UserID models.UserID `json:"user_id"`
}

// TokenService issues and validates signed session tokens. It holds the
// server HMAC secret and an injectable clock; it never touches the user
// store — resolving the claimed identity to a live account is the
// authorization gate's job.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a service signing with secret. A non-positive ttl
// falls back to DefaultTokenTTL.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the service's clock. Used by tests to cross expiry
// boundaries without sleeping.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// TTL returns the configured validity window.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs an HS256 token asserting userID, valid from now until now+ttl.
func (s *TokenService) Issue(userID models.UserID) (string, error) {
	issued := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.ttl)),
		},
		UserID: userID,
	})
	return token.SignedString(s.secret)
}

// Validate verifies signature and expiry and returns the claims. It fails
// with ErrTokenExpired when the token is otherwise valid but past its expiry
// (the expiry instant itself counts as expired), and ErrTokenMalformed for
// any signature or parse failure. Tampering with any byte of a token lands in
// ErrTokenMalformed; it can never surface altered claims.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if !token.Valid || claims.UserID.IsZero() {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
