package domain

import (
	"errors"
	"time"
)

// ErrTokenExpired means the token was well-formed and correctly signed but
// its expiry has passed.
var ErrTokenExpired = errors.New("token has expired")

// ErrTokenMalformed covers every other verification failure: bad structure,
// bad signature, wrong algorithm. A tampered token is indistinguishable from
// a malformed one.
var ErrTokenMalformed = errors.New("invalid token")

// TokenClaims are the decoded contents of a verified token. Tokens are
// stateless; these claims plus the signing secret are the whole credential.
type TokenClaims struct {
	UserID    string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthContext is the per-request identity projection attached by the
// authentication middleware after token verification and user re-resolution.
// It lives for one request only.
type AuthContext struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
