package auth

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("auth: not found")
	ErrDuplicateIdentity = errors.New("auth: username or email already registered")
	ErrInvalidInput      = errors.New("auth: invalid input")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases are indistinguishable outside this package so error
	// responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrInvalidToken is the base class for every token verification
	// failure. The variants below exist for logging; all of them satisfy
	// errors.Is(err, ErrInvalidToken) and callers outside the trust
	// boundary must surface them identically.
	ErrInvalidToken       = errors.New("auth: invalid token")
	ErrTokenMalformed     = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrTokenBadSignature  = fmt.Errorf("%w: bad signature", ErrInvalidToken)
	ErrTokenExpired       = fmt.Errorf("%w: expired", ErrInvalidToken)
)
