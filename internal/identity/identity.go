// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package identity verifies third-party identity assertions presented
// during signup. The production implementation delegates to the
// Firebase Admin SDK; handlers depend only on the Verifier interface so
// tests can substitute a stub.
package identity

import (
	"context"
	"errors"
)

// ErrVerificationFailed is returned when an ID token cannot be
// verified: bad signature, expired, revoked, or malformed.
var ErrVerificationFailed = errors.New("identity verification failed")

// Assertion is the verified identity carried by an ID token.
type Assertion struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
}

// Verifier validates an identity provider's ID token and returns the
// asserted identity.
type Verifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Assertion, error)
}
