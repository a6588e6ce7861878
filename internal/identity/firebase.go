// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseVerifier verifies Firebase ID tokens through the Admin SDK.
type FirebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier initializes the Firebase Admin app from a service
// account credentials file. Returns (nil, nil) when no credentials file
// is configured, allowing the app to start without verified signup.
func NewFirebaseVerifier(ctx context.Context, credentialsFile string) (*FirebaseVerifier, error) {
	if credentialsFile == "" {
		return nil, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase app init: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

// VerifyIDToken validates the token signature and expiry and extracts
// the asserted identity. Verification failures of any kind collapse to
// ErrVerificationFailed; the underlying cause is wrapped for logs.
func (v *FirebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*Assertion, error) {
	tok, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	a := &Assertion{UID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		a.Email = email
	}
	if verified, ok := tok.Claims["email_verified"].(bool); ok {
		a.EmailVerified = verified
	}
	if name, ok := tok.Claims["name"].(string); ok {
		a.Name = name
	}
	return a, nil
}
