// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package token issues and verifies the bearer tokens used by both the
// admin and reader APIs. Tokens are HS256 JWTs with a fixed expiry
// window; there is no refresh or revocation — logout is client-side
// token discard.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Audience distinguishes admin tokens from reader tokens. A token is
// only accepted by routes guarded for its audience.
type Audience string

const (
	AudienceAdmin Audience = "admin"
	AudienceUser  Audience = "user"
)

// ErrInvalid is returned for any token that fails parsing, signature
// verification, expiry, or audience checks. Callers treat all of these
// identically (401), so the cause is not distinguished.
var ErrInvalid = errors.New("invalid token")

// Claims is the verified content of a bearer token.
type Claims struct {
	Subject  uuid.UUID
	Name     string
	Audience Audience
}

// Manager signs and verifies tokens with a shared secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager. ttl is the fixed server-side
// expiry window for all issued tokens.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given subject.
func (m *Manager) Issue(subject uuid.UUID, name string, aud Audience) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  subject.String(),
		"name": name,
		"aud":  string(aud),
		"iat":  now.Unix(),
		"exp":  now.Add(m.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string for the expected audience.
func (m *Manager) Verify(raw string, aud Audience) (*Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalid
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalid
	}

	if got, _ := claims["aud"].(string); got != string(aud) {
		return nil, ErrInvalid
	}

	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalid
	}

	name, _ := claims["name"].(string)
	return &Claims{Subject: id, Name: name, Audience: aud}, nil
}
