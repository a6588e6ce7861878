// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"orthopress/internal/middleware"
	"orthopress/internal/store"
	"orthopress/internal/token"
)

// invalidCredentials is the single message for every failed login
// variant, so responses do not reveal whether an account exists.
const invalidCredentials = "invalid credentials"

// Auth groups the admin authentication handlers: bootstrap setup, login
// with optional TOTP, and the 2FA enrollment endpoints.
type Auth struct {
	admins       *store.AdminStore
	tokens       *token.Manager
	setupEnabled bool
}

// NewAuth creates a new Auth handler group.
func NewAuth(admins *store.AdminStore, tokens *token.Manager, setupEnabled bool) *Auth {
	return &Auth{admins: admins, tokens: tokens, setupEnabled: setupEnabled}
}

type setupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=8,max=200"`
}

// Setup bootstraps the first admin account. Guarded by an explicit
// environment switch; deployments flip it off once the admin exists.
func (a *Auth) Setup(w http.ResponseWriter, r *http.Request) {
	if !a.setupEnabled {
		writeError(w, http.StatusForbidden, "admin setup is disabled")
		return
	}

	var req setupRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	admin, err := a.admins.Create(req.Username, req.Password)
	if err != nil {
		writeStoreError(w, "admin setup failed", err)
		return
	}

	signed, err := a.tokens.Issue(admin.ID, admin.Username, token.AudienceAdmin)
	if err != nil {
		slog.Error("admin token issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("admin account created", "username", admin.Username)
	writeJSON(w, http.StatusCreated, map[string]any{
		"token": signed,
		"admin": map[string]any{
			"id":       admin.ID,
			"username": admin.Username,
		},
	})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	TOTPCode string `json:"totpCode"`
}

// Login authenticates an admin and issues a bearer token. Admins with
// 2FA enabled must also present a valid TOTP code.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	admin, err := a.admins.FindByUsername(req.Username)
	if err != nil {
		slog.Error("admin login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if admin == nil || !a.admins.CheckPassword(admin, req.Password) {
		writeError(w, http.StatusUnauthorized, invalidCredentials)
		return
	}

	if admin.Needs2FA() {
		if req.TOTPCode == "" {
			writeError(w, http.StatusUnauthorized, "two-factor code required")
			return
		}
		if !totp.Validate(req.TOTPCode, *admin.TOTPSecret) {
			writeError(w, http.StatusUnauthorized, invalidCredentials)
			return
		}
	}

	signed, err := a.tokens.Issue(admin.ID, admin.Username, token.AudienceAdmin)
	if err != nil {
		slog.Error("admin token issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": signed,
		"admin": map[string]any{
			"id":          admin.ID,
			"username":    admin.Username,
			"totpEnabled": admin.TOTPEnabled,
		},
	})
}

// Me returns the authenticated admin's account details.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"id":          admin.ID,
		"username":    admin.Username,
		"totpEnabled": admin.TOTPEnabled,
	})
}

// TwoFASetup generates a fresh TOTP secret for the authenticated admin
// and returns it with a QR code for authenticator apps. 2FA stays off
// until the first code is verified.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFrom(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Orthopress",
		AccountName: admin.Username,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := a.admins.SetTOTPSecret(admin.ID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"secret": key.Secret(),
		"qrCode": base64.StdEncoding.EncodeToString(qrPNG),
	})
}

type twoFAVerifyRequest struct {
	Code string `json:"code" validate:"required"`
}

// TwoFAVerify validates a TOTP code against the pending secret and
// enables 2FA for the admin.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFrom(r.Context())

	var req twoFAVerifyRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	if admin.TOTPSecret == nil {
		writeError(w, http.StatusBadRequest, "two-factor setup has not been started")
		return
	}
	if !totp.Validate(req.Code, *admin.TOTPSecret) {
		writeError(w, http.StatusUnauthorized, "invalid code")
		return
	}

	if err := a.admins.EnableTOTP(admin.ID); err != nil {
		slog.Error("enable totp failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"totpEnabled": true})
}
