// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"orthopress/internal/identity"
	"orthopress/internal/middleware"
	"orthopress/internal/models"
	"orthopress/internal/store"
	"orthopress/internal/token"
)

// Users groups the reader-account handlers: local signup and login,
// delegated verified signup, and Google sign-in.
type Users struct {
	users    *store.UserStore
	tokens   *token.Manager
	verifier identity.Verifier
}

// NewUsers creates a new Users handler group. verifier may be nil when
// no identity provider is configured; the delegated endpoints then
// report the feature unavailable.
func NewUsers(users *store.UserStore, tokens *token.Manager, verifier identity.Verifier) *Users {
	return &Users{users: users, tokens: tokens, verifier: verifier}
}

// userResponse is the public projection of a reader account.
func userResponse(u *models.User) map[string]any {
	return map[string]any{
		"id":          u.ID,
		"name":        u.Name,
		"email":       u.Email,
		"phone":       u.Phone,
		"designation": u.Designation,
		"isVerified":  u.IsVerified,
	}
}

func (h *Users) issueToken(w http.ResponseWriter, u *models.User, status int) {
	signed, err := h.tokens.Issue(u.ID, u.Name, token.AudienceUser)
	if err != nil {
		slog.Error("user token issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, status, map[string]any{
		"token": signed,
		"user":  userResponse(u),
	})
}

type signupRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email,max=320"`
	Phone       string `json:"phone" validate:"max=50"`
	Designation string `json:"designation" validate:"max=200"`
	Password    string `json:"password" validate:"required,min=8,max=200"`
}

// Signup registers a local-credential reader account. The account
// starts unverified; duplicate emails get a 409 regardless of case.
func (h *Users) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	user, err := h.users.CreateWithPassword(req.Name, req.Email, req.Phone, req.Designation, req.Password)
	if err != nil {
		writeStoreError(w, "user signup failed", err)
		return
	}

	h.issueToken(w, user, http.StatusCreated)
}

type signupVerifiedRequest struct {
	IDToken     string `json:"idToken" validate:"required"`
	Name        string `json:"name" validate:"max=200"`
	Email       string `json:"email" validate:"omitempty,email,max=320"`
	Phone       string `json:"phone" validate:"max=50"`
	Designation string `json:"designation" validate:"max=200"`
}

// SignupVerified registers a reader whose email was already verified by
// the identity provider. The stored email comes from the verified
// assertion; a body email, when sent, must match it.
func (h *Users) SignupVerified(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		writeError(w, http.StatusServiceUnavailable, "verified signup is not configured")
		return
	}

	var req signupVerifiedRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	assertion, err := h.verifier.VerifyIDToken(r.Context(), req.IDToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "identity verification failed")
		return
	}
	if !assertion.EmailVerified {
		writeError(w, http.StatusUnauthorized, "email address is not verified")
		return
	}
	if req.Email != "" && !strings.EqualFold(req.Email, assertion.Email) {
		writeError(w, http.StatusBadRequest, "email does not match the verified identity")
		return
	}

	name := req.Name
	if name == "" {
		name = assertion.Name
	}

	uid := assertion.UID
	user, err := h.users.Create(&models.User{
		Name:        name,
		Email:       assertion.Email,
		Phone:       req.Phone,
		Designation: req.Designation,
		FirebaseUID: &uid,
		IsVerified:  true,
	})
	if err != nil {
		writeStoreError(w, "verified signup failed", err)
		return
	}

	h.issueToken(w, user, http.StatusCreated)
}

type googleLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// GoogleLogin signs a reader in with a Google ID token. An existing
// account with the same email (case-insensitive) is linked on first
// use; otherwise a new verified account is created.
func (h *Users) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		writeError(w, http.StatusServiceUnavailable, "google sign-in is not configured")
		return
	}

	var req googleLoginRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	assertion, err := h.verifier.VerifyIDToken(r.Context(), req.IDToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "identity verification failed")
		return
	}

	user, err := h.users.FindByGoogleID(assertion.UID)
	if err != nil {
		slog.Error("google login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if user == nil {
		// Link by email when the address is already registered.
		existing, err := h.users.FindByEmail(assertion.Email)
		if err != nil {
			slog.Error("google login email lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if existing != nil {
			user, err = h.users.LinkGoogleID(existing.ID, assertion.UID)
			if err != nil {
				slog.Error("google account link failed", "error", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}
		} else {
			uid := assertion.UID
			user, err = h.users.Create(&models.User{
				Name:       assertion.Name,
				Email:      assertion.Email,
				GoogleID:   &uid,
				IsVerified: true,
			})
			if err != nil {
				writeStoreError(w, "google signup failed", err)
				return
			}
		}
	}

	h.issueToken(w, user, http.StatusOK)
}

type userLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a local-credential reader. Unknown emails, wrong
// passwords, and Google-only accounts all get the same response.
func (h *Users) Login(w http.ResponseWriter, r *http.Request) {
	var req userLoginRequest
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	user, err := h.users.FindByEmail(req.Email)
	if err != nil {
		slog.Error("user login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil || !h.users.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, invalidCredentials)
		return
	}

	h.issueToken(w, user, http.StatusOK)
}

// Me returns the authenticated reader's account details.
func (h *Users) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	writeJSON(w, http.StatusOK, userResponse(user))
}
