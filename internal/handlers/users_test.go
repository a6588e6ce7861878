package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"orthopress/internal/identity"
)

func TestUserSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)

	email := "test-signup-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanUsers(t, env.DB, email) })

	body := `{"name":"Test Reader","email":"` + email + `","password":"longenoughpw"}`
	rr := httptest.NewRecorder()
	env.Users.Signup(rr, httptest.NewRequest(http.MethodPost, "/api/users/signup", strings.NewReader(body)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup: got status %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			IsVerified bool `json:"isVerified"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.IsVerified {
		t.Error("local signup must start unverified")
	}

	// Duplicate email conflicts, case-insensitively.
	dup := `{"name":"Other","email":"` + strings.ToUpper(email) + `","password":"longenoughpw"}`
	rr = httptest.NewRecorder()
	env.Users.Signup(rr, httptest.NewRequest(http.MethodPost, "/api/users/signup", strings.NewReader(dup)))
	if rr.Code != http.StatusConflict {
		t.Errorf("duplicate signup: got status %d, want 409", rr.Code)
	}

	// Login succeeds with the same credentials.
	login := `{"email":"` + email + `","password":"longenoughpw"}`
	rr = httptest.NewRecorder()
	env.Users.Login(rr, httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(login)))
	if rr.Code != http.StatusOK {
		t.Errorf("login: got status %d: %s", rr.Code, rr.Body.String())
	}

	// Wrong password gets the generic message.
	bad := `{"email":"` + email + `","password":"wrongpassword"}`
	rr = httptest.NewRecorder()
	env.Users.Login(rr, httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(bad)))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("bad login: got status %d, want 401", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), invalidCredentials) {
		t.Errorf("bad login body: %s", rr.Body.String())
	}
}

func TestUserSignupVerified(t *testing.T) {
	env := newTestEnv(t)

	email := "test-verified-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanUsers(t, env.DB, email) })

	env.Verifier.assertion = &identity.Assertion{
		UID:           "firebase-" + uuid.NewString(),
		Email:         email,
		EmailVerified: true,
		Name:          "Verified Reader",
	}

	body := `{"idToken":"stub-token"}`
	rr := httptest.NewRecorder()
	env.Users.SignupVerified(rr, httptest.NewRequest(http.MethodPost, "/api/users/signup-verified", strings.NewReader(body)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("got status %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		User struct {
			Name       string `json:"name"`
			Email      string `json:"email"`
			IsVerified bool   `json:"isVerified"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.User.IsVerified {
		t.Error("delegated signup must be verified")
	}
	if resp.User.Email != email {
		t.Errorf("email: got %q, want the asserted address", resp.User.Email)
	}
	if resp.User.Name != "Verified Reader" {
		t.Errorf("name: got %q, want the asserted name", resp.User.Name)
	}
}

func TestUserSignupVerifiedRejectsUnverifiedEmail(t *testing.T) {
	env := newTestEnv(t)

	env.Verifier.assertion = &identity.Assertion{
		UID:           "firebase-x",
		Email:         "unverified@example.com",
		EmailVerified: false,
	}

	rr := httptest.NewRecorder()
	env.Users.SignupVerified(rr, httptest.NewRequest(http.MethodPost, "/api/users/signup-verified",
		strings.NewReader(`{"idToken":"stub-token"}`)))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "not verified") {
		t.Errorf("body: %s", rr.Body.String())
	}
}

func TestUserSignupVerifiedRejectsEmailMismatch(t *testing.T) {
	env := newTestEnv(t)

	env.Verifier.assertion = &identity.Assertion{
		UID:           "firebase-y",
		Email:         "asserted@example.com",
		EmailVerified: true,
	}

	// A body email that disagrees with the assertion is a 400.
	rr := httptest.NewRecorder()
	env.Users.SignupVerified(rr, httptest.NewRequest(http.MethodPost, "/api/users/signup-verified",
		strings.NewReader(`{"idToken":"stub-token","email":"other@example.com"}`)))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", rr.Code)
	}

	// Case differences are not a mismatch.
	email := "test-match-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanUsers(t, env.DB, email) })
	env.Verifier.assertion = &identity.Assertion{
		UID:           "firebase-" + uuid.NewString(),
		Email:         email,
		EmailVerified: true,
		Name:          "Case Reader",
	}
	rr = httptest.NewRecorder()
	env.Users.SignupVerified(rr, httptest.NewRequest(http.MethodPost, "/api/users/signup-verified",
		strings.NewReader(`{"idToken":"stub-token","email":"`+strings.ToUpper(email)+`"}`)))
	if rr.Code != http.StatusCreated {
		t.Errorf("got status %d, want 201: %s", rr.Code, rr.Body.String())
	}
}

func TestGoogleLoginCreatesAndLinks(t *testing.T) {
	env := newTestEnv(t)

	email := "test-google-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanUsers(t, env.DB, email) })

	uid := "google-" + uuid.NewString()
	env.Verifier.assertion = &identity.Assertion{
		UID:   uid,
		Email: email,
		Name:  "Google Reader",
	}

	// First sign-in creates a verified account.
	rr := httptest.NewRecorder()
	env.Users.GoogleLogin(rr, httptest.NewRequest(http.MethodPost, "/api/users/google-login",
		strings.NewReader(`{"idToken":"stub-token"}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("first sign-in: got status %d: %s", rr.Code, rr.Body.String())
	}

	created, err := env.UserStore.FindByGoogleID(uid)
	if err != nil || created == nil {
		t.Fatalf("expected account for google id: %v", err)
	}
	if !created.IsVerified {
		t.Error("google accounts must be verified")
	}

	// Second sign-in resolves the same account.
	rr = httptest.NewRecorder()
	env.Users.GoogleLogin(rr, httptest.NewRequest(http.MethodPost, "/api/users/google-login",
		strings.NewReader(`{"idToken":"stub-token"}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("second sign-in: got status %d", rr.Code)
	}

	again, _ := env.UserStore.FindByGoogleID(uid)
	if again == nil || again.ID != created.ID {
		t.Error("repeat sign-in must not create a second account")
	}
}

func TestGoogleLoginLinksExistingEmail(t *testing.T) {
	env := newTestEnv(t)

	email := "test-glink-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanUsers(t, env.DB, email) })

	existing, err := env.UserStore.CreateWithPassword("Local Reader", email, "", "", "longenoughpw")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	uid := "google-" + uuid.NewString()
	env.Verifier.assertion = &identity.Assertion{UID: uid, Email: strings.ToUpper(email)}

	rr := httptest.NewRecorder()
	env.Users.GoogleLogin(rr, httptest.NewRequest(http.MethodPost, "/api/users/google-login",
		strings.NewReader(`{"idToken":"stub-token"}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rr.Code, rr.Body.String())
	}

	linked, _ := env.UserStore.FindByGoogleID(uid)
	if linked == nil || linked.ID != existing.ID {
		t.Fatal("expected the existing account to be linked")
	}
	if !linked.IsVerified {
		t.Error("linked account must become verified")
	}
	if linked.PasswordHash == nil {
		t.Error("linking must keep the local password")
	}
}

func TestGoogleLoginVerificationFailure(t *testing.T) {
	env := newTestEnv(t)

	env.Verifier.assertion = nil
	env.Verifier.err = identity.ErrVerificationFailed

	rr := httptest.NewRecorder()
	env.Users.GoogleLogin(rr, httptest.NewRequest(http.MethodPost, "/api/users/google-login",
		strings.NewReader(`{"idToken":"bad-token"}`)))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", rr.Code)
	}
}
