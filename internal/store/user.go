// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"orthopress/internal/models"
)

// UserStore handles all reader-account database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, name, email, phone, designation, password_hash,
	google_id, firebase_uid, is_verified, created_at, updated_at`

func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Designation, &u.PasswordHash,
		&u.GoogleID, &u.FirebaseUID, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail retrieves a user by email, case-insensitively. Returns
// nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by UUID. Returns nil if not found. The auth
// middleware uses this to reject stale tokens for deleted users.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByGoogleID retrieves a user by linked Google account id. Returns
// nil if not found.
func (s *UserStore) FindByGoogleID(googleID string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by google id: %w", err)
	}
	return u, nil
}

// Create inserts a new user. Exactly the credential fields present on u
// are stored; the caller is responsible for the at-least-one-credential
// invariant. Returns ErrDuplicate when the email is already registered.
func (s *UserStore) Create(u *models.User) (*models.User, error) {
	row := s.db.QueryRow(`
		INSERT INTO users (name, email, phone, designation, password_hash, google_id, firebase_uid, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		u.Name, u.Email, u.Phone, u.Designation, u.PasswordHash, u.GoogleID, u.FirebaseUID, u.IsVerified,
	)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %q: %w", u.Email, ErrDuplicate)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// CreateWithPassword inserts a local-credential user, hashing the
// password with bcrypt.
func (s *UserStore) CreateWithPassword(name, email, phone, designation, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	h := string(hash)
	return s.Create(&models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		Designation:  designation,
		PasswordHash: &h,
	})
}

// LinkGoogleID attaches a Google account to an existing user, marking
// it verified. No other fields are touched, so accounts without local
// passwords link cleanly.
func (s *UserStore) LinkGoogleID(id uuid.UUID, googleID string) (*models.User, error) {
	row := s.db.QueryRow(`
		UPDATE users SET google_id = $1, is_verified = TRUE, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns,
		googleID, id,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("link google id: %w", err)
	}
	return u, nil
}

// CheckPassword verifies a plaintext password against the user's stored
// hash. Users without a local password always fail.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	if user.PasswordHash == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) == nil
}
