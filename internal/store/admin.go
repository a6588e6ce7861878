// Package store provides database access methods for all Orthopress
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"orthopress/internal/models"
)

// AdminStore handles all admin-account database operations.
type AdminStore struct {
	db *sql.DB
}

// NewAdminStore creates a new AdminStore with the given database connection.
func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

const adminColumns = `id, username, password_hash, totp_secret, totp_enabled, created_at, updated_at`

func scanAdmin(scanner interface{ Scan(...any) error }) (*models.Admin, error) {
	var a models.Admin
	err := scanner.Scan(
		&a.ID, &a.Username, &a.PasswordHash, &a.TOTPSecret, &a.TOTPEnabled,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByUsername retrieves an admin by username. Returns nil if not found.
func (s *AdminStore) FindByUsername(username string) (*models.Admin, error) {
	row := s.db.QueryRow(`SELECT `+adminColumns+` FROM admins WHERE username = $1`, username)
	a, err := scanAdmin(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by username: %w", err)
	}
	return a, nil
}

// FindByID retrieves an admin by UUID. Returns nil if not found. Used
// by the auth middleware to reject tokens whose admin no longer exists.
func (s *AdminStore) FindByID(id uuid.UUID) (*models.Admin, error) {
	row := s.db.QueryRow(`SELECT `+adminColumns+` FROM admins WHERE id = $1`, id)
	a, err := scanAdmin(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by id: %w", err)
	}
	return a, nil
}

// Create inserts a new admin with a bcrypt-hashed password. Returns
// ErrDuplicate if the username is taken — concurrent setup calls race
// at the unique index, not at an application pre-check.
func (s *AdminStore) Create(username, password string) (*models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO admins (username, password_hash)
		VALUES ($1, $2)
		RETURNING `+adminColumns,
		username, string(hash),
	)
	a, err := scanAdmin(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("admin %q: %w", username, ErrDuplicate)
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return a, nil
}

// SetTOTPSecret saves the TOTP secret for an admin (during 2FA setup).
func (s *AdminStore) SetTOTPSecret(id uuid.UUID, secret string) error {
	_, err := s.db.Exec(`
		UPDATE admins SET totp_secret = $1, updated_at = NOW() WHERE id = $2
	`, secret, id)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for an admin (after successful code
// verification).
func (s *AdminStore) EnableTOTP(id uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE admins SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the admin's stored hash.
func (s *AdminStore) CheckPassword(admin *models.Admin, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) == nil
}
