// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"orthopress/internal/models"
)

// ExamPrepStore handles exam preparation resource database operations.
type ExamPrepStore struct {
	db *sql.DB
}

// NewExamPrepStore creates a new ExamPrepStore with the given database
// connection.
func NewExamPrepStore(db *sql.DB) *ExamPrepStore {
	return &ExamPrepStore{db: db}
}

const examPrepColumns = `id, name, description, download_url, answers_note, created_at, updated_at`

func scanExamPrep(scanner interface{ Scan(...any) error }) (*models.ExamPrep, error) {
	var e models.ExamPrep
	err := scanner.Scan(
		&e.ID, &e.Name, &e.Description, &e.DownloadURL, &e.AnswersNote,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns all exam prep resources, newest first.
func (s *ExamPrepStore) List() ([]models.ExamPrep, error) {
	rows, err := s.db.Query(`SELECT ` + examPrepColumns + ` FROM exam_preps ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list exam preps: %w", err)
	}
	defer rows.Close()

	items := []models.ExamPrep{}
	for rows.Next() {
		e, err := scanExamPrep(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exam prep: %w", err)
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

// FindByID retrieves an exam prep resource by UUID. Returns nil if not
// found.
func (s *ExamPrepStore) FindByID(id uuid.UUID) (*models.ExamPrep, error) {
	row := s.db.QueryRow(`SELECT `+examPrepColumns+` FROM exam_preps WHERE id = $1`, id)
	e, err := scanExamPrep(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find exam prep by id: %w", err)
	}
	return e, nil
}

// Create inserts a new exam prep resource.
func (s *ExamPrepStore) Create(e *models.ExamPrep) (*models.ExamPrep, error) {
	row := s.db.QueryRow(`
		INSERT INTO exam_preps (name, description, download_url, answers_note)
		VALUES ($1, $2, $3, $4)
		RETURNING `+examPrepColumns,
		e.Name, e.Description, e.DownloadURL, e.AnswersNote,
	)
	created, err := scanExamPrep(row)
	if err != nil {
		return nil, fmt.Errorf("create exam prep: %w", err)
	}
	return created, nil
}

// Update rewrites an exam prep resource by id. Returns nil if the id is
// unknown.
func (s *ExamPrepStore) Update(e *models.ExamPrep) (*models.ExamPrep, error) {
	row := s.db.QueryRow(`
		UPDATE exam_preps SET
			name = $1, description = $2, download_url = $3, answers_note = $4,
			updated_at = NOW()
		WHERE id = $5
		RETURNING `+examPrepColumns,
		e.Name, e.Description, e.DownloadURL, e.AnswersNote, e.ID,
	)
	updated, err := scanExamPrep(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update exam prep: %w", err)
	}
	return updated, nil
}

// Delete removes an exam prep resource by id. Returns false if no row
// matched.
func (s *ExamPrepStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM exam_preps WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete exam prep: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete exam prep rows affected: %w", err)
	}
	return n > 0, nil
}
