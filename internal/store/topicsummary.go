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

// TopicSummaryStore handles topic summary database operations.
type TopicSummaryStore struct {
	db *sql.DB
}

// NewTopicSummaryStore creates a new TopicSummaryStore with the given
// database connection.
func NewTopicSummaryStore(db *sql.DB) *TopicSummaryStore {
	return &TopicSummaryStore{db: db}
}

const topicSummaryColumns = `id, title, description, tags, category, file_url,
	file_type, storage_key, created_at, updated_at`

func scanTopicSummary(scanner interface{ Scan(...any) error }) (*models.TopicSummary, error) {
	var t models.TopicSummary
	err := scanner.Scan(
		&t.ID, &t.Title, &t.Description, &t.Tags, &t.Category, &t.FileURL,
		&t.FileType, &t.StorageKey, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if t.IsPDF() {
		t.PDFURL = t.FileURL
	}
	return &t, nil
}

// List returns all topic summaries, newest first.
func (s *TopicSummaryStore) List() ([]models.TopicSummary, error) {
	rows, err := s.db.Query(`SELECT ` + topicSummaryColumns + ` FROM topic_summaries ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list topic summaries: %w", err)
	}
	defer rows.Close()

	items := []models.TopicSummary{}
	for rows.Next() {
		t, err := scanTopicSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan topic summary: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves a topic summary by UUID. Returns nil if not found.
func (s *TopicSummaryStore) FindByID(id uuid.UUID) (*models.TopicSummary, error) {
	row := s.db.QueryRow(`SELECT `+topicSummaryColumns+` FROM topic_summaries WHERE id = $1`, id)
	t, err := scanTopicSummary(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find topic summary by id: %w", err)
	}
	return t, nil
}

// Create inserts a new topic summary record after its document has been
// stored in the private bucket. The caller assigns the id up front so
// the delivery path can reference it.
func (s *TopicSummaryStore) Create(t *models.TopicSummary) (*models.TopicSummary, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	row := s.db.QueryRow(`
		INSERT INTO topic_summaries (id, title, description, tags, category, file_url, file_type, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+topicSummaryColumns,
		t.ID, t.Title, t.Description, t.Tags, t.Category, t.FileURL, t.FileType, t.StorageKey,
	)
	created, err := scanTopicSummary(row)
	if err != nil {
		return nil, fmt.Errorf("create topic summary: %w", err)
	}
	return created, nil
}

// Delete removes a topic summary by id and returns the deleted record so
// the caller can clean up the stored object. Returns nil if no row matched.
func (s *TopicSummaryStore) Delete(id uuid.UUID) (*models.TopicSummary, error) {
	row := s.db.QueryRow(`DELETE FROM topic_summaries WHERE id = $1 RETURNING `+topicSummaryColumns, id)
	t, err := scanTopicSummary(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete topic summary: %w", err)
	}
	return t, nil
}
