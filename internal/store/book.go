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

// BookStore handles book recommendation database operations.
type BookStore struct {
	db *sql.DB
}

// NewBookStore creates a new BookStore with the given database connection.
func NewBookStore(db *sql.DB) *BookStore {
	return &BookStore{db: db}
}

const bookColumns = `id, title, author, description, cover_image, ebook_link,
	buy_link, tags, is_active, sort_order, created_at, updated_at`

func scanBook(scanner interface{ Scan(...any) error }) (*models.Book, error) {
	var b models.Book
	err := scanner.Scan(
		&b.ID, &b.Title, &b.Author, &b.Description, &b.CoverImage, &b.EbookLink,
		&b.BuyLink, &b.Tags, &b.IsActive, &b.Order, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BookStore) collect(rows *sql.Rows) ([]models.Book, error) {
	defer rows.Close()
	items := []models.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// ListActive returns the active books in display order for the public
// listing.
func (s *BookStore) ListActive() ([]models.Book, error) {
	rows, err := s.db.Query(`
		SELECT ` + bookColumns + ` FROM books
		WHERE is_active = TRUE
		ORDER BY sort_order ASC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list active books: %w", err)
	}
	return s.collect(rows)
}

// ListAll returns every book, active or not, for the admin listing.
func (s *BookStore) ListAll() ([]models.Book, error) {
	rows, err := s.db.Query(`
		SELECT ` + bookColumns + ` FROM books
		ORDER BY sort_order ASC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return s.collect(rows)
}

// FindByID retrieves a book by UUID. Returns nil if not found.
func (s *BookStore) FindByID(id uuid.UUID) (*models.Book, error) {
	row := s.db.QueryRow(`SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find book by id: %w", err)
	}
	return b, nil
}

// Create inserts a new book.
func (s *BookStore) Create(b *models.Book) (*models.Book, error) {
	row := s.db.QueryRow(`
		INSERT INTO books (title, author, description, cover_image, ebook_link, buy_link, tags, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+bookColumns,
		b.Title, b.Author, b.Description, b.CoverImage, b.EbookLink, b.BuyLink,
		b.Tags, b.IsActive, b.Order,
	)
	created, err := scanBook(row)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return created, nil
}

// Update rewrites a book's fields by id. Returns nil if the id is unknown.
func (s *BookStore) Update(b *models.Book) (*models.Book, error) {
	row := s.db.QueryRow(`
		UPDATE books SET
			title = $1, author = $2, description = $3, cover_image = $4,
			ebook_link = $5, buy_link = $6, tags = $7, is_active = $8,
			sort_order = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING `+bookColumns,
		b.Title, b.Author, b.Description, b.CoverImage, b.EbookLink, b.BuyLink,
		b.Tags, b.IsActive, b.Order, b.ID,
	)
	updated, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return updated, nil
}

// Toggle flips a book's active flag. Returns nil if the id is unknown.
func (s *BookStore) Toggle(id uuid.UUID) (*models.Book, error) {
	row := s.db.QueryRow(`
		UPDATE books SET is_active = NOT is_active, updated_at = NOW()
		WHERE id = $1
		RETURNING `+bookColumns, id)
	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("toggle book: %w", err)
	}
	return b, nil
}

// Delete removes a book by id. Returns false if no book matched.
func (s *BookStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete book rows affected: %w", err)
	}
	return n > 0, nil
}
