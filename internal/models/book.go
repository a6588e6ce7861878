// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Book is a recommended textbook. Public listings only include active
// books, sorted by the Order display key.
type Book struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Description string     `json:"description,omitempty"`
	CoverImage  string     `json:"coverImage,omitempty"`
	EbookLink   string     `json:"ebookLink,omitempty"`
	BuyLink     string     `json:"buyLink,omitempty"`
	Tags        StringList `json:"tags"`
	IsActive    bool       `json:"isActive"`
	Order       int        `json:"order"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ExamPrep is a downloadable exam preparation resource.
type ExamPrep struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	DownloadURL string    `json:"downloadUrl"`
	AnswersNote string    `json:"answersNote,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
