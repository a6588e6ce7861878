// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TopicSummary is an access-controlled study document stored in the
// private bucket. StorageKey is the authority for regenerating delivery
// URLs; FileURL is a convenience reference that may go stale.
type TopicSummary struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Tags        StringList `json:"tags"`
	Category    string     `json:"category,omitempty"`
	FileURL     string     `json:"fileUrl"`
	PDFURL      string     `json:"pdfUrl,omitempty"` // legacy alias, set only for PDFs
	FileType    string     `json:"fileType"`
	StorageKey  string     `json:"-"` // never exposed; opaque object-storage reference
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Extension infers the file extension for delivery, preferring the
// stored MIME type, falling back to the URL suffix, defaulting to PDF.
func (t *TopicSummary) Extension() string {
	switch t.FileType {
	case "application/pdf":
		return ".pdf"
	case "application/msword":
		return ".doc"
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return ".docx"
	case "application/vnd.ms-powerpoint":
		return ".ppt"
	case "application/vnd.openxmlformats-officedocument.presentationml.presentation":
		return ".pptx"
	}
	if ext := strings.ToLower(path.Ext(t.FileURL)); ext != "" {
		return ext
	}
	return ".pdf"
}

// IsPDF reports whether the stored document is a PDF.
func (t *TopicSummary) IsPDF() bool {
	return t.FileType == "application/pdf" || (t.FileType == "" && t.Extension() == ".pdf")
}
