// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// columns.go defines driver.Valuer/sql.Scanner wrappers so that
// list-valued and structured blog fields round-trip through JSONB
// columns without per-call marshalling in the stores.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonbValue marshals v for storage in a JSONB column. Nil-able slices
// are stored as empty JSON arrays rather than SQL NULL so that scans
// never have to deal with NULL.
func jsonbValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("jsonb marshal: %w", err)
	}
	return b, nil
}

// jsonbScan unmarshals a JSONB column value into dst. NULL leaves dst
// at its zero value.
func jsonbScan(src any, dst any) error {
	if src == nil {
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("jsonb scan: unsupported source type %T", src)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}

// StringList is a JSONB-backed list of strings (tags, keywords, gallery
// URLs, summary points, co-authors, attachments).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return jsonbValue(l)
}

func (l *StringList) Scan(src any) error { return jsonbScan(src, l) }

// Block is one element of a serialized rich-text body. Data is kept
// opaque except where a specific block type is inspected (image URLs,
// markdown text).
type Block struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// BlockList is the JSONB-backed rich-text body of a blog.
type BlockList []Block

func (l BlockList) Value() (driver.Value, error) {
	if l == nil {
		l = BlockList{}
	}
	return jsonbValue(l)
}

func (l *BlockList) Scan(src any) error { return jsonbScan(src, l) }

// Citation is a referenced work with an optional link.
type Citation struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

type CitationList []Citation

func (l CitationList) Value() (driver.Value, error) {
	if l == nil {
		l = CitationList{}
	}
	return jsonbValue(l)
}

func (l *CitationList) Scan(src any) error { return jsonbScan(src, l) }

// Source is a labeled external source URL.
type Source struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type SourceList []Source

func (l SourceList) Value() (driver.Value, error) {
	if l == nil {
		l = SourceList{}
	}
	return jsonbValue(l)
}

func (l *SourceList) Scan(src any) error { return jsonbScan(src, l) }

// QuizQuestion is a single multiple-choice self-test question attached
// to a blog. CorrectAnswer indexes into Options.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

type QuizList []QuizQuestion

func (l QuizList) Value() (driver.Value, error) {
	if l == nil {
		l = QuizList{}
	}
	return jsonbValue(l)
}

func (l *QuizList) Scan(src any) error { return jsonbScan(src, l) }

// Shares tracks per-network share counters.
type Shares struct {
	Facebook int `json:"facebook"`
	Twitter  int `json:"twitter"`
	Whatsapp int `json:"whatsapp"`
}

func (s Shares) Value() (driver.Value, error) { return jsonbValue(s) }

func (s *Shares) Scan(src any) error { return jsonbScan(src, s) }

// ImageMetadata summarizes every image referenced by a blog. It is
// derived from the hero image and the image blocks in the body, never
// set directly by clients.
type ImageMetadata struct {
	HeroImageURL     string   `json:"heroImageUrl,omitempty"`
	ContentImageURLs []string `json:"contentImageUrls"`
	TotalImages      int      `json:"totalImages"`
}

func (m ImageMetadata) Value() (driver.Value, error) { return jsonbValue(m) }

func (m *ImageMetadata) Scan(src any) error { return jsonbScan(src, m) }
