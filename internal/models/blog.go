// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogStatus represents the publishing state of a blog article.
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
	BlogStatusArchived  BlogStatus = "archived"
)

// ValidBlogStatus reports whether s is one of the known statuses.
func ValidBlogStatus(s BlogStatus) bool {
	switch s {
	case BlogStatusDraft, BlogStatusPublished, BlogStatusArchived:
		return true
	}
	return false
}

// Blog is a full article. The slug is unique and immutable by
// convention; the content body is a serialized block list.
type Blog struct {
	ID              uuid.UUID     `json:"id"`
	MainHeading     string        `json:"mainHeading"`
	SubHeading      string        `json:"subHeading,omitempty"`
	Slug            string        `json:"slug"`
	HeroImage       string        `json:"heroImage,omitempty"`
	Gallery         StringList    `json:"gallery"`
	Content         BlockList     `json:"content"`
	Tags            StringList    `json:"tags"`
	Category        string        `json:"category,omitempty"`
	Status          BlogStatus    `json:"status"`
	ScheduledAt     *time.Time    `json:"scheduledAt,omitempty"`
	ReadingTime     int           `json:"readingTime"`
	MetaTitle       string        `json:"metaTitle,omitempty"`
	MetaDescription string        `json:"metaDescription,omitempty"`
	Keywords        StringList    `json:"keywords"`
	Views           int           `json:"views"`
	Likes           int           `json:"likes"`
	Shares          Shares        `json:"shares"`
	Citations       CitationList  `json:"citations"`
	Sources         SourceList    `json:"sources"`
	VideoEmbed      string        `json:"videoEmbed,omitempty"`
	Attachments     StringList    `json:"attachments"`
	DifficultyLevel string        `json:"difficultyLevel,omitempty"`
	SummaryPoints   StringList    `json:"summaryPoints"`
	QuizQuestions   QuizList      `json:"quizQuestions"`
	Author          string        `json:"author,omitempty"`
	CoAuthors       StringList    `json:"coAuthors"`
	ImageMetadata   ImageMetadata `json:"imageMetadata"`
	Comments        []Comment     `json:"comments,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// IsPublished returns true if the blog is in published status.
func (b *Blog) IsPublished() bool {
	return b.Status == BlogStatusPublished
}

// BlogSummary is the listing projection of a blog: everything except
// the content body and comments.
type BlogSummary struct {
	ID              uuid.UUID     `json:"id"`
	MainHeading     string        `json:"mainHeading"`
	SubHeading      string        `json:"subHeading,omitempty"`
	Slug            string        `json:"slug"`
	HeroImage       string        `json:"heroImage,omitempty"`
	Tags            StringList    `json:"tags"`
	Category        string        `json:"category,omitempty"`
	Status          BlogStatus    `json:"status"`
	ReadingTime     int           `json:"readingTime"`
	MetaTitle       string        `json:"metaTitle,omitempty"`
	MetaDescription string        `json:"metaDescription,omitempty"`
	Views           int           `json:"views"`
	Likes           int           `json:"likes"`
	Author          string        `json:"author,omitempty"`
	DifficultyLevel string        `json:"difficultyLevel,omitempty"`
	ImageMetadata   ImageMetadata `json:"imageMetadata"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// Summary returns the listing projection of the blog.
func (b *Blog) Summary() BlogSummary {
	return BlogSummary{
		ID:              b.ID,
		MainHeading:     b.MainHeading,
		SubHeading:      b.SubHeading,
		Slug:            b.Slug,
		HeroImage:       b.HeroImage,
		Tags:            b.Tags,
		Category:        b.Category,
		Status:          b.Status,
		ReadingTime:     b.ReadingTime,
		MetaTitle:       b.MetaTitle,
		MetaDescription: b.MetaDescription,
		Views:           b.Views,
		Likes:           b.Likes,
		Author:          b.Author,
		DifficultyLevel: b.DifficultyLevel,
		ImageMetadata:   b.ImageMetadata,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// Comment is an append-only reader comment on a blog. Ordering is
// insertion order; there is no edit or delete path.
type Comment struct {
	ID          uuid.UUID `json:"id"`
	BlogID      uuid.UUID `json:"-"`
	Author      string    `json:"author"`
	AuthorImage string    `json:"authorImage,omitempty"`
	Content     string    `json:"content"`
	Likes       int       `json:"likes"`
	IsStudent   bool      `json:"isStudent"`
	CreatedAt   time.Time `json:"date"`
}
