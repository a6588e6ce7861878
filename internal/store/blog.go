// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"orthopress/internal/models"
)

// BlogStore handles all blog-article database operations, including the
// append-only comment table.
type BlogStore struct {
	db *sql.DB
}

// NewBlogStore creates a new BlogStore with the given database connection.
func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

const blogColumns = `id, main_heading, sub_heading, slug, hero_image, gallery, content,
	tags, category, status, scheduled_at, reading_time, meta_title, meta_description,
	keywords, views, likes, shares, citations, sources, video_embed, attachments,
	difficulty_level, summary_points, quiz_questions, author, co_authors,
	image_metadata, created_at, updated_at`

const blogSummaryColumns = `id, main_heading, sub_heading, slug, hero_image, tags,
	category, status, reading_time, meta_title, meta_description, views, likes,
	author, difficulty_level, image_metadata, created_at, updated_at`

func scanBlog(scanner interface{ Scan(...any) error }) (*models.Blog, error) {
	var b models.Blog
	err := scanner.Scan(
		&b.ID, &b.MainHeading, &b.SubHeading, &b.Slug, &b.HeroImage, &b.Gallery, &b.Content,
		&b.Tags, &b.Category, &b.Status, &b.ScheduledAt, &b.ReadingTime, &b.MetaTitle,
		&b.MetaDescription, &b.Keywords, &b.Views, &b.Likes, &b.Shares, &b.Citations,
		&b.Sources, &b.VideoEmbed, &b.Attachments, &b.DifficultyLevel, &b.SummaryPoints,
		&b.QuizQuestions, &b.Author, &b.CoAuthors, &b.ImageMetadata,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBlogSummary(scanner interface{ Scan(...any) error }) (*models.BlogSummary, error) {
	var b models.BlogSummary
	err := scanner.Scan(
		&b.ID, &b.MainHeading, &b.SubHeading, &b.Slug, &b.HeroImage, &b.Tags,
		&b.Category, &b.Status, &b.ReadingTime, &b.MetaTitle, &b.MetaDescription,
		&b.Views, &b.Likes, &b.Author, &b.DifficultyLevel, &b.ImageMetadata,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListFilters narrows a blog listing. Zero values mean "no filter",
// except Status, whose default the handler sets to published.
type ListFilters struct {
	Status   models.BlogStatus
	Category string
	Tag      string
	Author   string
	Search   string
	Limit    int
	Offset   int
}

// buildWhere assembles the WHERE clause and argument list for filters.
func buildWhere(f ListFilters) (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		conds = append(conds, "status = "+arg(string(f.Status)))
	}
	if f.Category != "" {
		conds = append(conds, "category ILIKE '%' || "+arg(f.Category)+" || '%'")
	}
	if f.Author != "" {
		conds = append(conds, "author ILIKE '%' || "+arg(f.Author)+" || '%'")
	}
	if f.Tag != "" {
		p := arg(f.Tag)
		conds = append(conds, "EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS t(v) WHERE t.v ILIKE '%' || "+p+" || '%')")
	}
	if f.Search != "" {
		p := arg(f.Search)
		conds = append(conds, "(main_heading ILIKE '%' || "+p+" || '%'"+
			" OR sub_heading ILIKE '%' || "+p+" || '%'"+
			" OR meta_description ILIKE '%' || "+p+" || '%'"+
			" OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS t(v) WHERE t.v ILIKE '%' || "+p+" || '%'))")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns a page of blog summaries matching the filters, newest
// created first, plus the total match count for pagination metadata.
func (s *BlogStore) List(f ListFilters) ([]models.BlogSummary, int, error) {
	where, args := buildWhere(f)

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM blogs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}

	query := `SELECT ` + blogSummaryColumns + ` FROM blogs` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	items := []models.BlogSummary{}
	for rows.Next() {
		b, err := scanBlogSummary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan blog summary: %w", err)
		}
		items = append(items, *b)
	}
	return items, total, rows.Err()
}

// FindBySlug retrieves a blog by slug with its comments. Returns nil if
// not found. The view counter is not touched; use IncrementViews for
// public reads.
func (s *BlogStore) FindBySlug(slug string) (*models.Blog, error) {
	row := s.db.QueryRow(`SELECT `+blogColumns+` FROM blogs WHERE slug = $1`, slug)
	b, err := scanBlog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog by slug: %w", err)
	}
	if b.Comments, err = s.listComments(b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

// IncrementViews atomically bumps the view counter and returns the
// updated blog with its comments. Only published blogs match; unknown,
// draft, and archived slugs return nil without touching the counter.
// The increment happens on every matching call, with no deduplication.
func (s *BlogStore) IncrementViews(slug string) (*models.Blog, error) {
	row := s.db.QueryRow(`
		UPDATE blogs SET views = views + 1
		WHERE slug = $1 AND status = $2
		RETURNING `+blogColumns, slug, models.BlogStatusPublished)
	b, err := scanBlog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("increment blog views: %w", err)
	}
	if b.Comments, err = s.listComments(b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

// Create inserts a new blog. Returns ErrDuplicate on a slug collision:
// concurrent creates race at the unique index and exactly one wins.
func (s *BlogStore) Create(b *models.Blog) (*models.Blog, error) {
	row := s.db.QueryRow(`
		INSERT INTO blogs (main_heading, sub_heading, slug, hero_image, gallery, content,
			tags, category, status, scheduled_at, reading_time, meta_title, meta_description,
			keywords, shares, citations, sources, video_embed, attachments, difficulty_level,
			summary_points, quiz_questions, author, co_authors, image_metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25)
		RETURNING `+blogColumns,
		b.MainHeading, b.SubHeading, b.Slug, b.HeroImage, b.Gallery, b.Content,
		b.Tags, b.Category, b.Status, b.ScheduledAt, b.ReadingTime, b.MetaTitle,
		b.MetaDescription, b.Keywords, b.Shares, b.Citations, b.Sources, b.VideoEmbed,
		b.Attachments, b.DifficultyLevel, b.SummaryPoints, b.QuizQuestions, b.Author,
		b.CoAuthors, b.ImageMetadata,
	)
	created, err := scanBlog(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("blog %q: %w", b.Slug, ErrDuplicate)
		}
		return nil, fmt.Errorf("create blog: %w", err)
	}
	return created, nil
}

// Update rewrites a blog's mutable fields, addressed by slug (the slug
// itself is immutable by convention). Returns nil if the slug is unknown.
func (s *BlogStore) Update(b *models.Blog) (*models.Blog, error) {
	row := s.db.QueryRow(`
		UPDATE blogs SET
			main_heading = $1, sub_heading = $2, hero_image = $3, gallery = $4,
			content = $5, tags = $6, category = $7, status = $8, scheduled_at = $9,
			reading_time = $10, meta_title = $11, meta_description = $12, keywords = $13,
			shares = $14, citations = $15, sources = $16, video_embed = $17,
			attachments = $18, difficulty_level = $19, summary_points = $20,
			quiz_questions = $21, author = $22, co_authors = $23, image_metadata = $24,
			updated_at = NOW()
		WHERE slug = $25
		RETURNING `+blogColumns,
		b.MainHeading, b.SubHeading, b.HeroImage, b.Gallery, b.Content, b.Tags,
		b.Category, b.Status, b.ScheduledAt, b.ReadingTime, b.MetaTitle,
		b.MetaDescription, b.Keywords, b.Shares, b.Citations, b.Sources, b.VideoEmbed,
		b.Attachments, b.DifficultyLevel, b.SummaryPoints, b.QuizQuestions, b.Author,
		b.CoAuthors, b.ImageMetadata, b.Slug,
	)
	updated, err := scanBlog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}
	if updated.Comments, err = s.listComments(updated.ID); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a blog by slug. Returns false if no blog matched.
// Comments cascade at the database level.
func (s *BlogStore) Delete(slug string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM blogs WHERE slug = $1`, slug)
	if err != nil {
		return false, fmt.Errorf("delete blog: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete blog rows affected: %w", err)
	}
	return n > 0, nil
}

// AddComment appends a comment to a blog. Comments are append-only;
// there is no update or delete path.
func (s *BlogStore) AddComment(c *models.Comment) (*models.Comment, error) {
	err := s.db.QueryRow(`
		INSERT INTO blog_comments (blog_id, author, author_image, content, is_student)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, likes, created_at
	`, c.BlogID, c.Author, c.AuthorImage, c.Content, c.IsStudent).Scan(&c.ID, &c.Likes, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return c, nil
}

// listComments returns a blog's comments in insertion order.
func (s *BlogStore) listComments(blogID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT id, blog_id, author, author_image, content, likes, is_student, created_at
		FROM blog_comments WHERE blog_id = $1 ORDER BY created_at ASC
	`, blogID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.BlogID, &c.Author, &c.AuthorImage, &c.Content,
			&c.Likes, &c.IsStudent, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
