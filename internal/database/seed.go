package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: a couple
// of published sample articles and a book recommendation, so the public
// listing endpoints return something on a fresh checkout. Admins are
// not seeded; use the setup endpoint (enabled by default in dev).
func Seed(db *sql.DB) error {
	// Check if any blogs exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM blogs").Scan(&count); err != nil {
		return fmt.Errorf("seed check blogs: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	blogs := []struct {
		heading, slug, category, content string
	}{
		{
			heading:  "Understanding Bracket Placement",
			slug:     "understanding-bracket-placement",
			category: "clinical",
			content:  `[{"type":"paragraph","data":{"text":"Accurate bracket placement determines torque expression throughout treatment."}},{"type":"paragraph","data":{"text":"The FA point remains the most reliable vertical reference for most malocclusions."}},{"type":"paragraph","data":{"text":"Indirect bonding trays reduce chair time at the cost of a laboratory step."}},{"type":"paragraph","data":{"text":"Rebonding a failed bracket mid-treatment often requires wire sequence adjustments."}}]`,
		},
		{
			heading:  "Retention Protocols After Fixed Appliances",
			slug:     "retention-protocols-after-fixed-appliances",
			category: "clinical",
			content:  `[{"type":"paragraph","data":{"text":"Relapse is the default; retention is the treatment that never ends."}},{"type":"paragraph","data":{"text":"Bonded lingual retainers and vacuum-formed retainers each have distinct failure modes."}}]`,
		},
	}

	for _, b := range blogs {
		_, err := db.Exec(`
			INSERT INTO blogs (main_heading, slug, category, status, content, author, reading_time)
			VALUES ($1, $2, $3, 'published', $4::jsonb, 'Orthopress Team', 1)
		`, b.heading, b.slug, b.category, b.content)
		if err != nil {
			return fmt.Errorf("seed insert blog %q: %w", b.slug, err)
		}
	}

	_, err := db.Exec(`
		INSERT INTO books (title, author, description, is_active, sort_order)
		VALUES ('Contemporary Orthodontics', 'Proffit et al.', 'The standard reference text.', TRUE, 1)
	`)
	if err != nil {
		return fmt.Errorf("seed insert book: %w", err)
	}

	slog.Info("database seeded with sample content", "blogs", len(blogs))
	return nil
}
