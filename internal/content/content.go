// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content processes serialized rich-text block bodies: image
// metadata derivation, reading-time estimation, and HTML rendering of
// the block types the editor emits.
package content

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"orthopress/internal/models"
)

// wordsPerMinute is the reading speed used for the readingTime field.
const wordsPerMinute = 200

// imageBlockData covers the two shapes the editor emits for image
// blocks: a bare url, or a nested file object.
type imageBlockData struct {
	URL  string `json:"url"`
	File struct {
		URL string `json:"url"`
	} `json:"file"`
	Caption string `json:"caption"`
	Alt     string `json:"alt"`
}

// textBlockData is the common shape of paragraph, markdown, header and
// quote blocks.
type textBlockData struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// listBlockData holds ordered or unordered list items.
type listBlockData struct {
	Style string   `json:"style"`
	Items []string `json:"items"`
}

// embedBlockData holds a video or document embed source.
type embedBlockData struct {
	Source string `json:"source"`
	Embed  string `json:"embed"`
}

// ImageURL extracts the image URL from an image block. Returns ""
// for non-image blocks or malformed data.
func ImageURL(b models.Block) string {
	if b.Type != "image" {
		return ""
	}
	var d imageBlockData
	if err := json.Unmarshal(b.Data, &d); err != nil {
		return ""
	}
	if d.URL != "" {
		return d.URL
	}
	return d.File.URL
}

// DeriveImageMetadata scans the body for image blocks and combines them
// with the hero image. Called on every create and on updates that touch
// the content body; clients never set image metadata directly.
func DeriveImageMetadata(heroImage string, blocks models.BlockList) models.ImageMetadata {
	meta := models.ImageMetadata{
		HeroImageURL:     heroImage,
		ContentImageURLs: []string{},
	}
	for _, b := range blocks {
		if url := ImageURL(b); url != "" {
			meta.ContentImageURLs = append(meta.ContentImageURLs, url)
		}
	}
	meta.TotalImages = len(meta.ContentImageURLs)
	if heroImage != "" {
		meta.TotalImages++
	}
	return meta
}

// ReadingTime estimates reading time in minutes from the body text at
// 200 words per minute. Always at least 1 for a non-empty body.
func ReadingTime(blocks models.BlockList) int {
	words := 0
	for _, b := range blocks {
		words += len(strings.Fields(blockText(b)))
	}
	if words == 0 {
		return 0
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// blockText returns the plain text carried by a block, for word counting.
func blockText(b models.Block) string {
	switch b.Type {
	case "paragraph", "markdown", "header", "quote":
		var d textBlockData
		if err := json.Unmarshal(b.Data, &d); err != nil {
			return ""
		}
		return d.Text
	case "list":
		var d listBlockData
		if err := json.Unmarshal(b.Data, &d); err != nil {
			return ""
		}
		return strings.Join(d.Items, " ")
	}
	return ""
}

// RenderHTML renders the block body to HTML. Markdown blocks go through
// goldmark; the structural block types get straightforward markup.
// Unknown block types are skipped rather than failing the render.
func RenderHTML(blocks models.BlockList) (string, error) {
	var sb strings.Builder
	for _, b := range blocks {
		switch b.Type {
		case "markdown":
			var d textBlockData
			if err := json.Unmarshal(b.Data, &d); err != nil {
				continue
			}
			rendered, err := markdownToHTML(d.Text)
			if err != nil {
				return "", fmt.Errorf("render markdown block: %w", err)
			}
			sb.WriteString(rendered)
		case "paragraph":
			var d textBlockData
			if err := json.Unmarshal(b.Data, &d); err != nil {
				continue
			}
			sb.WriteString("<p>" + html.EscapeString(d.Text) + "</p>\n")
		case "header":
			var d textBlockData
			if err := json.Unmarshal(b.Data, &d); err != nil {
				continue
			}
			level := d.Level
			if level < 1 || level > 6 {
				level = 2
			}
			fmt.Fprintf(&sb, "<h%d>%s</h%d>\n", level, html.EscapeString(d.Text), level)
		case "quote":
			var d textBlockData
			if err := json.Unmarshal(b.Data, &d); err != nil {
				continue
			}
			sb.WriteString("<blockquote>" + html.EscapeString(d.Text) + "</blockquote>\n")
		case "image":
			var d imageBlockData
			if err := json.Unmarshal(b.Data, &d); err != nil {
				continue
			}
			url := d.URL
			if url == "" {
				url = d.File.URL
			}
			if url == "" {
				continue
			}
			fmt.Fprintf(&sb, "<figure><img src=%q alt=%q>", url, d.Alt)
			if d.Caption != "" {
				sb.WriteString("<figcaption>" + html.EscapeString(d.Caption) + "</figcaption>")
			}
			sb.WriteString("</figure>\n")
		case "list":
			var d listBlockData
			if err := json.Unmarshal(b.Data, &d); err != nil {
				continue
			}
			tag := "ul"
			if d.Style == "ordered" {
				tag = "ol"
			}
			sb.WriteString("<" + tag + ">")
			for _, item := range d.Items {
				sb.WriteString("<li>" + html.EscapeString(item) + "</li>")
			}
			sb.WriteString("</" + tag + ">\n")
		case "embed":
			var d embedBlockData
			if err := json.Unmarshal(b.Data, &d); err != nil {
				continue
			}
			src := d.Embed
			if src == "" {
				src = d.Source
			}
			if src == "" {
				continue
			}
			fmt.Fprintf(&sb, "<iframe src=%q allowfullscreen></iframe>\n", src)
		}
	}
	return sb.String(), nil
}

// IsContentURL reports whether s is acceptable as an image or
// attachment reference: an absolute http(s) URL or a root-relative path.
func IsContentURL(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "/")
}
