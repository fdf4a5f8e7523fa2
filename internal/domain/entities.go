package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ArticleRecord is one article file as stored on disk.
type ArticleRecord struct {
	ArticleNumber string         `json:"article_number"`
	Title         string         `json:"title"`
	Content       ArticleContent `json:"content"`
}

// ArticleContent holds article text that is stored either as a single
// string or as an ordered list of paragraphs.
type ArticleContent struct {
	Text  string
	Lines []string
	multi bool
}

func (c *ArticleContent) UnmarshalJSON(data []byte) error {
	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		c.Lines = lines
		c.Text = ""
		c.multi = true
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("content must be a string or an array of strings: %w", err)
	}
	c.Text = text
	c.Lines = nil
	c.multi = false
	return nil
}

func (c ArticleContent) MarshalJSON() ([]byte, error) {
	if c.multi {
		return json.Marshal(c.Lines)
	}
	return json.Marshal(c.Text)
}

// Normalize returns the canonical text used for embedding and caching.
func (c ArticleContent) Normalize() string {
	if c.multi {
		return strings.Join(c.Lines, "\n")
	}
	return c.Text
}

// TextContent wraps a single string.
func TextContent(text string) ArticleContent {
	return ArticleContent{Text: text}
}

// LinesContent wraps a paragraph list.
func LinesContent(lines ...string) ArticleContent {
	return ArticleContent{Lines: lines, multi: true}
}

// Document is a loaded and embedded article.
type Document struct {
	ID     string
	Title  string
	Text   string
	Vector []float32
}

type ScoredDocument struct {
	Document Document
	Score    float64
}

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
