package domain

import (
	"time"
)

// ArticleStatus is the publishing state of an article
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

// Article is a catalog entry for a published piece. The canonical content
// lives in permanent storage (Irys); the catalog keeps a queryable copy.
type Article struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Content      string        `json:"content"` // markdown source
	HTML         string        `json:"html"`    // rendered HTML
	Excerpt      string        `json:"excerpt"`
	AuthorWallet string        `json:"author_wallet"`
	AuthorName   string        `json:"author_name,omitempty"`
	IrysID       string        `json:"irys_id"`  // transaction ID on the permanent-storage gateway
	IrysURL      string        `json:"irys_url"` // gateway URL for permanent access
	Tags         []string      `json:"tags"`
	Category     string        `json:"category"`
	ReadingTime  int           `json:"reading_time"` // minutes
	WordCount    int           `json:"word_count"`
	Status       ArticleStatus `json:"status"`
	PublishedAt  time.Time     `json:"published_at"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Views        int64         `json:"views"` // denormalized fast counter; ArticleStats is authoritative
}

// ArticleInput is the payload for creating an article
type ArticleInput struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	HTML         string   `json:"html"`
	Excerpt      string   `json:"excerpt"`
	AuthorWallet string   `json:"author_wallet"`
	AuthorName   string   `json:"author_name,omitempty"`
	Tags         []string `json:"tags"`
	Category     string   `json:"category"`
}

// ArticleSummary is the listing projection of an article (no body content)
type ArticleSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Excerpt      string    `json:"excerpt"`
	AuthorWallet string    `json:"author_wallet"`
	AuthorName   string    `json:"author_name,omitempty"`
	IrysID       string    `json:"irys_id"`
	IrysURL      string    `json:"irys_url"`
	Tags         []string  `json:"tags"`
	Category     string    `json:"category"`
	ReadingTime  int       `json:"reading_time"`
	WordCount    int       `json:"word_count"`
	PublishedAt  time.Time `json:"published_at"`
	Views        int64     `json:"views"`
}

// ArticleSearchQuery filters catalog searches
type ArticleSearchQuery struct {
	Query    string   `json:"query,omitempty"`
	Author   string   `json:"author,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Category string   `json:"category,omitempty"`
	Limit    int      `json:"limit"`
	Offset   int      `json:"offset"`
}

// Summary converts a full article into its listing projection
func (a *Article) Summary() *ArticleSummary {
	return &ArticleSummary{
		ID:           a.ID,
		Title:        a.Title,
		Excerpt:      a.Excerpt,
		AuthorWallet: a.AuthorWallet,
		AuthorName:   a.AuthorName,
		IrysID:       a.IrysID,
		IrysURL:      a.IrysURL,
		Tags:         a.Tags,
		Category:     a.Category,
		ReadingTime:  a.ReadingTime,
		WordCount:    a.WordCount,
		PublishedAt:  a.PublishedAt,
		Views:        a.Views,
	}
}
