package domain

import (
	"fmt"
	"time"
)

// ReactionType is the closed set of supported comment reactions
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
	ReactionLove    ReactionType = "love"
	ReactionLaugh   ReactionType = "laugh"
	ReactionWow     ReactionType = "wow"
	ReactionSad     ReactionType = "sad"
	ReactionAngry   ReactionType = "angry"
)

// ParseReactionType validates and converts a raw string into a ReactionType
func ParseReactionType(s string) (ReactionType, error) {
	switch ReactionType(s) {
	case ReactionLike, ReactionDislike, ReactionLove, ReactionLaugh, ReactionWow, ReactionSad, ReactionAngry:
		return ReactionType(s), nil
	}
	return "", fmt.Errorf("unknown reaction type %q", s)
}

// Comment is a threaded comment on an article. Deletes are soft so reply
// chains stay navigable.
type Comment struct {
	ID           string    `json:"id"`
	ArticleID    string    `json:"article_id"`
	ParentID     string    `json:"parent_id,omitempty"` // empty for top-level comments
	Content      string    `json:"content"`
	AuthorWallet string    `json:"author_wallet"`
	AuthorName   string    `json:"author_name,omitempty"`
	Likes        int64     `json:"likes"`    // rolled up from reactions
	Dislikes     int64     `json:"dislikes"` // rolled up from reactions
	IsEdited     bool      `json:"is_edited"`
	IsDeleted    bool      `json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CommentInput is the payload for creating a comment
type CommentInput struct {
	ArticleID    string `json:"article_id"`
	ParentID     string `json:"parent_id,omitempty"`
	Content      string `json:"content"`
	AuthorWallet string `json:"author_wallet"`
	AuthorName   string `json:"author_name,omitempty"`
}

// CommentThread is a top-level comment with its replies attached
type CommentThread struct {
	Comment
	Replies []*Comment `json:"replies"`
}

// Reaction records a single user's reaction to a comment. A user holds at
// most one reaction per comment; reacting again replaces the previous one.
type Reaction struct {
	ID           string       `json:"id"`
	CommentID    string       `json:"comment_id"`
	ActorWallet  string       `json:"user_wallet"`
	ReactionType ReactionType `json:"reaction_type"`
	CreatedAt    time.Time    `json:"created_at"`
}

// ReactionInput is the payload for reacting to a comment
type ReactionInput struct {
	ActorWallet  string `json:"user_wallet"`
	ReactionType string `json:"reaction_type"`
}
