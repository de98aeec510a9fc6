package domain

import (
	"fmt"
	"time"
)

// ActionType is the closed set of tracked engagement actions
type ActionType string

const (
	ActionView      ActionType = "view"
	ActionLike      ActionType = "like"
	ActionComment   ActionType = "comment"
	ActionShare     ActionType = "share"
	ActionTip       ActionType = "tip"
	ActionPurchase  ActionType = "purchase"
	ActionSubscribe ActionType = "subscribe"
)

// ParseActionType validates and converts a raw string into an ActionType
func ParseActionType(s string) (ActionType, error) {
	switch ActionType(s) {
	case ActionView, ActionLike, ActionComment, ActionShare, ActionTip, ActionPurchase, ActionSubscribe:
		return ActionType(s), nil
	}
	return "", fmt.Errorf("unknown action type %q", s)
}

// TargetType is the closed set of entities an engagement action can point at
type TargetType string

const (
	TargetArticle TargetType = "article"
	TargetComment TargetType = "comment"
	TargetAuthor  TargetType = "author"
	TargetNFT     TargetType = "nft"
)

// ParseTargetType validates and converts a raw string into a TargetType
func ParseTargetType(s string) (TargetType, error) {
	switch TargetType(s) {
	case TargetArticle, TargetComment, TargetAuthor, TargetNFT:
		return TargetType(s), nil
	}
	return "", fmt.Errorf("unknown target type %q", s)
}

// PageView is an immutable ledger record of a single article view.
// Rows are append-only; nothing ever updates or deletes them.
type PageView struct {
	ID          string    `json:"id"`
	ArticleID   string    `json:"article_id"`
	ActorWallet string    `json:"user_wallet,omitempty"`
	IPAddress   string    `json:"ip_address,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	Referrer    string    `json:"referrer,omitempty"`
	SessionID   string    `json:"session_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ViewDate    time.Time `json:"view_date"` // calendar-date projection of CreatedAt, used for daily bucketing
}

// PageViewInput is the client-supplied portion of a page view.
// IP, user agent and referrer are captured from the request when absent.
type PageViewInput struct {
	ArticleID   string `json:"article_id"`
	ActorWallet string `json:"user_wallet,omitempty"`
	IPAddress   string `json:"ip_address,omitempty"`
	UserAgent   string `json:"user_agent,omitempty"`
	Referrer    string `json:"referrer,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
}

// EngagementEvent is an immutable ledger record of a tracked user action.
// Metadata is an open string-keyed map; consumers must not assume any
// particular key exists.
type EngagementEvent struct {
	ID             string                 `json:"id"`
	ActorWallet    string                 `json:"user_wallet"`
	ActionType     ActionType             `json:"action_type"`
	TargetID       string                 `json:"target_id"`
	TargetType     TargetType             `json:"target_type"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	EngagementDate time.Time              `json:"engagement_date"`
}

// EngagementInput is the client-supplied portion of an engagement event.
// ActionType and TargetType arrive as raw strings and are validated against
// the closed enumerations before anything is written.
type EngagementInput struct {
	ActorWallet string                 `json:"user_wallet"`
	ActionType  string                 `json:"action_type"`
	TargetID    string                 `json:"target_id"`
	TargetType  string                 `json:"target_type"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}
