package domain

import (
	"time"
)

// AuthorProfile is a creator profile keyed by wallet address. Wallets are
// accepted as presented; no signature verification happens here.
type AuthorProfile struct {
	ID               string            `json:"id"`
	WalletAddress    string            `json:"wallet_address"`
	Username         string            `json:"username,omitempty"`
	DisplayName      string            `json:"display_name,omitempty"`
	Bio              string            `json:"bio,omitempty"`
	AvatarIrysID     string            `json:"avatar_irys_id,omitempty"`
	CoverImageIrysID string            `json:"cover_image_irys_id,omitempty"`
	SocialLinks      map[string]string `json:"social_links,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`

	// Denormalized fast counters; AuthorStats is authoritative
	TotalArticles     int64 `json:"total_articles"`
	TotalViews        int64 `json:"total_views"`
	ActiveSubscribers int64 `json:"active_subscribers"`
}

// AuthorProfileInput is the payload for creating an author profile
type AuthorProfileInput struct {
	WalletAddress string            `json:"wallet_address"`
	Username      string            `json:"username,omitempty"`
	DisplayName   string            `json:"display_name,omitempty"`
	Bio           string            `json:"bio,omitempty"`
	SocialLinks   map[string]string `json:"social_links,omitempty"`
}

// AuthorProfileUpdate carries partial profile updates; nil fields are untouched
type AuthorProfileUpdate struct {
	Username         *string           `json:"username,omitempty"`
	DisplayName      *string           `json:"display_name,omitempty"`
	Bio              *string           `json:"bio,omitempty"`
	AvatarIrysID     *string           `json:"avatar_irys_id,omitempty"`
	CoverImageIrysID *string           `json:"cover_image_irys_id,omitempty"`
	SocialLinks      map[string]string `json:"social_links,omitempty"`
}
