package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// Article catalog key builders
func (kb *KeyBuilder) KeyArticleByID(articleID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyArticleByID, articleID))
}

func (kb *KeyBuilder) KeyAuthorByWallet(wallet string) string {
	return kb.BuildKey(fmt.Sprintf(KeyAuthorByWallet, wallet))
}

// Pageview rate limit key builders
func (kb *KeyBuilder) KeyPageviewRateLimit(ipHash string) string {
	return kb.BuildKey(fmt.Sprintf(KeyPageviewRateLimit, ipHash))
}

// Stats key builders
func (kb *KeyBuilder) KeyTrending(limit int) string {
	return kb.BuildKey(fmt.Sprintf(KeyTrending, limit))
}

func (kb *KeyBuilder) KeyPlatformToday(date string) string {
	return kb.BuildKey(fmt.Sprintf(KeyPlatformToday, date))
}

// Generic key builders for custom patterns
func (kb *KeyBuilder) KeyCustom(pattern string, args ...interface{}) string {
	key := fmt.Sprintf(pattern, args...)
	return kb.BuildKey(key)
}
