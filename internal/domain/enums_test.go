package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseActionType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ActionType
		wantErr bool
	}{
		{name: "view", input: "view", want: ActionView},
		{name: "like", input: "like", want: ActionLike},
		{name: "comment", input: "comment", want: ActionComment},
		{name: "share", input: "share", want: ActionShare},
		{name: "tip", input: "tip", want: ActionTip},
		{name: "purchase", input: "purchase", want: ActionPurchase},
		{name: "subscribe", input: "subscribe", want: ActionSubscribe},
		{name: "unknown value", input: "upvote", wantErr: true},
		{name: "wrong case", input: "Like", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseActionType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseTargetType(t *testing.T) {
	for _, valid := range []string{"article", "comment", "author", "nft"} {
		got, err := ParseTargetType(valid)
		assert.NoError(t, err)
		assert.Equal(t, TargetType(valid), got)
	}

	for _, invalid := range []string{"", "post", "Article", "user"} {
		_, err := ParseTargetType(invalid)
		assert.Error(t, err, "input %q", invalid)
	}
}

func TestParseReactionType(t *testing.T) {
	for _, valid := range []string{"like", "dislike", "love", "laugh", "wow", "sad", "angry"} {
		got, err := ParseReactionType(valid)
		assert.NoError(t, err)
		assert.Equal(t, ReactionType(valid), got)
	}

	_, err := ParseReactionType("meh")
	assert.Error(t, err)
}

func TestParseCurrency(t *testing.T) {
	for _, valid := range []string{"ETH", "MATIC", "USDC"} {
		got, err := ParseCurrency(valid)
		assert.NoError(t, err)
		assert.Equal(t, Currency(valid), got)
	}

	// lowercase is not accepted, values are stored as-is
	for _, invalid := range []string{"eth", "BTC", ""} {
		_, err := ParseCurrency(invalid)
		assert.Error(t, err, "input %q", invalid)
	}
}

func TestParseBillingInterval(t *testing.T) {
	for _, valid := range []string{"monthly", "yearly"} {
		got, err := ParseBillingInterval(valid)
		assert.NoError(t, err)
		assert.Equal(t, BillingInterval(valid), got)
	}

	_, err := ParseBillingInterval("weekly")
	assert.Error(t, err)
}
