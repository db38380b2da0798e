package market

import (
	"testing"
	"time"

	"github.com/InfinityAbhi/Growth-High-AI/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsServesWholeFeed(t *testing.T) {
	f := NewNewsFeed()

	items, total := f.News("", 0)
	assert.Equal(t, 5, total)
	require.Len(t, items, 5)

	for _, item := range items {
		assert.NotEmpty(t, item.Title)
		assert.NotEmpty(t, item.Source)
		require.NotNil(t, item.AIInsights)
		assert.NotEmpty(t, item.AIInsights.KeyInsight)
		assert.False(t, item.PublishedAt.After(time.Now()))
	}
}

func TestNewsFiltersBySymbol(t *testing.T) {
	f := NewNewsFeed()

	items, total := f.News("aapl", 0)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Contains(t, items[0].RelatedSymbols, "AAPL")

	items, total = f.News("ZZZZ", 0)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestNewsLimit(t *testing.T) {
	f := NewNewsFeed()

	items, total := f.News("", 2)
	assert.Equal(t, 5, total)
	assert.Len(t, items, 2)
}

func TestNewsTradingSignals(t *testing.T) {
	f := NewNewsFeed()

	items, _ := f.News("", 0)
	bySentiment := map[model.Sentiment]string{}
	for _, item := range items {
		bySentiment[item.Sentiment] = item.AIInsights.TradingSignal
	}
	assert.Equal(t, "bullish", bySentiment[model.SentimentPositive])
	assert.Equal(t, "bearish", bySentiment[model.SentimentNegative])
	assert.Equal(t, "neutral", bySentiment[model.SentimentNeutral])
}
