package ai

import (
	"context"
	"fmt"
	"testing"

	"github.com/InfinityAbhi/Growth-High-AI/internal/config"
	"github.com/InfinityAbhi/Growth-High-AI/internal/logger"
	"github.com/InfinityAbhi/Growth-High-AI/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	content string
	err     error
	calls   int
}

func (f *fakeClient) Complete(_ context.Context, _ []model.ChatMessage, _ float64, _ int) (string, error) {
	f.calls++
	return f.content, f.err
}

func TestAnalyzePassesThroughUpstreamText(t *testing.T) {
	client := &fakeClient{content: "Strong setup, buy the dip."}
	s := NewService(client, config.AIConfig{}, logger.Nop{})

	resp, err := s.Analyze(context.Background(), model.AnalyzeRequest{Symbol: "AAPL", Action: "buy"})
	require.NoError(t, err)
	assert.Equal(t, "Strong setup, buy the dip.", resp.Analysis)
	assert.False(t, resp.Fallback)
	assert.GreaterOrEqual(t, resp.Confidence, 70)
	assert.NotEmpty(t, resp.Recommendation)
	assert.NotEmpty(t, resp.RiskLevel)
	assert.Equal(t, 1, client.calls)
}

func TestAnalyzeFallsBackOnUpstreamError(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("%w: boom", ErrUpstream)}
	s := NewService(client, config.AIConfig{}, logger.Nop{})

	resp, err := s.Analyze(context.Background(), model.AnalyzeRequest{Symbol: "AAPL"})
	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	assert.Contains(t, _mockAnalyses, resp.Analysis)
}

func TestAnalyzePropagatesErrorWhenFallbackDisabled(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("%w: boom", ErrUpstream)}
	s := NewService(client, config.AIConfig{DisableFallback: true}, logger.Nop{})

	_, err := s.Analyze(context.Background(), model.AnalyzeRequest{Symbol: "AAPL"})
	require.ErrorIs(t, err, ErrUpstream)
}

func TestSentimentParsesUpstreamJSON(t *testing.T) {
	client := &fakeClient{content: `{"sentiment":"positive","score":81,"summary":"Upbeat earnings."}`}
	s := NewService(client, config.AIConfig{}, logger.Nop{})

	resp, err := s.Sentiment(context.Background(), model.SentimentRequest{Symbol: "AAPL", Text: "beats estimates"})
	require.NoError(t, err)
	assert.Equal(t, model.SentimentPositive, resp.Sentiment)
	assert.Equal(t, 81, resp.Score)
	assert.Equal(t, "Upbeat earnings.", resp.Summary)
	assert.False(t, resp.Fallback)
}

func TestSentimentServesMockOnGarbagePayload(t *testing.T) {
	client := &fakeClient{content: "not json at all"}
	s := NewService(client, config.AIConfig{}, logger.Nop{})

	resp, err := s.Sentiment(context.Background(), model.SentimentRequest{Symbol: "AAPL"})
	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	assert.GreaterOrEqual(t, resp.Score, 60)
}

func TestSentimentRejectsGarbageWhenFallbackDisabled(t *testing.T) {
	client := &fakeClient{content: "not json at all"}
	s := NewService(client, config.AIConfig{DisableFallback: true}, logger.Nop{})

	_, err := s.Sentiment(context.Background(), model.SentimentRequest{Symbol: "AAPL"})
	require.ErrorIs(t, err, ErrUpstream)
}

func TestPredictFallsBackWithPlausibleNumbers(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("%w: boom", ErrUpstream)}
	s := NewService(client, config.AIConfig{}, logger.Nop{})

	price := decimal.RequireFromString("200")
	resp, err := s.Predict(context.Background(), model.PredictRequest{Symbol: "TSLA", CurrentPrice: price})
	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	assert.Equal(t, "TSLA", resp.Symbol)
	assert.Equal(t, "30 days", resp.Timeframe)
	assert.True(t, resp.PredictedPrice.IsPositive())

	// Mock prediction moves the price between 5% and 25%.
	move := resp.PredictedPrice.Sub(price).Abs()
	assert.True(t, move.GreaterThanOrEqual(decimal.RequireFromString("9.99")), "move %s", move)
	assert.True(t, move.LessThanOrEqual(decimal.RequireFromString("50.01")), "move %s", move)
}

func TestPredictKeepsUpstreamAnalysis(t *testing.T) {
	client := &fakeClient{content: "Expect consolidation around current levels."}
	s := NewService(client, config.AIConfig{}, logger.Nop{})

	resp, err := s.Predict(context.Background(), model.PredictRequest{
		Symbol:       "AAPL",
		CurrentPrice: decimal.RequireFromString("175.23"),
	})
	require.NoError(t, err)
	assert.False(t, resp.Fallback)
	assert.Equal(t, "Expect consolidation around current levels.", resp.Analysis)
}
