package ai

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/InfinityAbhi/Growth-High-AI/internal/config"
	"github.com/InfinityAbhi/Growth-High-AI/internal/logger"
	"github.com/InfinityAbhi/Growth-High-AI/internal/model"
	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
)

type CompletionClient interface {
	Complete(ctx context.Context, messages []model.ChatMessage, temperature float64, maxTokens int) (string, error)
}

// Service wraps the completion client with the dashboard's fallback policy:
// when the upstream fails and fallback is enabled, canned mock analysis is
// served and the response is marked as such. With fallback disabled the
// upstream error propagates.
type Service struct {
	client   CompletionClient
	fallback bool

	logger logger.Logger
}

func NewService(client CompletionClient, cfg config.AIConfig, logger logger.Logger) *Service {
	return &Service{
		client:   client,
		fallback: !cfg.DisableFallback,
		logger:   logger,
	}
}

var _mockAnalyses = []string{
	"Based on current market trends and technical indicators, this stock shows strong bullish momentum with RSI at 65 and MACD showing positive divergence. Consider a moderate position with stop-loss at 5% below entry.",
	"The stock exhibits high volatility with mixed signals. While the 50-day MA is trending upward, recent volume patterns suggest caution. Recommend waiting for clearer trend confirmation.",
	"Strong fundamentals support this position. P/E ratio is attractive compared to sector average, and recent earnings beat expectations by 12%. Good long-term hold candidate.",
	"Technical analysis reveals a potential breakout pattern forming. If price breaks above resistance at current levels with volume confirmation, target price could be 15-20% higher.",
	"Market sentiment analysis indicates bearish pressure due to sector rotation. Consider reducing exposure or implementing protective strategies until sentiment improves.",
}

func mockAnalysis() string {
	return _mockAnalyses[rand.IntN(len(_mockAnalyses))]
}

func (s *Service) Analyze(ctx context.Context, req model.AnalyzeRequest) (model.AnalyzeResponse, error) {
	messages := []model.ChatMessage{
		{
			Role:    "system",
			Content: "You are an expert financial analyst and trading advisor. Provide concise, actionable trading advice based on technical analysis, market sentiment, and risk management principles. Always include specific recommendations with risk levels.",
		},
		{
			Role: "user",
			Content: fmt.Sprintf("Analyze %s at current price $%s for %s action. Context: %s. Provide trading recommendation with confidence level and risk assessment.",
				req.Symbol, req.Price, req.Action, orDefault(req.Context, "General market analysis")),
		},
	}

	analysis, err := s.client.Complete(ctx, messages, 0.7, 1000)
	fallback := false
	if err != nil {
		if !s.fallback {
			return model.AnalyzeResponse{}, fmt.Errorf("%w: can't analyze %s", err, req.Symbol)
		}
		s.logger.Warnf("%s: falling back to mock analysis for %s", err, req.Symbol)
		analysis = mockAnalysis()
		fallback = true
	}

	confidence := rand.IntN(30) + 70
	return model.AnalyzeResponse{
		Analysis:       analysis,
		Confidence:     confidence,
		Recommendation: recommendation(confidence),
		RiskLevel:      riskLevel(confidence),
		Fallback:       fallback,
		Timestamp:      time.Now().UTC(),
	}, nil
}

func recommendation(confidence int) string {
	switch {
	case confidence > 85:
		return "Strong Buy"
	case confidence > 75:
		return "Buy"
	case confidence > 65:
		return "Hold"
	default:
		return "Caution"
	}
}

func riskLevel(confidence int) string {
	switch {
	case confidence > 80:
		return "Low"
	case confidence > 70:
		return "Medium"
	default:
		return "High"
	}
}

type sentimentPayload struct {
	Sentiment string `json:"sentiment"`
	Score     int    `json:"score"`
	Summary   string `json:"summary"`
}

func (s *Service) Sentiment(ctx context.Context, req model.SentimentRequest) (model.SentimentResponse, error) {
	messages := []model.ChatMessage{
		{
			Role:    "system",
			Content: "You are a financial sentiment analyzer. Analyze the given text and return a JSON object with sentiment (positive/negative/neutral), score (0-100), and a brief summary. Focus on market impact and investor sentiment.",
		},
		{
			Role:    "user",
			Content: fmt.Sprintf("Analyze the sentiment of this financial text related to %s: %q. Return only valid JSON.", req.Symbol, req.Text),
		},
	}

	content, err := s.client.Complete(ctx, messages, 0.3, 500)
	if err != nil {
		if !s.fallback {
			return model.SentimentResponse{}, fmt.Errorf("%w: can't score sentiment for %s", err, req.Symbol)
		}
		s.logger.Warnf("%s: falling back to mock sentiment for %s", err, req.Symbol)
		return mockSentiment(), nil
	}

	var payload sentimentPayload
	if err := sonic.UnmarshalString(content, &payload); err != nil || payload.Sentiment == "" {
		if !s.fallback {
			return model.SentimentResponse{}, fmt.Errorf("%w: unparseable sentiment payload for %s", ErrUpstream, req.Symbol)
		}
		s.logger.Warnf("can't parse sentiment payload %q, serving mock", content)
		return mockSentiment(), nil
	}

	return model.SentimentResponse{
		Sentiment: model.Sentiment(payload.Sentiment),
		Score:     payload.Score,
		Summary:   payload.Summary,
		Timestamp: time.Now().UTC(),
	}, nil
}

func mockSentiment() model.SentimentResponse {
	sentiment := model.SentimentPositive
	if rand.IntN(2) == 0 {
		sentiment = model.SentimentNegative
	}
	return model.SentimentResponse{
		Sentiment: sentiment,
		Score:     rand.IntN(40) + 60,
		Summary:   "Market sentiment analysis based on recent news and social media trends.",
		Fallback:  true,
		Timestamp: time.Now().UTC(),
	}
}

func (s *Service) Predict(ctx context.Context, req model.PredictRequest) (model.PredictResponse, error) {
	messages := []model.ChatMessage{
		{
			Role:    "system",
			Content: "You are a quantitative analyst specializing in stock price prediction. Analyze the provided data and give a realistic price prediction with confidence level and key factors. Be conservative and mention risks.",
		},
		{
			Role:    "user",
			Content: fmt.Sprintf("Predict the 30-day price for %s currently trading at $%s. Include confidence and key risk factors.", req.Symbol, req.CurrentPrice),
		},
	}

	content, err := s.client.Complete(ctx, messages, 0.5, 800)
	if err != nil {
		if !s.fallback {
			return model.PredictResponse{}, fmt.Errorf("%w: can't predict %s", err, req.Symbol)
		}
		s.logger.Warnf("%s: falling back to mock prediction for %s", err, req.Symbol)
		return mockPrediction(req.Symbol, req.CurrentPrice), nil
	}

	prediction := mockPrediction(req.Symbol, req.CurrentPrice)
	prediction.Analysis = content
	prediction.Fallback = false
	return prediction, nil
}

func mockPrediction(symbol string, currentPrice decimal.Decimal) model.PredictResponse {
	volatility := rand.Float64()*0.2 + 0.05
	trend := 1.0
	if rand.IntN(2) == 0 {
		trend = -1.0
	}
	change := currentPrice.Mul(decimal.NewFromFloat(volatility * trend))

	return model.PredictResponse{
		Symbol:         symbol,
		CurrentPrice:   currentPrice,
		PredictedPrice: currentPrice.Add(change).Round(2),
		Confidence:     rand.IntN(30) + 70,
		Timeframe:      "30 days",
		Factors: []string{
			"Technical indicators analysis",
			"Market sentiment evaluation",
			"Historical price patterns",
			"Volume trend analysis",
		},
		RiskFactors: []string{
			"Market volatility",
			"Economic indicators",
			"Sector performance",
			"Company fundamentals",
		},
		Fallback:  true,
		Timestamp: time.Now().UTC(),
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
