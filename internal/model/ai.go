package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChatMessage is one message of an OpenAI-compatible chat completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type ChatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

type ChatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type AnalyzeRequest struct {
	Symbol  string          `json:"symbol"`
	Price   decimal.Decimal `json:"price"`
	Action  string          `json:"action"`
	Context string          `json:"context"`
}

type AnalyzeResponse struct {
	Analysis       string    `json:"analysis"`
	Confidence     int       `json:"confidence"`
	Recommendation string    `json:"recommendation"`
	RiskLevel      string    `json:"riskLevel"`
	Fallback       bool      `json:"fallback"`
	Timestamp      time.Time `json:"timestamp"`
}

type SentimentRequest struct {
	Text   string `json:"text"`
	Symbol string `json:"symbol"`
}

type SentimentResponse struct {
	Sentiment Sentiment `json:"sentiment"`
	Score     int       `json:"score"`
	Summary   string    `json:"summary"`
	Fallback  bool      `json:"fallback"`
	Timestamp time.Time `json:"timestamp"`
}

type PredictRequest struct {
	Symbol       string          `json:"symbol"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
}

type PredictResponse struct {
	Symbol         string          `json:"symbol"`
	CurrentPrice   decimal.Decimal `json:"currentPrice"`
	PredictedPrice decimal.Decimal `json:"predictedPrice"`
	Confidence     int             `json:"confidence"`
	Timeframe      string          `json:"timeframe"`
	Factors        []string        `json:"factors"`
	RiskFactors    []string        `json:"riskFactors"`
	Analysis       string          `json:"analysis,omitempty"`
	Fallback       bool            `json:"fallback"`
	Timestamp      time.Time       `json:"timestamp"`
}
