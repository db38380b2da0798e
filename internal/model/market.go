package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one instrument's simulated market snapshot.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	Sector        string          `json:"sector"`
	Volume        int64           `json:"volume"`
	MarketCap     int64           `json:"marketCap"`
	Timestamp     time.Time       `json:"timestamp"`
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// NewsInsights is the derived annotation attached to each served article.
type NewsInsights struct {
	MarketImpact    string   `json:"marketImpact"`
	TradingSignal   string   `json:"tradingSignal"`
	KeyInsight      string   `json:"keyInsight"`
	AffectedSectors []string `json:"affectedSectors"`
}

type NewsItem struct {
	ID             int           `json:"id"`
	Title          string        `json:"title"`
	Summary        string        `json:"summary"`
	Source         string        `json:"source"`
	PublishedAt    time.Time     `json:"publishedAt"`
	Sentiment      Sentiment     `json:"sentiment"`
	SentimentScore int           `json:"sentimentScore"`
	Impact         string        `json:"impact"`
	RelatedSymbols []string      `json:"relatedSymbols"`
	URL            string        `json:"url"`
	AIInsights     *NewsInsights `json:"aiInsights,omitempty"`
}
