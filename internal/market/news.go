package market

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/InfinityAbhi/Growth-High-AI/internal/model"
)

type article struct {
	id             int
	title          string
	summary        string
	source         string
	age            time.Duration
	sentiment      model.Sentiment
	sentimentScore int
	impact         string
	relatedSymbols []string
}

var _articles = []article{
	{
		id:             1,
		title:          "Federal Reserve Signals Potential Rate Changes",
		summary:        "The Federal Reserve indicated possible monetary policy adjustments following recent economic data showing mixed signals in inflation and employment metrics.",
		source:         "Financial Times",
		age:            2 * time.Hour,
		sentiment:      model.SentimentNeutral,
		sentimentScore: 55,
		impact:         "high",
		relatedSymbols: []string{"SPY", "QQQ", "IWM"},
	},
	{
		id:             2,
		title:          "Tech Sector Shows Strong Earnings Growth",
		summary:        "Major technology companies reported better-than-expected quarterly earnings, driven by AI investments and cloud computing demand.",
		source:         "Reuters",
		age:            4 * time.Hour,
		sentiment:      model.SentimentPositive,
		sentimentScore: 78,
		impact:         "high",
		relatedSymbols: []string{"AAPL", "MSFT", "GOOGL", "NVDA"},
	},
	{
		id:             3,
		title:          "Energy Sector Faces Headwinds",
		summary:        "Oil prices declined amid concerns about global demand and increased production capacity, affecting energy sector valuations.",
		source:         "Bloomberg",
		age:            6 * time.Hour,
		sentiment:      model.SentimentNegative,
		sentimentScore: 32,
		impact:         "medium",
		relatedSymbols: []string{"XOM", "CVX", "COP"},
	},
	{
		id:             4,
		title:          "Healthcare Innovation Drives Investment",
		summary:        "Breakthrough developments in biotechnology and medical devices are attracting significant investment, boosting healthcare stocks.",
		source:         "Wall Street Journal",
		age:            8 * time.Hour,
		sentiment:      model.SentimentPositive,
		sentimentScore: 72,
		impact:         "medium",
		relatedSymbols: []string{"JNJ", "PFE", "UNH"},
	},
	{
		id:             5,
		title:          "Consumer Spending Patterns Shift",
		summary:        "Recent data shows changing consumer preferences affecting retail and e-commerce sectors, with mixed implications for different companies.",
		source:         "CNBC",
		age:            10 * time.Hour,
		sentiment:      model.SentimentNeutral,
		sentimentScore: 48,
		impact:         "medium",
		relatedSymbols: []string{"AMZN", "WMT", "TGT"},
	},
}

var _keyInsights = []string{
	"This news could impact market volatility in the short term.",
	"Long-term implications suggest sector rotation opportunities.",
	"Consider adjusting portfolio allocation based on this development.",
	"Monitor related stocks for potential trading opportunities.",
	"Risk management strategies should account for this factor.",
}

const _newsLimitDefault = 10

// NewsFeed serves the mock article set with derived trading annotations.
type NewsFeed struct {
	now func() time.Time
}

func NewNewsFeed() *NewsFeed {
	return &NewsFeed{now: time.Now}
}

// News filters the feed by related symbol, caps it at limit, and annotates
// each served item. Returns the items and the pre-limit match count.
func (f *NewsFeed) News(symbol string, limit int) ([]model.NewsItem, int) {
	if limit <= 0 {
		limit = _newsLimitDefault
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	now := f.now().UTC()
	matched := make([]article, 0, len(_articles))
	for _, a := range _articles {
		if symbol != "" && !relatedTo(a, symbol) {
			continue
		}
		matched = append(matched, a)
	}

	items := make([]model.NewsItem, 0, min(limit, len(matched)))
	for _, a := range matched {
		if len(items) == limit {
			break
		}
		items = append(items, model.NewsItem{
			ID:             a.id,
			Title:          a.title,
			Summary:        a.summary,
			Source:         a.source,
			PublishedAt:    now.Add(-a.age),
			Sentiment:      a.sentiment,
			SentimentScore: a.sentimentScore,
			Impact:         a.impact,
			RelatedSymbols: a.relatedSymbols,
			URL:            "#",
			AIInsights:     insights(a),
		})
	}
	return items, len(matched)
}

func relatedTo(a article, symbol string) bool {
	for _, s := range a.relatedSymbols {
		if s == symbol {
			return true
		}
	}
	return false
}

func insights(a article) *model.NewsInsights {
	signal := "neutral"
	switch {
	case a.sentimentScore > 60:
		signal = "bullish"
	case a.sentimentScore < 40:
		signal = "bearish"
	}

	sectors := []string{"Individual Stock"}
	if len(a.relatedSymbols) > 2 {
		sectors = []string{"Technology", "Finance"}
	}

	return &model.NewsInsights{
		MarketImpact:    a.impact,
		TradingSignal:   signal,
		KeyInsight:      _keyInsights[rand.IntN(len(_keyInsights))],
		AffectedSectors: sectors,
	}
}
