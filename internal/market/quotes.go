package market

import (
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/InfinityAbhi/Growth-High-AI/internal/config"
	"github.com/InfinityAbhi/Growth-High-AI/internal/logger"
	"github.com/InfinityAbhi/Growth-High-AI/internal/model"
	"github.com/shopspring/decimal"
)

type instrument struct {
	symbol     string
	name       string
	basePrice  float64
	sector     string
	volatility float64
}

// QuoteService simulates intraday prices for a fixed instrument universe.
// Prices follow a sine walk over the trading day scaled by per-symbol
// volatility, plus bounded noise. It is the ledger's quote source.
type QuoteService struct {
	logger logger.Logger

	instruments map[string]instrument
	order       []string
	now         func() time.Time
}

func NewQuoteService(cfg config.MarketConfig, logger logger.Logger) *QuoteService {
	s := &QuoteService{
		logger:      logger,
		instruments: make(map[string]instrument, len(cfg.Instruments)),
		now:         time.Now,
	}
	for _, i := range cfg.Instruments {
		symbol := strings.ToUpper(i.Symbol)
		s.instruments[symbol] = instrument{
			symbol:     symbol,
			name:       i.Name,
			basePrice:  i.BasePrice,
			sector:     i.Sector,
			volatility: i.Volatility,
		}
		s.order = append(s.order, symbol)
	}
	return s
}

func (s *QuoteService) price(i instrument, now time.Time) float64 {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	progress := now.Sub(dayStart).Hours() / 24

	walk := math.Sin(progress*math.Pi*4) * i.volatility
	noise := (rand.Float64() - 0.5) * i.volatility * 0.5

	return math.Round(i.basePrice*(1+walk+noise)*100) / 100
}

func (s *QuoteService) quote(i instrument, now time.Time) model.Quote {
	price := decimal.NewFromFloat(s.price(i, now))
	base := decimal.NewFromFloat(i.basePrice)
	change := price.Sub(base)

	return model.Quote{
		Symbol:        i.symbol,
		Name:          i.name,
		Price:         price,
		Change:        change.Round(2),
		ChangePercent: change.Div(base).Mul(decimal.NewFromInt(100)).Round(2),
		Sector:        i.sector,
		Volume:        rand.Int64N(9_000_000) + 1_000_000,
		MarketCap:     rand.Int64N(900_000_000_000) + 100_000_000_000,
		Timestamp:     now.UTC(),
	}
}

// Quotes returns quotes for the requested symbols, or the whole universe when
// none are given. Unknown symbols are skipped.
func (s *QuoteService) Quotes(symbols []string) []model.Quote {
	if len(symbols) == 0 {
		symbols = s.order
	}

	now := s.now()
	quotes := make([]model.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		i, ok := s.instruments[strings.ToUpper(strings.TrimSpace(symbol))]
		if !ok {
			continue
		}
		quotes = append(quotes, s.quote(i, now))
	}
	return quotes
}

// LastPrices resolves current prices for the given symbols, for ledger
// valuation. Symbols outside the universe are left out, the ledger then falls
// back to cost basis.
func (s *QuoteService) LastPrices(symbols []string) map[string]decimal.Decimal {
	now := s.now()
	prices := make(map[string]decimal.Decimal, len(symbols))
	for _, symbol := range symbols {
		symbol = strings.ToUpper(symbol)
		if i, ok := s.instruments[symbol]; ok {
			prices[symbol] = decimal.NewFromFloat(s.price(i, now))
		}
	}
	return prices
}

// Symbols lists the configured universe in config order.
func (s *QuoteService) Symbols() []string {
	symbols := append([]string(nil), s.order...)
	sort.Strings(symbols)
	return symbols
}
