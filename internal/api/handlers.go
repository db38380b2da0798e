package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/InfinityAbhi/Growth-High-AI/internal/account"
	"github.com/InfinityAbhi/Growth-High-AI/internal/auth"
	"github.com/InfinityAbhi/Growth-High-AI/internal/ledger"
	"github.com/InfinityAbhi/Growth-High-AI/internal/model"
	"github.com/shopspring/decimal"
)

const (
	_kindInvalidOrder       = "invalid_order"
	_kindInsufficientFunds  = "insufficient_funds"
	_kindInsufficientShares = "insufficient_shares"
)

func (h *Handler) accountFromContext(w http.ResponseWriter, r *http.Request) (*account.Account, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	acc, err := h.accounts.Get(claims.Email)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "User not found")
		return nil, false
	}
	return acc, true
}

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type accountResponse struct {
	Success bool              `json:"success"`
	User    model.AccountInfo `json:"user"`
	Token   string            `json:"token,omitempty"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	acc, err := h.accounts.Signup(req.Email, req.Password, req.FirstName, req.LastName)
	switch {
	case errors.Is(err, account.ErrAccountExists):
		h.writeError(w, http.StatusBadRequest, "User already exists")
		return
	case errors.Is(err, account.ErrInvalidSignup):
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Errorf("%s: signup failed", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, accountResponse{Success: true, User: acc.Info()})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	acc, err := h.accounts.Authenticate(req.Email, req.Password)
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(acc.ID, acc.Email)
	if err != nil {
		h.logger.Errorf("%s: can't issue token for %s", err, acc.Email)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, accountResponse{Success: true, User: acc.Info(), Token: token})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.accountFromContext(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, accountResponse{Success: true, User: acc.Info()})
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	h.handleMe(w, r)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var upd model.ProfileUpdate
	if err := decodeBody(r, &upd); err != nil {
		h.writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	acc, err := h.accounts.UpdateProfile(claims.Email, upd)
	switch {
	case errors.Is(err, account.ErrAccountNotFound):
		h.writeError(w, http.StatusNotFound, "User not found")
		return
	case err != nil:
		h.logger.Errorf("%s: can't update profile", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	h.writeJSON(w, http.StatusOK, accountResponse{Success: true, User: acc.Info()})
}

func (h *Handler) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.accountFromContext(w, r)
	if !ok {
		return
	}

	book := acc.Ledger()
	prices := h.quotes.LastPrices(book.Symbols())
	h.writeJSON(w, http.StatusOK, book.Snapshot(prices))
}

type tradeRequest struct {
	Action string          `json:"action"`
	Symbol string          `json:"symbol"`
	Type   string          `json:"type"`
	Shares decimal.Decimal `json:"shares"`
	Price  decimal.Decimal `json:"price"`
}

type tradeResponse struct {
	Success bool        `json:"success"`
	Trade   model.Trade `json:"trade"`
}

func (h *Handler) handleTrade(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.accountFromContext(w, r)
	if !ok {
		return
	}

	var req tradeRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if req.Action != "trade" {
		h.writeError(w, http.StatusBadRequest, "Invalid action")
		return
	}

	side, err := model.ParseTradeSide(strings.ToUpper(req.Type))
	if err != nil {
		h.writeRejection(w, "Invalid order", _kindInvalidOrder)
		return
	}
	// Whole shares only, fractional quantities are rejected up front.
	if !req.Shares.IsInteger() || !req.Shares.IsPositive() {
		h.writeRejection(w, "Invalid order", _kindInvalidOrder)
		return
	}

	trade, err := acc.Ledger().ExecuteTrade(req.Symbol, side, req.Shares.IntPart(), req.Price)
	switch {
	case errors.Is(err, ledger.ErrInvalidOrder):
		h.writeRejection(w, "Invalid order", _kindInvalidOrder)
		return
	case errors.Is(err, ledger.ErrInsufficientFunds):
		h.writeRejection(w, "Insufficient funds", _kindInsufficientFunds)
		return
	case errors.Is(err, ledger.ErrInsufficientShares):
		h.writeRejection(w, "Insufficient shares", _kindInsufficientShares)
		return
	case err != nil:
		h.logger.Errorf("%s: trade failed", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Infof("executed %s %d %s @ %s for %s", trade.Side, trade.Shares, trade.Symbol, trade.Price, acc.Email)
	h.writeJSON(w, http.StatusOK, tradeResponse{Success: true, Trade: trade})
}

type stocksResponse struct {
	Stocks    []model.Quote `json:"stocks"`
	Timestamp time.Time     `json:"timestamp"`
}

func (h *Handler) handleStocks(w http.ResponseWriter, r *http.Request) {
	var symbols []string
	if raw := r.URL.Query().Get("symbols"); raw != "" {
		symbols = strings.Split(raw, ",")
	}
	h.writeJSON(w, http.StatusOK, stocksResponse{
		Stocks:    h.quotes.Quotes(symbols),
		Timestamp: time.Now().UTC(),
	})
}

type newsResponse struct {
	News       []model.NewsItem `json:"news"`
	TotalCount int              `json:"totalCount"`
	Timestamp  time.Time        `json:"timestamp"`
}

func (h *Handler) handleNews(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Malformed limit")
			return
		}
		limit = parsed
	}

	items, total := h.news.News(r.URL.Query().Get("symbol"), limit)
	h.writeJSON(w, http.StatusOK, newsResponse{
		News:       items,
		TotalCount: total,
		Timestamp:  time.Now().UTC(),
	})
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalyzeRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	resp, err := h.ai.Analyze(r.Context(), req)
	if err != nil {
		h.logger.Errorf("%s: analyze failed", err)
		h.writeError(w, http.StatusBadGateway, "AI service unavailable")
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSentiment(w http.ResponseWriter, r *http.Request) {
	var req model.SentimentRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	resp, err := h.ai.Sentiment(r.Context(), req)
	if err != nil {
		h.logger.Errorf("%s: sentiment failed", err)
		h.writeError(w, http.StatusBadGateway, "AI service unavailable")
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req model.PredictRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	resp, err := h.ai.Predict(r.Context(), req)
	if err != nil {
		h.logger.Errorf("%s: predict failed", err)
		h.writeError(w, http.StatusBadGateway, "AI service unavailable")
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}
