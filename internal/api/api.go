package api

import (
	"net/http"
	"time"

	"github.com/InfinityAbhi/Growth-High-AI/internal/account"
	"github.com/InfinityAbhi/Growth-High-AI/internal/ai"
	"github.com/InfinityAbhi/Growth-High-AI/internal/auth"
	"github.com/InfinityAbhi/Growth-High-AI/internal/logger"
	"github.com/InfinityAbhi/Growth-High-AI/internal/market"
	"github.com/bytedance/sonic"
)

// Handler wires the dashboard's HTTP surface to the account directory, the
// quote source, the news feed and the AI proxy.
type Handler struct {
	accounts *account.Directory
	quotes   *market.QuoteService
	news     *market.NewsFeed
	ai       *ai.Service
	tokens   *auth.Manager

	logger logger.Logger
}

func NewHandler(
	accounts *account.Directory,
	quotes *market.QuoteService,
	news *market.NewsFeed,
	aiService *ai.Service,
	tokens *auth.Manager,
	logger logger.Logger,
) http.Handler {
	h := &Handler{
		accounts: accounts,
		quotes:   quotes,
		news:     news,
		ai:       aiService,
		tokens:   tokens,
		logger:   logger,
	}

	authed := func(f http.HandlerFunc) http.Handler {
		return h.tokens.Middleware(f)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/signup", h.handleSignup)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.Handle("GET /api/auth/me", authed(h.handleMe))
	mux.Handle("GET /api/user/profile", authed(h.handleGetProfile))
	mux.Handle("PUT /api/user/profile", authed(h.handleUpdateProfile))
	mux.Handle("GET /api/portfolio", authed(h.handleGetPortfolio))
	mux.Handle("POST /api/portfolio", authed(h.handleTrade))
	mux.HandleFunc("GET /api/market/stocks", h.handleStocks)
	mux.HandleFunc("GET /api/market/news", h.handleNews)
	mux.HandleFunc("POST /api/ai/analyze", h.handleAnalyze)
	mux.HandleFunc("POST /api/ai/sentiment", h.handleSentiment)
	mux.HandleFunc("POST /api/ai/predict", h.handlePredict)

	return h.accessLog(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Infof("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(started))
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := sonic.Marshal(v)
	if err != nil {
		h.logger.Errorf("%s: can't marshal response", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.Debugf("%s: can't write response", err)
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *Handler) writeRejection(w http.ResponseWriter, msg, kind string) {
	h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Kind: kind})
}

func decodeBody(r *http.Request, v interface{}) error {
	return sonic.ConfigDefault.NewDecoder(r.Body).Decode(v)
}
