package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/ingestion"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/observability"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/scoring"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/storage"
)

// ServiceName appears in the root banner response.
const ServiceName = "wallet-scoring-system"

// Server exposes wallet scoring over HTTP. Cache, ingestion runner and
// score history archive are all optional; a nil field disables that
// collaborator.
type Server struct {
	engine  *scoring.Engine
	ingest  *ingestion.Runner
	cache   *ScoreCache
	history storage.ScoreHistoryStore
	logger  *log.Logger
	now     func() time.Time
}

// ServerOptions contains configuration for creating a Server.
type ServerOptions struct {
	Engine  *scoring.Engine
	Ingest  *ingestion.Runner
	Cache   *ScoreCache
	History storage.ScoreHistoryStore
	Logger  *log.Logger
}

// NewServer creates an HTTP server around a scoring engine.
func NewServer(opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[api] ", log.LstdFlags)
	}
	return &Server{
		engine:  opts.Engine,
		ingest:  opts.Ingest,
		cache:   opts.Cache,
		history: opts.History,
		logger:  logger,
		now:     time.Now,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", observability.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/wallet/{address}/score", s.handleScore).Methods(http.MethodGet)
	return r
}

// Run starts the HTTP server and blocks until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Printf("Starting HTTP server on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

type bannerResponse struct {
	Service   string   `json:"service"`
	Status    string   `json:"status"`
	Endpoints []string `json:"endpoints"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, bannerResponse{
		Service: ServiceName,
		Status:  "running",
		Endpoints: []string{
			"GET /wallet/{address}/score",
			"GET /health",
			"GET /metrics",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleScore computes (or serves a cached) reputation score for a wallet.
// ?refresh=true re-ingests the wallet's history first.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	addr, err := domain.NormalizeAddress(mux.Vars(r)["address"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid address format"})
		return
	}

	refresh := r.URL.Query().Get("refresh") == "true"
	if refresh && s.ingest != nil {
		if _, err := s.ingest.Ingest(ctx, addr); err != nil {
			s.logger.Printf("Refresh ingestion failed for %s: %v", addr, err)
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "upstream fetch failed"})
			return
		}
		if s.cache != nil {
			s.cache.Invalidate(ctx, addr)
		}
	}

	if !refresh && s.cache != nil {
		if cached := s.cache.Get(ctx, addr); cached != nil {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	result, err := s.engine.Score(ctx, addr)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAddressFormat):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid address format"})
		case errors.Is(err, scoring.ErrNoTransactionData):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no transaction data for address"})
		default:
			s.logger.Printf("Scoring failed for %s: %v", addr, err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
		return
	}

	if s.cache != nil {
		s.cache.Set(ctx, result)
	}
	s.archive(ctx, result)

	writeJSON(w, http.StatusOK, result)
}

// archive appends the result to the score history store. Failures are
// logged and ignored.
func (s *Server) archive(ctx context.Context, result *domain.ScoreResult) {
	if s.history == nil {
		return
	}
	if err := s.history.InsertResult(ctx, result, s.now().Unix()); err != nil {
		s.logger.Printf("Score archive failed for %s: %v", result.Address, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
