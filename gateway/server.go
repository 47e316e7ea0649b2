package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adnhq/nft-extensions/native/allowlist"
	"github.com/adnhq/nft-extensions/native/mint"
	"github.com/adnhq/nft-extensions/native/reveal"
	"github.com/adnhq/nft-extensions/native/sale"
	"github.com/adnhq/nft-extensions/observability/metrics"
)

const requestLimit = 1 << 20 // 1 MiB

// Authorizer gates the admin routes and presale claim submissions. Caller
// identity and role enforcement live outside the issuance core; deployments
// plug their own implementation in here. The authorizer sees the full
// request, so it can apply per-route policy.
type Authorizer interface {
	Authorize(r *http.Request) error
}

// AllowAll authorizes every request. It is the default for local setups
// where an upstream proxy performs authentication.
type AllowAll struct{}

// Authorize implements the Authorizer interface.
func (AllowAll) Authorize(*http.Request) error { return nil }

// Server exposes the issuance engine over HTTP.
type Server struct {
	engine  *mint.Engine
	manual  *reveal.Gate
	timed   *reveal.TimedGate
	auth    Authorizer
	logger  *slog.Logger
	metrics *metrics.DropMetrics
	router  chi.Router
}

// NewServer builds the HTTP surface for the given engine. Exactly one of
// manual or timed should be non-nil, matching the gate the engine was built
// with.
func NewServer(engine *mint.Engine, manual *reveal.Gate, timed *reveal.TimedGate, auth Authorizer, logger *slog.Logger) *Server {
	if auth == nil {
		auth = AllowAll{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:  engine,
		manual:  manual,
		timed:   timed,
		auth:    auth,
		logger:  logger,
		metrics: metrics.Drop(),
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.With(s.requireClaimant).Post("/presale/claim", s.handlePresaleClaim)
		r.Post("/mint/public", s.handleMintPublic)
		r.Get("/tokens/{id}/uri", s.handleTokenURI)
		r.Get("/collection", s.handleCollection)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Post("/mint/reserve", s.handleMintReserve)
			r.Post("/price", s.handleSetPrice)
			r.Post("/mint-limit", s.handleSetMintLimit)
			r.Post("/merkle-root", s.handleSetMerkleRoot)
			r.Post("/end-presale", s.handleEndPresale)
			r.Post("/reveal", s.handleReveal)
			r.Post("/reveal-time", s.handleSetRevealTime)
			r.Post("/placeholder", s.handleSetPlaceholder)
			r.Post("/collect", s.handleCollectFunds)
		})
	})
	return r
}

// requireClaimant runs the configured authorizer on claim submissions. The
// claimant address travels in the request body, so the deployment's
// authorizer must bind it to the calling principal; the default AllowAll
// leaves that binding to an upstream proxy.
func (s *Server) requireClaimant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Authorize(r); err != nil {
			s.writeError(w, http.StatusForbidden, "unauthorized", err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Authorize(r); err != nil {
			s.writeError(w, http.StatusForbidden, "unauthorized", err)
			return
		}
		s.metrics.ObserveAdminCall(r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	s.writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeEngineError maps the core error taxonomy onto stable machine-readable
// codes and HTTP statuses so callers can branch programmatically.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, reveal.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, reveal.ErrAlreadyRevealed):
		status, code = http.StatusConflict, "already_revealed"
	case errors.Is(err, reveal.ErrInvalidRevealTimestamp):
		status, code = http.StatusBadRequest, "invalid_reveal_timestamp"
	case errors.Is(err, allowlist.ErrPresaleEnded):
		status, code = http.StatusConflict, "presale_ended"
	case errors.Is(err, allowlist.ErrInvalidProof):
		status, code = http.StatusForbidden, "invalid_proof"
	case errors.Is(err, allowlist.ErrMintLimitExceeded), errors.Is(err, sale.ErrMintLimitExceeded):
		status, code = http.StatusUnprocessableEntity, "mint_limit_exceeded"
	case errors.Is(err, sale.ErrIncorrectPrice):
		status, code = http.StatusPaymentRequired, "incorrect_price"
	case errors.Is(err, sale.ErrAmountExceedsReserve):
		status, code = http.StatusUnprocessableEntity, "amount_exceeds_reserve"
	case errors.Is(err, sale.ErrFundTransferFailed):
		status, code = http.StatusBadGateway, "fund_transfer_failed"
	case errors.Is(err, mint.ErrPresaleActive):
		status, code = http.StatusConflict, "presale_active"
	case errors.Is(err, mint.ErrZeroAmount):
		status, code = http.StatusBadRequest, "zero_amount"
	}
	s.writeError(w, status, code, err)
}
