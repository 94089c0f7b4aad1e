package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nkhatri/udhaar/internal/auth"
	"github.com/nkhatri/udhaar/internal/middleware"
)

// NewRouter builds the route table. Signup and login are public; every
// ledger route sits behind the bearer-token middleware.
func NewRouter(s *Server, tokens *auth.JWTManager) http.Handler {
	requireAuth := middleware.RequireAuth(tokens)
	protected := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/signup", s.handleSignup)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.Handle("GET /api/verify-token", protected(s.handleVerifyToken))
	mux.Handle("GET /api/businesses", protected(s.handleBusinesses))
	mux.Handle("GET /api/customers/{businessId}", protected(s.handleCustomers))
	mux.Handle("GET /api/transactions/{businessId}", protected(s.handleTransactions))
	mux.Handle("GET /api/credit/{businessId}/{customerId}", protected(s.handleCredit))
	mux.Handle("POST /api/transaction", protected(s.handleRecordTransaction))

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return mux
}
