// Package server provides the HTTP/JSON interface of the ledger service.
// Each handler decodes and validates the request, calls the service layer
// and writes a standardized JSON response; business rules live below, in
// the ledger and auth packages.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nkhatri/udhaar/internal/ledger"
	"github.com/nkhatri/udhaar/internal/middleware"
	"github.com/nkhatri/udhaar/internal/models"
	"github.com/nkhatri/udhaar/internal/service"
)

// Server holds the services behind the HTTP surface.
type Server struct {
	auth   *service.AuthService
	ledger *service.LedgerService
}

// New creates a Server over the given services.
func New(auth *service.AuthService, ledger *service.LedgerService) *Server {
	return &Server{auth: auth, ledger: ledger}
}

// handleSignup handles POST /api/signup.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
		Password    string `json:"password"`
		UserType    string `json:"userType"`
		Name        string `json:"name"`
		Photo       string `json:"photo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PhoneNumber == "" || req.Password == "" || req.UserType == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	role, err := models.ParseRole(req.UserType)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if _, err := s.auth.Signup(r.Context(), req.PhoneNumber, req.Password, role, req.Name, req.Photo); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully"})
}

// handleLogin handles POST /api/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
		Password    string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PhoneNumber == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing phoneNumber or password")
		return
	}

	token, account, err := s.auth.Login(r.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  account,
	})
}

// handleVerifyToken handles GET /api/verify-token. Reaching it at all
// means the middleware accepted the token; echo the identity back.
func (s *Server) handleVerifyToken(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]string{
			"phoneNumber": identity.Phone,
			"userType":    string(identity.Role),
			"name":        identity.Name,
			"photo":       identity.Photo,
		},
	})
}

// handleBusinesses handles GET /api/businesses.
func (s *Server) handleBusinesses(w http.ResponseWriter, r *http.Request) {
	owners, err := s.ledger.ListBusinesses(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if owners == nil {
		owners = []models.AccountSummary{}
	}
	writeJSON(w, http.StatusOK, owners)
}

// handleCustomers handles GET /api/customers/{businessId}.
func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetIdentity(r.Context())
	businessID := r.PathValue("businessId")

	balances, err := s.ledger.CustomersForBusiness(r.Context(), caller, businessID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if balances == nil {
		balances = []ledger.CustomerBalance{}
	}
	writeJSON(w, http.StatusOK, balances)
}

// handleTransactions handles GET /api/transactions/{businessId} with
// optional customerId and window query parameters.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetIdentity(r.Context())
	businessID := r.PathValue("businessId")
	customerID := r.URL.Query().Get("customerId")
	window := ledger.ParseWindow(r.URL.Query().Get("window"))

	views, err := s.ledger.Transactions(r.Context(), caller, businessID, customerID, window)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if views == nil {
		views = []service.TransactionView{}
	}
	writeJSON(w, http.StatusOK, views)
}

// handleCredit handles GET /api/credit/{businessId}/{customerId}.
func (s *Server) handleCredit(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetIdentity(r.Context())
	businessID := r.PathValue("businessId")
	customerID := r.PathValue("customerId")

	balance, err := s.ledger.Balance(r.Context(), caller, businessID, customerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"balance": balance})
}

// handleRecordTransaction handles POST /api/transaction.
func (s *Server) handleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetIdentity(r.Context())

	var req struct {
		BusinessID  string          `json:"businessId"`
		CustomerID  string          `json:"customerId"`
		Type        string          `json:"type"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		Photo       string          `json:"photo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := s.ledger.Record(r.Context(), caller, req.BusinessID, req.CustomerID, req.Type, req.Amount, req.Description, req.Photo)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Transaction added",
		"transaction": tx,
	})
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
