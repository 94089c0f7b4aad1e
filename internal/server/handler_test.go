package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nkhatri/udhaar/internal/auth"
	"github.com/nkhatri/udhaar/internal/ledger"
	"github.com/nkhatri/udhaar/internal/service"
	"github.com/nkhatri/udhaar/internal/storage/memory"
)

func TestMain(m *testing.M) {
	// Match the wire format the binary produces.
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

func newTestServer(t *testing.T, policy ledger.Policy) *httptest.Server {
	t.Helper()

	store := memory.New()
	logger := slog.New(slog.DiscardHandler)
	tokens := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	s := New(
		service.NewAuthService(authenticator, tokens, logger),
		service.NewLedgerService(store, policy, logger),
	)

	ts := httptest.NewServer(NewRouter(s, tokens))
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode body %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

func signup(t *testing.T, ts *httptest.Server, phone, role, name string) {
	t.Helper()
	status, body := doJSON(t, http.MethodPost, ts.URL+"/api/signup", "", map[string]string{
		"phoneNumber": phone,
		"password":    "secret1",
		"userType":    role,
		"name":        name,
	})
	if status != http.StatusOK {
		t.Fatalf("signup %s: status %d, body %v", phone, status, body)
	}
}

func login(t *testing.T, ts *httptest.Server, phone string) string {
	t.Helper()
	status, body := doJSON(t, http.MethodPost, ts.URL+"/api/login", "", map[string]string{
		"phoneNumber": phone,
		"password":    "secret1",
	})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d, body %v", phone, status, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("login %s: no token in %v", phone, body)
	}
	return token
}

func TestSignupLoginFlow(t *testing.T) {
	ts := newTestServer(t, ledger.Policy{AllowNegativeBalance: true})

	status, body := doJSON(t, http.MethodPost, ts.URL+"/api/signup", "", map[string]string{
		"phoneNumber": "9000000001",
		"password":    "secret1",
		"userType":    "owner",
		"name":        "Sharma Store",
	})
	if status != http.StatusOK {
		t.Fatalf("signup: status %d, body %v", status, body)
	}
	if body["message"] != "User registered successfully" {
		t.Errorf("signup message = %v", body["message"])
	}

	t.Run("duplicate phone rejected", func(t *testing.T) {
		status, body := doJSON(t, http.MethodPost, ts.URL+"/api/signup", "", map[string]string{
			"phoneNumber": "9000000001",
			"password":    "another1",
			"userType":    "customer",
			"name":        "Imposter",
		})
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
		if msg, _ := body["error"].(string); msg == "" {
			t.Errorf("expected error body, got %v", body)
		}
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		status, _ := doJSON(t, http.MethodPost, ts.URL+"/api/signup", "", map[string]string{
			"phoneNumber": "9000000002",
			"password":    "secret1",
		})
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		status, _ := doJSON(t, http.MethodPost, ts.URL+"/api/signup", "", map[string]string{
			"phoneNumber": "9000000003",
			"password":    "secret1",
			"userType":    "admin",
			"name":        "Root",
		})
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})

	t.Run("login returns token and user", func(t *testing.T) {
		status, body := doJSON(t, http.MethodPost, ts.URL+"/api/login", "", map[string]string{
			"phoneNumber": "9000000001",
			"password":    "secret1",
		})
		if status != http.StatusOK {
			t.Fatalf("status = %d, body %v", status, body)
		}
		user, ok := body["user"].(map[string]any)
		if !ok {
			t.Fatalf("no user object in %v", body)
		}
		if user["phoneNumber"] != "9000000001" || user["userType"] != "owner" {
			t.Errorf("user = %v", user)
		}
		if _, leaked := user["passwordHash"]; leaked {
			t.Error("password hash leaked into the login response")
		}
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		status, _ := doJSON(t, http.MethodPost, ts.URL+"/api/login", "", map[string]string{
			"phoneNumber": "9000000001",
			"password":    "not-it-1",
		})
		if status != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", status)
		}
	})
}

func TestAuthMiddleware(t *testing.T) {
	ts := newTestServer(t, ledger.Policy{})

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage token", "not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, http.MethodPost, ts.URL+"/api/transaction", tt.token, map[string]any{
				"businessId": "B1", "customerId": "C1", "type": "Credit Taken", "amount": 10,
			})
			if status != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", status)
			}
			if msg, _ := body["error"].(string); msg == "" {
				t.Errorf("expected error body, got %v", body)
			}
		})
	}
}

func TestTransactionEndpoints(t *testing.T) {
	ts := newTestServer(t, ledger.Policy{AllowNegativeBalance: true})

	signup(t, ts, "B1", "owner", "Sharma Store")
	signup(t, ts, "C1", "customer", "Asha")
	signup(t, ts, "X1", "customer", "Nosy")
	ownerToken := login(t, ts, "B1")
	customerToken := login(t, ts, "C1")
	strangerToken := login(t, ts, "X1")

	record := func(token string, amount any, kind string) (int, map[string]any) {
		return doJSON(t, http.MethodPost, ts.URL+"/api/transaction", token, map[string]any{
			"businessId": "B1",
			"customerId": "C1",
			"type":       kind,
			"amount":     amount,
		})
	}

	t.Run("record as either party", func(t *testing.T) {
		status, body := record(ownerToken, 100, "Credit Taken")
		if status != http.StatusOK {
			t.Fatalf("status = %d, body %v", status, body)
		}
		if body["message"] != "Transaction added" {
			t.Errorf("message = %v", body["message"])
		}
		tx, ok := body["transaction"].(map[string]any)
		if !ok {
			t.Fatalf("no transaction in %v", body)
		}
		if tx["id"] == "" || tx["timestamp"] == nil {
			t.Errorf("server fields missing: %v", tx)
		}

		if status, _ := record(customerToken, 40, "Payment Made"); status != http.StatusOK {
			t.Fatalf("customer record: status = %d", status)
		}
	})

	t.Run("third party cannot record", func(t *testing.T) {
		status, _ := record(strangerToken, 10, "Credit Taken")
		if status != http.StatusForbidden {
			t.Errorf("status = %d, want 403", status)
		}
	})

	t.Run("bad kind and non-positive amounts are 400", func(t *testing.T) {
		for _, tc := range []struct {
			amount any
			kind   string
		}{
			{10, "Donation"},
			{0, "Credit Taken"},
			{-5, "Payment Made"},
		} {
			if status, _ := record(ownerToken, tc.amount, tc.kind); status != http.StatusBadRequest {
				t.Errorf("amount=%v kind=%q: status = %d, want 400", tc.amount, tc.kind, status)
			}
		}
	})

	t.Run("balance reflects the history", func(t *testing.T) {
		status, body := doJSON(t, http.MethodGet, ts.URL+"/api/credit/B1/C1", ownerToken, nil)
		if status != http.StatusOK {
			t.Fatalf("status = %d, body %v", status, body)
		}
		// 100 credit minus 40 payment, serialized as a bare number.
		if balance, ok := body["balance"].(float64); !ok || balance != 60 {
			t.Errorf("balance = %v, want 60", body["balance"])
		}
	})

	t.Run("third party cannot read the balance", func(t *testing.T) {
		status, _ := doJSON(t, http.MethodGet, ts.URL+"/api/credit/B1/C1", strangerToken, nil)
		if status != http.StatusForbidden {
			t.Errorf("status = %d, want 403", status)
		}
	})

	t.Run("owner lists customers with balances", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/customers/B1", nil)
		req.Header.Set("Authorization", "Bearer "+ownerToken)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}

		var balances []map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&balances); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(balances) != 1 {
			t.Fatalf("expected 1 customer, got %d", len(balances))
		}
		if balances[0]["customerId"] != "C1" || balances[0]["customerName"] != "Asha" {
			t.Errorf("unexpected entry: %v", balances[0])
		}
		if balances[0]["balance"].(float64) != 60 {
			t.Errorf("balance = %v, want 60", balances[0]["balance"])
		}
	})

	t.Run("transactions are enriched and newest first", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/transactions/B1", nil)
		req.Header.Set("Authorization", "Bearer "+ownerToken)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var views []map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&views); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(views) != 2 {
			t.Fatalf("expected 2 transactions, got %d", len(views))
		}
		if views[0]["type"] != "Payment Made" || views[1]["type"] != "Credit Taken" {
			t.Errorf("order: %v, %v", views[0]["type"], views[1]["type"])
		}
		if views[0]["customerName"] != "Asha" || views[0]["businessName"] != "Sharma Store" {
			t.Errorf("enrichment: %v", views[0])
		}
	})
}

func TestVerifyTokenAndDirectory(t *testing.T) {
	ts := newTestServer(t, ledger.Policy{})

	signup(t, ts, "B1", "owner", "Sharma Store")
	signup(t, ts, "B2", "owner", "Gupta Dairy")
	signup(t, ts, "C1", "customer", "Asha")
	token := login(t, ts, "C1")

	t.Run("verify-token echoes the identity", func(t *testing.T) {
		status, body := doJSON(t, http.MethodGet, ts.URL+"/api/verify-token", token, nil)
		if status != http.StatusOK {
			t.Fatalf("status = %d, body %v", status, body)
		}
		user, ok := body["user"].(map[string]any)
		if !ok {
			t.Fatalf("no user in %v", body)
		}
		if user["phoneNumber"] != "C1" || user["userType"] != "customer" || user["name"] != "Asha" {
			t.Errorf("user = %v", user)
		}
	})

	t.Run("businesses lists every owner", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/businesses", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var owners []map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&owners); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(owners) != 2 {
			t.Fatalf("expected 2 owners, got %d", len(owners))
		}
		for _, o := range owners {
			if _, leaked := o["passwordHash"]; leaked {
				t.Errorf("password hash leaked: %v", o)
			}
		}
	})
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, ledger.Policy{})

	status, body := doJSON(t, http.MethodGet, ts.URL+"/healthz", "", nil)
	if status != http.StatusOK || body["status"] != "ok" {
		t.Errorf("healthz = %d, %v", status, body)
	}
}

func TestClampedBalancePolicy(t *testing.T) {
	ts := newTestServer(t, ledger.Policy{AllowNegativeBalance: false})

	signup(t, ts, "B1", "owner", "Store")
	signup(t, ts, "C1", "customer", "Asha")
	token := login(t, ts, "C1")

	status, body := doJSON(t, http.MethodPost, ts.URL+"/api/transaction", token, map[string]any{
		"businessId": "B1", "customerId": "C1", "type": "Payment Made", "amount": 25,
	})
	if status != http.StatusOK {
		t.Fatalf("record: status = %d, body %v", status, body)
	}

	status, body = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/credit/%s/%s", ts.URL, "B1", "C1"), token, nil)
	if status != http.StatusOK {
		t.Fatalf("credit: status = %d, body %v", status, body)
	}
	if balance, ok := body["balance"].(float64); !ok || balance != 0 {
		t.Errorf("clamped balance = %v, want 0", body["balance"])
	}
}
