package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/shopspring/decimal"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/nkhatri/udhaar/internal/auth"
	"github.com/nkhatri/udhaar/internal/config"
	"github.com/nkhatri/udhaar/internal/ledger"
	"github.com/nkhatri/udhaar/internal/middleware"
	"github.com/nkhatri/udhaar/internal/server"
	"github.com/nkhatri/udhaar/internal/service"
	"github.com/nkhatri/udhaar/internal/storage"
	"github.com/nkhatri/udhaar/internal/storage/memory"
	"github.com/nkhatri/udhaar/internal/storage/sqlite"
	"github.com/nkhatri/udhaar/pkg/logging"
)

func main() {
	logging.Setup()

	// Amounts go over the wire as plain JSON numbers, matching the
	// existing clients.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var store storage.Store
	switch cfg.Store {
	case "memory":
		store = memory.New()
		slog.Info("Storage initialized", "backend", "memory")
	default:
		store, err = sqlite.New(cfg.DBPath)
		if err != nil {
			slog.Error("Failed to initialize storage", "error", err)
			os.Exit(1)
		}
		slog.Info("Storage initialized", "backend", "sqlite", "database", cfg.DBPath)
	}
	defer store.Close()

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenExpiry)
	authenticator := auth.NewPasswordAuthenticator(store)

	policy := ledger.Policy{AllowNegativeBalance: cfg.AllowNegativeBalance}
	if cfg.OpenTransactionReads {
		policy.Read = ledger.ReadAnyCustomer
	}

	authSvc := service.NewAuthService(authenticator, tokens, slog.Default())
	ledgerSvc := service.NewLedgerService(store, policy, slog.Default())

	mux := server.NewRouter(server.New(authSvc, ledgerSvc), tokens)
	handler := middleware.Logging(middleware.Metrics(middleware.CORS(mux)))

	// HTTP/2 without TLS so clients behind plain proxies can multiplex
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting",
		"address", addr,
		"allow_negative_balance", cfg.AllowNegativeBalance,
		"open_transaction_reads", cfg.OpenTransactionReads,
	)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
