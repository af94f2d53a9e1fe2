package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/somitihq/somiti-ledger/internal/config"
	"github.com/somitihq/somiti-ledger/internal/handler"
	"github.com/somitihq/somiti-ledger/internal/logging"
	"github.com/somitihq/somiti-ledger/internal/notify"
	"github.com/somitihq/somiti-ledger/internal/repository"
	"github.com/somitihq/somiti-ledger/internal/service"
	"github.com/somitihq/somiti-ledger/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.Logging)

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	notifier := notify.NewGatewayClient(cfg.SMS, logger)

	memberRepo := repository.NewMemberRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	dpsRepo := repository.NewDpsRepository(db)
	fdrRepo := repository.NewFdrRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	loanService := service.NewLoanService(loanRepo, memberRepo, redisClient, notifier, cfg, logger)
	memberService := service.NewMemberService(memberRepo, notifier, logger)
	depositService := service.NewDepositService(dpsRepo, fdrRepo, memberRepo, notifier, cfg, logger)
	ledgerService := service.NewLedgerService(ledgerRepo)
	reportService := service.NewReportService(loanRepo, dpsRepo, fdrRepo, memberRepo, ledgerRepo, cfg, logger)

	loanHandler := handler.NewLoanHandler(loanService)
	memberHandler := handler.NewMemberHandler(memberService)
	depositHandler := handler.NewDepositHandler(depositService, cfg.GetTimezone())
	reportHandler := handler.NewReportHandler(reportService, ledgerService, cfg.GetTimezone())
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())
	smsHandler := handler.NewSmsHandler(notifier, logger)

	router := setupRoutes(loanHandler, memberHandler, depositHandler, reportHandler, healthHandler, smsHandler)
	router.Use(response.LoggingMiddleware(logger))
	router.Use(response.JSONMiddleware)
	router.Use(response.CORSMiddleware)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	loanHandler *handler.LoanHandler,
	memberHandler *handler.MemberHandler,
	depositHandler *handler.DepositHandler,
	reportHandler *handler.ReportHandler,
	healthHandler *handler.HealthHandler,
	smsHandler *handler.SmsHandler,
) *mux.Router {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Auth
	api.HandleFunc("/login", memberHandler.Login).Methods("POST")

	// Members and agents
	api.HandleFunc("/members", memberHandler.Register).Methods("POST")
	api.HandleFunc("/members", memberHandler.ListMembers).Methods("GET")
	api.HandleFunc("/members/last-id", memberHandler.LastMemberID).Methods("GET")
	api.HandleFunc("/members/{memberId}", memberHandler.GetMember).Methods("GET")
	api.HandleFunc("/members/{memberId}", memberHandler.UpdateMember).Methods("PUT")
	api.HandleFunc("/agents", memberHandler.ListAgents).Methods("GET")
	api.HandleFunc("/agents/{memberId}/access-list", memberHandler.UpdateAccessList).Methods("PUT")
	api.HandleFunc("/agents/{id}", memberHandler.DeleteAgent).Methods("DELETE")

	// Loans and installments
	api.HandleFunc("/loans", loanHandler.IssueLoan).Methods("POST")
	api.HandleFunc("/loans", loanHandler.ListLoans).Methods("GET")
	api.HandleFunc("/loans/all", loanHandler.AllLoans).Methods("GET")
	api.HandleFunc("/loans/close", loanHandler.CloseSummaries).Methods("GET")
	api.HandleFunc("/loans/{loanId}", loanHandler.GetLoan).Methods("GET")
	api.HandleFunc("/loans/{loanId}/collections", loanHandler.RecordCollection).Methods("POST")
	api.HandleFunc("/installments/due-today", loanHandler.DueToday).Methods("GET")
	api.HandleFunc("/installments/overdue", loanHandler.Overdue).Methods("GET")
	api.HandleFunc("/members/{memberId}/installments", loanHandler.MemberInstallments).Methods("GET")
	api.HandleFunc("/members/{memberId}/loans", loanHandler.CloseMemberLoans).Methods("DELETE")

	// DPS
	api.HandleFunc("/dps/schemes", depositHandler.CreateDpsScheme).Methods("POST")
	api.HandleFunc("/dps/schemes", depositHandler.ListDpsSchemes).Methods("GET")
	api.HandleFunc("/dps/schemes/{id}", depositHandler.DpsSchemeDetails).Methods("GET")
	api.HandleFunc("/dps/schemes/{id}", depositHandler.DeleteDpsScheme).Methods("DELETE")
	api.HandleFunc("/dps/management", depositHandler.DpsManagement).Methods("GET")
	api.HandleFunc("/dps/settings", depositHandler.EnrollDps).Methods("POST")
	api.HandleFunc("/dps/collections", depositHandler.RecordDpsCollection).Methods("POST")
	api.HandleFunc("/dps/due-today", depositHandler.DpsDueToday).Methods("GET")
	api.HandleFunc("/dps/members/{memberId}/report", depositHandler.DpsMemberReport).Methods("GET")

	// FDR
	api.HandleFunc("/fdr/schemes", depositHandler.CreateFdrScheme).Methods("POST")
	api.HandleFunc("/fdr/schemes", depositHandler.ListFdrSchemes).Methods("GET")
	api.HandleFunc("/fdr/settings", depositHandler.OpenFdr).Methods("POST")
	api.HandleFunc("/fdr/settings", depositHandler.ListFdr).Methods("GET")
	api.HandleFunc("/fdr/settings/{id}/withdraw", depositHandler.WithdrawFdr).Methods("POST")
	api.HandleFunc("/fdr/settings/{id}", depositHandler.UpdateFdr).Methods("PUT")
	api.HandleFunc("/fdr/settings/{id}", depositHandler.DeleteFdr).Methods("DELETE")
	api.HandleFunc("/fdr/due-today", depositHandler.FdrDueToday).Methods("GET")
	api.HandleFunc("/fdr/members/{memberId}", depositHandler.MemberFdr).Methods("GET")

	// Ledgers
	api.HandleFunc("/income-expense/categories", reportHandler.CreateIncomeExpenseCategory).Methods("POST")
	api.HandleFunc("/income-expense/categories", reportHandler.ListIncomeExpenseCategories).Methods("GET")
	api.HandleFunc("/income-expense/categories/{id}/transactions", reportHandler.AddIncomeExpenseTransaction).Methods("POST")
	api.HandleFunc("/expenses/categories", reportHandler.CreateExpenseCategory).Methods("POST")
	api.HandleFunc("/expenses/categories", reportHandler.ListExpenseCategories).Methods("GET")
	api.HandleFunc("/expenses/categories/{id}/transactions", reportHandler.AddExpense).Methods("POST")
	api.HandleFunc("/initial-cash", reportHandler.SetInitialCash).Methods("POST")
	api.HandleFunc("/initial-cash", reportHandler.GetInitialCash).Methods("GET")
	api.HandleFunc("/org-profile", reportHandler.SaveOrgProfile).Methods("POST")
	api.HandleFunc("/org-profile", reportHandler.GetOrgProfile).Methods("GET")

	// SMS gateway
	api.HandleFunc("/sms/send", smsHandler.SendSms).Methods("POST")
	api.HandleFunc("/sms/webhook", smsHandler.Webhook).Methods("POST")

	// Reports
	api.HandleFunc("/reports/daily-collections", reportHandler.DailyCollections).Methods("GET")
	api.HandleFunc("/reports/daily-summary", reportHandler.DailySummary).Methods("GET")
	api.HandleFunc("/reports/member-balances", reportHandler.MemberBalances).Methods("GET")
	api.HandleFunc("/reports/profit", reportHandler.ProfitReport).Methods("GET")
	api.HandleFunc("/reports/members/{memberId}/transactions", reportHandler.MemberTransactions).Methods("POST")

	return router
}
