package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	httpadp "github.com/luizao-f/sistema-emprestimo-financeiro/internal/adapter/http"
	appmw "github.com/luizao-f/sistema-emprestimo-financeiro/internal/adapter/middleware"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/adapter/repository/mysql"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/config"
	loanDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/loan"
	paymentDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/payment"
	partnerDomain "github.com/luizao-f/sistema-emprestimo-financeiro/internal/domain/partner"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/infrastructure/cache"
	"github.com/luizao-f/sistema-emprestimo-financeiro/internal/infrastructure/db"
	loanUC "github.com/luizao-f/sistema-emprestimo-financeiro/internal/usecase/loan"
	partnerUC "github.com/luizao-f/sistema-emprestimo-financeiro/internal/usecase/partner"
	paymentUC "github.com/luizao-f/sistema-emprestimo-financeiro/internal/usecase/payment"
	portfolioUC "github.com/luizao-f/sistema-emprestimo-financeiro/internal/usecase/portfolio"
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		logger.Fatal("mysql connect failed", zap.Error(err))
	}
	if err := gdb.AutoMigrate(
		&loanDomain.Loan{}, &loanDomain.Participation{},
		&paymentDomain.Payment{}, &partnerDomain.Partner{},
	); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatal("redis connect failed", zap.Error(err))
	}

	loans := mysql.NewLoanRepository(gdb)
	payments := mysql.NewPaymentRepository(gdb)
	partners := mysql.NewPartnerRepository(gdb)
	txm := mysql.NewGormUoW(gdb)

	summaryTTL := time.Duration(cfg.SummaryTTLSecs) * time.Second
	portfolio := portfolioUC.NewUsecase(loans, payments, cache.NewRedisCache(rdb), summaryTTL, logger)
	loanSvc := loanUC.NewUsecase(loans, txm, portfolio, logger)
	paymentSvc := paymentUC.NewUsecase(txm, portfolio, logger)
	partnerSvc := partnerUC.NewUsecase(partners, logger)

	h := httpadp.NewHandler()
	lh := httpadp.NewLoanHandler(loanSvc)
	ph := httpadp.NewPaymentHandler(paymentSvc, portfolio)
	poh := httpadp.NewPortfolioHandler(portfolio)
	pth := httpadp.NewPartnerHandler(partnerSvc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(appmw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, logger))

	// routes
	e.GET("/health", h.Health)

	e.POST("/loans", lh.CreateLoan)
	e.GET("/loans", lh.ListLoans)
	e.GET("/loans/:loan_id", lh.GetLoan)
	e.PUT("/loans/:loan_id", lh.UpdateLoan)
	e.POST("/loans/:loan_id/close", lh.CloseLoan)
	e.POST("/loans/:loan_id/reactivate", lh.ReactivateLoan)
	e.GET("/loans/:loan_id/installments", poh.Installments)

	e.POST("/loans/:loan_id/payments", ph.RecordPayment)
	e.POST("/loans/:loan_id/payments/settle", ph.SettlePayment)
	e.GET("/payments", ph.ListMonth)

	e.GET("/portfolio/summary", poh.Summary)
	e.GET("/reports/monthly", poh.MonthlyReport)

	e.POST("/partners", pth.CreatePartner)
	e.GET("/partners", pth.ListPartners)
	e.GET("/partners/:partner_id", pth.GetPartner)
	e.PUT("/partners/:partner_id", pth.UpdatePartner)
	e.DELETE("/partners/:partner_id", pth.DeletePartner)

	addr := ":" + cfg.AppPort
	logger.Info("listening", zap.String("addr", addr))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
