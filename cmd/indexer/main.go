package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"securevault-indexer/internal/adapter/chain"
	httpadp "securevault-indexer/internal/adapter/http"
	"securevault-indexer/internal/adapter/ingest"
	mysqlrepo "securevault-indexer/internal/adapter/repository/mysql"
	"securevault-indexer/internal/config"
	"securevault-indexer/internal/domain/accesscontrol"
	"securevault-indexer/internal/domain/checkpoint"
	"securevault-indexer/internal/domain/loan"
	"securevault-indexer/internal/domain/request"
	"securevault-indexer/internal/domain/vault"
	"securevault-indexer/internal/infrastructure/cache"
	"securevault-indexer/internal/infrastructure/db"
	"securevault-indexer/internal/usecase/query"
	"securevault-indexer/internal/usecase/reconcile"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := gdb.AutoMigrate(
		&vault.Vault{}, &vault.Lender{}, &vault.Borrower{},
		&request.DepositRequest{}, &request.WithdrawRequest{},
		&request.DepositExecution{}, &request.WithdrawExecution{},
		&request.AdminWithdrawal{},
		&loan.Loan{}, &loan.Payment{},
		&accesscontrol.Role{}, &accesscontrol.Member{}, &accesscontrol.RoleEvent{},
		&checkpoint.Cursor{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	vaultAddr := cfg.Vault()
	reader := query.NewUsecase(vaultAddr, mysqlrepo.Repos(gdb))
	reconciler := reconcile.NewUsecase(vaultAddr, mysqlrepo.NewGormUoW(gdb))

	var seen *ingest.SeenCache
	if rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB); err != nil {
		// The DB gates alone keep ingest idempotent.
		log.Printf("redis unavailable, continuing without seen cache: %v", err)
	} else {
		seen = ingest.NewSeenCache(rdb, cfg.VaultAddress, time.Duration(cfg.SeenTTLSecs)*time.Second)
	}

	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		log.Fatalf("rpc: %v", err)
	}
	poller := chain.NewPoller(client, vaultAddr, cfg.MaxBlockRange)
	runner := ingest.NewRunner(
		poller,
		reconciler,
		mysqlrepo.NewCursorRepository(gdb),
		reconcile.VaultID(vaultAddr),
		cfg.StartBlock,
		time.Duration(cfg.PollIntervalMS)*time.Millisecond,
		seen,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("ingest stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger(), middleware.Recover())
	e.Validator = httpadp.NewValidator()

	h := httpadp.NewHandler(reconcile.VaultID(vaultAddr))
	e.GET("/health", h.Health)
	httpadp.NewVaultHandler(reader).Register(e)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Println(err)
	}
}
