package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"healthwallet.org/internal/auth"
	"healthwallet.org/internal/httpapi"
	"healthwallet.org/internal/obs"
	"healthwallet.org/internal/records"
	"healthwallet.org/internal/sharing"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	// The token secret has no default on purpose: a wallet signing
	// tokens with a guessable key is worse than one that refuses to boot.
	secret := os.Getenv("HEALTHWALLET_AUTH_SECRET")
	if secret == "" {
		log.Fatal("HEALTHWALLET_AUTH_SECRET is required")
	}

	addr := os.Getenv("HEALTHWALLET_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	tokenOpts := []auth.TokenOption{}
	if raw := os.Getenv("HEALTHWALLET_TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("invalid HEALTHWALLET_TOKEN_TTL: %v", err)
		}
		tokenOpts = append(tokenOpts, auth.WithTokenTTL(ttl))
	}
	tokens, err := auth.NewTokenService(secret, tokenOpts...)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	authOpts := []auth.ServiceOption{}
	if raw := os.Getenv("HEALTHWALLET_BCRYPT_COST"); raw != "" {
		cost, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("invalid HEALTHWALLET_BCRYPT_COST: %v", err)
		}
		authOpts = append(authOpts, auth.WithBcryptCost(cost))
	}

	// Postgres when a DSN is set, in-memory stores otherwise.
	var db *sql.DB
	var userStore auth.Store
	var reportStore records.ReportStore
	var vitalStore records.VitalStore
	var grantStore sharing.Store

	if dsn := os.Getenv("HEALTHWALLET_PG_DSN"); dsn != "" {
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)

		userStore = auth.NewPGStore(db)
		pg := records.NewPGStore(db)
		reportStore = pg
		vitalStore = pg
		grantStore = sharing.NewPGStore(db)
	} else {
		log.Print("HEALTHWALLET_PG_DSN not set; using in-memory stores")
		memUsers := auth.NewInMemory()
		memRecords := records.NewInMemory()
		userStore = memUsers
		reportStore = memRecords
		vitalStore = memRecords
		grantStore = sharing.NewInMemory(httpapi.StoreDirectory{
			Reports: memRecords,
			Users:   memUsers,
		})
	}

	users, err := auth.NewService(userStore, authOpts...)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	recs, err := records.NewService(reportStore, vitalStore)
	if err != nil {
		log.Fatalf("records service: %v", err)
	}
	shares, err := sharing.NewController(grantStore)
	if err != nil {
		log.Fatalf("sharing controller: %v", err)
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, users, tokens, recs, shares)

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting healthwallet-api %s on %s", version, srv.Addr)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
