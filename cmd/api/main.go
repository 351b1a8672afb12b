package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"healthgrid.org/internal/audit"
	"healthgrid.org/internal/auth"
	"healthgrid.org/internal/authz"
	"healthgrid.org/internal/httpapi"
	"healthgrid.org/internal/obs"
	"healthgrid.org/internal/registry"
	"healthgrid.org/internal/store/pg"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	dsn := os.Getenv("HEALTHGRID_PG_DSN")
	if dsn == "" {
		log.Fatal("HEALTHGRID_PG_DSN is required")
	}
	store, err := pg.Open(dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	reg := registry.NewService(store)
	policies := authz.NewPolicySet(store)
	resolver := auth.NewResolver(reg)
	recorder := audit.NewRecorder(store)

	probe := httpapi.ReadyProbe{DB: store.DB()}
	api := httpapi.New(probe, version, reg, policies, resolver, recorder)

	httpAddr := env("HEALTHGRID_HTTP_ADDR", ":8080")
	srv := &http.Server{
		Addr:              httpAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grpcSrv, stopGRPC := httpapi.NewGRPCServer(probe, 10*time.Second)
	grpcAddr := env("HEALTHGRID_GRPC_ADDR", ":9090")
	grpcLis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatalf("grpc listen: %v", err)
	}

	log.Printf("Starting healthgrid-api %s (http %s, grpc %s)", version, httpAddr, grpcAddr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	go func() {
		if err := grpcSrv.Serve(grpcLis); err != nil {
			log.Printf("grpc serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	stopGRPC()
	log.Println("Stopped")
}
