package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/DASH1324/bleu-pos/internal/catalog"
	"github.com/DASH1324/bleu-pos/internal/config"
	"github.com/DASH1324/bleu-pos/internal/httpx"
	"github.com/DASH1324/bleu-pos/internal/promos"
	"github.com/DASH1324/bleu-pos/internal/redisx"
	"github.com/DASH1324/bleu-pos/internal/sales"
	"github.com/DASH1324/bleu-pos/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	// Optional menu snapshot cache
	var cache *redisx.Cache
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		cache = &redisx.Cache{RDB: rdb}
	}

	// Upstream clients & sessions
	th := &httpx.TerminalHandler{
		Sessions: session.NewManager(),
		Catalog:  catalog.NewClient(cfg.CatalogBaseURL, cache),
		Promos:   promos.NewClient(cfg.DiscountBaseURL, cache),
		Sales:    sales.NewClient(cfg.SalesBaseURL),
		Service:  cfg.ServiceName,
	}
	router := httpx.NewRouter()
	th.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
}
