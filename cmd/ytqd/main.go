package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"github.com/ytqueue/ytq/internal/api"
	"github.com/ytqueue/ytq/internal/config"
	"github.com/ytqueue/ytq/internal/history"
	"github.com/ytqueue/ytq/internal/queue"
	"github.com/ytqueue/ytq/internal/ytdl"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	listen := flag.String("listen", "", "override listen address")
	flag.Parse()

	log.Printf("ytqd %s starting", versionString())
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *listen != "" {
		cfg.ListenAddr = *listen
	}

	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		log.Fatalf("state dir: %v", err)
	}
	lock := flock.New(filepath.Join(cfg.StateDir, "ytqd.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("state lock: %v", err)
	}
	if !locked {
		log.Fatalf("another ytqd already owns %s", cfg.StateDir)
	}
	defer lock.Unlock()

	store, err := history.Open(filepath.Join(cfg.StateDir, "history.db"))
	if err != nil {
		log.Fatalf("history open: %v", err)
	}
	defer store.Close()

	tool := ytdl.NewClient(ytdl.Config{
		Program:    cfg.Program,
		BaseArgs:   cfg.BaseArgs,
		RateLimit:  cfg.RateLimit,
		Proxy:      cfg.Proxy,
		ProxyHosts: cfg.ProxyHosts,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := queue.NewScheduler(tool, store, cfg.MaxFailures)
	go sched.Run(ctx)
	service := queue.NewService(sched, tool, cfg.DownloadDir)

	server := &http.Server{
		Handler: (&api.Server{Queue: service, History: store, Version: versionString()}).Handler(),
	}
	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	log.Printf("ytqd listening on %s (downloader %s)", cfg.ListenAddr, cfg.Program)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http serve: %v", err)
	}
	log.Printf("ytqd shut down")
}
