package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"servicehub/internal/catalog"
	"servicehub/internal/classifier"
	"servicehub/internal/config"
	"servicehub/internal/ingest"
	"servicehub/internal/logger"
	"servicehub/internal/services"
	synchub "servicehub/internal/sync"
	"servicehub/internal/upstream"
	"servicehub/pkg/models"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (default $SERVICEHUB_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info("starting api server", "config", cfg.String())

	if err := run(cfg, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	cls := classifier.New(cfg.Classifier)

	baseline, err := loadBaseline(cfg, cls)
	if err != nil {
		return err
	}
	store := catalog.NewStore(baseline)
	log.Info("catalog ready", "baseline", len(baseline))

	hub := synchub.NewHub(log)
	coordinator := ingest.NewCoordinator(store, cls, hub, log)

	// a nil *HTTPSource must not leak into the interface
	var src upstream.Source
	if cfg.Upstream.Enabled() {
		src = upstream.NewHTTPSource(cfg.Upstream.URL, upstream.Options{
			Timeout:           cfg.Upstream.Timeout(),
			RequestsPerMinute: cfg.Upstream.RequestsPerMinute,
			Burst:             cfg.Upstream.Burst,
		})
	}

	handler := services.NewHandler(store, coordinator, src)
	handler.MaxBodyBytes = cfg.Server.MaxBodyBytes

	gin.SetMode(gin.ReleaseMode)
	router := services.NewRouter(services.RouterOptions{
		Handler:        handler,
		Hub:            hub,
		Log:            log,
		AccessLog:      cfg.Logging.AccessLog,
		TrustedProxies: cfg.Server.TrustedProxies,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var tcpSrv *synchub.Server
	if cfg.Server.SyncAddr != "" {
		tcpSrv = synchub.NewServer(cfg.Server.SyncAddr, hub)
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	if tcpSrv != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := tcpSrv.Run(); err != nil {
				errCh <- fmt.Errorf("tcp sync: %w", err)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http api listening", "addr", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", "signal", sig.String())
	case runErr = <-errCh:
	}

	log.Info("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", "error", err)
	}
	if tcpSrv != nil {
		if err := tcpSrv.Close(); err != nil {
			log.Error("tcp shutdown error", "error", err)
		}
	}

	wg.Wait()
	log.Info("servers stopped")
	return runErr
}

func loadBaseline(cfg *config.Config, cls *classifier.Classifier) ([]models.Service, error) {
	if cfg.Catalog.BaselineFile == "" {
		return catalog.DefaultBaseline(), nil
	}
	return catalog.LoadBaseline(cfg.Catalog.BaselineFile, cls)
}
