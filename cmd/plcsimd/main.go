// Command plcsimd runs the tray-handling Cell PLC core: a dual-lift
// job sequencer coordinating a shared shaft, exposed over a minimal
// HTTP/WebSocket front door. Wiring follows the teacher's main.go:
// read configuration, construct the shared state, start background
// loops under a cancellable context.Context, block on an OS signal for
// clean shutdown.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roelstierum/plcsim-go/internal/audit"
	"github.com/roelstierum/plcsim-go/internal/config"
	"github.com/roelstierum/plcsim-go/internal/metrics"
	"github.com/roelstierum/plcsim-go/internal/supervisor"
	"github.com/roelstierum/plcsim-go/internal/transport"
	"github.com/roelstierum/plcsim-go/internal/varspace"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults apply if omitted)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("plcsimd: load config: %v", err)
		}
		cfg = loaded
	}
	config.ApplyEnvOverrides(cfg)

	log.Printf("plcsimd: starting (bind=%s tick=%s watchdog=%s)",
		cfg.Transport.BindAddr, cfg.Durations.TickPeriod, cfg.Durations.Watchdog)

	var sink audit.Sink
	if cfg.Audit.PostgresDSN != "" {
		pg, err := audit.NewPostgresSink(context.Background(), cfg.Audit.PostgresDSN)
		if err != nil {
			log.Fatalf("plcsimd: audit sink: %v", err)
		}
		sink = pg
		defer pg.Close()
	}

	reg := prometheus.NewRegistry()
	coll := metrics.New(reg)

	space := varspace.New()
	cell := supervisor.New(space, cfg, coll, sink)

	router := transport.New(space, transport.Config{
		RateLimitRPS:   cfg.Transport.RateLimitRPS,
		RateLimitBurst: cfg.Transport.RateLimitBurst,
		RateLimitTTL:   cfg.Transport.RateLimitTTL,
		Registry:       reg,
	})

	httpServer := &http.Server{
		Addr:    cfg.Transport.BindAddr,
		Handler: router.Handler(),
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	streamStop := make(chan struct{})
	go router.Serve(streamStop)

	go cell.Run(ctx, cfg.Durations.TickPeriod)

	go func() {
		log.Printf("plcsimd: http listening on %s", cfg.Transport.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("plcsimd: http server failed: %v", err)
		}
	}()

	<-sigCh
	log.Println("plcsimd: shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)

	close(streamStop)
	cancel()
}
