package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"nyiyui.ca/hato/rail"
	"nyiyui.ca/hato/rail/config"
	"nyiyui.ca/hato/rail/metrics"
	"nyiyui.ca/hato/rail/notify"
	"nyiyui.ca/hato/rail/sim"
)

func main() {
	defer zap.S().Sync()
	level := zap.LevelFlag("log-level", zap.InfoLevel, "set log level")
	configPath := flag.String("config", "layout.yaml", "path to network config")
	ticks := flag.Int("ticks", 100, "number of ticks to simulate (negative for forever)")
	dt := flag.Float64("dt", 0.1, "seconds per tick")
	realtime := flag.Bool("realtime", false, "wait dt between ticks")
	bounce := flag.Bool("bounce", false, "reverse followers at the end of the line instead of stopping")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics (/metrics) and the latest snapshot (/snapshot) on this address (e.g. 0.0.0.0:8001)")
	flag.Parse()
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(*level)
	// stdout is for snapshots
	cfg.OutputPaths = []string{"stderr"}
	dev, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(dev)

	c, err := config.LoadFile(*configPath)
	if err != nil {
		zap.S().Fatalf("load config: %s", err)
	}

	reg := prometheus.NewRegistry()
	collector := metrics.New(reg, rail.LogReporter{})
	n, err := c.Build(collector)
	if err != nil {
		zap.S().Fatalf("build network: %s", err)
	}
	for _, w := range n.Layout.AllWarnings() {
		collector.Warn(w)
	}
	for _, f := range n.Followers {
		for _, w := range f.ConfigurationWarnings() {
			w.Message = f.Name + ": " + w.Message
			collector.Warn(w)
		}
	}
	for _, t := range n.Trains {
		for i, f := range t.Cars {
			for _, w := range f.ConfigurationWarnings() {
				w.Message = fmt.Sprintf("%s car %d: %s", t.Name, i, w.Message)
				collector.Warn(w)
			}
		}
	}

	snapshots := notify.NewMultiplexer[sim.Snapshot]("snapshots")
	if *metricsAddr != "" {
		zap.S().Infof("serving metrics and snapshots on %s…", *metricsAddr)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		var lastLock sync.Mutex
		var last sim.Snapshot
		latest := make(chan sim.Snapshot, 1)
		snapshots.SubscribeLossy("http", latest)
		go func() {
			for snap := range latest {
				lastLock.Lock()
				last = snap
				lastLock.Unlock()
			}
		}()
		mux.HandleFunc("/snapshot", func(w http.ResponseWriter, r *http.Request) {
			lastLock.Lock()
			defer lastLock.Unlock()
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(last); err != nil {
				zap.S().Debugf("snapshot: %s", err)
			}
		})
		go func() {
			err := http.ListenAndServe(*metricsAddr, mux)
			if err != nil {
				zap.S().Errorf("metrics: %s", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := sim.New(sim.SimulationConf{
		Network: n,
		Metrics: collector,
		Bounce:  *bounce,
	})
	enc := json.NewEncoder(os.Stdout)
	zap.S().Infof("starting simulation of %d followers and %d trains…", len(n.Followers), len(n.Trains))
	err = s.Run(ctx, *ticks, *dt, func(snap sim.Snapshot) error {
		if err := enc.Encode(snap); err != nil {
			return err
		}
		snapshots.Send(snap)
		if *realtime {
			select {
			case <-ctx.Done():
			case <-time.After(time.Duration(*dt * float64(time.Second))):
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		zap.S().Fatalf("simulation: %s", err)
	}
}
