package main

import (
	"errors"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"custprep/internal/config"
	"custprep/internal/metrics"
	"custprep/internal/metrics/datadog"
	"custprep/internal/metrics/prompush"
	"custprep/internal/seed"
)

const (
	defaultPushgatewayURL = "http://localhost:9091"
	defaultStatsdAddr     = "127.0.0.1:8125"
)

// app carries the global flags and per-invocation state shared by the
// subcommands.
type app struct {
	cfgPath        string
	seed           int64
	verbose        bool
	metricsBackend string
	pushgatewayURL string
	statsdAddr     string

	cfg   config.Config
	runID string
	rng   *rand.Rand
	start time.Time

	closeMetrics func()
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "custprep",
		Short:         "Clean the marketing dataset and build model features",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", config.DefaultPath, "YAML config path")
	pf.Int64Var(&a.seed, "seed", seed.Default, "random seed")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logs")
	pf.StringVar(&a.metricsBackend, "metrics-backend", "", "metrics backend: none, prompush or datadog (overrides env METRICS_BACKEND)")
	pf.StringVar(&a.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	pf.StringVar(&a.statsdAddr, "statsd-addr", "", "DogStatsD address (overrides env STATSD_ADDR)")

	root.AddCommand(
		newCleanCmd(a),
		newFeaturesCmd(a),
		newRunCmd(a),
		newShowCmd(a),
		newValidateCmd(a),
	)
	return root
}

// setup seeds the process, loads the config and selects the metrics backend.
func (a *app) setup(cmd *cobra.Command) error {
	a.start = time.Now()
	a.runID = uuid.NewString()
	a.rng = seed.Set(a.seed)
	if a.verbose {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	}

	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.initMetrics()
	if a.verbose {
		log.Printf("run: id=%s command=%s config=%s seed=%d", a.runID, cmd.Name(), a.cfgPath, a.seed)
	}
	return nil
}

// runE wraps a subcommand body so metrics are flushed whether it fails or not.
func (a *app) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.teardown()
		return fn(cmd, args)
	}
}

func (a *app) teardown() {
	if err := metrics.Flush(); err != nil {
		log.Printf("metrics: flush error: %v", err)
	}
	if a.closeMetrics != nil {
		a.closeMetrics()
	}
	if a.verbose {
		log.Printf("run: id=%s completed in %s", a.runID, time.Since(a.start).Truncate(time.Millisecond))
	}
}

// initMetrics picks the backend: flag, then env, then none. A backend that
// fails to start leaves the nop backend in place.
func (a *app) initMetrics() {
	name := firstNonEmpty(a.metricsBackend, os.Getenv("METRICS_BACKEND"))
	switch name {
	case "prompush", "pushgateway":
		url := firstNonEmpty(a.pushgatewayURL, os.Getenv("PUSHGATEWAY_URL"), defaultPushgatewayURL)
		b, err := prompush.NewBackend("custprep", url, a.runID)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=%s url=%s", name, url)
		metrics.SetBackend(b)

	case "datadog":
		addr := firstNonEmpty(a.statsdAddr, os.Getenv("STATSD_ADDR"), defaultStatsdAddr)
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       addr,
			Namespace:  "custprep.",
			GlobalTags: []string{"run:" + a.runID},
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=%s addr=%s", name, addr)
		metrics.SetBackend(b)
		a.closeMetrics = func() {
			if err := b.Close(); err != nil {
				log.Printf("metrics: close error: %v", err)
			}
		}

	case "", "none":
		if a.verbose {
			log.Printf("metrics: disabled (backend=%q)", name)
		}

	default:
		log.Printf("WARNING: metrics: unknown backend %q; metrics disabled", name)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// step times fn and records its outcome under name.
func (a *app) step(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(a.runID, name, err, time.Since(start))
	if err != nil {
		return err
	}
	if a.verbose {
		log.Printf("step: name=%s duration=%s", name, time.Since(start).Truncate(time.Millisecond))
	}
	return nil
}

// errInvalidConfig is returned by validate when any issue is an error.
var errInvalidConfig = errors.New("configuration is invalid")
