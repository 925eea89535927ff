package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nuqta-dev/tenadmin/internal/config"
	"github.com/nuqta-dev/tenadmin/internal/directory"
	"github.com/nuqta-dev/tenadmin/internal/metrics"
	"github.com/nuqta-dev/tenadmin/internal/subscription"
	"github.com/nuqta-dev/tenadmin/pkg/saas"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously refresh the tenant directory and track status changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd.Context())
	},
}

func runWatch(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		startMetricsServer(ctx, cfg.MetricsAddr)
	}

	reload := make(chan struct{}, 1)
	if envPath := config.EnvFilePath(); envPath != "" {
		watcher, err := config.NewWatcher(envPath, func() {
			select {
			case reload <- struct{}{}:
			default:
			}
		})
		if err != nil {
			log.Warn().Err(err).Msg("Config watcher unavailable")
		} else if err := watcher.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start config watcher")
		} else {
			defer watcher.Stop()
		}
	}

	store := directory.NewStore()
	currencies := directory.NewCollection(func(c saas.Currency) int { return c.ID })
	units := directory.NewCollection(func(u saas.MeasureUnit) int { return u.ID })

	previous := map[int]subscription.Status{}

	refresh := func() {
		if err := refreshAll(ctx, store, currencies, units); err != nil {
			log.Error().Err(err).Msg("Directory refresh failed")
			return
		}
		previous = observeStatuses(store, previous)
		log.Info().
			Int("tenants", store.Len()).
			Int("currencies", len(currencies.All())).
			Int("units", len(units.All())).
			Msg("Directory refreshed")
	}

	log.Info().Dur("interval", cfg.WatchInterval).Msg("Starting watch loop")
	refresh()

	ticker := time.NewTicker(cfg.WatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Watch loop stopped")
			return nil
		case <-ticker.C:
			refresh()
		case <-reload:
			renewed, err := config.Load()
			if err != nil {
				log.Warn().Err(err).Msg("Config reload failed; keeping previous settings")
				continue
			}
			cfg = renewed
			renewedClient, err := newAPIClient(cfg, client.Token())
			if err != nil {
				log.Warn().Err(err).Msg("Client rebuild failed; keeping previous connection settings")
			} else {
				client = renewedClient
			}
			ticker.Reset(cfg.WatchInterval)
			log.Info().Dur("interval", cfg.WatchInterval).Msg("Configuration reloaded")
		}
	}
}

// refreshAll fetches the tenant directory and reference collections in
// parallel. A failure on any endpoint aborts the whole refresh; the previous
// snapshot stays visible.
func refreshAll(ctx context.Context, store *directory.Store, currencies *directory.Collection[saas.Currency], units *directory.Collection[saas.MeasureUnit]) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tenants, err := client.ListTenants(gctx)
		if err != nil {
			return fmt.Errorf("tenants: %w", err)
		}
		store.Replace(tenants)
		return nil
	})
	g.Go(func() error {
		list, err := client.ListCurrencies(gctx)
		if err != nil {
			return fmt.Errorf("currencies: %w", err)
		}
		currencies.Replace(list)
		return nil
	})
	g.Go(func() error {
		list, err := client.ListMeasureUnits(gctx)
		if err != nil {
			return fmt.Errorf("measure units: %w", err)
		}
		units.Replace(list)
		return nil
	})

	return g.Wait()
}

// observeStatuses evaluates every tenant, publishes the per-status gauge, and
// logs transitions against the previous snapshot.
func observeStatuses(store *directory.Store, previous map[int]subscription.Status) map[int]subscription.Status {
	now := time.Now()
	current := make(map[int]subscription.Status, store.Len())
	counts := make(map[subscription.Status]int)

	for _, t := range store.All() {
		start, end, err := t.SubscriptionWindow()
		if err != nil {
			continue
		}
		status := subscription.Evaluate(now, start, end).Status
		current[t.ID] = status
		counts[status]++

		if prev, ok := previous[t.ID]; ok && prev != status {
			metrics.ObserveTransition(prev, status)
			log.Warn().
				Int("tenant_id", t.ID).
				Str("tenant", t.EnglishName).
				Str("from", string(prev)).
				Str("to", string(status)).
				Msg("Subscription status changed")
		}
	}

	metrics.SetTenantCounts(counts)
	return current
}

func startMetricsServer(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Metrics server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}
