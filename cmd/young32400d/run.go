// cmd/young32400d/run.go
package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tamzrod/young32400-bridge/internal/config"
	"github.com/tamzrod/young32400-bridge/internal/poller"
	"github.com/tamzrod/young32400-bridge/internal/status"
	"github.com/tamzrod/young32400-bridge/internal/writer"
)

// buildPoller is replaced in tests.
var buildPoller = poller.Build

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <config.yaml>",
		Short: "Run the bridge for every unit in the config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}
}

func run(cfgPath string) error {
	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	config.Normalize(cfg)

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	var wg sync.WaitGroup

	// Units already started must leave Poll before their sensors are closed
	// by the deferred closers.
	abort := func(err error) error {
		cancel()
		wg.Wait()
		return err
	}

	// --------------------
	// Build per-unit pipelines
	// --------------------

	for _, unit := range cfg.Bridge.Units {
		lg := log.With().Str("unit", unit.ID).Logger()

		// ---- poller ----
		p, closePoller, err := buildPoller(unit)
		if err != nil {
			lg.Error().Err(err).Msg("poller build failed")
			return abort(err)
		}
		defer closePoller()

		// ---- writer plan ----
		plan, err := writer.BuildPlan(unit, cfg.Bridge.StatusMemory)
		if err != nil {
			lg.Error().Err(err).Msg("writer plan failed")
			return abort(err)
		}

		// ---- writer clients (DATA + STATUS) ----
		clients, closeWriters, err := writer.BuildEndpointClients(unit, cfg.Bridge.StatusMemory)
		if err != nil {
			lg.Error().Err(err).Msg("writer clients failed")
			return abort(err)
		}
		defer closeWriters()

		dataWriter := writer.New(plan, clients)
		statusWriter, statusEnabled := writer.NewDeviceStatusWriter(plan, clients)

		// ---- channel between poller and writer ----
		out := make(chan poller.PollResult)

		wg.Add(2)
		go func() {
			defer wg.Done()
			secTicker := time.NewTicker(time.Second)
			defer secTicker.Stop()
			deliver(ctx, unit.ID, out, secTicker.C, dataWriter, statusWriter, statusEnabled)
		}()
		go func() {
			defer wg.Done()
			p.Run(ctx, out)
		}()
	}

	log.Info().Int("units", len(cfg.Bridge.Units)).Msg("bridge running")
	<-ctx.Done()
	log.Info().Msg("shutting down")
	wg.Wait()
	return nil
}

// deliver is the per-unit orchestrator: data writes, status tracking and
// the seconds-in-error tick (1 Hz in production).
func deliver(
	ctx context.Context,
	unitID string,
	in <-chan poller.PollResult,
	tick <-chan time.Time,
	dataWriter writer.Writer,
	statusWriter writer.StatusWriter,
	statusEnabled bool,
) {
	lg := log.With().Str("unit", unitID).Logger()
	tracker := status.NewTracker()

	writeStatus := func(what string) {
		if err := statusWriter.WriteStatus(tracker.Snapshot()); err != nil {
			lg.Error().Err(err).Str("phase", what).Msg("status write failed")
		}
	}

	// Full block write on start (identity re-assert) if enabled.
	if statusEnabled {
		writeStatus("start")
	}

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-in:
			if err := dataWriter.Write(res); err != nil {
				lg.Error().Err(err).Msg("data write failed")
			}

			if statusEnabled && tracker.Apply(res.Err, res.Valid) {
				writeStatus("update")
			}

		case <-tick:
			if statusEnabled && tracker.Tick() {
				writeStatus("tick")
			}
		}
	}
}
