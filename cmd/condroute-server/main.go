package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osmtools/condroute/pkg/api"
	"github.com/osmtools/condroute/pkg/config"
	"github.com/osmtools/condroute/pkg/graph"
	"github.com/osmtools/condroute/pkg/logging"
	"github.com/osmtools/condroute/pkg/metrics"
	"github.com/osmtools/condroute/pkg/restriction"
	"github.com/osmtools/condroute/pkg/route"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	waysPath := flag.String("ways", "", "Path to ways JSON file")
	flag.Parse()

	if err := run(*configPath, *waysPath); err != nil {
		fmt.Fprintf(os.Stderr, "condroute-server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, waysPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Logging.Level))
	registry := metrics.DefaultRegistry()

	var ways []graph.Way
	if waysPath != "" {
		ways, err = graph.LoadWaysFile(waysPath)
		if err != nil {
			return err
		}
		logger.Info("loaded ways", logging.Int("count", len(ways)), logging.String("path", waysPath))
	} else {
		logger.Warn("no ways file given, serving an empty graph")
	}

	store := graph.NewStore()
	publishGraph(ways, cfg, store, logger, registry)

	engine := route.NewEngine(store, costPolicy(cfg))
	server, err := api.NewServer(engine, store, logger, registry)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				registry.UpdateSystemMetrics(startTime)
			}
		}
	}()

	err = server.Serve(ctx, cfg.Server.ListenAddr,
		cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// publishGraph parses conditional tags, builds the graph, and swaps it
// into the store.
func publishGraph(ways []graph.Way, cfg *config.Config, store *graph.Store, logger logging.Logger, registry *metrics.Registry) {
	start := time.Now()
	timer := logging.StartTimer(logger, "conditional tags scanned", logging.Int("ways", len(ways)))

	byWay := make(map[int64][]*restriction.Restriction)
	for _, way := range ways {
		scanStart := time.Now()
		restrictions, failures := restriction.ScanTags(way.Tags)
		elapsed := time.Since(scanStart)

		for _, r := range restrictions {
			registry.RecordTagParsed(r.TagKey, "success", elapsed)
		}
		for _, failure := range failures {
			registry.RecordTagParsed(failure.TagKey, "failure", elapsed)
			registry.RecordParseError(failure.Cause.Error())
			logger.Warn("unparsable conditional tag",
				logging.WayID(way.ID),
				logging.TagKey(failure.TagKey),
				logging.String("value", failure.Raw),
				logging.Error(failure),
			)
		}
		if len(restrictions) > 0 {
			byWay[way.ID] = restrictions
			registry.RestrictionsPerWay.Observe(float64(len(restrictions)))
		}
	}
	timer.End()

	g := graph.BuildWithOptions(ways, byWay, graph.BuildOptions{
		SpeedFactors: cfg.Routing.SpeedFactors,
	})
	store.Publish(g)

	for reason, count := range g.SkippedWays() {
		registry.RecordWaysSkipped(reason, count)
	}
	registry.RecordGraphBuild("success", g.NodeCount(), g.EdgeCount(), g.RestrictedEdgeCount(), time.Since(start))
	logger.Info("graph published",
		logging.Nodes(g.NodeCount()),
		logging.Edges(g.EdgeCount()),
		logging.Restrictions(g.RestrictedEdgeCount()),
		logging.Latency(time.Since(start)),
	)
}

// costPolicy maps routing config onto the engine's cost policy.
func costPolicy(cfg *config.Config) route.CostPolicy {
	policy := route.CostPolicy{
		UnknownRestrictionPenalty: cfg.Routing.UnknownRestrictionPenalty,
		DefaultMaxExpansions:      cfg.Routing.DefaultMaxExpansions,
	}

	for name, override := range cfg.Routing.Profiles {
		profile, err := route.ParseProfile(name)
		if err != nil {
			continue
		}
		if policy.ProfileOverrides == nil {
			policy.ProfileOverrides = make(map[route.Profile]route.ProfileOverride)
		}
		policy.ProfileOverrides[profile] = route.ProfileOverride{
			WeightTonnes: override.WeightTonnes,
			HeightMeters: override.HeightMeters,
			SpeedKmh:     override.SpeedKmh,
		}
	}

	return policy
}
