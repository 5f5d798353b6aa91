package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/swingify/server/internal/api"
	"github.com/swingify/server/internal/clients/course"
	elevationapi "github.com/swingify/server/internal/clients/elevation"
	"github.com/swingify/server/internal/config"
	"github.com/swingify/server/internal/lib/elevation"
	"github.com/swingify/server/internal/lib/framing"
	"github.com/swingify/server/internal/lib/geo"
	"github.com/swingify/server/internal/lib/shot"
	"github.com/swingify/server/internal/logging"
	"github.com/swingify/server/internal/services"
	"github.com/swingify/server/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	geodesy := geo.NewGeodesy()

	seed := make([]shot.Club, 0, len(cfg.Clubs))
	for _, c := range cfg.Clubs {
		seed = append(seed, shot.Club{Name: c.Name, Distance: c.Distance})
	}
	clubs := store.NewClubStore(seed)

	var lookup elevation.Lookup
	if cfg.Elevation.Enabled && cfg.Elevation.APIKey != "" {
		lookup = elevationapi.NewClient(cfg.Elevation.APIKey)
	} else {
		slog.Info("elevation lookups disabled, distances are horizontal only")
	}

	caddie := services.NewCaddieService(
		course.NewClient(cfg.Courses.FeedURL, geodesy),
		clubs,
		geodesy,
		shot.NewProjector(geodesy, cfg.Engine.DispersionCoefficient),
		framing.NewCalculator(geodesy, framing.Config{
			BaseZoom:      cfg.Engine.BaseZoom,
			MaxZoom:       cfg.Engine.MaxZoom,
			CameraCeiling: cfg.Engine.CameraCeiling,
			CameraFactor:  cfg.Engine.CameraFactor,
		}),
		elevation.NewResolver(geodesy, lookup, cfg.Engine.ElevationFactor),
		cfg.Courses.CacheTTL,
	)

	app := api.New(&api.Dependencies{
		Caddie:      caddie,
		Clubs:       clubs,
		CorsOrigins: cfg.Server.CorsOrigins,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("starting server", "addr", addr, "feed", cfg.Courses.FeedURL)
	if err := app.Listen(addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
