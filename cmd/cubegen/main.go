package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/OCharnyshevich/cubicgen/internal/config"
	"github.com/OCharnyshevich/cubicgen/internal/job"
	"github.com/OCharnyshevich/cubicgen/internal/store"
	"github.com/OCharnyshevich/cubicgen/internal/world"
	"github.com/OCharnyshevich/cubicgen/pkg/world/cube"
	"github.com/OCharnyshevich/cubicgen/pkg/world/gen"
)

func main() {
	cfg := config.DefaultConfig()

	configPath := flag.String("config", "", "JSON config file; explicit flags win")
	debug := flag.Bool("debug", false, "panic on non-finite density values")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	flag.StringVar(&cfg.Generator, "generator", cfg.Generator, `generator type: "default" or "flat"`)
	flag.StringVar(&cfg.Preset, "preset", cfg.Preset, "YAML or JSON generator preset")
	flag.IntVar(&cfg.Radius, "radius", cfg.Radius, "horizontal radius in cubes around the origin")
	flag.IntVar(&cfg.MinCubeY, "min-y", cfg.MinCubeY, "lowest cube y")
	flag.IntVar(&cfg.MaxCubeY, "max-y", cfg.MaxCubeY, "highest cube y")
	flag.BoolVar(&cfg.Populate, "populate", cfg.Populate, "run population")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel generators")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "region file directory")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.BoolVar(&cfg.FixDensityCache, "fix-density-cache", cfg.FixDensityCache, "let the density cache reuse values")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *configPath != "" {
		fromFile, err := config.Load(*configPath)
		if err != nil {
			log.Error("load config", "error", err)
			os.Exit(1)
		}
		config.Merge(cfg, fromFile, explicit)
		log.Info("loaded config from file", "path", *configPath)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.Level()
	log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	gen.Debug = *debug

	newGen, err := generatorFactory(cfg)
	if err != nil {
		log.Error("load preset", "error", err)
		os.Exit(1)
	}

	st, err := store.New(cfg.OutputDir, log)
	if err != nil {
		log.Error("open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	req := job.Request{
		Box: cube.AABB{
			MinX: -cfg.Radius, MinY: cfg.MinCubeY, MinZ: -cfg.Radius,
			MaxX: cfg.Radius, MaxY: cfg.MaxCubeY, MaxZ: cfg.Radius,
		},
		Populate: cfg.Populate,
		Workers:  cfg.Workers,
	}
	log.Info("generating", "seed", cfg.Seed, "generator", cfg.Generator, "box", req.Box, "workers", cfg.Workers)

	sum, err := job.Run(ctx, req, newGen, st, log)
	if err != nil {
		log.Error("generation failed", "error", err)
		os.Exit(1)
	}
	log.Info("done",
		"regions", sum.Regions,
		"cubes", sum.Cubes,
		"empty", sum.Empty,
		"overrides", sum.Overrides,
		"elapsed", sum.Elapsed,
		"out", cfg.OutputDir,
	)
}

func generatorFactory(cfg *config.Config) (job.NewGenerator, error) {
	if cfg.Generator == "flat" {
		return func() world.Generator { return gen.NewFlatGenerator(nil) }, nil
	}
	settings := gen.DefaultSettings()
	if cfg.Preset != "" {
		s, err := config.LoadPreset(cfg.Preset)
		if err != nil {
			return nil, err
		}
		settings = s
	}
	if cfg.FixDensityCache {
		settings.FixDensityCache = true
	}
	return func() world.Generator { return gen.New(cfg.Seed, settings) }, nil
}
