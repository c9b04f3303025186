package main

import (
	"context"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	get "github.com/hashicorp/go-getter"

	"github.com/OCharnyshevich/cubicgen/internal/config"
)

func main() {
	var (
		src = flag.String("src", "", "preset source, any go-getter address (git::, https://, s3::, local path)")
		out = flag.String("o", "./presets", "output dir path")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *src == "" {
		log.Error("source required")
		os.Exit(2)
	}
	if *out == "" {
		log.Error("output dir path required")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := os.RemoveAll(*out); err != nil {
		log.Error("clean output dir", "error", err)
		os.Exit(1)
	}

	log.Info("start downloading presets", "src", *src, "dst", *out)
	if err := get.Get(*out, *src, get.WithContext(ctx)); err != nil {
		log.Error("download presets", "error", err)
		os.Exit(1)
	}

	valid, invalid := 0, 0
	err := filepath.WalkDir(*out, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return fs.SkipDir
			}
			return nil
		}
		if !isPreset(path) {
			return nil
		}
		if _, err := config.LoadPreset(path); err != nil {
			log.Warn("invalid preset", "path", path, "error", err)
			invalid++
			return nil
		}
		valid++
		return nil
	})
	if err != nil {
		log.Error("check presets", "error", err)
		os.Exit(1)
	}
	log.Info("done downloading presets", "dst", *out, "valid", valid, "invalid", invalid)
	if invalid > 0 {
		os.Exit(1)
	}
}

func isPreset(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
