package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mbalder/starheart/internal/catalog"
	"github.com/mbalder/starheart/internal/httpserver"
	"github.com/mbalder/starheart/internal/store"
)

const releaseVersion = "0.1.0"

func main() {
	_ = godotenv.Load()
	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

func run(cfg *Config) error {
	if lvl, err := zerolog.ParseLevel(cfg.logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cat, err := loadCatalog(cfg.catalog)
	if err != nil {
		log.Error().Err(err).Msg("failed to load body catalog")
		return err
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, httpserver.Options{
		Catalog:     cat,
		GuessBudget: cfg.guesses,
		Stars:       cfg.stars,
		Tick:        cfg.tick,
	})

	addr := cfg.addr()
	log.Info().Str("addr", addr).Int("bodies", len(cat.Bodies)).Msg("starting starheart")
	return srv.Start(addr)
}

// loadCatalog reads the configured catalog file, falling back to the
// embedded default when no path is set.
func loadCatalog(path string) (*catalog.File, error) {
	if path != "" {
		return catalog.Load(path)
	}
	return catalog.Default()
}
