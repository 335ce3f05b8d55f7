package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/quakemap/internal/config"
	"github.com/woozymasta/quakemap/internal/feed"
	"github.com/woozymasta/quakemap/internal/logger"
	"github.com/woozymasta/quakemap/internal/page"
	"github.com/woozymasta/quakemap/internal/quake"
	"github.com/woozymasta/quakemap/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string        `short:"c" long:"config"  env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr       string        `short:"a" long:"addr"    env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port       int           `short:"p" long:"port"    env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
	FeedURL    string        `short:"u" long:"feed"    env:"FEED_URL"       description:"GeoJSON feed URL or file, overrides config"`
	Timeout    time.Duration `short:"t" long:"timeout" env:"FEED_TIMEOUT"   description:"Feed download timeout"      default:"30s"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.FeedURL != "" {
		cfg.FeedURL = opts.FeedURL
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid time zone")
	}

	// The feed is fetched once, the server keeps serving this snapshot.
	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	fc, err := feed.NewClient(opts.Timeout).Load(ctx, cfg.FeedURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("feed", cfg.FeedURL).Msg("Failed to fetch earthquake feed")
	}

	markers, err := quake.Markers(fc, loc)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to convert earthquake features")
	}

	renderer, err := page.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare page renderer")
	}

	srvCtx, err := server.NewServerContext(cfg, markers, renderer)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("addr", listenAddr).
		Str("feed", cfg.FeedURL).
		Int("earthquakes", len(markers)).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
