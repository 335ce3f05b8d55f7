package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/woozymasta/quakemap/internal/config"
	"github.com/woozymasta/quakemap/internal/feed"
	"github.com/woozymasta/quakemap/internal/logger"
	"github.com/woozymasta/quakemap/internal/page"
	"github.com/woozymasta/quakemap/internal/preview"
	"github.com/woozymasta/quakemap/internal/quake"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string        `short:"c" long:"config"  env:"CONFIG_FILE"  description:"Path to configuration file" default:"config.yaml"`
	Input      string        `short:"i" long:"in"      description:"Read the feed from a file ('-' for stdin) instead of the configured URL"`
	Output     string        `short:"o" long:"out"     description:"Output file path. Writes to stdout if empty"`
	Format     string        `short:"f" long:"format"  description:"Output format" choice:"html" choice:"json" choice:"yaml" choice:"webp" default:"html"`
	Width      int           `short:"w" long:"width"   description:"Preview width in pixels (webp only)"`
	Timeout    time.Duration `short:"t" long:"timeout" env:"FEED_TIMEOUT" description:"Feed download timeout" default:"30s"`
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

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid time zone")
	}

	source := cfg.FeedURL
	if opts.Input != "" {
		source = opts.Input
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	fc, err := feed.NewClient(opts.Timeout).Load(ctx, source)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("source", source).Msg("Failed to load earthquake feed")
	}

	markers, err := quake.Markers(fc, loc)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to convert earthquake features")
	}

	output, err := render(cfg, markers, opts)
	if err != nil {
		log.Fatal().Err(err).Str("format", opts.Format).Msg("Failed to render output")
	}

	if opts.Output == "" {
		_, _ = os.Stdout.Write(output)
		return
	}

	if err := os.WriteFile(opts.Output, output, 0644); err != nil {
		log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write output file")
	}

	log.Info().
		Int("earthquakes", len(markers)).
		Str("path", opts.Output).
		Str("format", opts.Format).
		Msg("Render finished successfully")
}

func render(cfg *config.Config, markers []quake.Marker, opts Options) ([]byte, error) {
	switch opts.Format {
	case "json":
		return json.MarshalIndent(quake.FeatureCollection(markers), "", "  ")

	case "yaml":
		return yaml.Marshal(markers)

	case "webp":
		width := cfg.Preview.Width
		if opts.Width > 0 {
			width = opts.Width
		}
		var buf bytes.Buffer
		img := preview.Render(markers, preview.Options{Width: width, Graticule: 30})
		if err := preview.Encode(&buf, img, cfg.Preview.Quality); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	default:
		renderer, err := page.NewRenderer()
		if err != nil {
			return nil, err
		}
		return renderer.Bytes(cfg.Map, page.Data{Markers: markers})
	}
}
