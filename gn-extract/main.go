package main

import (
	"context"
	"encoding/json"
	"fmt"
	"geonotes/mapview"
	"geonotes/osmextract"
	"geonotes/osmtags"
	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
)

var filterFlags = flag.StringArrayP("filter", "f", nil, "Tag filter key=v1,v2 (repeatable, any match keeps the feature)")
var presetFlag = flag.StringP("preset", "p", "", "Named filter set: "+presetNames())
var htmlFlag = flag.Bool("html", false, "Write a standalone HTML map instead of GeoJSON")
var titleFlag = flag.String("title", "", "Map title (with --html)")
var outFlag = flag.StringP("out", "o", "-", "Output file")

func presetNames() string {
	var names []string
	for name := range osmtags.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func init() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	if os.Getenv("APP_ENV") == "development" {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	err := godotenv.Load(".env", ".env.local")
	if err != nil {
		slog.Debug("no dotenv", "err", err)
	}

	flag.Parse()
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if flag.NArg() != 1 {
		log.Fatal("usage: gn-extract [flags] input.osm")
	}

	var filters []osmtags.Filter
	if *presetFlag != "" {
		preset, ok := osmtags.Presets[*presetFlag]
		if !ok {
			log.Fatalf("unknown preset %q (have %s)", *presetFlag, presetNames())
		}
		filters = append(filters, preset...)
	}
	for _, s := range *filterFlags {
		f, err := osmtags.ParseFilter(s)
		if err != nil {
			log.Fatal(err)
		}
		filters = append(filters, f)
	}

	in, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()

	table, err := osmextract.ReadXML(ctx, in)
	if err != nil {
		log.Fatal(err)
	}
	total := table.Len()
	table = table.Filter(filters...)
	slog.Info("extracted", "features", table.Len(), "total", total, "filters", fmt.Sprint(filters))

	var out io.Writer = os.Stdout
	if *outFlag != "-" {
		f, err := os.Create(*outFlag)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		out = f
	}

	fc := table.FeatureCollection()
	if *htmlFlag {
		err = mapview.Render(out, mapview.Page{
			Title:    *titleFlag,
			Tiles:    mapview.TilesFor(os.Getenv("MAPTILER_API_KEY")),
			Features: fc,
		})
	} else {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(fc)
	}
	if err != nil {
		log.Fatal(err)
	}
}
