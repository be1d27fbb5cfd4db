package main

import (
	"context"
	"encoding/json"
	"fmt"
	"geonotes/greatcircle"
	"geonotes/osmextract"
	"geonotes/osmtags"
	"geonotes/overpass"
	"geonotes/repos"
	"github.com/joho/godotenv"
	"github.com/paulmach/orb"
	flag "github.com/spf13/pflag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"
)

var regionFilter = flag.StringP("region", "r", "", "Prefix of region IDs to load")
var regionsFile = flag.String("regions", "regions.json", "JSON object of region ID to minLng,minLat,maxLng,maxLat")
var presetFlag = flag.StringP("preset", "p", "roads", "Named filter set")
var filterFlags = flag.StringArrayP("filter", "f", nil, "Extra tag filter key=v1,v2 (repeatable)")
var pauseFlag = flag.Duration("pause", 5*time.Second, "Pause between regions to go easy on the Overpass server")

func init() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if os.Getenv("APP_ENV") == "development" {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	err := godotenv.Load(".env", ".env.local")
	if err != nil {
		slog.Info("no dotenv", "err", err)
	}

	flag.Parse()
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	regions, err := loadRegions(*regionsFile)
	if err != nil {
		log.Fatal(err)
	}

	filters, ok := osmtags.Presets[*presetFlag]
	if !ok {
		log.Fatalf("unknown preset %q", *presetFlag)
	}
	for _, s := range *filterFlags {
		f, err := osmtags.ParseFilter(s)
		if err != nil {
			log.Fatal(err)
		}
		filters = append(filters, f)
	}

	repo, err := repos.Connect(ctx, mustGetEnv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()
	if err := repo.CreateSchema(ctx); err != nil {
		log.Fatal(err)
	}

	op := overpass.New(os.Getenv("OVERPASS_ENDPOINT"))

	ids := make([]string, 0, len(regions))
	for id := range regions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	first := true
	for _, id := range ids {
		if *regionFilter != "" && !strings.HasPrefix(id, *regionFilter) {
			slog.Debug("skipping region", "region", id)
			continue
		}
		if !first {
			select {
			case <-ctx.Done():
				log.Fatal(ctx.Err())
			case <-time.After(*pauseFlag):
			}
		}
		first = false

		if err := loadRegion(ctx, repo, op, id, regions[id], filters); err != nil {
			log.Fatal(fmt.Errorf("region %s: %w", id, err))
		}
	}
}

func loadRegion(ctx context.Context, repo *repos.Repo, op *overpass.Client, id string, bound orb.Bound, filters []osmtags.Filter) error {
	start := time.Now()
	slog.Info("loading region", "region", id, "bound", bound)

	resp, err := op.Query(ctx, overpass.BBoxQuery(bound, filters...))
	if err != nil {
		return err
	}
	if resp.MissingNodes > 0 {
		slog.Warn("response references missing nodes", "region", id, "missing", resp.MissingNodes)
	}

	table := osmextract.FromOverpass(resp).Filter(filters...)

	run, err := repo.StartRun(ctx, "overpass:"+id)
	if err != nil {
		return err
	}
	saved, err := repo.SaveFeatures(ctx, run, table.Features())
	if err != nil {
		return err
	}

	slog.Info("loaded region", "region", id, "run", run, "features", saved, "elapsed", time.Since(start))
	return nil
}

func loadRegions(path string) (map[string]orb.Bound, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raw map[string]string
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	out := make(map[string]orb.Bound, len(raw))
	for id, s := range raw {
		b, err := greatcircle.ParseBound(s)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", id, err)
		}
		out[id] = b
	}
	return out, nil
}

func mustGetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("%s not set", key)
	}
	return value
}
