package main

import (
	"context"
	"geonotes/greatcircle"
	"geonotes/mapview"
	"geonotes/osmextract"
	"geonotes/osmtags"
	"geonotes/repos"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	miniocredentials "github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	flag "github.com/spf13/pflag"
	"log"
	"log/slog"
	"os"
	"os/signal"
)

var osmFlag = flag.String("osm", "", "Serve features from this .osm file instead of DATABASE_URL")
var presetFlag = flag.StringP("preset", "p", "", "Only show features matching this named filter set")
var bboxFlag = flag.String("bbox", "", "Default minLng,minLat,maxLng,maxLat")
var titleFlag = flag.String("title", "Map", "Page title")
var publishFlag = flag.String("publish", "", "Instead of serving, upload the page to MINIO_BUCKET under this prefix")

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

	bound := mapview.World
	if *bboxFlag != "" {
		var err error
		bound, err = greatcircle.ParseBound(*bboxFlag)
		if err != nil {
			log.Fatal(err)
		}
	}

	var source mapview.FeatureSource
	if *osmFlag != "" {
		f, err := os.Open(*osmFlag)
		if err != nil {
			log.Fatal(err)
		}
		table, err := osmextract.ReadXML(ctx, f)
		_ = f.Close()
		if err != nil {
			log.Fatal(err)
		}
		if *presetFlag != "" {
			filters, ok := osmtags.Presets[*presetFlag]
			if !ok {
				log.Fatalf("unknown preset %q", *presetFlag)
			}
			table = table.Filter(filters...)
		}
		if *bboxFlag == "" && table.Len() > 0 {
			bound = table.Bound()
		}
		source = mapview.TableSource{Table: table}
	} else {
		repo, err := repos.Connect(ctx, mustGetEnv("DATABASE_URL"))
		if err != nil {
			log.Fatal(err)
		}
		defer repo.Close()
		source = repo
	}

	tiles := mapview.TilesFor(os.Getenv("MAPTILER_API_KEY"))

	if *publishFlag != "" {
		publish(ctx, source, bound, tiles)
		return
	}

	srv := &mapview.Server{Source: source, Title: *titleFlag, Tiles: tiles, Bound: bound}
	if os.Getenv("APP_ENV") == "development" {
		srv.DevTemplate = "mapview/map.tmpl.html"
	}

	host := os.Getenv("HOST")
	if host == "" {
		host = "0.0.0.0"
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := mapview.Serve(ctx, host+":"+port, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}

func publish(ctx context.Context, source mapview.FeatureSource, bound orb.Bound, tiles mapview.Tiles) {
	mc, err := minio.New(mustGetEnv("MINIO_ENDPOINT"), &minio.Options{
		Creds:  miniocredentials.NewStaticV4(mustGetEnv("MINIO_ACCESS_KEY"), mustGetEnv("MINIO_SECRET_KEY"), ""),
		Secure: os.Getenv("MINIO_INSECURE") == "",
	})
	if err != nil {
		log.Fatal(err)
	}

	features, err := source.ListFeatures(ctx, bound)
	if err != nil {
		log.Fatal(err)
	}
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.Append(f.GeoJSON())
	}

	bucket := mustGetEnv("MINIO_BUCKET")
	written, err := mapview.Publish(ctx, mc, bucket, *publishFlag, mapview.Page{
		Title:    *titleFlag,
		Tiles:    tiles,
		Features: fc,
	})
	if err != nil {
		log.Fatal(err)
	}
	slog.Info("published", "bucket", bucket, "objects", written, "features", len(fc.Features))
}

func mustGetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("%s not set", key)
	}
	return value
}
