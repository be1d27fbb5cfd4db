package main

import (
	"context"
	"geonotes/attempt"
	"geonotes/greatcircle"
	"geonotes/localdb"
	"geonotes/pointcsv"
	"geonotes/repos"
	"github.com/gofrs/uuid"
	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"log"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
)

var sqliteFlag = flag.String("sqlite", "", "Load into this SQLite file instead of DATABASE_URL")
var lenientFlag = flag.Bool("lenient", false, "Coerce unparseable cells to NaN instead of halting. Out of range rows always get a NaN distance")
var noHeaderFlag = flag.Bool("no-header", false, "Input has no header row")
var compareFlag = flag.Bool("compare", false, "After loading into Postgres, compare PostGIS distances with ours")

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

	if flag.NArg() != 1 {
		log.Fatal("usage: gn-load-points [flags] pairs.csv")
	}
	path := flag.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	rec := &attempt.Recorder{}
	parse := pointcsv.Strict
	if *lenientFlag {
		parse = pointcsv.Lenient(rec)
	}
	tbl, err := pointcsv.Read(f, !*noHeaderFlag, parse)
	if err != nil {
		log.Fatal(err)
	}
	if rec.Len() > 0 {
		slog.Warn("coerced cells to NaN", "count", rec.Len())
	}

	distances, err := greatcircle.PairDistances(tbl.Pairs, greatcircle.WithInvalidAsNaN())
	if err != nil {
		log.Fatal(err)
	}

	source := filepath.Base(path)
	if *sqliteFlag != "" {
		loadSQLite(ctx, *sqliteFlag, source, tbl, distances)
	} else {
		loadPostgres(ctx, mustGetEnv("DATABASE_URL"), source, tbl, distances)
	}
}

func loadSQLite(ctx context.Context, path, source string, tbl *pointcsv.Table, distances []float64) {
	db, err := localdb.Open(path)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.CreateSchema(ctx); err != nil {
		log.Fatal(err)
	}
	run, err := db.InsertPointPairs(ctx, source, tbl.Pairs)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.SaveDistances(ctx, run, distances); err != nil {
		log.Fatal(err)
	}
	slog.Info("loaded", "db", path, "run", run, "rows", len(tbl.Pairs))
}

func loadPostgres(ctx context.Context, url, source string, tbl *pointcsv.Table, distances []float64) {
	repo, err := repos.Connect(ctx, url)
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	if err := repo.CreateSchema(ctx); err != nil {
		log.Fatal(err)
	}
	run, err := repo.StartRun(ctx, source)
	if err != nil {
		log.Fatal(err)
	}
	n, err := repo.CopyPointPairs(ctx, run, tbl.Pairs, distances)
	if err != nil {
		log.Fatal(err)
	}
	slog.Info("loaded", "run", run, "rows", n)

	if *compareFlag {
		compare(ctx, repo, run, distances)
	}
}

func compare(ctx context.Context, repo *repos.Repo, run uuid.UUID, ours []float64) {
	theirs, err := repo.PointPairDistances(ctx, run)
	if err != nil {
		log.Fatal(err)
	}
	var worst float64
	worstRow := -1
	for i := range ours {
		if math.IsNaN(ours[i]) {
			continue
		}
		diff := math.Abs(ours[i] - theirs[i])
		if diff > worst {
			worst, worstRow = diff, i+1
		}
	}
	slog.Info("compared with PostGIS", "rows", len(theirs), "max_diff_m", worst, "row", worstRow)
}

func mustGetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("%s not set", key)
	}
	return value
}
