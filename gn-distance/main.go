package main

import (
	"geonotes/attempt"
	"geonotes/greatcircle"
	"geonotes/pointcsv"
	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime"
)

var methodFlag = flag.StringP("method", "m", "atan2", "Angle formula: atan2, or atan-ratio for the legacy single-argument arctangent")
var workersFlag = flag.IntP("workers", "w", runtime.GOMAXPROCS(0), "Number of goroutines computing distances")
var radiusFlag = flag.Float64("radius", greatcircle.EarthRadiusMeters, "Sphere radius in meters")
var lenientFlag = flag.Bool("lenient", false, "Coerce unparseable or out of range coordinates to NaN instead of halting")
var noHeaderFlag = flag.Bool("no-header", false, "Input has no header row")
var outFlag = flag.StringP("out", "o", "-", "Output file")

func main() {
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

	flag.Usage = func() {
		_, _ = os.Stderr.WriteString("Usage: gn-distance [flags] [input.csv]\n\nReads lng1,lat1,lng2,lat2 rows and appends distance_m.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	method, err := greatcircle.ParseMethod(*methodFlag)
	if err != nil {
		log.Fatal(err)
	}

	var in io.Reader = os.Stdin
	if flag.NArg() > 0 && flag.Arg(0) != "-" {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		in = f
	}

	parse := pointcsv.Strict
	rec := &attempt.Recorder{}
	if *lenientFlag {
		parse = pointcsv.Lenient(rec)
	}

	tbl, err := pointcsv.Read(in, !*noHeaderFlag, parse)
	if err != nil {
		log.Fatal(err)
	}

	opts := []greatcircle.Option{
		greatcircle.WithMethod(method),
		greatcircle.WithWorkers(*workersFlag),
		greatcircle.WithRadius(*radiusFlag),
	}
	if *lenientFlag {
		opts = append(opts, greatcircle.WithInvalidAsNaN())
	}

	distances, err := greatcircle.PairDistances(tbl.Pairs, opts...)
	if err != nil {
		log.Fatal(err)
	}

	var out io.Writer = os.Stdout
	if *outFlag != "-" {
		f, err := os.Create(*outFlag)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		out = f
	}
	if err := tbl.Write(out, distances); err != nil {
		log.Fatal(err)
	}

	if n := rec.Len(); n > 0 {
		slog.Warn("coerced cells to NaN", "count", n)
		for _, w := range rec.Warnings() {
			slog.Debug("coerced", "warning", w.String())
		}
	}
	slog.Info("done", "rows", len(distances), "method", method.String())
}
