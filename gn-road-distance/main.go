package main

import (
	"context"
	"fmt"
	"geonotes/greatcircle"
	"geonotes/osmextract"
	"geonotes/overpass"
	"github.com/joho/godotenv"
	"github.com/paulmach/orb"
	flag "github.com/spf13/pflag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
)

var radiusFlag, pointFlag = registerFlags(flag.CommandLine)

// registerFlags adds the command's flags to fs. Points starting with a minus
// sign must be given with --point or after "--" so they aren't read as flags.
func registerFlags(fs *flag.FlagSet) (radius *int, points *[]string) {
	radius = fs.IntP("radius", "r", 1000, "Search radius in meters; farther roads report the radius")
	points = fs.StringArrayP("point", "p", nil, "A lng,lat to measure from. Repeatable")
	return radius, points
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	if os.Getenv("APP_ENV") == "development" {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}))
	}
	slog.SetDefault(logger)

	err := godotenv.Load(".env", ".env.local")
	if err != nil {
		slog.Debug("no dotenv", "err", err)
	}

	flag.Usage = func() {
		_, _ = fmt.Fprintln(os.Stderr, "gn-road-distance: Distance from each lng,lat to the nearest road")
		_, _ = fmt.Fprintln(os.Stderr, "Usage: gn-road-distance [flags] [--] lng,lat...")
		_, _ = fmt.Fprintln(os.Stderr, "Negative longitudes need --point or a preceding --, e.g. gn-road-distance -- -3.2,55.9")
		flag.PrintDefaults()
	}
	flag.Parse()
	args := append(append([]string{}, *pointFlag...), flag.Args()...)
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	ovp := overpass.New(os.Getenv("OVERPASS_ENDPOINT"))
	for _, arg := range args {
		p, err := parsePoint(arg)
		if err != nil {
			log.Fatal(err)
		}
		d, err := osmextract.DistanceToRoad(ctx, ovp, p, *radiusFlag)
		if err != nil {
			log.Fatal(fmt.Errorf("%s: %w", arg, err))
		}
		fmt.Printf("%s\t%.1f\n", arg, d)
	}
}

func parsePoint(s string) (orb.Point, error) {
	lng, lat, ok := strings.Cut(s, ",")
	if !ok {
		return orb.Point{}, fmt.Errorf("%q: want lng,lat", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("%q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("%q: %w", s, err)
	}
	p := orb.Point{x, y}
	if !greatcircle.Valid(p) {
		return orb.Point{}, fmt.Errorf("%q: coordinate out of range", s)
	}
	return p, nil
}
