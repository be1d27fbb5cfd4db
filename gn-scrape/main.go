package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"geonotes/osmextract"
	"geonotes/regexcat"
	"geonotes/scrape"
	"github.com/joho/godotenv"
	"github.com/paulmach/orb/geojson"
	"github.com/redis/go-redis/v9"
	flag "github.com/spf13/pflag"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"
)

var selectFlag = flag.StringP("select", "s", "", "CSS-style selector (tag, .class, #id, [attr=value], descendants)")
var attrFlag = flag.StringP("attr", "a", "", "Print this attribute of each selected element instead of its text")
var tableFlag = flag.Bool("table", false, "Print selected tables as CSV")
var linksFlag = flag.Bool("links", false, "Print the absolute links in the selection")
var patternFlag = flag.StringP("pattern", "p", "", "Print matches of a named pattern: "+strings.Join(regexcat.Names(), ", "))
var coordsFlag = flag.Bool("coords", false, "Print lat, lng pairs found in the page text as GeoJSON points")
var osmWayFlags = flag.Int64Slice("osm-way", nil, "Fetch these OSM way IDs and print them as GeoJSON")
var followOSMFlag = flag.Bool("follow-osm", false, "Fetch every OSM way the page links to and print them as GeoJSON")
var rateFlag = flag.Duration("rate", time.Second, "Minimum interval between requests")
var cacheDirFlag = flag.String("cache-dir", ".cache/scrape", "Directory for cached responses when REDIS_ADDR is unset")
var noCacheFlag = flag.Bool("no-cache", false, "Always fetch")

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

	opts := []scrape.Option{scrape.WithRate(*rateFlag)}
	if ua := os.Getenv("SCRAPE_USER_AGENT"); ua != "" {
		opts = append(opts, scrape.WithUserAgent(ua))
	}
	if !*noCacheFlag {
		if addr := os.Getenv("REDIS_ADDR"); addr != "" {
			rdb := redis.NewClient(&redis.Options{Addr: addr})
			defer rdb.Close()
			opts = append(opts, scrape.WithCache(scrape.NewRedisCache(rdb, "geonotes:scrape", 24*time.Hour)))
		} else {
			opts = append(opts, scrape.WithCache(scrape.FileCache{Dir: *cacheDirFlag}))
		}
	}
	client := scrape.New(opts...)

	ways := *osmWayFlags
	if flag.NArg() == 0 {
		if len(ways) == 0 {
			log.Fatal("usage: gn-scrape [flags] url")
		}
		printWays(ctx, client, ways)
		return
	}
	pageURL := flag.Arg(0)

	body, err := client.Get(ctx, pageURL)
	if err != nil {
		log.Fatal(err)
	}
	root, err := scrape.ParseBytes(body)
	if err != nil {
		log.Fatal(err)
	}

	nodes := []*html.Node{root}
	if *selectFlag != "" {
		nodes, err = scrape.Select(root, *selectFlag)
		if err != nil {
			log.Fatal(err)
		}
		slog.Debug("selected", "selector", *selectFlag, "count", len(nodes))
	}

	switch {
	case *followOSMFlag:
		for _, n := range nodes {
			ways = append(ways, regexcat.ExtractOSMWayIDs(strings.Join(hrefsAndText(n), "\n"))...)
		}
		printWays(ctx, client, dedup(ways))
	case len(ways) > 0:
		printWays(ctx, client, ways)
	case *coordsFlag:
		fc := geojson.NewFeatureCollection()
		for _, n := range nodes {
			for _, p := range regexcat.ExtractLatLng(scrape.InnerText(n)) {
				fc.Append(geojson.NewFeature(p))
			}
		}
		printJSON(fc)
	case *patternFlag != "":
		if _, ok := regexcat.Lookup(*patternFlag); !ok {
			log.Fatalf("unknown pattern %q", *patternFlag)
		}
		for _, n := range nodes {
			for _, m := range regexcat.FindAll(*patternFlag, scrape.InnerText(n)) {
				fmt.Println(m)
			}
		}
	case *tableFlag:
		w := csv.NewWriter(os.Stdout)
		for _, n := range nodes {
			if err := w.WriteAll(scrape.Table(n)); err != nil {
				log.Fatal(err)
			}
		}
	case *linksFlag:
		for _, n := range nodes {
			links, err := scrape.Links(n, pageURL)
			if err != nil {
				log.Fatal(err)
			}
			for _, l := range links {
				fmt.Println(l)
			}
		}
	case *attrFlag != "":
		for _, n := range nodes {
			fmt.Println(scrape.Attr(n, *attrFlag))
		}
	default:
		for _, n := range nodes {
			text, err := scrape.Text(n)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Println(text)
		}
	}
}

// hrefsAndText collects link targets as well as visible text, since OSM
// links are usually anchors.
func hrefsAndText(n *html.Node) []string {
	out := []string{scrape.InnerText(n)}
	anchors, err := scrape.Select(n, "a[href]")
	if err != nil {
		return out
	}
	for _, a := range anchors {
		out = append(out, scrape.Attr(a, "href"))
	}
	if n.Type == html.ElementNode && n.Data == "a" {
		out = append(out, scrape.Attr(n, "href"))
	}
	return out
}

func dedup(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	var out []int64
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func printWays(ctx context.Context, client *scrape.Client, ids []int64) {
	apiBase := os.Getenv("OSM_API_BASE")
	tables := make([]*osmextract.Table, len(ids))

	// the client's limiter paces these
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, id := range ids {
		g.Go(func() error {
			t, err := osmextract.FetchWay(gctx, client, apiBase, id)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}

	all := osmextract.NewTable()
	for _, t := range tables {
		all.Merge(t)
	}
	slog.Info("fetched ways", "count", len(ids))
	printJSON(all.FeatureCollection())
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal(err)
	}
}
