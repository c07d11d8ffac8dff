// Command processor runs the post-processing pipeline over the SQLite
// database: parse pending posts, reconcile articles, launches, and prices,
// upload processed documents to Qdrant, and mirror the graph into Neo4j.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/autoblogdata/autobot/engine/connect"
	"github.com/autoblogdata/autobot/engine/graphview"
	"github.com/autoblogdata/autobot/engine/parse"
	"github.com/autoblogdata/autobot/engine/semantic"
	"github.com/autoblogdata/autobot/engine/store"
	"github.com/autoblogdata/autobot/engine/upload"
	"github.com/autoblogdata/autobot/pkg/metrics"
)

const vectorDims = 1536 // text-embedding-3-small

var met = metrics.New()

func main() {
	var (
		dbPath      = flag.String("db", "autobot.db", "SQLite database path")
		actions     = flag.String("actions", "parse,connect", "comma-separated actions: parse, connect, upload, graph")
		entities    = flag.String("entities", "articles,launches,prices", "entities the connect action covers")
		limit       = flag.Int("n", 0, "max posts/documents per action, 0 = all")
		siteDomain  = flag.String("site", "", "site domain for link extraction")
		qdrantAddr  = flag.String("qdrant", "localhost:6334", "Qdrant gRPC address")
		collection  = flag.String("collection", "autobot", "Qdrant collection name")
		neo4jURL    = flag.String("neo4j", "neo4j://localhost:7687", "Neo4j bolt URL")
		neo4jUser   = flag.String("neo4j-user", "neo4j", "Neo4j username")
		neo4jPass   = flag.String("neo4j-pass", "", "Neo4j password")
		embedModel  = flag.String("embed-model", "", "OpenAI embedding model")
		workers     = flag.Int("workers", 4, "upload worker count")
		embedRate   = flag.Float64("embed-rate", 2, "embedding calls per second, 0 = unlimited")
		metricsPort = flag.Int("metrics-port", 9092, "metrics HTTP port, 0 = disabled")
		logLevel    = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()
	_ = godotenv.Load()

	log := newLogger(*logLevel)
	slog.SetDefault(log)

	if *metricsPort > 0 {
		met.ServeAsync(*metricsPort)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := store.Open(*dbPath)
	if err != nil {
		log.Error("open database failed", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer s.Close()

	wanted := splitSet(*actions)
	wantedEntities := splitSet(*entities)

	if wanted["parse"] {
		p := parse.New(s, log, met, *siteDomain)
		stats, err := p.Run(ctx, *limit)
		if err != nil {
			log.Error("parse action failed", "error", err)
			os.Exit(1)
		}
		log.Info("parse done", "posts", stats.PostsParsed, "failures", stats.Failures)
	}

	if wanted["connect"] {
		var results []connect.Result

		if wantedEntities["articles"] {
			r, err := connect.NewArticles(s, log, met, *siteDomain).Run(ctx)
			if err != nil {
				log.Error("articles connector failed", "error", err)
				os.Exit(1)
			}
			results = append(results, r...)
		}
		if wantedEntities["launches"] {
			r, err := connect.NewLaunches(s, log, met).Run(ctx)
			if err != nil {
				log.Error("launches connector failed", "error", err)
				os.Exit(1)
			}
			results = append(results, r...)
		}
		if wantedEntities["prices"] {
			r, err := connect.NewPrices(s, log, met).Run(ctx)
			if err != nil {
				log.Error("prices connector failed", "error", err)
				os.Exit(1)
			}
			results = append(results, r...)
		}

		for _, res := range connect.Merge(results) {
			log.Info("connect done", "action", res.Action, "entity", res.Entity, "items", res.ItemsProcessed)
		}
	}

	if wanted["upload"] {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			log.Error("upload action needs OPENAI_API_KEY")
			os.Exit(1)
		}
		vs, err := semantic.New(*qdrantAddr, *collection)
		if err != nil {
			log.Error("qdrant connect failed", "error", err)
			os.Exit(1)
		}
		defer vs.Close()
		if err := vs.EnsureCollection(ctx, vectorDims); err != nil {
			log.Error("ensure collection failed", "error", err)
			os.Exit(1)
		}

		u := upload.New(s, vs, upload.NewOpenAIEmbedder(apiKey, *embedModel), log, met, upload.Options{
			Workers:         *workers,
			EmbedsPerSecond: *embedRate,
		})
		stats, err := u.Run(ctx, *limit)
		if err != nil {
			log.Error("upload action failed", "error", err)
			os.Exit(1)
		}
		log.Info("upload done",
			"articles", stats.Articles, "launches", stats.Launches,
			"chunks", stats.Chunks, "failures", stats.Failures)
	}

	if wanted["graph"] {
		driver, err := neo4j.NewDriverWithContext(*neo4jURL,
			neo4j.BasicAuth(*neo4jUser, *neo4jPass, ""))
		if err != nil {
			log.Error("neo4j connect failed", "error", err)
			os.Exit(1)
		}
		defer driver.Close(ctx)
		if err := driver.VerifyConnectivity(ctx); err != nil {
			log.Error("neo4j verify failed", "error", err)
			os.Exit(1)
		}

		if err := graphview.New(driver, s, log).Run(ctx); err != nil {
			log.Error("graph action failed", "error", err)
			os.Exit(1)
		}
	}
}

func splitSet(csv string) map[string]bool {
	out := map[string]bool{}
	for _, v := range strings.Split(csv, ",") {
		out[strings.TrimSpace(v)] = true
	}
	return out
}

func newLogger(level string) *slog.Logger {
	var lv slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))
}
