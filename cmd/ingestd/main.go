// Command ingestd subscribes to scraped-post messages on NATS, validates
// and deduplicates them by URL, and stores them for the processor.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/autoblogdata/autobot/engine/domain"
	"github.com/autoblogdata/autobot/engine/store"
	"github.com/autoblogdata/autobot/pkg/bus"
	"github.com/autoblogdata/autobot/pkg/metrics"
)

var met = metrics.New()

var (
	mReceived  = met.Counter("autobot_intake_posts_received_total", "Post messages received.")
	mStored    = met.Counter("autobot_intake_posts_stored_total", "Posts stored.")
	mDuplicate = met.Counter("autobot_intake_posts_duplicate_total", "Posts dropped as duplicates.")
	mInvalid   = met.Counter("autobot_intake_posts_invalid_total", "Posts rejected by validation.")
)

func main() {
	var (
		dbPath      = flag.String("db", "autobot.db", "SQLite database path")
		natsURL     = flag.String("nats", nats.DefaultURL, "NATS server URL")
		metricsPort = flag.Int("metrics-port", 9093, "metrics HTTP port, 0 = disabled")
	)
	flag.Parse()
	_ = godotenv.Load()

	log := slog.Default()
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

	nc, err := nats.Connect(*natsURL)
	if err != nil {
		log.Error("nats connect failed", "url", *natsURL, "error", err)
		os.Exit(1)
	}
	defer nc.Close()
	log.Info("connected to NATS", "url", *natsURL)

	sub, err := bus.Subscribe(nc, bus.PostScrapedSubject, func(msgCtx context.Context, post domain.Post) {
		mReceived.Inc()
		if err := handlePost(msgCtx, s, log, post); err != nil {
			log.Error("post intake failed", "url", post.URL, "error", err)
		}
	})
	if err != nil {
		log.Error("subscribe failed", "subject", bus.PostScrapedSubject, "error", err)
		os.Exit(1)
	}
	defer sub.Unsubscribe()

	log.Info("intake running", "subject", bus.PostScrapedSubject, "db", *dbPath)
	<-ctx.Done()
	log.Info("shutting down")
}

func handlePost(ctx context.Context, s *store.Store, log *slog.Logger, post domain.Post) error {
	if err := domain.ValidatePost(post); err != nil {
		mInvalid.Inc()
		log.Warn("invalid post dropped", "url", post.URL, "error", err)
		return nil
	}

	exists, err := s.PostExistsByURL(ctx, post.URL)
	if err != nil {
		return err
	}
	if exists {
		mDuplicate.Inc()
		log.Debug("duplicate post dropped", "url", post.URL)
		return nil
	}

	id, err := s.InsertPost(ctx, post)
	if err != nil {
		return err
	}
	mStored.Inc()
	log.Info("post stored", "post_id", id, "url", post.URL, "type", post.Type)
	return nil
}
