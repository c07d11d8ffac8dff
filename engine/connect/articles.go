package connect

import (
	"context"
	"log/slog"

	"github.com/autoblogdata/autobot/engine/htmldoc"
	"github.com/autoblogdata/autobot/engine/segment"
	"github.com/autoblogdata/autobot/engine/store"
	"github.com/autoblogdata/autobot/engine/textmatch"
	"github.com/autoblogdata/autobot/pkg/fn"
	"github.com/autoblogdata/autobot/pkg/metrics"
)

// Match thresholds for article reconciliation. Resolving an article to a
// launch tolerates more title drift than pinning it to a trim variant.
const (
	articleLaunchThreshold = 65
	articleCarThreshold    = 70
)

// Articles resolves articles to the launch they cover and links them to a
// concrete car.
type Articles struct {
	store  *store.Store
	log    *slog.Logger
	domain string

	resolved *metrics.Counter
	linked   *metrics.Counter
}

// NewArticles creates the articles connector. reg may be nil; siteDomain
// defaults to the site's own domain when empty.
func NewArticles(s *store.Store, log *slog.Logger, reg *metrics.Registry, siteDomain string) *Articles {
	if log == nil {
		log = slog.Default()
	}
	if reg == nil {
		reg = metrics.New()
	}
	if siteDomain == "" {
		siteDomain = segment.DefaultSiteDomain
	}
	return &Articles{
		store:    s,
		log:      log,
		domain:   siteDomain,
		resolved: reg.Counter("autobot_articles_resolved_total", "Articles resolved to a launch."),
		linked:   reg.Counter("autobot_articles_linked_total", "Articles linked to a car."),
	}
}

// Run executes both phases: launch resolution, then car linking. An article
// that cannot be matched is left untouched for a later run.
func (c *Articles) Run(ctx context.Context) ([]Result, error) {
	resolved, err := c.resolveLaunches(ctx)
	if err != nil {
		return nil, err
	}
	linked, err := c.linkCars(ctx)
	if err != nil {
		return nil, err
	}
	return []Result{
		{Action: "relate", Entity: "articles", ItemsProcessed: resolved},
		{Action: "link", Entity: "articles", ItemsProcessed: linked},
	}, nil
}

// resolveLaunches matches each unresolved article against the cars of the
// launches its body links to.
func (c *Articles) resolveLaunches(ctx context.Context) (int, error) {
	articles, err := c.store.UnresolvedArticles(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, art := range articles {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		doc, err := htmldoc.ParseString(art.HTMLContent)
		if err != nil {
			c.log.Error("article html unreadable", "article_id", art.ID, "error", err)
			continue
		}
		links := segment.LaunchLinks(doc, c.domain)
		if len(links) == 0 {
			continue
		}
		urls := fn.Unique(fn.Map(links, func(l segment.Link) string { return l.URL }))

		candidates, err := c.store.CarNamesForLaunchURLs(ctx, urls)
		if err != nil {
			c.log.Error("article candidates failed", "article_id", art.ID, "error", err)
			continue
		}
		match, ok := textmatch.Best(art.Title, asCandidates(candidates), articleLaunchThreshold)
		if !ok {
			c.log.Debug("no launch match", "article_id", art.ID, "title", art.Title)
			continue
		}

		if err := c.store.SetArticleLaunchURL(ctx, art.ID, match.ID); err != nil {
			c.log.Error("article resolve failed", "article_id", art.ID, "error", err)
			continue
		}
		count++
		c.resolved.Inc()
		c.log.Info("article resolved to launch",
			"article_id", art.ID, "launch_id", match.ID, "score", match.Score)
	}
	return count, nil
}

// linkCars matches each launch-resolved article against that launch's own
// car variants.
func (c *Articles) linkCars(ctx context.Context) (int, error) {
	refs, err := c.store.ArticlesMissingCarLink(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		candidates, err := c.store.CarNamesForLaunch(ctx, ref.LaunchID)
		if err != nil {
			c.log.Error("car candidates failed", "article_id", ref.ArticleID, "error", err)
			continue
		}
		match, ok := textmatch.Best(ref.Title, asCandidates(candidates), articleCarThreshold)
		if !ok {
			c.log.Debug("no car match", "article_id", ref.ArticleID, "title", ref.Title)
			continue
		}

		created, err := c.store.LinkArticleToCar(ctx, ref.ArticleID, match.ID)
		if err != nil {
			c.log.Error("article link failed", "article_id", ref.ArticleID, "error", err)
			continue
		}
		if created {
			count++
			c.linked.Inc()
			c.log.Info("article linked to car",
				"article_id", ref.ArticleID, "car_id", match.ID, "score", match.Score)
		}
	}
	return count, nil
}

func asCandidates(refs []store.NameRef) []textmatch.Candidate {
	return fn.Map(refs, func(r store.NameRef) textmatch.Candidate {
		return textmatch.Candidate{Name: r.Name, ID: r.ID}
	})
}
