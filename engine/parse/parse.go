// Package parse turns raw scraped posts into derived documents: articles
// with titled sections for contact and trial posts, launches with competitor
// edges for launch posts.
package parse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/autoblogdata/autobot/engine/domain"
	"github.com/autoblogdata/autobot/engine/htmldoc"
	"github.com/autoblogdata/autobot/engine/segment"
	"github.com/autoblogdata/autobot/engine/store"
	"github.com/autoblogdata/autobot/pkg/metrics"
)

// articleTypes are the post types parsed into articles.
var articleTypes = []domain.PostType{domain.PostContact, domain.PostTrial}

// Stats summarises one parser run.
type Stats struct {
	PostsParsed  int
	Articles     int
	Sections     int
	Launches     int
	SimilarLinks int
	Failures     int
}

// Parser consumes unparsed posts from the store.
type Parser struct {
	store  *store.Store
	log    *slog.Logger
	domain string
	now    func() time.Time

	parsed   *metrics.Counter
	failed   *metrics.Counter
	sections *metrics.Counter
}

// New creates a Parser. reg may be nil; siteDomain defaults to the
// site's own domain when empty.
func New(s *store.Store, log *slog.Logger, reg *metrics.Registry, siteDomain string) *Parser {
	if log == nil {
		log = slog.Default()
	}
	if reg == nil {
		reg = metrics.New()
	}
	if siteDomain == "" {
		siteDomain = segment.DefaultSiteDomain
	}
	return &Parser{
		store:    s,
		log:      log,
		domain:   siteDomain,
		now:      time.Now,
		parsed:   reg.Counter("autobot_posts_parsed_total", "Posts consumed by the parser."),
		failed:   reg.Counter("autobot_posts_parse_failures_total", "Posts that failed to parse."),
		sections: reg.Counter("autobot_article_sections_total", "Article sections extracted."),
	}
}

// Run parses up to limit pending posts (limit <= 0 means all). A post that
// fails to parse is logged and skipped; it stays unparsed for the next run.
func (p *Parser) Run(ctx context.Context, limit int) (Stats, error) {
	var stats Stats

	posts, err := p.store.UnparsedPosts(ctx,
		append([]domain.PostType{domain.PostLaunch}, articleTypes...), limit)
	if err != nil {
		return stats, fmt.Errorf("load unparsed posts: %w", err)
	}

	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := p.parsePost(ctx, post, &stats); err != nil {
			stats.Failures++
			p.failed.Inc()
			p.log.Error("post parse failed", "post_id", post.ID, "url", post.URL, "error", err)
			continue
		}
		if err := p.store.MarkPostParsed(ctx, post.ID, p.now()); err != nil {
			return stats, err
		}
		stats.PostsParsed++
		p.parsed.Inc()
	}

	p.log.Info("parser run complete",
		"posts", stats.PostsParsed,
		"articles", stats.Articles,
		"launches", stats.Launches,
		"failures", stats.Failures)
	return stats, nil
}

func (p *Parser) parsePost(ctx context.Context, post domain.Post, stats *Stats) error {
	doc, err := htmldoc.ParseString(post.HTMLContent)
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	switch post.Type {
	case domain.PostLaunch:
		return p.parseLaunch(ctx, post, doc, stats)
	case domain.PostContact, domain.PostTrial:
		return p.parseArticle(ctx, post, doc, stats)
	default:
		return fmt.Errorf("unsupported post type %q", post.Type)
	}
}

func (p *Parser) parseArticle(ctx context.Context, post domain.Post, doc *htmldoc.Doc, stats *Stats) error {
	now := p.now()
	articleID, err := p.store.InsertArticle(ctx, domain.Article{
		PostID:        post.ID,
		Title:         post.Title,
		Content:       doc.Text(),
		Type:          post.Type,
		DateProcessed: &now,
	})
	if err != nil {
		return err
	}

	sections := segment.Split(doc.BlockLines())
	for _, sec := range sections {
		if _, err := p.store.InsertSection(ctx, domain.ArticleSection{
			ArticleID: articleID,
			Title:     sec.Title,
			Content:   sec.Content,
		}); err != nil {
			return err
		}
	}
	p.sections.Add(int64(len(sections)))

	stats.Articles++
	stats.Sections += len(sections)
	p.log.Debug("article parsed", "post_id", post.ID, "article_id", articleID, "sections", len(sections))
	return nil
}

func (p *Parser) parseLaunch(ctx context.Context, post domain.Post, doc *htmldoc.Doc, stats *Stats) error {
	launchID, err := p.store.InsertLaunch(ctx, domain.Launch{
		PostID:  post.ID,
		Title:   post.Title,
		Content: doc.Text(),
	})
	if err != nil {
		return err
	}

	links := segment.CompetitorLinks(doc, p.domain)
	for _, link := range links {
		if _, err := p.store.InsertSimilarLaunch(ctx, domain.SimilarLaunch{
			LaunchID:      launchID,
			FullModelName: link.Name,
			URL:           link.URL,
		}); err != nil {
			return err
		}
	}

	stats.Launches++
	stats.SimilarLinks += len(links)
	p.log.Debug("launch parsed", "post_id", post.ID, "launch_id", launchID, "competitors", len(links))
	return nil
}
