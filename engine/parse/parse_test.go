package parse

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/autoblogdata/autobot/engine/domain"
	"github.com/autoblogdata/autobot/engine/store"
)

const trialHTML = `<html><body>
<p>El nuevo SUV llega al mercado local.</p>
<h2>EXTERIOR</h2>
<p>Lineas modernas y llantas de 17 pulgadas.</p>
<h2>INTERIOR</h2>
<p>Pantalla central de 10 pulgadas.</p>
<h2>FICHA TÉCNICA</h2>
<table><tr><td>Motor</td><td>1.6</td></tr></table>
</body></html>`

const launchHTML = `<html><body>
<p>Llega el nuevo Nissan Kicks.</p>
<p>COMPETIDORES</p>
<p><a href="https://www.autoblog.com.uy/2024/05/lanzamiento-peugeot-2008.html">Peugeot 2008</a></p>
<p><a href="https://www.autoblog.com.uy/contacto-ford-bronco.html">Ford Bronco</a></p>
<p><a href="https://www.autoblog.com.uy/2024/06/lanzamiento-renault-kardian.html">Renault Kardian</a></p>
</body></html>`

func newTestParser(t *testing.T) (*Parser, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "parse.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return New(s, nil, nil, ""), s
}

func seedPost(t *testing.T, s *store.Store, url string, typ domain.PostType, body string) int64 {
	t.Helper()
	id, err := s.InsertPost(context.Background(), domain.Post{
		URL:           url,
		Title:         "Post: " + url,
		Type:          typ,
		HTMLContent:   body,
		DatePublished: time.Now(),
		DateScraped:   time.Now(),
	})
	if err != nil {
		t.Fatalf("insert post: %v", err)
	}
	return id
}

func TestRunParsesTrialIntoSections(t *testing.T) {
	p, s := newTestParser(t)
	ctx := context.Background()

	seedPost(t, s, "https://www.autoblog.com.uy/prueba-suv.html", domain.PostTrial, trialHTML)

	stats, err := p.Run(ctx, 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.PostsParsed != 1 || stats.Articles != 1 {
		t.Fatalf("got stats %+v, want one parsed article", stats)
	}
	if stats.Sections != 2 {
		t.Fatalf("got %d sections, want 2", stats.Sections)
	}

	arts, err := s.ArticlesToUpload(ctx, 0)
	if err != nil {
		t.Fatalf("articles: %v", err)
	}
	if len(arts) != 1 {
		t.Fatalf("got %d articles, want 1", len(arts))
	}
	if !strings.Contains(arts[0].Content, "SUV llega al mercado") {
		t.Fatalf("article content %q missing body text", arts[0].Content)
	}

	sections, err := s.SectionsForArticle(ctx, arts[0].ID)
	if err != nil {
		t.Fatalf("sections: %v", err)
	}
	if sections[0].Title != "EXTERIOR" || sections[1].Title != "INTERIOR" {
		t.Fatalf("got section titles %q, %q", sections[0].Title, sections[1].Title)
	}
	if sections[1].Content != "Pantalla central de 10 pulgadas." {
		t.Fatalf("got section content %q", sections[1].Content)
	}
}

func TestRunParsesLaunchCompetitors(t *testing.T) {
	p, s := newTestParser(t)
	ctx := context.Background()

	seedPost(t, s, "https://www.autoblog.com.uy/lanzamiento-kicks.html", domain.PostLaunch, launchHTML)

	stats, err := p.Run(ctx, 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Launches != 1 {
		t.Fatalf("got stats %+v, want one launch", stats)
	}
	if stats.SimilarLinks != 2 {
		t.Fatalf("got %d competitor links, want 2 (non-launch href filtered)", stats.SimilarLinks)
	}

	launches, err := s.LaunchesToUpload(ctx, 0)
	if err != nil {
		t.Fatalf("launches: %v", err)
	}
	if len(launches) != 1 {
		t.Fatalf("got %d launches, want 1", len(launches))
	}

	urls, err := s.SimilarLaunchURLs(ctx, launches[0].ID)
	if err != nil {
		t.Fatalf("similar urls: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("got urls %v, want 2", urls)
	}
}

func TestRunMarksPostsAndGoesIdle(t *testing.T) {
	p, s := newTestParser(t)
	ctx := context.Background()

	seedPost(t, s, "https://www.autoblog.com.uy/lanzamiento-kicks.html", domain.PostLaunch, launchHTML)
	seedPost(t, s, "https://www.autoblog.com.uy/prueba.html", domain.PostTrial, trialHTML)

	stats, err := p.Run(ctx, 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.PostsParsed != 2 {
		t.Fatalf("got %+v, want both posts parsed", stats)
	}

	// A second run finds nothing pending.
	stats, err = p.Run(ctx, 0)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if stats.PostsParsed != 0 {
		t.Fatalf("got %+v, want idle second run", stats)
	}
}
