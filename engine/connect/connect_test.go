package connect

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/autoblogdata/autobot/engine/domain"
	"github.com/autoblogdata/autobot/engine/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "connect.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedPost(t *testing.T, s *store.Store, url string, typ domain.PostType, body string) int64 {
	t.Helper()
	id, err := s.InsertPost(context.Background(), domain.Post{
		URL:         url,
		Title:       "Post " + url,
		Type:        typ,
		HTMLContent: body,
		DateScraped: time.Now(),
	})
	if err != nil {
		t.Fatalf("insert post: %v", err)
	}
	return id
}

func seedLaunchWithCar(t *testing.T, s *store.Store, url, model, variant string) (launchID, carID int64) {
	t.Helper()
	ctx := context.Background()
	postID := seedPost(t, s, url, domain.PostLaunch, "<html></html>")
	launchID, err := s.InsertLaunch(ctx, domain.Launch{PostID: postID, Title: model, Content: model})
	if err != nil {
		t.Fatalf("insert launch: %v", err)
	}
	carID, err = s.InsertCar(ctx, domain.Car{LaunchID: launchID, Variant: variant, FullModelName: model})
	if err != nil {
		t.Fatalf("insert car: %v", err)
	}
	return launchID, carID
}

func itemsFor(results []Result, action, entity string) int {
	for _, r := range results {
		if r.Action == action && r.Entity == entity {
			return r.ItemsProcessed
		}
	}
	return -1
}

func TestArticlesConnectorResolvesAndLinks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	launchURL := "https://www.autoblog.com.uy/2024/05/lanzamiento-nissan-kicks.html"
	launchID, carID := seedLaunchWithCar(t, s, launchURL, "Nissan Kicks", "Advance")

	body := `<html><body>
		<p>Manejamos el nuevo Kicks, presentado en el
		<a href="` + launchURL + `">lanzamiento</a> del mes pasado.</p>
		</body></html>`
	artPostID := seedPost(t, s, "https://www.autoblog.com.uy/contacto-kicks.html", domain.PostContact, body)
	artID, err := s.InsertArticle(ctx, domain.Article{
		PostID:  artPostID,
		Title:   "Contacto: Nissan Kicks Advance",
		Content: "body",
		Type:    domain.PostContact,
	})
	if err != nil {
		t.Fatalf("insert article: %v", err)
	}

	c := NewArticles(s, nil, nil, "")
	results, err := c.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := itemsFor(results, "relate", "articles"); got != 1 {
		t.Fatalf("resolved %d articles, want 1", got)
	}
	if got := itemsFor(results, "link", "articles"); got != 1 {
		t.Fatalf("linked %d articles, want 1", got)
	}

	refs, err := s.ArticlesMissingCarLink(ctx)
	if err != nil {
		t.Fatalf("missing: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("article %d still missing car link (launch %d, car %d)", artID, launchID, carID)
	}
	edges, err := s.CarArticleEdges(ctx)
	if err != nil {
		t.Fatalf("edges: %v", err)
	}
	if len(edges) != 1 || edges[0].CarID != carID {
		t.Fatalf("got edges %+v, want link to car %d", edges, carID)
	}

	// Second run finds nothing to do.
	results, err = c.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if itemsFor(results, "relate", "articles") != 0 || itemsFor(results, "link", "articles") != 0 {
		t.Fatalf("second run not idle: %+v", results)
	}
}

func TestArticlesConnectorLeavesUnmatchable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	launchURL := "https://www.autoblog.com.uy/2024/05/lanzamiento-nissan-kicks.html"
	seedLaunchWithCar(t, s, launchURL, "Nissan Kicks", "Advance")

	body := `<html><body><p>Nota sin relación
		<a href="` + launchURL + `">aquí</a>.</p></body></html>`
	artPostID := seedPost(t, s, "https://www.autoblog.com.uy/otra-nota.html", domain.PostContact, body)
	if _, err := s.InsertArticle(ctx, domain.Article{
		PostID: artPostID, Title: "Industria: panorama semestral", Content: "body",
		Type: domain.PostContact,
	}); err != nil {
		t.Fatalf("insert article: %v", err)
	}

	c := NewArticles(s, nil, nil, "")
	results, err := c.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := itemsFor(results, "relate", "articles"); got != 0 {
		t.Fatalf("resolved %d articles, want 0", got)
	}
	unresolved, err := s.UnresolvedArticles(ctx)
	if err != nil {
		t.Fatalf("unresolved: %v", err)
	}
	if len(unresolved) != 1 {
		t.Fatalf("got %d unresolved, want the article left for a later run", len(unresolved))
	}
}

func TestLaunchesConnectorExactModelOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	modelID, err := s.InsertCarModel(ctx, "Nissan", "Kicks")
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}
	if _, err := s.InsertCarModel(ctx, "Fiat", "Pulse"); err != nil {
		t.Fatalf("insert model: %v", err)
	}

	exactID, _ := seedLaunchWithCar(t, s,
		"https://www.autoblog.com.uy/lanzamiento-kicks.html", "Nissan Kicks", "Advance")
	// Near miss, not a containment: partial similarity stays below 100.
	fuzzyID, _ := seedLaunchWithCar(t, s,
		"https://www.autoblog.com.uy/lanzamiento-pulse.html", "Fiat Pulce", "Turbo")

	c := NewLaunches(s, nil, nil)
	results, err := c.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := itemsFor(results, "connect", "launches"); got != 1 {
		t.Fatalf("connected %d launches, want only the exact name match", got)
	}

	names, err := s.UnconnectedLaunchNames(ctx)
	if err != nil {
		t.Fatalf("unconnected: %v", err)
	}
	if len(names) != 1 || names[0].LaunchID != fuzzyID {
		t.Fatalf("got %+v, want launch %d still unconnected", names, fuzzyID)
	}
	_ = exactID
	_ = modelID
}

func TestLaunchesConnectorRelatesCompetitorCars(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	kicksURL := "https://www.autoblog.com.uy/lanzamiento-kicks.html"
	pulseURL := "https://www.autoblog.com.uy/lanzamiento-pulse.html"
	kicksLaunch, kicksCar := seedLaunchWithCar(t, s, kicksURL, "Nissan Kicks", "Advance")
	_, pulseCar := seedLaunchWithCar(t, s, pulseURL, "Fiat Pulse", "Drive")

	if _, err := s.InsertSimilarLaunch(ctx, domain.SimilarLaunch{
		LaunchID: kicksLaunch, FullModelName: "Fiat Pulse", URL: pulseURL,
	}); err != nil {
		t.Fatalf("insert similar launch: %v", err)
	}

	c := NewLaunches(s, nil, nil)
	results, err := c.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := itemsFor(results, "relate", "cars"); got != 1 {
		t.Fatalf("related %d cars, want 1", got)
	}

	edges, err := s.SimilarCarEdges(ctx)
	if err != nil {
		t.Fatalf("edges: %v", err)
	}
	if len(edges) != 1 || edges[0].LaunchCarID != kicksCar || edges[0].SimilarCarID != pulseCar {
		t.Fatalf("got edges %+v, want %d -> %d", edges, kicksCar, pulseCar)
	}

	// Second run creates nothing new.
	results, err = c.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if got := itemsFor(results, "relate", "cars"); got != 0 {
		t.Fatalf("second run related %d cars, want 0", got)
	}
}

func TestPricesConnectorAssignsPerLaunch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	url := "https://www.autoblog.com.uy/lanzamiento-kicks.html"
	launchID, senseCar := seedLaunchWithCar(t, s, url, "Nissan Kicks", "Sense")
	advanceCar, err := s.InsertCar(ctx, domain.Car{
		LaunchID: launchID, Variant: "Advance", FullModelName: "Nissan Kicks",
	})
	if err != nil {
		t.Fatalf("insert car: %v", err)
	}

	for _, row := range []domain.CarPrice{
		{LaunchURL: url, Name: "Nissan Kicks Advance CVT", Price: 34990},
		{LaunchURL: url, Name: "Nissan Kicks Sense MT", Price: 29990},
		{LaunchURL: "https://www.autoblog.com.uy/unknown.html", Name: "Otro Auto", Price: 19990},
	} {
		if _, err := s.InsertCarPrice(ctx, row); err != nil {
			t.Fatalf("insert price: %v", err)
		}
	}

	c := NewPrices(s, nil, nil)
	results, err := c.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := itemsFor(results, "update", "prices"); got != 2 {
		t.Fatalf("updated %d prices, want 2", got)
	}

	cars, err := s.CarsForLaunchURL(ctx, url)
	if err != nil {
		t.Fatalf("cars: %v", err)
	}
	prices := map[int64]int64{}
	for _, car := range cars {
		prices[car.ID] = car.CurrentPrice
	}
	if prices[senseCar] != 29990 || prices[advanceCar] != 34990 {
		t.Fatalf("got prices %v, want sense=29990 advance=34990", prices)
	}

	// Every row is retired, including the group with no known launch.
	pending, err := s.UnprocessedPrices(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("got %d pending rows, want 0", len(pending))
	}

	results, err = c.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if got := itemsFor(results, "update", "prices"); got != 0 {
		t.Fatalf("second run updated %d prices, want 0", got)
	}
}

func TestMerge(t *testing.T) {
	merged := Merge([]Result{
		{Action: "relate", Entity: "articles", ItemsProcessed: 2},
		{Action: "update", Entity: "prices", ItemsProcessed: 1},
		{Action: "relate", Entity: "articles", ItemsProcessed: 3},
	})
	if len(merged) != 2 {
		t.Fatalf("got %d results, want 2", len(merged))
	}
	if merged[0].ItemsProcessed != 5 {
		t.Fatalf("got %d articles, want summed 5", merged[0].ItemsProcessed)
	}
	if merged[1].Action != "update" || merged[1].ItemsProcessed != 1 {
		t.Fatalf("got %+v, want prices result preserved", merged[1])
	}
}
