package connect

import (
	"context"
	"log/slog"

	"github.com/autoblogdata/autobot/engine/domain"
	"github.com/autoblogdata/autobot/engine/store"
	"github.com/autoblogdata/autobot/engine/textmatch"
	"github.com/autoblogdata/autobot/pkg/fn"
	"github.com/autoblogdata/autobot/pkg/metrics"
)

// A launch binds to a canonical model only on an exact normalized match;
// fuzzy drift here would pollute every downstream edge.
const launchModelThreshold = 100

// Launches resolves launches to canonical car models and turns competitor
// URL edges into car-to-car edges.
type Launches struct {
	store *store.Store
	log   *slog.Logger

	connected *metrics.Counter
	related   *metrics.Counter
}

// NewLaunches creates the launches connector. reg may be nil.
func NewLaunches(s *store.Store, log *slog.Logger, reg *metrics.Registry) *Launches {
	if log == nil {
		log = slog.Default()
	}
	if reg == nil {
		reg = metrics.New()
	}
	return &Launches{
		store:     s,
		log:       log,
		connected: reg.Counter("autobot_launches_connected_total", "Launches resolved to a car model."),
		related:   reg.Counter("autobot_similar_cars_total", "Similar-car edges created."),
	}
}

// Run executes both phases: model resolution, then similar-car population.
func (c *Launches) Run(ctx context.Context) ([]Result, error) {
	connected, err := c.connectModels(ctx)
	if err != nil {
		return nil, err
	}
	related, err := c.relateCars(ctx)
	if err != nil {
		return nil, err
	}
	return []Result{
		{Action: "connect", Entity: "launches", ItemsProcessed: connected},
		{Action: "relate", Entity: "cars", ItemsProcessed: related},
	}, nil
}

// connectModels picks each unconnected launch's most common car name and
// matches it against the canonical model catalogue.
func (c *Launches) connectModels(ctx context.Context) (int, error) {
	names, err := c.store.UnconnectedLaunchNames(ctx)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, nil
	}

	models, err := c.store.CarModels(ctx)
	if err != nil {
		return 0, err
	}
	candidates := fn.Map(models, func(m domain.CarModel) textmatch.Candidate {
		return textmatch.Candidate{Name: m.Make + " " + m.Model, ID: m.ID}
	})

	byLaunch := fn.GroupBy(names, func(n store.LaunchModelName) int64 { return n.LaunchID })

	count := 0
	for launchID, group := range byLaunch {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		name, ok := fn.MostCommon(fn.Map(group, func(n store.LaunchModelName) string {
			return n.FullModelName
		}))
		if !ok {
			continue
		}
		match, ok := textmatch.Best(name, candidates, launchModelThreshold)
		if !ok {
			c.log.Debug("no model match", "launch_id", launchID, "name", name)
			continue
		}

		if err := c.store.SetLaunchCarModel(ctx, launchID, match.ID); err != nil {
			c.log.Error("launch connect failed", "launch_id", launchID, "error", err)
			continue
		}
		count++
		c.connected.Inc()
		c.log.Info("launch connected to model",
			"launch_id", launchID, "car_model_id", match.ID, "name", match.Name)
	}
	return count, nil
}

// relateCars creates a similar-car edge from every edgeless car to every car
// of the launches its launch names as competitors.
func (c *Launches) relateCars(ctx context.Context) (int, error) {
	cars, err := c.store.CarsWithoutSimilarEdges(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, car := range cars {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		urls, err := c.store.SimilarLaunchURLs(ctx, car.LaunchID)
		if err != nil {
			c.log.Error("similar launches failed", "car_id", car.ID, "error", err)
			continue
		}
		for _, url := range urls {
			similar, err := c.store.CarIDsAtLaunchURL(ctx, url, car.ID)
			if err != nil {
				c.log.Error("competitor cars failed", "car_id", car.ID, "url", url, "error", err)
				continue
			}
			for _, similarID := range similar {
				created, err := c.store.InsertSimilarCar(ctx, car.ID, similarID)
				if err != nil {
					c.log.Error("similar edge failed", "car_id", car.ID, "similar_car_id", similarID, "error", err)
					continue
				}
				if created {
					count++
					c.related.Inc()
				}
			}
		}
	}
	return count, nil
}
