package connect

import (
	"context"
	"log/slog"
	"time"

	"github.com/autoblogdata/autobot/engine/domain"
	"github.com/autoblogdata/autobot/engine/store"
	"github.com/autoblogdata/autobot/engine/textmatch"
	"github.com/autoblogdata/autobot/pkg/fn"
	"github.com/autoblogdata/autobot/pkg/metrics"
)

// Prices reconciles raw price-list rows to concrete car variants with an
// optimal one-to-one assignment per launch URL.
type Prices struct {
	store *store.Store
	log   *slog.Logger
	now   func() time.Time

	updated *metrics.Counter
}

// NewPrices creates the prices connector. reg may be nil.
func NewPrices(s *store.Store, log *slog.Logger, reg *metrics.Registry) *Prices {
	if log == nil {
		log = slog.Default()
	}
	if reg == nil {
		reg = metrics.New()
	}
	return &Prices{
		store:   s,
		log:     log,
		now:     time.Now,
		updated: reg.Counter("autobot_car_prices_updated_total", "Car prices applied from price rows."),
	}
}

// Run groups pending price rows by launch URL, assigns each group's rows to
// that launch's cars, and applies the matched prices. Every row is marked
// processed exactly once, matched or not, so a bad group cannot wedge the
// queue. A group that fails mid-way is logged and retried next run.
func (c *Prices) Run(ctx context.Context) ([]Result, error) {
	pending, err := c.store.UnprocessedPrices(ctx)
	if err != nil {
		return nil, err
	}

	groups := fn.GroupBy(pending, func(p domain.CarPrice) string { return p.LaunchURL })

	count := 0
	for url, rows := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		updated, err := c.processGroup(ctx, url, rows)
		count += updated
		if err != nil {
			c.log.Error("price group failed", "launch_url", url, "error", err)
		}
	}
	return []Result{{Action: "update", Entity: "prices", ItemsProcessed: count}}, nil
}

func (c *Prices) processGroup(ctx context.Context, url string, rows []domain.CarPrice) (int, error) {
	cars, err := c.store.CarsForLaunchURL(ctx, url)
	if err != nil {
		return 0, err
	}
	now := c.now()

	// No launch known for this URL: the rows can never match, retire them.
	if len(cars) == 0 {
		c.log.Warn("price rows without launch", "launch_url", url, "rows", len(rows))
		for _, row := range rows {
			if err := c.store.MarkPriceProcessed(ctx, row.ID, now); err != nil {
				return 0, err
			}
		}
		return 0, nil
	}

	priceNames := fn.Map(rows, func(p domain.CarPrice) string { return p.Name })
	carNames := fn.Map(cars, func(car domain.Car) string {
		return car.FullModelName + " " + car.Variant
	})

	updated := 0
	for _, pair := range textmatch.Pairs(priceNames, carNames) {
		if pair.Row < 0 {
			continue // car without a price row this batch
		}
		row := rows[pair.Row]
		if pair.Col >= 0 {
			car := cars[pair.Col]
			if err := c.store.UpdateCarPrice(ctx, car.ID, row.Price, now); err != nil {
				return updated, err
			}
			updated++
			c.updated.Inc()
			c.log.Debug("car price updated",
				"car_id", car.ID, "price", row.Price, "name", row.Name)
		}
		if err := c.store.MarkPriceProcessed(ctx, row.ID, now); err != nil {
			return updated, err
		}
	}
	return updated, nil
}
