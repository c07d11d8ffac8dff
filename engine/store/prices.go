package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/autoblogdata/autobot/engine/domain"
)

// InsertCarPrice stores a raw price-list line item and returns its id.
func (s *Store) InsertCarPrice(ctx context.Context, cp domain.CarPrice) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO car_prices (launch_url, name, price, date_processed)
		 VALUES (?, ?, ?, ?)`,
		cp.LaunchURL, cp.Name, cp.Price, nullableTime(cp.DateProcessed))
	if err != nil {
		return 0, fmt.Errorf("insert car price: %w", err)
	}
	return res.LastInsertId()
}

// UnprocessedPrices returns price line items not yet reconciled, oldest
// first.
func (s *Store) UnprocessedPrices(ctx context.Context) ([]domain.CarPrice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, launch_url, name, price, date_processed
		 FROM car_prices WHERE date_processed IS NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select unprocessed prices: %w", err)
	}
	defer rows.Close()

	var prices []domain.CarPrice
	for rows.Next() {
		var cp domain.CarPrice
		var processed sql.NullString
		if err := rows.Scan(&cp.ID, &cp.LaunchURL, &cp.Name, &cp.Price, &processed); err != nil {
			return nil, fmt.Errorf("scan car price: %w", err)
		}
		cp.DateProcessed = scanTime(processed)
		prices = append(prices, cp)
	}
	return prices, rows.Err()
}

// CarsForLaunchURL returns the cars of the launch published at url.
func (s *Store) CarsForLaunchURL(ctx context.Context, url string) ([]domain.Car, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.launch_id, c.variant, c.full_model_name, c.current_price, c.price_date
		 FROM cars c
		 JOIN launches l ON l.id = c.launch_id
		 JOIN posts p ON p.id = l.post_id
		 WHERE p.url = ?
		 ORDER BY c.id`, url)
	if err != nil {
		return nil, fmt.Errorf("select cars for launch url: %w", err)
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		var c domain.Car
		var priceDate sql.NullString
		if err := rows.Scan(&c.ID, &c.LaunchID, &c.Variant, &c.FullModelName,
			&c.CurrentPrice, &priceDate); err != nil {
			return nil, fmt.Errorf("scan car: %w", err)
		}
		c.PriceDate = scanTime(priceDate)
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

// UpdateCarPrice records the latest observed price for a car.
func (s *Store) UpdateCarPrice(ctx context.Context, carID, price int64, at time.Time) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE cars SET current_price = ?, price_date = ? WHERE id = ?`,
		price, timestamp(at), carID); err != nil {
		return fmt.Errorf("update car price: %w", err)
	}
	return nil
}

// MarkPriceProcessed records that a price line item has been consumed,
// whether or not it matched a car.
func (s *Store) MarkPriceProcessed(ctx context.Context, priceID int64, at time.Time) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE car_prices SET date_processed = ? WHERE id = ?`,
		timestamp(at), priceID); err != nil {
		return fmt.Errorf("mark price processed: %w", err)
	}
	return nil
}
