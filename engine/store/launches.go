package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/autoblogdata/autobot/engine/domain"
)

// InsertLaunch stores a derived launch document and returns its id.
func (s *Store) InsertLaunch(ctx context.Context, l domain.Launch) (int64, error) {
	var modelID any
	if l.CarModelID > 0 {
		modelID = l.CarModelID
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO launches (post_id, title, content, car_model_id, date_uploaded)
		 VALUES (?, ?, ?, ?, ?)`,
		l.PostID, l.Title, l.Content, modelID, nullableTime(l.DateUploaded))
	if err != nil {
		return 0, fmt.Errorf("insert launch: %w", err)
	}
	return res.LastInsertId()
}

// InsertSimilarLaunch stores one competitor edge extracted from a launch page.
func (s *Store) InsertSimilarLaunch(ctx context.Context, sl domain.SimilarLaunch) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO similar_launches (launch_id, full_model_name, url) VALUES (?, ?, ?)`,
		sl.LaunchID, sl.FullModelName, sl.URL)
	if err != nil {
		return 0, fmt.Errorf("insert similar launch: %w", err)
	}
	return res.LastInsertId()
}

// InsertCar stores a car variant and returns its id.
func (s *Store) InsertCar(ctx context.Context, c domain.Car) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cars (launch_id, variant, full_model_name, current_price, price_date)
		 VALUES (?, ?, ?, ?, ?)`,
		c.LaunchID, c.Variant, c.FullModelName, c.CurrentPrice, nullableTime(c.PriceDate))
	if err != nil {
		return 0, fmt.Errorf("insert car: %w", err)
	}
	return res.LastInsertId()
}

// InsertCarModel stores a canonical make/model pair, ignoring duplicates,
// and returns the row's id.
func (s *Store) InsertCarModel(ctx context.Context, make, model string) (int64, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO car_models (make, model) VALUES (?, ?)`,
		make, model); err != nil {
		return 0, fmt.Errorf("insert car model: %w", err)
	}
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM car_models WHERE make = ? AND model = ?`, make, model).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert car model: %w", err)
	}
	return id, nil
}

// CarModels returns every canonical make/model pair.
func (s *Store) CarModels(ctx context.Context) ([]domain.CarModel, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, make, model FROM car_models ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select car models: %w", err)
	}
	defer rows.Close()

	var models []domain.CarModel
	for rows.Next() {
		var m domain.CarModel
		if err := rows.Scan(&m.ID, &m.Make, &m.Model); err != nil {
			return nil, fmt.Errorf("scan car model: %w", err)
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

// LaunchModelName is one (launch, car full model name) observation used to
// pick the most common name per unconnected launch.
type LaunchModelName struct {
	LaunchID      int64
	FullModelName string
}

// UnconnectedLaunchNames returns, for every launch without a car model, the
// full model names of its cars. Launches with no cars are not returned.
func (s *Store) UnconnectedLaunchNames(ctx context.Context) ([]LaunchModelName, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT l.id, c.full_model_name
		 FROM launches l
		 JOIN cars c ON c.launch_id = l.id
		 WHERE l.car_model_id IS NULL
		 ORDER BY l.id, c.id`)
	if err != nil {
		return nil, fmt.Errorf("select unconnected launches: %w", err)
	}
	defer rows.Close()

	var names []LaunchModelName
	for rows.Next() {
		var n LaunchModelName
		if err := rows.Scan(&n.LaunchID, &n.FullModelName); err != nil {
			return nil, fmt.Errorf("scan launch model name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// SetLaunchCarModel resolves a launch to a canonical car model.
func (s *Store) SetLaunchCarModel(ctx context.Context, launchID, carModelID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE launches SET car_model_id = ? WHERE id = ?`,
		carModelID, launchID); err != nil {
		return fmt.Errorf("set launch car model: %w", err)
	}
	return nil
}

// CarRef identifies a car and the launch that owns it.
type CarRef struct {
	ID       int64
	LaunchID int64
}

// CarsWithoutSimilarEdges returns cars that have no outgoing similar-car
// edge yet.
func (s *Store) CarsWithoutSimilarEdges(ctx context.Context) ([]CarRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT c.id, c.launch_id
		 FROM cars c
		 LEFT JOIN similar_cars sc ON sc.launch_car_id = c.id
		 WHERE sc.launch_car_id IS NULL
		 ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("select cars without similar edges: %w", err)
	}
	defer rows.Close()

	var refs []CarRef
	for rows.Next() {
		var r CarRef
		if err := rows.Scan(&r.ID, &r.LaunchID); err != nil {
			return nil, fmt.Errorf("scan car ref: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// SimilarLaunchURLs returns the distinct competitor URLs of a launch.
func (s *Store) SimilarLaunchURLs(ctx context.Context, launchID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT url FROM similar_launches WHERE launch_id = ? ORDER BY url`,
		launchID)
	if err != nil {
		return nil, fmt.Errorf("select similar launch urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan similar launch url: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// CarIDsAtLaunchURL returns the cars of the launch published at url,
// excluding excludeCarID.
func (s *Store) CarIDsAtLaunchURL(ctx context.Context, url string, excludeCarID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id
		 FROM cars c
		 JOIN launches l ON l.id = c.launch_id
		 JOIN posts p ON p.id = l.post_id
		 WHERE p.url = ? AND c.id != ?
		 ORDER BY c.id`, url, excludeCarID)
	if err != nil {
		return nil, fmt.Errorf("select cars at launch url: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan car id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// InsertSimilarCar inserts the similar-car edge, ignoring duplicates.
// Returns true when a new edge was created.
func (s *Store) InsertSimilarCar(ctx context.Context, launchCarID, similarCarID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO similar_cars (launch_car_id, similar_car_id) VALUES (?, ?)`,
		launchCarID, similarCarID)
	if err != nil {
		return false, fmt.Errorf("insert similar car: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert similar car: %w", err)
	}
	return n > 0, nil
}

// SimilarCarEdges returns every similar-car edge.
func (s *Store) SimilarCarEdges(ctx context.Context) ([]domain.SimilarCars, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT launch_car_id, similar_car_id FROM similar_cars
		 ORDER BY launch_car_id, similar_car_id`)
	if err != nil {
		return nil, fmt.Errorf("select similar car edges: %w", err)
	}
	defer rows.Close()

	var edges []domain.SimilarCars
	for rows.Next() {
		var e domain.SimilarCars
		if err := rows.Scan(&e.LaunchCarID, &e.SimilarCarID); err != nil {
			return nil, fmt.Errorf("scan similar car edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// CarNamesForLaunchURLs returns "full model name + variant" candidates for
// the launches published at the given URLs, each carrying its launch id.
func (s *Store) CarNamesForLaunchURLs(ctx context.Context, urls []string) ([]NameRef, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(urls)), ",")
	args := make([]any, len(urls))
	for i, u := range urls {
		args[i] = u
	}
	query := fmt.Sprintf(
		`SELECT DISTINCT c.full_model_name || ' ' || c.variant, l.id
		 FROM cars c
		 JOIN launches l ON c.launch_id = l.id
		 JOIN posts p ON l.post_id = p.id
		 WHERE p.url IN (%s)
		 ORDER BY l.id, c.full_model_name, c.variant`, placeholders)

	return s.queryNameRefs(ctx, query, args...)
}

// CarNamesForLaunch returns "full model name + variant" candidates for one
// launch, each carrying its car id.
func (s *Store) CarNamesForLaunch(ctx context.Context, launchID int64) ([]NameRef, error) {
	return s.queryNameRefs(ctx,
		`SELECT DISTINCT c.full_model_name || ' ' || c.variant, c.id
		 FROM cars c WHERE c.launch_id = ? ORDER BY c.id`, launchID)
}

func (s *Store) queryNameRefs(ctx context.Context, query string, args ...any) ([]NameRef, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select name refs: %w", err)
	}
	defer rows.Close()

	var refs []NameRef
	for rows.Next() {
		var r NameRef
		if err := rows.Scan(&r.Name, &r.ID); err != nil {
			return nil, fmt.Errorf("scan name ref: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// LaunchesToUpload returns launches not yet pushed to the vector store.
// limit <= 0 means no limit.
func (s *Store) LaunchesToUpload(ctx context.Context, limit int) ([]domain.Launch, error) {
	query := `SELECT id, post_id, title, content, car_model_id, date_uploaded
		 FROM launches WHERE date_uploaded IS NULL ORDER BY id`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select launches to upload: %w", err)
	}
	defer rows.Close()

	var launches []domain.Launch
	for rows.Next() {
		var l domain.Launch
		var modelID sql.NullInt64
		var uploaded sql.NullString
		if err := rows.Scan(&l.ID, &l.PostID, &l.Title, &l.Content, &modelID, &uploaded); err != nil {
			return nil, fmt.Errorf("scan launch: %w", err)
		}
		l.CarModelID = modelID.Int64
		l.DateUploaded = scanTime(uploaded)
		launches = append(launches, l)
	}
	return launches, rows.Err()
}

// MarkLaunchUploaded records a successful vector-store upload.
func (s *Store) MarkLaunchUploaded(ctx context.Context, launchID int64, at time.Time) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE launches SET date_uploaded = ? WHERE id = ?`,
		timestamp(at), launchID); err != nil {
		return fmt.Errorf("mark launch uploaded: %w", err)
	}
	return nil
}

// GraphCar is a car joined with its launch's resolved model, the shape the
// graph view syncs.
type GraphCar struct {
	ID            int64
	LaunchID      int64
	CarModelID    int64
	Variant       string
	FullModelName string
}

// GraphCars returns every car with its launch's car model (0 if unresolved).
func (s *Store) GraphCars(ctx context.Context) ([]GraphCar, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.launch_id, COALESCE(l.car_model_id, 0), c.variant, c.full_model_name
		 FROM cars c
		 JOIN launches l ON l.id = c.launch_id
		 ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("select graph cars: %w", err)
	}
	defer rows.Close()

	var cars []GraphCar
	for rows.Next() {
		var c GraphCar
		if err := rows.Scan(&c.ID, &c.LaunchID, &c.CarModelID, &c.Variant, &c.FullModelName); err != nil {
			return nil, fmt.Errorf("scan graph car: %w", err)
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}
