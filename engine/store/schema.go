package store

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		html_content TEXT NOT NULL,
		html_comments TEXT NOT NULL DEFAULT '',
		date_published TEXT,
		date_scraped TEXT,
		date_parsed TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id INTEGER NOT NULL REFERENCES posts(id),
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		related_launch_url TEXT,
		date_processed TEXT,
		date_uploaded TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS article_sections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		article_id INTEGER NOT NULL REFERENCES articles(id),
		title TEXT NOT NULL,
		content TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS launches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id INTEGER NOT NULL REFERENCES posts(id),
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		car_model_id INTEGER REFERENCES car_models(id),
		date_uploaded TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS car_models (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		make TEXT NOT NULL,
		model TEXT NOT NULL,
		UNIQUE (make, model)
	)`,
	`CREATE TABLE IF NOT EXISTS cars (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		launch_id INTEGER NOT NULL REFERENCES launches(id),
		variant TEXT NOT NULL DEFAULT '',
		full_model_name TEXT NOT NULL DEFAULT '',
		current_price INTEGER NOT NULL DEFAULT 0,
		price_date TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS car_prices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		launch_url TEXT NOT NULL,
		name TEXT NOT NULL,
		price INTEGER NOT NULL,
		date_processed TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS similar_launches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		launch_id INTEGER NOT NULL REFERENCES launches(id),
		full_model_name TEXT NOT NULL,
		url TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS similar_cars (
		launch_car_id INTEGER NOT NULL REFERENCES cars(id),
		similar_car_id INTEGER NOT NULL REFERENCES cars(id),
		PRIMARY KEY (launch_car_id, similar_car_id)
	)`,
	`CREATE TABLE IF NOT EXISTS car_articles (
		article_id INTEGER NOT NULL REFERENCES articles(id),
		car_id INTEGER NOT NULL REFERENCES cars(id),
		PRIMARY KEY (article_id, car_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cars_launch ON cars(launch_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sections_article ON article_sections(article_id)`,
	`CREATE INDEX IF NOT EXISTS idx_similar_launches_launch ON similar_launches(launch_id)`,
	`CREATE INDEX IF NOT EXISTS idx_car_prices_url ON car_prices(launch_url)`,
}

func (s *Store) applySchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
